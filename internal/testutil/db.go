// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database. The pool is pinned to a
// single connection because every new :memory: connection is a fresh,
// empty database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// NewFileDB returns a migrated file-backed SQLite database that allows
// several connections at once. Transactions start with BEGIN IMMEDIATE and
// wait on the write lock instead of failing with SQLITE_BUSY.
func NewFileDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(4)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateUser inserts a user whose password is "supersecret".
func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		Name:         email,
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProject inserts a project owned by owner.
func CreateProject(t *testing.T, db *gorm.DB, name string, owner *models.User) *models.Project {
	t.Helper()

	project := &models.Project{Name: name, Status: models.ProjectStatusActive}
	require.NoError(t, db.Create(project).Error)
	AddMember(t, db, project.ID, owner.ID, models.RoleOwner)
	return project
}

// AddMember inserts a membership row.
func AddMember(t *testing.T, db *gorm.DB, projectID, userID uint64, role models.ProjectRole) *models.ProjectMember {
	t.Helper()

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  time.Now(),
	}
	require.NoError(t, db.Create(member).Error)
	return member
}

// CreateTask inserts a task in project created by creator.
func CreateTask(t *testing.T, db *gorm.DB, title string, projectID, creatorID uint64) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:     title,
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		ProjectID: projectID,
		CreatorID: creatorID,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

// CreateInvitation inserts an invitation expiring at expiresAt.
func CreateInvitation(t *testing.T, db *gorm.DB, email, token string, projectID, invitedBy uint64, expiresAt time.Time) *models.Invitation {
	t.Helper()

	inv := &models.Invitation{
		Email:       email,
		Token:       token,
		ProjectID:   projectID,
		InvitedByID: invitedBy,
		ExpiresAt:   expiresAt,
	}
	require.NoError(t, db.Create(inv).Error)
	return inv
}
