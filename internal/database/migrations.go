package database

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/yukikurage/project-management-api/internal/logutils"
	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
)

// migrations is the ordered list of schema versions. Append only.
func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202610180001_initial_schema",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&models.User{},
					&models.Project{},
					&models.ProjectMember{},
					&models.Task{},
					&models.Tag{},
					&models.TaskTag{},
					&models.Invitation{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					"task_tags", "tags", "invitations", "tasks", "project_members", "projects", "users",
				)
			},
		},
		{
			ID: "202610180002_outbound_emails",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.OutboundEmail{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("outbound_emails")
			},
		},
	}
}

// Migrate applies pending migrations.
func Migrate(db *gorm.DB) error {
	logutils.Log.Info("Running database migrations...")
	if err := SetupJoinTables(db); err != nil {
		return err
	}

	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logutils.Log.Info("Database migrations completed")
	return nil
}
