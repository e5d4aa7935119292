package repository

import (
	"context"
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// CreateWithStarterProject creates a user, their starter project and the
	// owner membership within a single transaction.
	CreateWithStarterProject(ctx context.Context, user *models.User, project *models.Project) error

	// CreateFromInvitation redeems the invitation identified by token: it
	// creates the user, deletes the invitation and adds the user as a member
	// of the invitation's project, all in one transaction.
	CreateFromInvitation(ctx context.Context, user *models.User, token string, now time.Time) (*models.Invitation, error)

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Update saves profile changes
	Update(ctx context.Context, user *models.User) error
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// Create creates a project and its owner membership
	Create(ctx context.Context, project *models.Project, ownerID uint64) error

	// FindByID finds a project by ID
	FindByID(ctx context.Context, id uint64) (*models.Project, error)

	// ListForUser lists the projects a user belongs to, members preloaded,
	// most recently updated first
	ListForUser(ctx context.Context, userID uint64) ([]models.Project, error)

	// Update updates a project
	Update(ctx context.Context, project *models.Project) error

	// Delete deletes a project with its invitations, tasks and memberships
	Delete(ctx context.Context, id uint64) error

	// AddMember adds a member, queueing notice in the same transaction when non-nil
	AddMember(ctx context.Context, member *models.ProjectMember, notice *models.OutboundEmail) error

	// RemoveMember removes a member from a project
	RemoveMember(ctx context.Context, projectID, userID uint64) error

	// FindMember finds a specific project member
	FindMember(ctx context.Context, projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembers lists all members of a project, newest first
	ListMembers(ctx context.Context, projectID uint64) ([]models.ProjectMember, error)

	// ListProjectIDsForUser returns the IDs of every project the user belongs to
	ListProjectIDsForUser(ctx context.Context, userID uint64) ([]uint64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectIDs []uint64
	AssigneeID *uint64
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	Page       int
	PageSize   int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task and links tagIDs
	Create(ctx context.Context, task *models.Task, tagIDs []uint64) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update saves a task. A nil tagIDs leaves tags untouched; a non-nil
	// slice (possibly empty) replaces them.
	Update(ctx context.Context, task *models.Task, tagIDs []uint64) error

	// Delete soft deletes a task and unlinks its tags
	Delete(ctx context.Context, id uint64) error
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	FindByID(ctx context.Context, id uint64) (*models.Tag, error)
	List(ctx context.Context) ([]models.Tag, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id uint64) error

	// CountByIDs counts how many of the given tag IDs exist
	CountByIDs(ctx context.Context, ids []uint64) (int64, error)

	// ListTasks lists the tasks carrying a tag, restricted to projectIDs
	ListTasks(ctx context.Context, tagID uint64, projectIDs []uint64) ([]models.Task, error)
}

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create stores an invitation, queueing notice in the same transaction when non-nil
	Create(ctx context.Context, invitation *models.Invitation, notice *models.OutboundEmail) error

	// FindByToken finds an invitation by token with its project preloaded
	FindByToken(ctx context.Context, token string) (*models.Invitation, error)

	// ListByProject lists invitations issued for a project
	ListByProject(ctx context.Context, projectID uint64) ([]models.Invitation, error)
}

// OutboxRepository defines the interface for the outbound email queue
type OutboxRepository interface {
	// Enqueue stores a pending email
	Enqueue(ctx context.Context, email *models.OutboundEmail) error

	// ListDue returns up to limit pending emails whose next attempt is due
	ListDue(ctx context.Context, now time.Time, limit int) ([]models.OutboundEmail, error)

	// MarkSent records a successful delivery
	MarkSent(ctx context.Context, id uint64, providerMessageID string, sentAt time.Time) error

	// MarkAttemptFailed records a failed delivery. The row stays pending with
	// nextAttempt when retry is true, otherwise it becomes failed.
	MarkAttemptFailed(ctx context.Context, id uint64, attempts int, lastErr string, nextAttempt time.Time, retry bool) error
}
