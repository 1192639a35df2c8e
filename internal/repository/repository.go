package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/promanage-api/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateKey is returned when a unique constraint is violated.
	ErrDuplicateKey = errors.New("repository: duplicate key")
)

// UserRepository defines the interface for credential storage
type UserRepository interface {
	// Create persists a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Update persists name and password hash changes
	Update(ctx context.Context, user *models.User) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create persists a new task together with its checklist
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with its checklist
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// List retrieves tasks matching the filter ordered by creation time
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Replace overwrites the editable fields and the whole checklist
	Replace(ctx context.Context, id string, fields TaskFields) (*models.Task, error)

	// UpdateStatus changes only the status of a task
	UpdateStatus(ctx context.Context, id string, status models.TaskStatus) (*models.Task, error)

	// SetChecklistItem sets the selected flag of a single checklist item
	SetChecklistItem(ctx context.Context, taskID, itemID string, selected bool) (*models.Task, error)

	// Delete permanently removes a task
	Delete(ctx context.Context, id string) error

	// Count counts tasks matching the filter
	Count(ctx context.Context, filter TaskCountFilter) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	OwnerID     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// TaskFields holds the fields replaced by a full task edit
type TaskFields struct {
	Title     string
	Priority  models.Priority
	Checklist []models.ChecklistItem
	Status    models.TaskStatus
	DueDate   *time.Time
}

// TaskCountFilter holds the predicates of an analytics count
type TaskCountFilter struct {
	OwnerID       string
	Status        *models.TaskStatus
	ExcludeStatus *models.TaskStatus
	Priority      *models.PriorityLevel
	HasDueDate    bool
}
