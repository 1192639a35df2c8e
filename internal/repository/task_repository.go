package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/promanage-api/internal/database"
	"github.com/yukikurage/promanage-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

func orderChecklist(db *gorm.DB) *gorm.DB {
	return db.Order("checklist_items.position ASC")
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Checklist = prepareChecklist(task.ID, task.Checklist)
	if !task.CreatedAt.IsZero() {
		task.CreatedAt = task.CreatedAt.UTC()
	}
	task.DueDate = utcPtr(task.DueDate)

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return translateGormError(err)
	}
	return nil
}

// FindByID finds a task by ID with its checklist in order
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Preload("Checklist", orderChecklist).
		Where("tasks.id = ?", id).
		First(&task).Error; err != nil {
		return nil, translateGormError(err)
	}

	if task.Checklist == nil {
		task.Checklist = []models.ChecklistItem{}
	}
	return &task, nil
}

// List retrieves the owner's tasks inside the optional creation window
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	tasks := make([]models.Task, 0)

	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(
			database.OwnedBy(filter.OwnerID),
			database.CreatedWithin(filter.CreatedFrom, filter.CreatedTo),
		).
		Preload("Checklist", orderChecklist).
		Order("tasks.created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	for i := range tasks {
		if tasks[i].Checklist == nil {
			tasks[i].Checklist = []models.ChecklistItem{}
		}
	}
	return tasks, nil
}

// Replace overwrites the editable columns and swaps the checklist rows
func (r *GormTaskRepository) Replace(ctx context.Context, id string, fields TaskFields) (*models.Task, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Task
		if err := tx.Select("id").Where("id = ?", id).First(&existing).Error; err != nil {
			return err
		}

		if err := tx.Model(&existing).
			Select("title", "priority_type_of_priority", "priority_color", "status", "due_date").
			Updates(models.Task{
				Title:    fields.Title,
				Priority: fields.Priority,
				Status:   fields.Status,
				DueDate:  utcPtr(fields.DueDate),
			}).Error; err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.ChecklistItem{}).Error; err != nil {
			return err
		}

		items := prepareChecklist(id, fields.Checklist)
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, translateGormError(err)
	}

	return r.FindByID(ctx, id)
}

// UpdateStatus changes only the status column
func (r *GormTaskRepository) UpdateStatus(ctx context.Context, id string, status models.TaskStatus) (*models.Task, error) {
	if err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return nil, translateGormError(err)
	}

	return r.FindByID(ctx, id)
}

// SetChecklistItem updates the selected flag of one checklist row and
// touches the owning task's updated_at
func (r *GormTaskRepository) SetChecklistItem(ctx context.Context, taskID, itemID string, selected bool) (*models.Task, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ChecklistItem{}).
			Where("task_id = ? AND id = ?", taskID, itemID).
			Update("selected", selected)
		if result.Error != nil {
			return result.Error
		}

		// MySQL reports zero affected rows when the flag already had this value.
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.ChecklistItem{}).
				Where("task_id = ? AND id = ?", taskID, itemID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
		}

		return tx.Model(&models.Task{}).
			Where("id = ?", taskID).
			Update("updated_at", time.Now().UTC()).Error
	})
	if err != nil {
		return nil, translateGormError(err)
	}

	return r.FindByID(ctx, taskID)
}

// Delete removes a task and its checklist rows
func (r *GormTaskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.ChecklistItem{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Task{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Count counts the owner's tasks matching every set predicate
func (r *GormTaskRepository) Count(ctx context.Context, filter TaskCountFilter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(database.OwnedBy(filter.OwnerID), countPredicates(filter)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func countPredicates(filter TaskCountFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Status != nil {
			db = db.Where("tasks.status = ?", *filter.Status)
		}
		if filter.ExcludeStatus != nil {
			db = db.Where("tasks.status <> ?", *filter.ExcludeStatus)
		}
		if filter.Priority != nil {
			db = db.Where("tasks.priority_type_of_priority = ?", *filter.Priority)
		}
		if filter.HasDueDate {
			db = db.Where("tasks.due_date IS NOT NULL")
		}
		return db
	}
}

// prepareChecklist binds items to taskID, fixes their order and fills missing IDs.
func prepareChecklist(taskID string, items []models.ChecklistItem) []models.ChecklistItem {
	prepared := make([]models.ChecklistItem, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.TaskID = taskID
		item.Position = i
		prepared[i] = item
	}
	return prepared
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
