package dto

import (
	"time"

	"github.com/yukikurage/promanage-api/internal/models"
	"github.com/yukikurage/promanage-api/internal/services"
)

// PriorityDTO represents a task priority in API payloads
type PriorityDTO struct {
	TypeOfPriority models.PriorityLevel `json:"typeOfPriority"`
	Color          string               `json:"color,omitempty"`
}

// ChecklistItemDTO represents a checklist item in API payloads
type ChecklistItemDTO struct {
	ID       string `json:"_id,omitempty"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID        string             `json:"_id"`
	Title     string             `json:"title"`
	Priority  PriorityDTO        `json:"priority"`
	Checklist []ChecklistItemDTO `json:"checklist"`
	Status    models.TaskStatus  `json:"status"`
	DueDate   *time.Time         `json:"dueDate,omitempty"`
	RefUserID string             `json:"refUserId"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// TaskResponse wraps a single task
type TaskResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Task    TaskDTO `json:"task"`
}

// TaskDescriptionResponse serves the shared task page. The task's fields are
// repeated at the top level, where existing share-link clients read them.
type TaskDescriptionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	TaskDTO
	Task TaskDTO `json:"task"`
}

// AnalyticsDTO holds the dashboard counts
type AnalyticsDTO struct {
	BacklogCount          int64 `json:"backlogCount"`
	TodoCount             int64 `json:"todoCount"`
	ProgressCount         int64 `json:"progressCount"`
	CompletedCount        int64 `json:"completedCount"`
	LowPriorityCount      int64 `json:"lowPriorityCount"`
	ModeratePriorityCount int64 `json:"moderatePriorityCount"`
	HighPriorityCount     int64 `json:"highPriorityCount"`
	DueDateNotDoneCount   int64 `json:"dueDateNotDoneCount"`
}

// AnalyticsResponse wraps the analytics counts
type AnalyticsResponse struct {
	Success bool         `json:"success"`
	Data    AnalyticsDTO `json:"data"`
}

// SuggestedTaskDTO represents an AI task suggestion
type SuggestedTaskDTO struct {
	Title     string               `json:"title"`
	Priority  models.PriorityLevel `json:"priority"`
	Checklist []string             `json:"checklist"`
	DueDate   *time.Time           `json:"dueDate,omitempty"`
}

// SuggestionsResponse wraps AI task suggestions
type SuggestionsResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Tasks   []SuggestedTaskDTO `json:"tasks"`
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	checklist := make([]ChecklistItemDTO, len(task.Checklist))
	for i, item := range task.Checklist {
		checklist[i] = ChecklistItemDTO{
			ID:       item.ID,
			Text:     item.Text,
			Selected: item.Selected,
		}
	}

	return TaskDTO{
		ID:    task.ID,
		Title: task.Title,
		Priority: PriorityDTO{
			TypeOfPriority: task.Priority.TypeOfPriority,
			Color:          task.Priority.Color,
		},
		Checklist: checklist,
		Status:    task.Status,
		DueDate:   task.DueDate,
		RefUserID: task.RefUserID,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks, never returning nil
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToAnalyticsDTO converts service analytics to AnalyticsDTO
func ToAnalyticsDTO(a services.Analytics) AnalyticsDTO {
	return AnalyticsDTO(a)
}

// ToSuggestedTaskDTOs converts AI suggestions, never returning nil
func ToSuggestedTaskDTOs(tasks []services.SuggestedTask) []SuggestedTaskDTO {
	items := make([]SuggestedTaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = SuggestedTaskDTO(task)
	}
	return items
}
