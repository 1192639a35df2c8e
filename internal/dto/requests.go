package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yukikurage/promanage-api/internal/models"
)

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordChangeRequest is the optional password object of a settings update
type PasswordChangeRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// UpdateSettingsRequest is the body of PUT /auth/settings/update
type UpdateSettingsRequest struct {
	Name     *string                `json:"name"`
	Password *PasswordChangeRequest `json:"password"`
}

// TaskRequest is the body of task create and edit
type TaskRequest struct {
	Title     string             `json:"title" binding:"required"`
	Priority  *PriorityDTO       `json:"priority" binding:"required"`
	Checklist []ChecklistItemDTO `json:"checklist" binding:"required"`
	Status    models.TaskStatus  `json:"status"`
	DueDate   OptionalTime       `json:"dueDate"`
}

// MoveTaskRequest is the body of PUT /tasks/:taskId/move
type MoveTaskRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
}

// ChecklistToggleRequest is the body of PUT /tasks/checklist/:taskId/:itemId
type ChecklistToggleRequest struct {
	Selected *bool `json:"selected" binding:"required"`
}

// GenerateTasksRequest is the body of POST /tasks/generate
type GenerateTasksRequest struct {
	Text string `json:"text" binding:"required"`
}

// ToPriority converts the request priority to the model value
func (r TaskRequest) ToPriority() *models.Priority {
	if r.Priority == nil {
		return nil
	}
	return &models.Priority{
		TypeOfPriority: r.Priority.TypeOfPriority,
		Color:          r.Priority.Color,
	}
}

// ToChecklist converts the request checklist, keeping nil for a missing field
func (r TaskRequest) ToChecklist() []models.ChecklistItem {
	if r.Checklist == nil {
		return nil
	}
	items := make([]models.ChecklistItem, len(r.Checklist))
	for i, item := range r.Checklist {
		items[i] = models.ChecklistItem{
			ID:       item.ID,
			Text:     item.Text,
			Selected: item.Selected,
		}
	}
	return items
}

// OptionalTime decodes a nullable timestamp. null, "" and a missing field
// all leave Time nil. Both RFC 3339 and plain dates are accepted.
type OptionalTime struct {
	Time *time.Time
}

var optionalTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

// UnmarshalJSON implements json.Unmarshaler
func (t *OptionalTime) UnmarshalJSON(data []byte) error {
	t.Time = nil
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("dueDate must be a string: %w", err)
	}
	if raw == "" {
		return nil
	}

	for _, layout := range optionalTimeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = &parsed
			return nil
		}
	}
	return fmt.Errorf("dueDate %q is not a valid date", raw)
}
