package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusBacklog  TaskStatus = "backlog"
	TaskStatusTodo     TaskStatus = "todo"
	TaskStatusProgress TaskStatus = "progress"
	TaskStatusDone     TaskStatus = "done"
)

// TaskStatuses lists every board column in display order.
var TaskStatuses = []TaskStatus{TaskStatusBacklog, TaskStatusTodo, TaskStatusProgress, TaskStatusDone}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusBacklog, TaskStatusTodo, TaskStatusProgress, TaskStatusDone:
		return true
	}
	return false
}

type PriorityLevel string

const (
	PriorityLow    PriorityLevel = "low"
	PriorityMedium PriorityLevel = "medium"
	PriorityHigh   PriorityLevel = "high"
)

func (p PriorityLevel) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Priority is stored inline on the task row as priority_* columns.
type Priority struct {
	TypeOfPriority PriorityLevel `gorm:"type:varchar(20);not null" json:"typeOfPriority" bson:"typeOfPriority"`
	Color          string        `gorm:"type:varchar(32)" json:"color,omitempty" bson:"color,omitempty"`
}

type ChecklistItem struct {
	TaskID   string `gorm:"type:varchar(36);primarykey" json:"-" bson:"-"`
	ID       string `gorm:"type:varchar(36);primarykey" json:"_id" bson:"_id"`
	Position int    `gorm:"not null;default:0" json:"-" bson:"-"`
	Text     string `gorm:"type:text;not null" json:"text" bson:"text"`
	Selected bool   `gorm:"not null;default:false" json:"selected" bson:"selected"`
}

type Task struct {
	ID        string          `gorm:"type:varchar(36);primarykey" json:"_id" bson:"_id"`
	Title     string          `gorm:"type:varchar(255);not null" json:"title" bson:"title"`
	Priority  Priority        `gorm:"embedded;embeddedPrefix:priority_" json:"priority" bson:"priority"`
	Checklist []ChecklistItem `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"checklist" bson:"checklist"`
	Status    TaskStatus      `gorm:"type:varchar(20);not null;default:'todo'" json:"status" bson:"status"`
	DueDate   *time.Time      `json:"dueDate" bson:"dueDate,omitempty"`
	RefUserID string          `gorm:"type:varchar(36);not null;index" json:"refUserId" bson:"refUserId"`
	CreatedAt time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// BeforeCreate assigns IDs to the task and to any checklist item missing one.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	for i := range t.Checklist {
		if t.Checklist[i].ID == "" {
			t.Checklist[i].ID = uuid.NewString()
		}
	}
	return nil
}
