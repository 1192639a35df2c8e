package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/promanage-api/internal/cache"
	"github.com/yukikurage/promanage-api/internal/models"
	"github.com/yukikurage/promanage-api/internal/repository"
)

var (
	ErrMissingTaskFields      = errors.New("title, priority and checklist are required")
	ErrMissingEditFields      = errors.New("title, priority, checklist and status are required")
	ErrMissingChecklistFields = errors.New("task id, item id and selected are required")
	ErrInvalidPriority        = errors.New("invalid priority")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrTaskNotFound           = errors.New("task not found")
	ErrChecklistItemNotFound  = errors.New("task or checklist item not found")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	cache    *cache.Cache
	loc      *time.Location
	now      func() time.Time
}

// NewTaskService creates a new TaskService. cache may be nil.
func NewTaskService(taskRepo repository.TaskRepository, analyticsCache *cache.Cache, loc *time.Location) *TaskService {
	if loc == nil {
		loc = time.UTC
	}
	return &TaskService{
		taskRepo: taskRepo,
		cache:    analyticsCache,
		loc:      loc,
		now:      time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	OwnerID   string
	Title     string
	Priority  *models.Priority
	Checklist []models.ChecklistItem
	DueDate   *time.Time
	Status    models.TaskStatus
}

// EditTaskInput represents a full replacement of a task's editable fields
type EditTaskInput struct {
	TaskID    string
	Title     string
	Priority  *models.Priority
	Checklist []models.ChecklistItem
	Status    models.TaskStatus
	DueDate   *time.Time
}

// Analytics holds the per-owner dashboard counts
type Analytics struct {
	BacklogCount          int64 `json:"backlogCount"`
	TodoCount             int64 `json:"todoCount"`
	ProgressCount         int64 `json:"progressCount"`
	CompletedCount        int64 `json:"completedCount"`
	LowPriorityCount      int64 `json:"lowPriorityCount"`
	ModeratePriorityCount int64 `json:"moderatePriorityCount"`
	HighPriorityCount     int64 `json:"highPriorityCount"`
	DueDateNotDoneCount   int64 `json:"dueDateNotDoneCount"`
}

// Create validates and persists a new task owned by input.OwnerID
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || input.Priority == nil || input.Priority.TypeOfPriority == "" || input.Checklist == nil {
		return nil, ErrMissingTaskFields
	}
	if !input.Priority.TypeOfPriority.Valid() {
		return nil, ErrInvalidPriority
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	task := &models.Task{
		Title:     title,
		Priority:  *input.Priority,
		Checklist: normalizeChecklist(input.Checklist),
		Status:    status,
		DueDate:   input.DueDate,
		RefUserID: input.OwnerID,
		CreatedAt: s.now(),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.invalidateAnalytics(ctx, input.OwnerID)
	return task, nil
}

// List returns the owner's tasks created inside the named window
func (s *TaskService) List(ctx context.Context, ownerID, window string) ([]models.Task, error) {
	from, to := WindowBounds(window, s.now(), s.loc)

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{
		OwnerID:     ownerID,
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Get retrieves a task by ID
func (s *TaskService) Get(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// Edit replaces the title, priority, checklist, status and due date of a task
func (s *TaskService) Edit(ctx context.Context, input EditTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if input.TaskID == "" || title == "" || input.Priority == nil || input.Priority.TypeOfPriority == "" ||
		input.Checklist == nil || input.Status == "" {
		return nil, ErrMissingEditFields
	}
	if !input.Priority.TypeOfPriority.Valid() {
		return nil, ErrInvalidPriority
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.taskRepo.Replace(ctx, input.TaskID, repository.TaskFields{
		Title:     title,
		Priority:  *input.Priority,
		Checklist: normalizeChecklist(input.Checklist),
		Status:    input.Status,
		DueDate:   input.DueDate,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.invalidateAnalytics(ctx, task.RefUserID)
	return task, nil
}

// Move changes only the status of a task
func (s *TaskService) Move(ctx context.Context, taskID string, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.taskRepo.UpdateStatus(ctx, taskID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	s.invalidateAnalytics(ctx, task.RefUserID)
	return task, nil
}

// Delete permanently removes a task
func (s *TaskService) Delete(ctx context.Context, taskID string) error {
	task, err := s.Get(ctx, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.invalidateAnalytics(ctx, task.RefUserID)
	return nil
}

// ToggleChecklistItem sets the selected flag of one checklist item
func (s *TaskService) ToggleChecklistItem(ctx context.Context, taskID, itemID string, selected *bool) (*models.Task, error) {
	if taskID == "" || itemID == "" || selected == nil {
		return nil, ErrMissingChecklistFields
	}

	task, err := s.taskRepo.SetChecklistItem(ctx, taskID, itemID, *selected)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChecklistItemNotFound
		}
		return nil, fmt.Errorf("failed to update checklist item: %w", err)
	}
	return task, nil
}

// Analytics counts the owner's tasks by status, by priority and by due date.
// Priority and due date counts leave out finished tasks.
func (s *TaskService) Analytics(ctx context.Context, ownerID string) (*Analytics, error) {
	var cached Analytics
	if s.cache.GetJSON(ctx, analyticsKey(ownerID), &cached) {
		return &cached, nil
	}

	done := models.TaskStatusDone
	statusFilter := func(status models.TaskStatus) repository.TaskCountFilter {
		return repository.TaskCountFilter{OwnerID: ownerID, Status: &status}
	}
	priorityFilter := func(level models.PriorityLevel) repository.TaskCountFilter {
		return repository.TaskCountFilter{OwnerID: ownerID, Priority: &level, ExcludeStatus: &done}
	}

	result := &Analytics{}
	counts := []struct {
		dest   *int64
		filter repository.TaskCountFilter
	}{
		{&result.BacklogCount, statusFilter(models.TaskStatusBacklog)},
		{&result.TodoCount, statusFilter(models.TaskStatusTodo)},
		{&result.ProgressCount, statusFilter(models.TaskStatusProgress)},
		{&result.CompletedCount, statusFilter(models.TaskStatusDone)},
		{&result.LowPriorityCount, priorityFilter(models.PriorityLow)},
		{&result.ModeratePriorityCount, priorityFilter(models.PriorityMedium)},
		{&result.HighPriorityCount, priorityFilter(models.PriorityHigh)},
		{&result.DueDateNotDoneCount, repository.TaskCountFilter{OwnerID: ownerID, HasDueDate: true, ExcludeStatus: &done}},
	}

	for _, c := range counts {
		n, err := s.taskRepo.Count(ctx, c.filter)
		if err != nil {
			return nil, fmt.Errorf("failed to count tasks: %w", err)
		}
		*c.dest = n
	}

	s.cache.SetJSON(ctx, analyticsKey(ownerID), result)
	return result, nil
}

func (s *TaskService) invalidateAnalytics(ctx context.Context, ownerID string) {
	s.cache.Delete(ctx, analyticsKey(ownerID))
}

const maxChecklistIDLength = 36

func analyticsKey(ownerID string) string {
	return "analytics:" + ownerID
}

// normalizeChecklist keeps client item ids and assigns fresh ones to items
// with a missing, oversized or repeated id.
func normalizeChecklist(items []models.ChecklistItem) []models.ChecklistItem {
	seen := make(map[string]struct{}, len(items))
	normalized := make([]models.ChecklistItem, len(items))
	for i, item := range items {
		if _, dup := seen[item.ID]; item.ID == "" || len(item.ID) > maxChecklistIDLength || dup {
			item.ID = uuid.NewString()
		}
		seen[item.ID] = struct{}{}
		normalized[i] = models.ChecklistItem{
			ID:       item.ID,
			Text:     item.Text,
			Selected: item.Selected,
		}
	}
	return normalized
}
