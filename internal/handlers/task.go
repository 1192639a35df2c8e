package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/promanage-api/internal/constants"
	"github.com/yukikurage/promanage-api/internal/dto"
	apierrors "github.com/yukikurage/promanage-api/internal/errors"
	"github.com/yukikurage/promanage-api/internal/middleware"
	"github.com/yukikurage/promanage-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
	aiService   *services.AIService
}

func NewTaskHandler(taskService *services.TaskService, aiService *services.AIService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		aiService:   aiService,
	}
}

// CreateTask creates a task owned by the current user
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Unauthorized: No token provided")
		return
	}

	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Bad Request: Missing required fields")
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), services.CreateTaskInput{
		OwnerID:   userID,
		Title:     req.Title,
		Priority:  req.ToPriority(),
		Checklist: req.ToChecklist(),
		DueDate:   req.DueDate.Time,
		Status:    req.Status,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskResponse{
		Success: true,
		Message: "Task created successfully",
		Task:    dto.ToTaskDTO(*task),
	})
}

// ListTasks returns the current user's tasks created inside the
// typeOfFilter window (today, thisWeek or thisMonth)
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Unauthorized: No token provided")
		return
	}

	window := c.Query("typeOfFilter")
	if window == "" {
		window = constants.DefaultWindowFilter
	}

	tasks, err := h.taskService.List(c.Request.Context(), userID, window)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// EditTask replaces the editable fields of a task
func (h *TaskHandler) EditTask(c *gin.Context) {
	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Bad Request: Missing required fields")
		return
	}

	task, err := h.taskService.Edit(c.Request.Context(), services.EditTaskInput{
		TaskID:    c.Param("taskId"),
		Title:     req.Title,
		Priority:  req.ToPriority(),
		Checklist: req.ToChecklist(),
		Status:    req.Status,
		DueDate:   req.DueDate.Time,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskResponse{
		Success: true,
		Message: "Task updated successfully",
		Task:    dto.ToTaskDTO(*task),
	})
}

// MoveTask changes the status column of a task
func (h *TaskHandler) MoveTask(c *gin.Context) {
	var req dto.MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Bad Request: Invalid status")
		return
	}

	task, err := h.taskService.Move(c.Request.Context(), c.Param("taskId"), req.Status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskResponse{
		Success: true,
		Message: "Task status updated successfully",
		Task:    dto.ToTaskDTO(*task),
	})
}

// GetTaskDescription returns a single task. The route is public so that
// task links can be shared.
func (h *TaskHandler) GetTaskDescription(c *gin.Context) {
	task, err := h.taskService.Get(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	taskDTO := dto.ToTaskDTO(*task)
	c.JSON(http.StatusOK, dto.TaskDescriptionResponse{
		Success: true,
		Message: "Task fetched successfully",
		TaskDTO: taskDTO,
		Task:    taskDTO,
	})
}

// DeleteTask permanently removes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.Delete(c.Request.Context(), c.Param("taskId")); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Task deleted successfully",
	})
}

// GetAnalytics returns the current user's dashboard counts
func (h *TaskHandler) GetAnalytics(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Unauthorized: No token provided")
		return
	}

	analytics, err := h.taskService.Analytics(c.Request.Context(), userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AnalyticsResponse{
		Success: true,
		Data:    dto.ToAnalyticsDTO(*analytics),
	})
}

// ToggleChecklistItem sets the selected flag of one checklist item
func (h *TaskHandler) ToggleChecklistItem(c *gin.Context) {
	var req dto.ChecklistToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Bad Request: Missing taskId, itemId, or selected field")
		return
	}

	task, err := h.taskService.ToggleChecklistItem(c.Request.Context(), c.Param("taskId"), c.Param("itemId"), req.Selected)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskResponse{
		Success: true,
		Message: "Checklist item updated successfully",
		Task:    dto.ToTaskDTO(*task),
	})
}

// GenerateTasks suggests tasks from free text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	var req dto.GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Bad Request: text is required")
		return
	}

	suggestions, err := h.aiService.SuggestTasks(c.Request.Context(), req.Text)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuggestionsResponse{
		Success: true,
		Message: "Tasks generated successfully",
		Tasks:   dto.ToSuggestedTaskDTOs(suggestions),
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingTaskFields),
		errors.Is(err, services.ErrMissingEditFields):
		apierrors.BadRequest(c, "Bad Request: Missing required fields")
	case errors.Is(err, services.ErrMissingChecklistFields):
		apierrors.BadRequest(c, "Bad Request: Missing taskId, itemId, or selected field")
	case errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, "Bad Request: Invalid priority")
	case errors.Is(err, services.ErrInvalidStatus):
		apierrors.BadRequest(c, "Bad Request: Invalid status")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrChecklistItemNotFound):
		apierrors.NotFound(c, "Task or checklist item not found")
	case errors.Is(err, services.ErrSuggestionTextRequired):
		apierrors.BadRequest(c, "Bad Request: text is required")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrAIRequestFailed),
		errors.Is(err, services.ErrAIInvalidResponse),
		errors.Is(err, services.ErrAINoValidTasks):
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		apierrors.BadGateway(c, "Failed to generate tasks")
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		apierrors.InternalError(c, "Internal server error")
	}
}
