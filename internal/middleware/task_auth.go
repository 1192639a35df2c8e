package middleware

import (
	"context"
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/promanage-api/internal/constants"
	apierrors "github.com/yukikurage/promanage-api/internal/errors"
	"github.com/yukikurage/promanage-api/internal/models"
	"github.com/yukikurage/promanage-api/internal/services"
)

// TaskFinder loads a task by ID
type TaskFinder interface {
	Get(ctx context.Context, taskID string) (*models.Task, error)
}

// RequireTaskOwner checks that the authenticated user created the task named
// by the :taskId parameter. Tasks owned by someone else are reported as missing.
func RequireTaskOwner(tasks TaskFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "Unauthorized: No token provided")
			c.Abort()
			return
		}

		task, err := tasks.Get(c.Request.Context(), c.Param("taskId"))
		if err != nil {
			if errors.Is(err, services.ErrTaskNotFound) {
				apierrors.NotFound(c, "Task not found")
			} else {
				log.Printf("failed to load task for ownership check: %v", err)
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		// Return 404 instead of 403 to avoid leaking task existence
		if task.RefUserID != userID {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}
