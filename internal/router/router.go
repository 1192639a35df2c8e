package router

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/promanage-api/internal/auth"
	"github.com/yukikurage/promanage-api/internal/config"
	"github.com/yukikurage/promanage-api/internal/dto"
	apierrors "github.com/yukikurage/promanage-api/internal/errors"
	"github.com/yukikurage/promanage-api/internal/handlers"
	"github.com/yukikurage/promanage-api/internal/middleware"
	"github.com/yukikurage/promanage-api/internal/services"
)

// Register wires routes and middleware.
func Register(
	r *gin.Engine,
	cfg *config.Config,
	tokens *auth.TokenManager,
	taskService *services.TaskService,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
) {
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("panic recovered on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		apierrors.InternalError(c, "Internal server error")
		c.Abort()
	}))

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Route not found")
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.MessageResponse{
			Success: true,
			Message: "ProManage API is running",
		})
	})

	requireToken := middleware.RequireToken(tokens)

	// Ownership checks are opt-in; by default any authenticated user may
	// modify any task by id.
	ownTask := func(c *gin.Context) { c.Next() }
	if cfg.EnforceTaskOwnership {
		ownTask = middleware.RequireTaskOwner(taskService)
	}

	api := r.Group(cfg.APIBasePath)
	{
		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.PUT("/settings/update", requireToken, authHandler.UpdateSettings)
			authRoutes.GET("/me", requireToken, authHandler.GetCurrentUser)
		}

		tasks := api.Group("/tasks")
		{
			// Public so that task links can be shared
			tasks.GET("/task-description/:taskId", taskHandler.GetTaskDescription)

			tasks.POST("/create", requireToken, taskHandler.CreateTask)
			tasks.GET("/all", requireToken, taskHandler.ListTasks)
			tasks.GET("/analytics", requireToken, taskHandler.GetAnalytics)
			tasks.POST("/generate", requireToken, taskHandler.GenerateTasks)
			tasks.PUT("/edit/:taskId", requireToken, ownTask, taskHandler.EditTask)
			tasks.PUT("/:taskId/move", requireToken, ownTask, taskHandler.MoveTask)
			tasks.DELETE("/delete-task/:taskId", requireToken, ownTask, taskHandler.DeleteTask)
			tasks.PUT("/checklist/:taskId/:itemId", requireToken, ownTask, taskHandler.ToggleChecklistItem)
		}
	}
}
