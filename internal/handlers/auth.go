package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/promanage-api/internal/dto"
	apierrors "github.com/yukikurage/promanage-api/internal/errors"
	"github.com/yukikurage/promanage-api/internal/middleware"
	"github.com/yukikurage/promanage-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new user and returns a bearer token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Bad Request: Missing required fields")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Success:  true,
		Message:  "User successfully registered",
		Token:    result.Token,
		Username: result.Username,
	})
}

// Login authenticates a user and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Bad Request: Invalid credentials")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Success:  true,
		Message:  "User logged in successfully",
		Token:    result.Token,
		Username: result.Username,
	})
}

// UpdateSettings changes the current user's name and/or password.
func (h *AuthHandler) UpdateSettings(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Unauthorized: No token provided")
		return
	}

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Bad Request: Missing update fields")
		return
	}

	input := services.UpdateSettingsInput{
		UserID: userID,
		Name:   req.Name,
	}
	if req.Password != nil {
		input.Password = &services.PasswordChange{
			OldPassword: req.Password.OldPassword,
			NewPassword: req.Password.NewPassword,
		}
	}

	if err := h.authService.UpdateSettings(c.Request.Context(), input); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "User information updated successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Unauthorized: No token provided")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{
		Success: true,
		User:    dto.ToUserDTO(*user),
	})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingRegistrationFields):
		apierrors.BadRequest(c, "Bad Request: Missing required fields")
	case errors.Is(err, services.ErrMissingLoginFields):
		apierrors.BadRequest(c, "Bad Request: Invalid credentials")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "User already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrMissingUpdateFields):
		apierrors.BadRequest(c, "Bad Request: Missing update fields")
	case errors.Is(err, services.ErrMissingPasswordFields):
		apierrors.BadRequest(c, "Bad Request: oldPassword and newPassword are required")
	case errors.Is(err, services.ErrOldPasswordIncorrect):
		apierrors.BadRequest(c, "Old password is incorrect")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		apierrors.InternalError(c, "Internal server error")
	}
}
