package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/promanage-api/internal/auth"
	"github.com/yukikurage/promanage-api/internal/models"
	"github.com/yukikurage/promanage-api/internal/repository"
)

var (
	ErrMissingRegistrationFields = errors.New("name, email and password are required")
	ErrMissingLoginFields        = errors.New("email and password are required")
	ErrEmailTaken                = errors.New("email already registered")
	ErrInvalidCredentials        = errors.New("invalid email or password")
	ErrMissingUpdateFields       = errors.New("name or password is required")
	ErrMissingPasswordFields     = errors.New("old and new password are required")
	ErrOldPasswordIncorrect      = errors.New("old password is incorrect")
	ErrUserNotFound              = errors.New("user not found")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	hasher   *auth.PasswordHasher
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, hasher *auth.PasswordHasher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Token    string
	Username string
	UserID   string
}

// Register creates a new user and issues a token for it.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, ErrMissingRegistrationFields
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(user)
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password fail with the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrMissingLoginFields
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// PasswordChange holds the old and new password of a settings update.
type PasswordChange struct {
	OldPassword string
	NewPassword string
}

// UpdateSettingsInput holds the optional name and password changes.
type UpdateSettingsInput struct {
	UserID   string
	Name     *string
	Password *PasswordChange
}

// UpdateSettings changes the user's name and/or password.
func (s *AuthService) UpdateSettings(ctx context.Context, input UpdateSettingsInput) error {
	var name string
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
	}
	if name == "" && input.Password == nil {
		return ErrMissingUpdateFields
	}

	user, err := s.GetUser(ctx, input.UserID)
	if err != nil {
		return err
	}

	if name != "" {
		user.Name = name
	}

	if input.Password != nil {
		if input.Password.OldPassword == "" || input.Password.NewPassword == "" {
			return ErrMissingPasswordFields
		}
		if !s.hasher.Verify(user.PasswordHash, input.Password.OldPassword) {
			return ErrOldPasswordIncorrect
		}

		hashedPassword, err := s.hasher.Hash(input.Password.NewPassword)
		if err != nil {
			return err
		}
		user.PasswordHash = hashedPassword
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{Token: token, Username: user.Name, UserID: user.ID}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
