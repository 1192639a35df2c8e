package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/promanage-api/internal/auth"
	"github.com/yukikurage/promanage-api/internal/database"
	"github.com/yukikurage/promanage-api/internal/models"
	"github.com/yukikurage/promanage-api/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type authServiceEnv struct {
	db      *gorm.DB
	service *AuthService
	tokens  *auth.TokenManager
	users   repository.UserRepository
}

func setupAuthService(t *testing.T) authServiceEnv {
	t.Helper()

	db, err := database.OpenSQLite(":memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		database.Close(db)
	})

	users := repository.NewUserRepository(db)
	tokens := auth.NewTokenManager("test-secret", 0)
	return authServiceEnv{
		db:      db,
		service: NewAuthService(users, tokens, auth.NewPasswordHasher(4)),
		tokens:  tokens,
		users:   users,
	}
}

func TestAuthService_Register(t *testing.T) {
	env := setupAuthService(t)
	ctx := context.Background()

	result, err := env.service.Register(ctx, RegisterInput{Name: "Ada", Email: " Ada@Example.com ", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", result.Username)

	userID, err := env.tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.UserID, userID)

	stored, err := env.users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", stored.PasswordHash)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	env := setupAuthService(t)
	ctx := context.Background()

	_, err := env.service.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)

	_, err = env.service.Register(ctx, RegisterInput{Name: "Other", Email: "ADA@example.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthService_RegisterMissingFields(t *testing.T) {
	env := setupAuthService(t)

	for _, input := range []RegisterInput{
		{Email: "a@example.com", Password: "x"},
		{Name: "A", Password: "x"},
		{Name: "A", Email: "a@example.com"},
	} {
		_, err := env.service.Register(context.Background(), input)
		assert.ErrorIs(t, err, ErrMissingRegistrationFields)
	}
}

func TestAuthService_Login(t *testing.T) {
	env := setupAuthService(t)
	ctx := context.Background()

	registered, err := env.service.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)

	result, err := env.service.Login(ctx, LoginInput{Email: "ADA@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", result.Username)

	userID, err := env.tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, userID)

	_, wrongPassword := env.service.Login(ctx, LoginInput{Email: "ada@example.com", Password: "nope"})
	_, unknownEmail := env.service.Login(ctx, LoginInput{Email: "bob@example.com", Password: "secret"})
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())

	_, err = env.service.Login(ctx, LoginInput{Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrMissingLoginFields)
}

func TestAuthService_UpdateSettings(t *testing.T) {
	env := setupAuthService(t)
	ctx := context.Background()

	registered, err := env.service.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)
	before, err := env.users.FindByID(ctx, registered.UserID)
	require.NoError(t, err)

	err = env.service.UpdateSettings(ctx, UpdateSettingsInput{
		UserID:   registered.UserID,
		Password: &PasswordChange{OldPassword: "wrong", NewPassword: "new-secret"},
	})
	assert.ErrorIs(t, err, ErrOldPasswordIncorrect)

	unchanged, err := env.users.FindByID(ctx, registered.UserID)
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, unchanged.PasswordHash)

	name := "Ada Lovelace"
	err = env.service.UpdateSettings(ctx, UpdateSettingsInput{
		UserID:   registered.UserID,
		Name:     &name,
		Password: &PasswordChange{OldPassword: "secret", NewPassword: "new-secret"},
	})
	require.NoError(t, err)

	result, err := env.service.Login(ctx, LoginInput{Email: "ada@example.com", Password: "new-secret"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", result.Username)
}

func TestAuthService_UpdateSettingsValidation(t *testing.T) {
	env := setupAuthService(t)
	ctx := context.Background()

	registered, err := env.service.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)

	blank := "  "
	err = env.service.UpdateSettings(ctx, UpdateSettingsInput{UserID: registered.UserID, Name: &blank})
	assert.ErrorIs(t, err, ErrMissingUpdateFields)

	err = env.service.UpdateSettings(ctx, UpdateSettingsInput{
		UserID:   registered.UserID,
		Password: &PasswordChange{OldPassword: "secret"},
	})
	assert.ErrorIs(t, err, ErrMissingPasswordFields)

	name := "Ghost"
	err = env.service.UpdateSettings(ctx, UpdateSettingsInput{UserID: "missing", Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
