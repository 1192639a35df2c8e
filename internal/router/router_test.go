package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/promanage-api/internal/auth"
	"github.com/yukikurage/promanage-api/internal/config"
	"github.com/yukikurage/promanage-api/internal/constants"
	"github.com/yukikurage/promanage-api/internal/database"
	"github.com/yukikurage/promanage-api/internal/dto"
	apierrors "github.com/yukikurage/promanage-api/internal/errors"
	"github.com/yukikurage/promanage-api/internal/handlers"
	"github.com/yukikurage/promanage-api/internal/repository"
	"github.com/yukikurage/promanage-api/internal/services"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, enforceOwnership bool) *gin.Engine {
	t.Helper()

	db, err := database.OpenSQLite(":memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		database.Close(db)
	})

	cfg := &config.Config{APIBasePath: "/api/v1", EnforceTaskOwnership: enforceOwnership}
	tokens := auth.NewTokenManager("test-secret", 0)
	authService := services.NewAuthService(repository.NewUserRepository(db), tokens, auth.NewPasswordHasher(4))
	taskService := services.NewTaskService(repository.NewTaskRepository(db), nil, time.UTC)

	r := gin.New()
	Register(r, cfg, tokens, taskService,
		handlers.NewAuthHandler(authService),
		handlers.NewTaskHandler(taskService, nil),
	)
	return r
}

func call(t *testing.T, r http.Handler, method, url, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, url, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(constants.HeaderAuthorization, token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, r http.Handler, name, email string) string {
	t.Helper()

	w := call(t, r, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, name, resp.Username)
	return resp.Token
}

func createTask(t *testing.T, r http.Handler, token, title string) dto.TaskDTO {
	t.Helper()

	w := call(t, r, http.MethodPost, "/api/v1/tasks/create", token, map[string]interface{}{
		"title":     title,
		"priority":  map[string]string{"typeOfPriority": "low", "color": "#63C05B"},
		"checklist": []map[string]interface{}{{"text": "step one", "selected": false}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.TaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Task
}

func TestBoardLifecycle(t *testing.T) {
	r := newTestRouter(t, false)
	token := registerAndLogin(t, r, "Asha", "asha@example.com")

	created := createTask(t, r, token, "T1")
	assert.Equal(t, "todo", string(created.Status))
	require.Len(t, created.Checklist, 1)

	w := call(t, r, http.MethodGet, "/api/v1/tasks/all", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	w = call(t, r, http.MethodPut, "/api/v1/tasks/"+created.ID+"/move", token, map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, w.Code)

	w = call(t, r, http.MethodGet, "/api/v1/tasks/analytics", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var analytics dto.AnalyticsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analytics))
	assert.Equal(t, int64(1), analytics.Data.CompletedCount)
	assert.Equal(t, int64(0), analytics.Data.LowPriorityCount)
	assert.Equal(t, int64(0), analytics.Data.TodoCount)

	w = call(t, r, http.MethodDelete, "/api/v1/tasks/delete-task/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = call(t, r, http.MethodGet, "/api/v1/tasks/task-description/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDescriptionIsPublic(t *testing.T) {
	r := newTestRouter(t, false)
	token := registerAndLogin(t, r, "Asha", "asha@example.com")
	created := createTask(t, r, token, "shared")

	w := call(t, r, http.MethodGet, "/api/v1/tasks/task-description/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.TaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "shared", resp.Task.Title)
}

func TestTaskRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t, false)

	w := call(t, r, http.MethodGet, "/api/v1/tasks/all", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(t, r, http.MethodGet, "/api/v1/tasks/analytics", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOwnershipEnforcement(t *testing.T) {
	move := map[string]string{"status": "done"}

	t.Run("disabled", func(t *testing.T) {
		r := newTestRouter(t, false)
		owner := registerAndLogin(t, r, "Owner", "owner@example.com")
		other := registerAndLogin(t, r, "Other", "other@example.com")
		task := createTask(t, r, owner, "mine")

		w := call(t, r, http.MethodPut, "/api/v1/tasks/"+task.ID+"/move", other, move)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("enabled", func(t *testing.T) {
		r := newTestRouter(t, true)
		owner := registerAndLogin(t, r, "Owner", "owner@example.com")
		other := registerAndLogin(t, r, "Other", "other@example.com")
		task := createTask(t, r, owner, "mine")

		w := call(t, r, http.MethodPut, "/api/v1/tasks/"+task.ID+"/move", other, move)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = call(t, r, http.MethodDelete, "/api/v1/tasks/delete-task/"+task.ID, other, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = call(t, r, http.MethodPut, "/api/v1/tasks/"+task.ID+"/move", owner, move)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHealthAndNoRoute(t *testing.T) {
	r := newTestRouter(t, false)

	w := call(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(t, r, http.MethodGet, "/api/v1/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestRecoveryReturnsErrorEnvelope(t *testing.T) {
	r := newTestRouter(t, false)
	r.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := call(t, r, http.MethodGet, "/boom", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, apierrors.ErrCodeInternalError, resp.Code)
}
