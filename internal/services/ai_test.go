package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/promanage-api/internal/models"
)

// newFakeOpenAI serves a single canned chat completion.
func newFakeOpenAI(t *testing.T, content string) *AIService {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:    "chatcmpl-test",
			Model: openai.GPT4o,
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
			},
		})
	}))
	t.Cleanup(server.Close)

	service := NewAIService("test-key", server.URL+"/v1", "")
	service.now = func() time.Time { return time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC) }
	return service
}

func TestAIService_SuggestTasks(t *testing.T) {
	service := newFakeOpenAI(t, "```json\n"+`[
		{"title": "Book venue", "priority": "high", "checklist": ["call", "pay deposit"], "dueDate": "2025-01-15T18:00:00Z"},
		{"title": "  ", "priority": "low"},
		{"title": "Send invites", "priority": "urgent", "dueDate": "2024-12-01T00:00:00Z"}
	]`+"\n```")

	tasks, err := service.SuggestTasks(context.Background(), "Plan the offsite next week")
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "Book venue", tasks[0].Title)
	assert.Equal(t, models.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, []string{"call", "pay deposit"}, tasks[0].Checklist)
	require.NotNil(t, tasks[0].DueDate)

	assert.Equal(t, "Send invites", tasks[1].Title)
	assert.Equal(t, models.PriorityMedium, tasks[1].Priority)
	assert.Empty(t, tasks[1].Checklist)
	assert.Nil(t, tasks[1].DueDate)
}

func TestAIService_InvalidResponse(t *testing.T) {
	service := newFakeOpenAI(t, "Sure! Here are your tasks.")

	_, err := service.SuggestTasks(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrAIInvalidResponse)
}

func TestAIService_EmptyText(t *testing.T) {
	service := newFakeOpenAI(t, "[]")

	_, err := service.SuggestTasks(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrSuggestionTextRequired)
}

func TestAIService_NotConfigured(t *testing.T) {
	service := NewAIService("", "", "")
	assert.Nil(t, service)

	_, err := service.SuggestTasks(context.Background(), "text")
	assert.ErrorIs(t, err, ErrAIServiceNotConfigured)
}
