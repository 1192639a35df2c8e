package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/promanage-api/internal/constants"
	"github.com/yukikurage/promanage-api/internal/models"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrSuggestionTextRequired = errors.New("text is required")
	ErrAIRequestFailed        = errors.New("AI request failed")
	ErrAIInvalidResponse      = errors.New("AI returned an unreadable response")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// AIService turns free text into task suggestions
type AIService struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

// SuggestedTask is a task proposed by the model. It is never persisted.
type SuggestedTask struct {
	Title     string               `json:"title"`
	Priority  models.PriorityLevel `json:"priority"`
	Checklist []string             `json:"checklist"`
	DueDate   *time.Time           `json:"dueDate"`
}

// NewAIService returns nil when apiKey is empty.
func NewAIService(apiKey, baseURL, model string) *AIService {
	if apiKey == "" {
		return nil
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4o
	}

	return &AIService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		now:    time.Now,
	}
}

// SuggestTasks analyzes text and extracts task suggestions
func (s *AIService) SuggestTasks(ctx context.Context, text string) ([]SuggestedTask, error) {
	if s == nil || s.client == nil {
		return nil, ErrAIServiceNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrSuggestionTextRequired
	}

	currentTime := s.now().Format(time.RFC3339)
	prompt := fmt.Sprintf(`You are a task extraction assistant. Extract concrete tasks from the text below.

Current time: %s

Text:
%s

Return a JSON array of tasks in this shape:
[
  {
    "title": "short task title",
    "priority": "low | medium | high",
    "checklist": ["sub-step", "..."],
    "dueDate": "ISO8601 deadline, e.g. 2025-10-28T23:59:59Z, or null when none is stated"
  }
]

Rules:
- Return [] when the text contains no tasks
- Convert relative deadlines ("tomorrow", "next week") into absolute timestamps
- Return JSON only, without any explanation`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIRequestFailed, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrAIInvalidResponse)
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var suggestions []SuggestedTask
	if err := json.Unmarshal([]byte(content), &suggestions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIInvalidResponse, err)
	}

	return s.sanitize(suggestions)
}

// sanitize drops untitled suggestions, defaults unknown priorities and
// clears deadlines that are already more than a day old.
func (s *AIService) sanitize(suggestions []SuggestedTask) ([]SuggestedTask, error) {
	if len(suggestions) > constants.MaxSuggestedTasks {
		suggestions = suggestions[:constants.MaxSuggestedTasks]
	}

	valid := make([]SuggestedTask, 0, len(suggestions))
	cutoff := s.now().Add(-24 * time.Hour)
	for _, suggestion := range suggestions {
		suggestion.Title = strings.TrimSpace(suggestion.Title)
		if suggestion.Title == "" {
			continue
		}

		if !suggestion.Priority.Valid() {
			suggestion.Priority = models.PriorityMedium
		}
		if suggestion.Checklist == nil {
			suggestion.Checklist = []string{}
		}
		if suggestion.DueDate != nil && suggestion.DueDate.Before(cutoff) {
			suggestion.DueDate = nil
		}

		valid = append(valid, suggestion)
	}

	if len(suggestions) > 0 && len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}
	return valid, nil
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
