package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/project-management-api/internal/models"
)

// TaskSuggester turns free text into task suggestions.
type TaskSuggester interface {
	GenerateTasksFromText(ctx context.Context, projectName, text string) ([]GeneratedTask, error)
}

type AIService struct {
	client *openai.Client
}

type GeneratedTask struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// GenerateTasksFromText extracts tasks for a project from text using OpenAI GPT
func (s *AIService) GenerateTasksFromText(ctx context.Context, projectName, text string) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := time.Now().UTC().Format(time.RFC3339)
	prompt := fmt.Sprintf(`You are a task extraction assistant for the project "%s". Extract concrete, actionable tasks from the text below.

Current time: %s

Text:
%s

Respond with a JSON object of this shape:
{
  "tasks": [
    {
      "title": "short task title",
      "description": "task details",
      "priority": "low" | "medium" | "high",
      "due_date": "deadline in ISO8601 (e.g. 2026-10-28T23:59:59Z), or null when none is stated"
    }
  ]
}

Rules:
- Return {"tasks": []} when the text contains no tasks
- Convert relative deadlines ("tomorrow", "next week") into absolute timestamps
- Use "medium" priority unless the text implies otherwise
- Return JSON only, with no commentary`, projectName, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseGeneratedTasks(resp.Choices[0].Message.Content)
}

func parseGeneratedTasks(content string) ([]GeneratedTask, error) {
	var payload struct {
		Tasks []GeneratedTask `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}
	return payload.Tasks, nil
}
