package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/pms-api/internal/constants"
)

// chatCompleter is the part of the OpenAI client the AI service needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type AIService struct {
	client chatCompleter
	now    func() time.Time
}

// TaskDraft is a task proposed by the model. DueDate uses YYYY-MM-DD.
type TaskDraft struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
}

func NewAIService(apiKey string) *AIService {
	return newAIService(openai.NewClient(apiKey))
}

func newAIService(client chatCompleter) *AIService {
	return &AIService{client: client, now: time.Now}
}

// GenerateTaskDrafts asks the model to break the text down into tasks for the
// named project.
func (s *AIService) GenerateTaskDrafts(ctx context.Context, projectName, text string) ([]TaskDraft, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You are a project planning assistant. Break the following notes for the project %q into concrete tasks.

Today: %s

Notes:
%s

Return a JSON array of at most %d tasks in this shape:
[
  {
    "title": "short task title",
    "description": "what needs to be done",
    "priority": "one of Low, Medium, High, Critical",
    "due_date": "YYYY-MM-DD, or null when the notes give no deadline"
  }
]

Rules:
- Return [] when the notes contain no tasks
- Turn relative deadlines ("tomorrow", "next week") into concrete dates
- Return JSON only, with no explanation`, projectName, s.now().Format(constants.DateLayout), text, constants.MaxAIGeneratedTasks)

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
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var drafts []TaskDraft
	if err := json.Unmarshal([]byte(content), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return drafts, nil
}

// stripCodeFence removes a surrounding markdown code block, if any.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = content[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(content), "```"))
}
