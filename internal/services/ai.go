package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
}

// SuggestedTemplate is one chore suggestion produced by the model.
type SuggestedTemplate struct {
	Title        string `json:"title"`
	Points       int    `json:"points"`
	IntervalDays int    `json:"interval_days"`
	IsBonus      bool   `json:"is_bonus"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestTemplatesFromText turns a free-form household description into
// chore template suggestions using OpenAI GPT.
func (s *AIService) SuggestTemplatesFromText(ctx context.Context, text string) ([]SuggestedTemplate, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You are a household chore planner. From the description below, extract recurring chores for one week.

Description:
%s

Return a JSON array in exactly this shape:
[
  {
    "title": "short chore name",
    "points": 10,
    "interval_days": 1,
    "is_bonus": false
  }
]

Rules:
- points is a rough effort score between 5 and 50
- interval_days is how often the chore recurs within a week: 1 = daily, 7 = once a week, 2..6 = every N days starting Monday
- is_bonus marks optional extra-credit chores
- return an empty array [] when no chores can be extracted
- return only the JSON, no explanations`, text)

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

	content := resp.Choices[0].Message.Content

	var suggestions []SuggestedTemplate
	if err := json.Unmarshal([]byte(content), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return suggestions, nil
}
