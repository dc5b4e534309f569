package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"websummarizer/internal/domain"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAISummarizer calls the hosted Chat Completions API.
type OpenAISummarizer struct {
	client openai.Client
	model  string
}

// NewOpenAISummarizer builds a new summarizer instance. baseURL may be empty.
func NewOpenAISummarizer(apiKey string, baseURL string, model string) *OpenAISummarizer {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	if model = strings.TrimSpace(model); model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAISummarizer{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (s *OpenAISummarizer) Summarize(
	ctx context.Context,
	messages []domain.Message,
) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyConversation
	}

	chatMessages := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			chatMessages = append(chatMessages, openai.SystemMessage(m.Content))
		case domain.RoleUser:
			chatMessages = append(chatMessages, openai.UserMessage(m.Content))
		default:
			return "", fmt.Errorf("unsupported role: %s", m.Role)
		}
	}

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    s.model,
		Messages: chatMessages,
	})
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("response has no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// ValidateKey makes the cheapest authenticated call available, listing
// models. Any error means the key is not usable.
func (s *OpenAISummarizer) ValidateKey(ctx context.Context, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.New("API key is empty")
	}

	if _, err := s.client.Models.List(ctx, option.WithAPIKey(apiKey)); err != nil {
		return fmt.Errorf("list models: %w", err)
	}

	return nil
}
