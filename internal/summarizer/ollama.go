package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"websummarizer/internal/domain"
)

const (
	DefaultOllamaURL   = "http://localhost:11434/api/chat"
	DefaultOllamaModel = "llama3.2:latest"
)

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error"`
}

// OllamaSummarizer calls a local Ollama server's non-streaming chat endpoint.
type OllamaSummarizer struct {
	client   *http.Client
	endpoint string
	model    string
	log      *slog.Logger
}

func NewOllamaSummarizer(endpoint string, model string, log *slog.Logger) *OllamaSummarizer {
	if endpoint = strings.TrimSpace(endpoint); endpoint == "" {
		endpoint = DefaultOllamaURL
	}

	if model = strings.TrimSpace(model); model == "" {
		model = DefaultOllamaModel
	}

	return &OllamaSummarizer{
		client:   &http.Client{},
		endpoint: endpoint,
		model:    model,
		log:      log,
	}
}

func (s *OllamaSummarizer) Summarize(
	ctx context.Context,
	messages []domain.Message,
) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyConversation
	}

	payload := ollamaChatRequest{
		Model:    s.model,
		Messages: make([]ollamaMessage, 0, len(messages)),
		Stream:   false,
	}
	for _, m := range messages {
		payload.Messages = append(payload.Messages, ollamaMessage{Role: string(m.Role), Content: m.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			s.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"endpoint", s.endpoint,
				"operation", "Summarize")
		}
	}()

	var decoded ollamaChatResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response (status = %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("do request: unexpected status: %d: %s", resp.StatusCode, decoded.Error)
	}

	if decoded.Error != "" {
		return "", errors.New(decoded.Error)
	}

	return decoded.Message.Content, nil
}
