package summarizer

import (
	"context"
	"errors"

	"websummarizer/internal/domain"
)

var ErrEmptyConversation = errors.New("conversation is empty")

// Summarizer sends a conversation to a text-generation backend and returns
// the single completion.
type Summarizer interface {
	Summarize(ctx context.Context, messages []domain.Message) (string, error)
}
