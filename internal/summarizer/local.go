package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"websummarizer/internal/domain"
	"websummarizer/internal/prompt"
)

const DefaultLocalMaxNewTokens = 256

// Tokenizer converts between text and model token ids.
type Tokenizer interface {
	Encode(text string) []int
	Decode(ids []int) string
}

// GenerateRequest is the input of an in-process generation call.
// Prompt[ContentStart:ContentEnd] holds the page text; models may ignore it.
type GenerateRequest struct {
	Prompt       []int
	ContentStart int
	ContentEnd   int
	MaxNewTokens int
}

// Generator is an in-process text-generation model working on token ids.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) ([]int, error)
}

// LocalSummarizer runs generation in-process: the conversation is rendered
// with a plain chat template, encoded, generated and decoded.
type LocalSummarizer struct {
	tokenizer    Tokenizer
	generator    Generator
	maxNewTokens int
}

func NewLocalSummarizer(tokenizer Tokenizer, generator Generator, maxNewTokens int) *LocalSummarizer {
	if maxNewTokens <= 0 {
		maxNewTokens = DefaultLocalMaxNewTokens
	}

	return &LocalSummarizer{
		tokenizer:    tokenizer,
		generator:    generator,
		maxNewTokens: maxNewTokens,
	}
}

func (s *LocalSummarizer) Summarize(
	ctx context.Context,
	messages []domain.Message,
) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyConversation
	}

	req := s.encode(messages)

	out, err := s.generator.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	return strings.ToValidUTF8(s.tokenizer.Decode(out), ""), nil
}

func (s *LocalSummarizer) encode(messages []domain.Message) GenerateRequest {
	req := GenerateRequest{MaxNewTokens: s.maxNewTokens}

	for _, m := range messages {
		req.Prompt = append(req.Prompt, s.tokenizer.Encode("### "+string(m.Role)+":\n")...)

		if m.Role != domain.RoleUser {
			req.Prompt = append(req.Prompt, s.tokenizer.Encode(m.Content+"\n\n")...)
			continue
		}

		header, text := prompt.SplitUserPrompt(m.Content)
		req.Prompt = append(req.Prompt, s.tokenizer.Encode(header)...)
		req.ContentStart = len(req.Prompt)
		req.Prompt = append(req.Prompt, s.tokenizer.Encode(text)...)
		req.ContentEnd = len(req.Prompt)
		req.Prompt = append(req.Prompt, s.tokenizer.Encode("\n\n")...)
	}

	req.Prompt = append(req.Prompt, s.tokenizer.Encode("### assistant:\n")...)

	return req
}

// LeadGenerator is an extractive generator: it answers with the leading
// tokens of the page content. It needs no model weights.
type LeadGenerator struct{}

func (LeadGenerator) Generate(ctx context.Context, req GenerateRequest) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.ContentStart < 0 || req.ContentEnd > len(req.Prompt) || req.ContentStart > req.ContentEnd {
		return nil, errors.New("content bounds are out of range")
	}

	end := req.ContentEnd
	if req.MaxNewTokens > 0 {
		end = min(end, req.ContentStart+req.MaxNewTokens)
	}

	out := make([]int, end-req.ContentStart)
	copy(out, req.Prompt[req.ContentStart:end])

	return out, nil
}
