package summarizer_test

import (
	"context"
	"errors"
	"testing"

	"websummarizer/internal/domain"
	"websummarizer/internal/prompt"
	"websummarizer/internal/summarizer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runeTokenizer maps every rune to its code point.
type runeTokenizer struct{}

func (runeTokenizer) Encode(text string) []int {
	ids := make([]int, 0, len(text))
	for _, r := range text {
		ids = append(ids, int(r))
	}
	return ids
}

func (runeTokenizer) Decode(ids []int) string {
	runes := make([]rune, len(ids))
	for i, id := range ids {
		runes[i] = rune(id)
	}
	return string(runes)
}

type recordingGenerator struct {
	req summarizer.GenerateRequest
	out []int
	err error
}

func (g *recordingGenerator) Generate(_ context.Context, req summarizer.GenerateRequest) ([]int, error) {
	g.req = req
	return g.out, g.err
}

func TestLocalSummarizerLeadGenerator(t *testing.T) {
	p := domain.Page{Title: "Example", Text: "Hello world. Second sentence."}
	s := summarizer.NewLocalSummarizer(runeTokenizer{}, summarizer.LeadGenerator{}, 12)

	got, err := s.Summarize(context.Background(), prompt.Build(p))
	require.NoError(t, err)

	assert.Equal(t, "Hello world.", got)
}

func TestLocalSummarizerLeadGeneratorShortContent(t *testing.T) {
	p := domain.Page{Title: "Example", Text: "Tiny"}
	s := summarizer.NewLocalSummarizer(runeTokenizer{}, summarizer.LeadGenerator{}, 100)

	got, err := s.Summarize(context.Background(), prompt.Build(p))
	require.NoError(t, err)

	assert.Equal(t, "Tiny", got)
}

func TestLocalSummarizerEncodesTemplate(t *testing.T) {
	gen := &recordingGenerator{out: runeTokenizer{}.Encode("done")}
	s := summarizer.NewLocalSummarizer(runeTokenizer{}, gen, 0)

	p := domain.Page{Title: "Example", Text: "content"}
	got, err := s.Summarize(context.Background(), prompt.Build(p))
	require.NoError(t, err)
	assert.Equal(t, "done", got)

	rendered := runeTokenizer{}.Decode(gen.req.Prompt)
	assert.Contains(t, rendered, "### system:\n"+prompt.SystemPrompt)
	assert.Contains(t, rendered, "### user:\nYou are looking at a website titled Example")
	assert.Contains(t, rendered, "### assistant:\n")
	assert.Equal(t, "content", runeTokenizer{}.Decode(gen.req.Prompt[gen.req.ContentStart:gen.req.ContentEnd]))
	assert.Equal(t, summarizer.DefaultLocalMaxNewTokens, gen.req.MaxNewTokens)
}

func TestLocalSummarizerGeneratorError(t *testing.T) {
	gen := &recordingGenerator{err: errors.New("out of memory")}
	s := summarizer.NewLocalSummarizer(runeTokenizer{}, gen, 0)

	_, err := s.Summarize(context.Background(), prompt.Build(domain.Page{Title: "T", Text: "x"}))
	require.Error(t, err)
}

func TestLeadGeneratorRejectsBadBounds(t *testing.T) {
	_, err := summarizer.LeadGenerator{}.Generate(context.Background(), summarizer.GenerateRequest{
		Prompt:       []int{1, 2},
		ContentStart: 1,
		ContentEnd:   5,
	})
	require.Error(t, err)
}
