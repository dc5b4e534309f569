package bot

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toMarkdownV2(md string) string {
	blocks := markdownBlocks(md, math.MaxInt32)

	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, b.markdown)
	}

	return strings.Join(parts, blockSeparator)
}

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, "plain text", escapeMarkdownV2("plain text"))
	assert.Equal(t, `v1\.2 \(beta\)\!`, escapeMarkdownV2("v1.2 (beta)!"))
	assert.Equal(t, `a\\b`, escapeMarkdownV2(`a\b`))
}

func TestToMarkdownV2(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "heading", in: "# Example Domain", want: "*Example Domain*"},
		{name: "bold heading", in: "## **News**", want: "*News*"},
		{name: "bullet with bold", in: "- item **bold** here", want: "• item *bold* here"},
		{name: "nested bullet", in: "- top\n  - sub-item", want: "• top\n  • sub\\-item"},
		{name: "ordered list", in: "1. first\n2. second", want: "1\\. first\n2\\. second"},
		{name: "italic", in: "*italic* and _also_", want: "_italic_ and _also_"},
		{name: "plain text is escaped", in: "Version 1.2 (beta)!", want: `Version 1\.2 \(beta\)\!`},
		{name: "escaped punctuation", in: `a \* b`, want: `a \* b`},
		{name: "link", in: "see [the docs](https://x.io/a_b)", want: "see [the docs](https://x.io/a_b)"},
		{name: "inline code", in: "run `go_test`", want: "run `go_test`"},
		{name: "hashtag is not a heading", in: "#golang", want: `\#golang`},
		{name: "quote", in: "> quoted.", want: ">quoted\\."},
		{name: "paragraphs", in: "first\n\nsecond", want: "first\n\nsecond"},
		{name: "soft line break", in: "line one\nline two", want: "line one\nline two"},
		{
			name: "fenced code",
			in:   "```go\nx := a.b\n```",
			want: "```go\nx := a.b\n```",
		},
		{
			name: "unterminated fence",
			in:   "```\nx",
			want: "```\nx\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toMarkdownV2(tt.in))
		})
	}
}

func TestSummaryChunksPacksWholeBlocks(t *testing.T) {
	chunks := summaryChunks("# Title\n\nfirst paragraph\n\nsecond paragraph", 30)

	require.Len(t, chunks, 2)
	assert.Equal(t, chunk{markdown: "*Title*\n\nfirst paragraph", plain: "Title\n\nfirst paragraph"}, chunks[0])
	assert.Equal(t, chunk{markdown: "second paragraph", plain: "second paragraph"}, chunks[1])
}

func TestSummaryChunksReopensCodeFence(t *testing.T) {
	var code strings.Builder
	code.WriteString("```go\n")
	for range 10 {
		code.WriteString("fmt.Println(1)\n")
	}
	code.WriteString("```")

	chunks := summaryChunks(code.String(), 60)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.markdown), 60)
		assert.True(t, strings.HasPrefix(c.markdown, "```go\n"), c.markdown)
		assert.True(t, strings.HasSuffix(c.markdown, "\n```"), c.markdown)
		assert.NotContains(t, c.plain, "```")
	}
}

func TestSummaryChunksOversizedBlockIsPlain(t *testing.T) {
	summary := "**" + strings.TrimSpace(strings.Repeat("bold words ", 10)) + "**"

	chunks := summaryChunks(summary, 40)

	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.Empty(t, c.markdown)
		assert.LessOrEqual(t, len(c.plain), 40)
		assert.NotContains(t, c.plain, "*")
	}
}

func TestSummaryChunksPlainLinks(t *testing.T) {
	chunks := summaryChunks("read [docs](https://x.io)", 100)

	require.Len(t, chunks, 1)
	assert.Equal(t, "read [docs](https://x.io)", chunks[0].markdown)
	assert.Equal(t, "read docs (https://x.io)", chunks[0].plain)
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	assert.Equal(t,
		[]string{"aaaa\nbbbb", "cccc"},
		splitMessage("aaaa\nbbbb\ncccc", 10))

	assert.Equal(t,
		[]string{"ab", `\.c`, "d"},
		splitMessage(`ab\.cd`, 3))
}

func TestSplitMessageKeepsRunes(t *testing.T) {
	text := strings.Repeat("й", 10)

	chunks := splitMessage(text, 5)

	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 5)
		assert.True(t, strings.HasPrefix(c, "й"))
	}
}
