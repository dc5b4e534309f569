package bot

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Taken from https://core.telegram.org/bots/api#markdownv2-style.
const mdV2SpecialChars = `\_*[]()~` + "`" + `>#+-=|{}.!`

const (
	telegramMessageMaxLength = 4096
	blockSeparator           = "\n\n"
	codeFence                = "```"
)

//nolint:gochecknoglobals // Lookup table meant to be immutable.
var mdV2Lookup = func() [256]bool {
	var m [256]bool
	for i := range len(mdV2SpecialChars) {
		m[mdV2SpecialChars[i]] = true
	}
	return m
}()

//nolint:gochecknoglobals // Stateless, safe for concurrent use.
var markdownParser = goldmark.New().Parser()

func escapeMarkdownV2(input string) string {
	charsToEscape := 0

	for i := range len(input) {
		if mdV2Lookup[input[i]] {
			charsToEscape++
		}
	}

	if charsToEscape == 0 {
		return input
	}

	var b strings.Builder
	b.Grow(len(input) + charsToEscape)

	for i := range len(input) {
		c := input[i]
		if mdV2Lookup[c] {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}

	return b.String()
}

// escapeCode escapes text placed inside `code` or ```pre``` entities.
func escapeCode(input string) string {
	return strings.NewReplacer(`\`, `\\`, "`", "\\`").Replace(input)
}

// escapeLinkURL escapes the (...) part of an inline link.
func escapeLinkURL(input string) string {
	return strings.NewReplacer(`\`, `\\`, `)`, `\)`).Replace(input)
}

// block is one top-level markdown block in both renderings.
type block struct {
	markdown string
	plain    string
}

// chunk is one Telegram message. An empty markdown means the chunk is sent
// as plain text only.
type chunk struct {
	markdown string
	plain    string
}

// summaryChunks renders md and packs whole blocks into messages of at most
// limit bytes. Code blocks are split into several fenced blocks; any other
// block that does not fit is sent as plain text.
func summaryChunks(md string, limit int) []chunk {
	var chunks []chunk
	var markdown, plain strings.Builder

	flush := func() {
		if markdown.Len() > 0 {
			chunks = append(chunks, chunk{markdown: markdown.String(), plain: plain.String()})
			markdown.Reset()
			plain.Reset()
		}
	}

	for _, b := range markdownBlocks(md, limit) {
		if len(b.markdown) > limit {
			flush()

			for _, piece := range splitMessage(b.plain, limit) {
				chunks = append(chunks, chunk{plain: piece})
			}

			continue
		}

		if markdown.Len() > 0 && markdown.Len()+len(blockSeparator)+len(b.markdown) > limit {
			flush()
		}

		if markdown.Len() > 0 {
			markdown.WriteString(blockSeparator)
			plain.WriteString(blockSeparator)
		}

		markdown.WriteString(b.markdown)
		plain.WriteString(b.plain)
	}

	flush()

	return chunks
}

func markdownBlocks(md string, limit int) []block {
	source := []byte(md)
	doc := markdownParser.Parse(text.NewReader(source))

	mdRenderer := &mdV2Renderer{source: source}
	plainRenderer := &mdV2Renderer{source: source, plain: true}

	var blocks []block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if lang, lines, ok := codeOf(n, source); ok {
			blocks = append(blocks, codeBlocks(lang, lines, limit)...)
			continue
		}

		b := block{markdown: mdRenderer.block(n), plain: plainRenderer.block(n)}
		if b.markdown == "" {
			continue
		}

		blocks = append(blocks, b)
	}

	return blocks
}

func codeOf(n ast.Node, source []byte) (string, []string, bool) {
	var lang string

	switch n := n.(type) {
	case *ast.FencedCodeBlock:
		lang = string(n.Language(source))
	case *ast.CodeBlock:
	default:
		return "", nil, false
	}

	segments := n.Lines()
	lines := make([]string, 0, segments.Len())
	for i := range segments.Len() {
		seg := segments.At(i)
		line := string(seg.Value(source))
		if !strings.HasSuffix(line, "\n") {
			line += "\n"
		}
		lines = append(lines, line)
	}

	return lang, lines, true
}

// codeBlocks renders a code block, closing and reopening the fence whenever
// the next line would push it over limit.
func codeBlocks(lang string, lines []string, limit int) []block {
	open := codeFence + escapeCode(lang) + "\n"
	budget := limit - len(open) - len(codeFence)

	var blocks []block
	var code, plain strings.Builder

	flush := func() {
		blocks = append(blocks, block{
			markdown: open + code.String() + codeFence,
			plain:    strings.TrimRight(plain.String(), "\n"),
		})
		code.Reset()
		plain.Reset()
	}

	for _, line := range lines {
		escaped := escapeCode(line)
		if code.Len() > 0 && code.Len()+len(escaped) > budget {
			flush()
		}

		code.WriteString(escaped)
		plain.WriteString(line)
	}

	flush()

	return blocks
}

// mdV2Renderer renders goldmark nodes either as MarkdownV2 or, with plain
// set, as unformatted text.
type mdV2Renderer struct {
	source []byte
	plain  bool

	bold   bool
	italic bool
}

func (r *mdV2Renderer) escape(s string) string {
	if r.plain {
		return s
	}
	return escapeMarkdownV2(s)
}

func (r *mdV2Renderer) block(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Heading:
		return r.wrap(n, "*", &r.bold)
	case *ast.Paragraph, *ast.TextBlock:
		return r.inlines(n)
	case *ast.List:
		return r.list(n)
	case *ast.Blockquote:
		return r.blockquote(n)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lang, lines, _ := codeOf(n, r.source)
		if r.plain {
			return strings.TrimRight(strings.Join(lines, ""), "\n")
		}
		return codeFence + escapeCode(lang) + "\n" + escapeCode(strings.Join(lines, "")) + codeFence
	case *ast.ThematicBreak:
		return r.escape("---")
	case *ast.HTMLBlock:
		return r.escape(strings.TrimRight(r.lines(n), "\n"))
	default:
		return r.inlines(n)
	}
}

func (r *mdV2Renderer) blocks(parent ast.Node, sep string) string {
	var parts []string
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if s := r.block(c); s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, sep)
}

func (r *mdV2Renderer) list(n *ast.List) string {
	items := make([]string, 0, n.ChildCount())
	number := n.Start

	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if n.IsOrdered() {
			marker = r.escape(strconv.Itoa(number)+".") + " "
			number++
		}

		body := strings.ReplaceAll(r.blocks(item, "\n"), "\n", "\n  ")
		items = append(items, marker+body)
	}

	return strings.Join(items, "\n")
}

func (r *mdV2Renderer) blockquote(n *ast.Blockquote) string {
	prefix := ">"
	if r.plain {
		prefix = "> "
	}

	lines := strings.Split(r.blocks(n, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}

	return strings.Join(lines, "\n")
}

func (r *mdV2Renderer) lines(n ast.Node) string {
	var b strings.Builder

	segments := n.Lines()
	for i := range segments.Len() {
		seg := segments.At(i)
		b.Write(seg.Value(r.source))
	}

	return b.String()
}

func (r *mdV2Renderer) inlines(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		b.WriteString(r.inline(c))
	}

	return b.String()
}

func (r *mdV2Renderer) inline(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Text:
		s := r.escape(string(unescapeText(n.Segment.Value(r.source))))
		if n.SoftLineBreak() || n.HardLineBreak() {
			s += "\n"
		}
		return s
	case *ast.String:
		return r.escape(string(n.Value))
	case *ast.CodeSpan:
		code := plainText(n, r.source)
		if r.plain {
			return code
		}
		return "`" + escapeCode(code) + "`"
	case *ast.Emphasis:
		if n.Level >= 2 {
			return r.wrap(n, "*", &r.bold)
		}
		return r.wrap(n, "_", &r.italic)
	case *ast.Link:
		return r.linkTo(r.inlines(n), string(n.Destination))
	case *ast.Image:
		alt := plainText(n, r.source)
		if alt == "" {
			alt = string(n.Destination)
		}
		return r.linkTo(r.escape(alt), string(n.Destination))
	case *ast.AutoLink:
		return r.linkTo(r.escape(string(n.Label(r.source))), string(n.URL(r.source)))
	case *ast.RawHTML:
		var b strings.Builder
		for i := range n.Segments.Len() {
			seg := n.Segments.At(i)
			b.Write(seg.Value(r.source))
		}
		return r.escape(b.String())
	default:
		return r.inlines(n)
	}
}

// wrap surrounds the children of n with marker unless the same entity is
// already open, which Telegram does not allow to nest.
func (r *mdV2Renderer) wrap(n ast.Node, marker string, open *bool) string {
	if r.plain || *open {
		return r.inlines(n)
	}

	*open = true
	inner := r.inlines(n)
	*open = false

	if inner == "" {
		return ""
	}

	return marker + inner + marker
}

func (r *mdV2Renderer) linkTo(label, destination string) string {
	if r.plain {
		if destination == "" || label == destination {
			return label
		}
		return label + " (" + destination + ")"
	}

	if destination == "" {
		return label
	}

	return "[" + label + "](" + escapeLinkURL(destination) + ")"
}

func unescapeText(v []byte) []byte {
	return util.ResolveNumericReferences(util.ResolveEntityNames(util.UnescapePunctuations(v)))
}

func plainText(n ast.Node, source []byte) string {
	var b strings.Builder

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(source))
			if c.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		default:
			b.WriteString(plainText(c, source))
		}
	}

	return b.String()
}

// splitMessage cuts text into chunks of at most limit bytes, preferring line
// boundaries and never leaving a dangling escape backslash at a chunk end.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimRight(current.String(), "\n"))
			current.Reset()
		}
	}

	for line := range strings.SplitSeq(text, "\n") {
		if current.Len()+len(line)+1 > limit {
			flush()
		}

		for len(line) > limit {
			cut := safeCut(line, limit)
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}

		current.WriteString(line)
		current.WriteByte('\n')
	}

	flush()

	return chunks
}

func safeCut(s string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	trailing := 0
	for i := cut - 1; i >= 0 && s[i] == '\\'; i-- {
		trailing++
	}
	if trailing%2 == 1 {
		cut--
	}

	return cut
}
