package presenter

import "strings"

// Render turns a raw completion into the markdown payload shown to users.
// Models sometimes wrap their whole answer in a ```markdown fence; the fence
// is dropped so the content renders instead of showing as code.
func Render(completion string) string {
	text := strings.TrimSpace(strings.ReplaceAll(completion, "\r\n", "\n"))

	return strings.TrimSpace(unwrapMarkdownFence(text))
}

func unwrapMarkdownFence(text string) string {
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") {
		return text
	}

	firstLine, rest, ok := strings.Cut(text, "\n")
	if !ok {
		return text
	}

	switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(firstLine, "```"))) {
	case "", "markdown", "md":
	default:
		return text
	}

	body := strings.TrimSuffix(rest, "```")
	if strings.Contains(body, "```") {
		return text
	}

	return body
}
