package prompt

import "strings"

// SplitUserPrompt separates a user prompt produced by UserPrompt into the
// instruction header and the page text. Content that was not produced by
// UserPrompt is returned whole as text.
func SplitUserPrompt(content string) (string, string) {
	header, text, ok := strings.Cut(content, userPromptInstructions)
	if !ok {
		return "", content
	}

	return header + userPromptInstructions, text
}
