package prompt

import (
	"strings"

	"websummarizer/internal/domain"
)

const SystemPrompt = "You are an assistant that analyzes the contents of a website " +
	"and provides a short summary, ignoring text that might be navigation related. " +
	"Respond in markdown."

const userPromptInstructions = "\nThe contents of this website is as follows; " +
	"please provide a short summary of this website in markdown. " +
	"If it includes news or announcements, then summarize these too.\n\n"

// UserPrompt interpolates the page title and the full text. Nothing is
// truncated: oversized pages are the backend's concern.
func UserPrompt(p domain.Page) string {
	var b strings.Builder
	b.Grow(len(p.Title) + len(p.Text) + len(userPromptInstructions) + 64)

	b.WriteString("You are looking at a website titled ")
	b.WriteString(p.Title)
	b.WriteString(userPromptInstructions)
	b.WriteString(p.Text)

	return b.String()
}

// Build returns the system message followed by the user message.
func Build(p domain.Page) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Content: SystemPrompt},
		{Role: domain.RoleUser, Content: UserPrompt(p)},
	}
}
