package bot

import (
	"context"
	"fmt"
	"strings"

	"websummarizer/internal/database"
	"websummarizer/internal/domain"
)

const (
	startText = `👋 Send me a link and I will summarize the page\.

📄 /history shows your recent summaries\.
🔑 /key \<token\> checks an OpenAI API key\.`

	historyTimeLayout = "2006-01-02 15:04"
)

func (b *Bot) handleStartCommand(ctx context.Context, chatID int64) error {
	return b.sendMessage(ctx, chatID, startText, "")
}

func (b *Bot) handleHistoryCommand(ctx context.Context, chatID, userID int64) error {
	if b.history == nil {
		return b.sendMessage(ctx, chatID, "📭 History is disabled\\.", "")
	}

	summaries, err := b.history.GetUserSummaries(ctx, userID, database.DefaultHistoryLimit)
	if err != nil {
		if sendErr := b.sendMessage(ctx, chatID, "❌ Failed\\.", ""); sendErr != nil {
			b.log.ErrorContext(ctx, "Failed to send message",
				"error", sendErr,
				"chatID", chatID)
		}

		return fmt.Errorf("get user summaries: %w", err)
	}

	return b.sendMessage(ctx, chatID, formatHistory(summaries), "")
}

func formatHistory(summaries []domain.Summary) string {
	if len(summaries) == 0 {
		return "📭 No summaries yet\\."
	}

	var b strings.Builder
	b.WriteString("🕘 *Recent summaries*\n\n")

	for _, s := range summaries {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			title = s.URL
		}

		fmt.Fprintf(&b, "– [%s](%s) %s\n",
			escapeMarkdownV2(title),
			escapeLinkURL(s.URL),
			escapeMarkdownV2(s.CreatedAt.UTC().Format(historyTimeLayout)))
	}

	return strings.TrimRight(b.String(), "\n")
}

// handleKeyCommand checks the key given after /key and deletes the message
// that carried it.
func (b *Bot) handleKeyCommand(ctx context.Context, text string, chatID int64, messageID int) error {
	key := strings.TrimSpace(strings.TrimPrefix(text, "/key"))
	if key == "" {
		return b.sendMessage(ctx, chatID, "🔑 Usage: /key \\<token\\>", "")
	}

	b.deleteMessage(ctx, chatID, messageID)

	if b.summarizer.ValidateCredential(ctx, key) {
		return b.sendMessage(ctx, chatID, "✅ API key is valid\\.", "")
	}

	return b.sendMessage(ctx, chatID, "❌ API key is not valid\\.", "")
}
