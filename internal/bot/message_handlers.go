package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"websummarizer/internal/domain"
	"websummarizer/internal/presenter"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"mvdan.cc/xurls/v2"
)

//nolint:gochecknoglobals // Compiled once.
var urlFinder = xurls.Strict()

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	chatID, _ := chatContext(message.Chat)
	text := strings.TrimSpace(message.Text)

	if text == "" {
		return nil
	}

	return b.withSpinner(ctx, chatID, func() error {
		switch {
		case strings.HasPrefix(text, "/start"), strings.HasPrefix(text, "/help"):
			return b.handleStartCommand(ctx, chatID)
		case strings.HasPrefix(text, "/history"):
			return b.handleHistoryCommand(ctx, chatID, message.From.ID)
		case strings.HasPrefix(text, "/key"):
			return b.handleKeyCommand(ctx, text, chatID, message.MessageID)
		default:
			return b.handlePageText(ctx, text, chatID, message.From.ID)
		}
	})
}

// handlePageText summarizes the first URL found in text, or text itself
// when it holds no recognizable URL.
func (b *Bot) handlePageText(ctx context.Context, text string, chatID, userID int64) error {
	target := pickURL(text)

	res, err := b.summarizer.Summarize(ctx, target)
	if err != nil {
		var errs []error

		warning := "⚠️ " + escapeMarkdownV2(presenter.Warning(target))
		if sendErr := b.sendMessage(ctx, chatID, warning, ""); sendErr != nil {
			errs = append(errs, fmt.Errorf("send warning: %w", sendErr))
		}

		if sendErr := b.sendMessage(ctx, chatID, escapeMarkdownV2(res.Payload), ""); sendErr != nil {
			errs = append(errs, fmt.Errorf("send payload: %w", sendErr))
		}

		return errors.Join(errs...)
	}

	b.saveSummary(ctx, userID, res)

	if err = b.sendSummary(ctx, chatID, res.Payload); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}

	return nil
}

func (b *Bot) saveSummary(ctx context.Context, userID int64, res presenter.Result) {
	if b.history == nil {
		return
	}

	_, err := b.history.AddSummary(ctx, domain.Summary{
		UserID: userID,
		URL:    res.URL,
		Title:  res.Title,
		Text:   res.Payload,
	})
	if err != nil {
		b.log.ErrorContext(ctx, "Failed to add summary to history",
			"error", err,
			"userID", userID,
			"url", res.URL)
	}
}

func pickURL(text string) string {
	if found := urlFinder.FindString(text); found != "" {
		return found
	}

	return strings.TrimSpace(text)
}
