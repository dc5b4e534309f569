package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sendMessage sends text formatted as MarkdownV2. When Telegram rejects the
// entities, fallback is sent as plain text instead.
func (b *Bot) sendMessage(ctx context.Context, chatID int64, text, fallback string) error {
	normalizedText := strings.ToValidUTF8(text, "?")
	if normalizedText != text {
		b.log.WarnContext(ctx, "Message text had invalid UTF-8 and was normalized",
			"chatID", chatID,
			"originalLen", len(text),
			"normalizedLen", len(normalizedText))
	}

	message := tgbotapi.NewMessage(chatID, normalizedText)

	// See https://core.telegram.org/bots/api#markdownv2-style.
	message.ParseMode = tgbotapi.ModeMarkdownV2
	message.DisableWebPagePreview = true

	_, err := b.rateLimiter.Send(ctx, message)
	if err == nil || fallback == "" {
		return err
	}

	b.log.WarnContext(ctx, "Failed to send MarkdownV2 message, retrying as plain text",
		"error", err,
		"chatID", chatID)

	if plainErr := b.sendPlain(ctx, chatID, fallback); plainErr != nil {
		return errors.Join(err, fmt.Errorf("send plain message: %w", plainErr))
	}

	return nil
}

// sendSummary converts a markdown summary and sends it in as many messages
// as needed. Every chunk carries its plain rendering as fallback.
func (b *Bot) sendSummary(ctx context.Context, chatID int64, summary string) error {
	chunks := summaryChunks(summary, telegramMessageMaxLength)
	if len(chunks) == 0 {
		chunks = []chunk{{plain: summary}}
	}

	var errs []error
	for i, c := range chunks {
		var err error
		if c.markdown == "" {
			err = b.sendPlain(ctx, chatID, c.plain)
		} else {
			err = b.sendMessage(ctx, chatID, c.markdown, c.plain)
		}

		if err != nil {
			errs = append(errs, fmt.Errorf("send summary part %d: %w", i+1, err))
		}
	}

	return errors.Join(errs...)
}

func (b *Bot) sendPlain(ctx context.Context, chatID int64, text string) error {
	message := tgbotapi.NewMessage(chatID, strings.ToValidUTF8(text, "?"))
	message.DisableWebPagePreview = true

	_, err := b.rateLimiter.Send(ctx, message)
	return err
}

func (b *Bot) deleteMessage(ctx context.Context, chatID int64, messageID int) {
	if _, err := b.rateLimiter.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		b.log.WarnContext(ctx, "Failed to delete message",
			"error", err,
			"chatID", chatID,
			"messageID", messageID)
	}
}
