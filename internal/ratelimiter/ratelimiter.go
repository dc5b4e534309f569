package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

const (
	privateChatRate = time.Second
	groupChatRate   = 3 * time.Second
)

// Sender is the part of *tgbotapi.BotAPI the limiter wraps.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// RateLimiter spaces messages per chat to stay under Telegram flood limits.
type RateLimiter struct {
	api         Sender
	mu          sync.Mutex
	limiters    map[int64]*rate.Limiter
	privateRate time.Duration
	groupRate   time.Duration
	log         *slog.Logger
}

func New(api Sender, log *slog.Logger) *RateLimiter {
	return &RateLimiter{
		api:         api,
		limiters:    make(map[int64]*rate.Limiter),
		privateRate: privateChatRate,
		groupRate:   groupChatRate,
		log:         log,
	}
}

func (rl *RateLimiter) Send(
	ctx context.Context,
	message tgbotapi.Chattable,
) (tgbotapi.Message, error) {
	chatID := getChatID(message)
	reservation := rl.limiter(chatID).Reserve()

	if delay := reservation.Delay(); delay > 0 {
		rl.log.DebugContext(ctx, "Rate limiting message",
			"chatID", chatID,
			"delay", delay,
			"chattableType", fmt.Sprintf("%T", message))

		t := time.NewTimer(delay)
		defer t.Stop()

		select {
		case <-t.C:
		case <-ctx.Done():
			reservation.Cancel()

			return tgbotapi.Message{}, ctx.Err()
		}
	}

	return rl.api.Send(message)
}

// Request is not rate limited: chat actions do not count towards limits.
func (rl *RateLimiter) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return rl.api.Request(c)
}

func (rl *RateLimiter) limiter(chatID int64) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[chatID]
	if !ok {
		l = rate.NewLimiter(rate.Every(rl.rateFor(chatID)), 1)
		rl.limiters[chatID] = l
	}

	return l
}

func (rl *RateLimiter) rateFor(chatID int64) time.Duration {
	if chatID < 0 {
		return rl.groupRate
	}
	return rl.privateRate
}

func getChatID(message tgbotapi.Chattable) int64 {
	switch m := message.(type) {
	case tgbotapi.MessageConfig:
		return m.ChatID
	case tgbotapi.EditMessageTextConfig:
		return m.ChatID
	case tgbotapi.DeleteMessageConfig:
		return m.ChatID
	case tgbotapi.ChatActionConfig:
		return m.ChatID
	default:
		return 0
	}
}
