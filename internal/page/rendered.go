package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultRenderSelector = "body"
	DefaultRenderSettle   = 3 * time.Second
	DefaultRenderTimeout  = 30 * time.Second
)

// Session is one isolated browser session. It is bound to the context it
// was opened with.
type Session interface {
	Navigate(pageURL string) error
	WaitReady(selector string) error
	OuterHTML() (string, error)
	Close() error
}

// Browser opens sessions.
type Browser interface {
	Open(ctx context.Context) (Session, error)
}

// RenderWait describes when a rendered page is considered ready: Selector
// must be present, then Settle elapses. Timeout bounds the whole fetch.
type RenderWait struct {
	Selector string
	Settle   time.Duration
	Timeout  time.Duration
}

func DefaultRenderWait() RenderWait {
	return RenderWait{
		Selector: DefaultRenderSelector,
		Settle:   DefaultRenderSettle,
		Timeout:  DefaultRenderTimeout,
	}
}

// RenderedFetcher loads pages in a real browser so that client-side content
// is present in the captured markup.
type RenderedFetcher struct {
	browser Browser
	wait    RenderWait
	log     *slog.Logger
}

func NewRenderedFetcher(browser Browser, wait RenderWait, log *slog.Logger) *RenderedFetcher {
	return &RenderedFetcher{
		browser: browser,
		wait:    wait,
		log:     log,
	}
}

func (f *RenderedFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if f.wait.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.wait.Timeout)
		defer cancel()
	}

	var markup string

	err := f.withSession(ctx, func(s Session) error {
		if err := s.Navigate(pageURL); err != nil {
			return fmt.Errorf("navigate: %w", err)
		}

		if f.wait.Selector != "" {
			if err := s.WaitReady(f.wait.Selector); err != nil {
				return fmt.Errorf("wait ready (selector = %s): %w", f.wait.Selector, err)
			}
		}

		if err := settle(ctx, f.wait.Settle); err != nil {
			return fmt.Errorf("settle: %w", err)
		}

		html, err := s.OuterHTML()
		if err != nil {
			return fmt.Errorf("capture markup: %w", err)
		}
		markup = html

		return nil
	})
	if err != nil {
		return nil, err
	}

	return []byte(markup), nil
}

// withSession opens a session, runs fn and closes the session on every path,
// panics included.
func (f *RenderedFetcher) withSession(ctx context.Context, fn func(Session) error) (err error) {
	s, err := f.browser.Open(ctx)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			f.log.ErrorContext(ctx, "Failed to close browser session",
				"error", closeErr)

			err = errors.Join(err, fmt.Errorf("close session: %w", closeErr))
		}
	}()

	return fn(s)
}

func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
