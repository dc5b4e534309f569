package page

import (
	"context"
	"errors"
	"fmt"

	"github.com/chromedp/chromedp"
)

// ChromeBrowser starts a fresh headless Chrome per session with a temporary
// profile that is removed when the session closes.
type ChromeBrowser struct {
	execPath string
	opts     []chromedp.ExecAllocatorOption
}

// chromeFlags are the command line flags added to chromedp's defaults. No
// user-data-dir is set, so every session gets a throwaway profile.
func chromeFlags() map[string]any {
	return map[string]any{
		"no-sandbox":            true,
		"disable-dev-shm-usage": true,
		"user-agent":            userAgent,
	}
}

func NewChromeBrowser(execPath string) *ChromeBrowser {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	for name, value := range chromeFlags() {
		opts = append(opts, chromedp.Flag(name, value))
	}
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	return &ChromeBrowser{execPath: execPath, opts: opts}
}

func (b *ChromeBrowser) Open(ctx context.Context) (Session, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, b.opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// An empty run starts the browser so that launch failures surface here.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()

		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &chromeSession{
		ctx:           browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}, nil
}

type chromeSession struct {
	ctx           context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

func (s *chromeSession) Navigate(pageURL string) error {
	return chromedp.Run(s.ctx, chromedp.Navigate(pageURL))
}

func (s *chromeSession) WaitReady(selector string) error {
	return chromedp.Run(s.ctx, chromedp.WaitReady(selector, chromedp.ByQuery))
}

func (s *chromeSession) OuterHTML() (string, error) {
	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}

	return html, nil
}

func (s *chromeSession) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancelBrowser()
	s.cancelAlloc()

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}

	return err
}
