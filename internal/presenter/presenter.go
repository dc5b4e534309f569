package presenter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"websummarizer/internal/domain"
	"websummarizer/internal/page"
	"websummarizer/internal/prompt"
	"websummarizer/internal/summarizer"
)

// NothingToShow is returned in place of a summary on every failure.
const NothingToShow = "Nothing to Show"

// CredentialValidator checks a backend credential with a trivial call.
type CredentialValidator interface {
	ValidateKey(ctx context.Context, apiKey string) error
}

// Result is the outcome of one summarization. Payload is always displayable:
// the rendered summary on success, NothingToShow otherwise.
type Result struct {
	URL     string
	Title   string
	Payload string
	Cached  bool
}

type Options struct {
	Validator   CredentialValidator
	CacheSize   int
	CacheTTL    time.Duration
	Now         func() time.Time
	ExtractPage func(pageURL string, raw []byte) (domain.Page, error)
}

// Presenter validates the URL, runs fetch, extract, prompt and summarize,
// and collapses every failure into the same user-facing outcome.
type Presenter struct {
	fetcher    page.Fetcher
	summarizer summarizer.Summarizer
	validator  CredentialValidator
	cache      *summaryCache
	now        func() time.Time
	extract    func(pageURL string, raw []byte) (domain.Page, error)
	log        *slog.Logger
}

func New(
	fetcher page.Fetcher,
	s summarizer.Summarizer,
	opts Options,
	log *slog.Logger,
) *Presenter {
	p := &Presenter{
		fetcher:    fetcher,
		summarizer: s,
		validator:  opts.Validator,
		cache:      newSummaryCache(opts.CacheSize, opts.CacheTTL),
		now:        opts.Now,
		extract:    opts.ExtractPage,
		log:        log,
	}

	if p.now == nil {
		p.now = time.Now
	}
	if p.extract == nil {
		p.extract = page.Extract
	}

	return p
}

// Warning is the message shown to users whenever NothingToShow is returned.
func Warning(rawURL string) string {
	return fmt.Sprintf("url:  %s\n is not valid.", rawURL)
}

// Render is the (url) -> payload entry point.
func (p *Presenter) Render(ctx context.Context, rawURL string) string {
	res, _ := p.Summarize(ctx, rawURL)

	return res.Payload
}

// Summarize runs the pipeline for rawURL. On failure the returned error is
// an *Error and Result.Payload is NothingToShow.
func (p *Presenter) Summarize(ctx context.Context, rawURL string) (Result, error) {
	res, err := p.run(ctx, rawURL)
	if err != nil {
		p.log.WarnContext(ctx, "Failed to summarize page",
			"error", err,
			"url", rawURL,
			"kind", KindOf(err).String(),
			"warning", Warning(rawURL))

		return Result{URL: rawURL, Payload: NothingToShow}, err
	}

	p.log.InfoContext(ctx, "Page is summarized",
		"url", rawURL,
		"title", res.Title,
		"cached", res.Cached,
		"payloadLen", len(res.Payload))

	return res, nil
}

func (p *Presenter) run(ctx context.Context, rawURL string) (res Result, err error) {
	if !page.IsValidURL(rawURL) {
		return Result{}, &Error{Kind: KindInvalidURL, URL: rawURL}
	}

	target := page.TrimLineEnd(rawURL)

	stage := KindFetch
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Kind: stage, URL: rawURL, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	raw, err := p.fetcher.Fetch(ctx, target)
	if err != nil {
		return Result{}, &Error{Kind: KindFetch, URL: rawURL, Err: err}
	}

	stage = KindExtract

	doc, err := p.extract(target, raw)
	if err != nil {
		return Result{}, &Error{Kind: KindExtract, URL: rawURL, Err: err}
	}

	stage = KindBackend

	messages := prompt.Build(doc)
	cacheKey := summaryCacheKey(target, lastContent(messages))

	if entry, ok := p.cache.get(cacheKey, p.now()); ok {
		return Result{URL: target, Title: entry.title, Payload: entry.payload, Cached: true}, nil
	}

	completion, err := p.summarizer.Summarize(ctx, messages)
	if err != nil {
		return Result{}, &Error{Kind: KindBackend, URL: rawURL, Err: err}
	}

	payload := Render(completion)
	if payload == "" {
		return Result{}, &Error{Kind: KindEmptyResult, URL: rawURL, Err: errors.New("completion is empty")}
	}

	p.cache.set(cacheKey, doc.Title, payload, p.now())

	return Result{URL: target, Title: doc.Title, Payload: payload}, nil
}

// ValidateCredential is the (credential) -> bool entry point.
func (p *Presenter) ValidateCredential(ctx context.Context, apiKey string) bool {
	if p.validator == nil {
		return false
	}

	if err := p.validator.ValidateKey(ctx, apiKey); err != nil {
		p.log.InfoContext(ctx, "Credential is rejected",
			"error", err)

		return false
	}

	return true
}

func lastContent(messages []domain.Message) string {
	if len(messages) == 0 {
		return ""
	}

	return messages[len(messages)-1].Content
}
