package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"websummarizer/internal/api"
	"websummarizer/internal/bot"
	"websummarizer/internal/config"
	"websummarizer/internal/database"
	"websummarizer/internal/page"
	"websummarizer/internal/presenter"
	"websummarizer/internal/scheduler"
	"websummarizer/internal/summarizer"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	start := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)

		return
	}

	for _, problem := range config.CheckOpenAIKey(cfg.OpenAIAPIKey) {
		log.WarnContext(ctx, "OPENAI_API_KEY looks wrong",
			"problem", problem,
			"backend", cfg.Backend)
	}

	db, err := database.New(ctx, cfg.DBPath, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize db",
			"error", err,
			"dbPath", cfg.DBPath)

		return
	}
	defer func() {
		if err = db.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close db",
				"error", err,
				"dbPath", cfg.DBPath)
		}
	}()
	log.InfoContext(ctx, "DB is initialized",
		"dbPath", cfg.DBPath)

	backend, err := initSummarizer(cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize summarizer",
			"error", err,
			"backend", cfg.Backend)

		return
	}
	log.InfoContext(ctx, "Summarizer is initialized",
		"backend", cfg.Backend)

	p := presenter.New(initFetcher(cfg, log), backend, presenter.Options{
		Validator: summarizer.NewOpenAISummarizer(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel),
		CacheSize: cfg.SummaryCacheSize,
		CacheTTL:  cfg.SummaryCacheTTL,
	}, log)
	log.InfoContext(ctx, "Presenter is initialized",
		"fetchMode", cfg.FetchMode,
		"cacheSize", cfg.SummaryCacheSize,
		"cacheTTL", cfg.SummaryCacheTTL)

	sched := scheduler.New(ctx, db, cfg.HistoryRetention, log)

	if err = sched.Start(); err != nil {
		log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", scheduler.PruneHistorySpec,
			"timezone", scheduler.Timezone)

		return
	}
	defer sched.Stop()
	log.InfoContext(ctx, "Scheduler is started",
		"spec", scheduler.PruneHistorySpec,
		"timezone", scheduler.Timezone,
		"retention", cfg.HistoryRetention)

	var wg sync.WaitGroup

	var botInst *bot.Bot
	if cfg.Token != "" {
		botInst, err = bot.New(cfg.Token, p, db, cfg.AllowedUsers, log)
		if err != nil {
			log.ErrorContext(ctx, "Failed to initialize bot",
				"error", err,
				"allowedUsersCount", len(cfg.AllowedUsers))

			return
		}

		wg.Go(func() {
			botInst.Start(ctx)
		})
		log.InfoContext(ctx, "Bot is started",
			"allowedUsersCount", len(cfg.AllowedUsers),
			"updateTimeoutSeconds", bot.BotUpdateTimeout)
	}

	if cfg.HTTPAddr != "" {
		server := api.New(cfg.HTTPAddr, p, log)

		wg.Go(func() {
			if serveErr := server.Start(ctx); serveErr != nil {
				log.ErrorContext(ctx, "HTTP server is stopped with error",
					"error", serveErr,
					"addr", cfg.HTTPAddr)

				cancel()
			}
		})
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-c:
		log.InfoContext(ctx, "Shutdown signal is received",
			"signal", sig.String())
	case <-ctx.Done():
	}
	cancel()

	if botInst != nil {
		botInst.Stop()
	}

	wg.Wait()

	log.InfoContext(ctx, "Exiting...",
		"uptimeSeconds", time.Since(start).Seconds())
}

func initFetcher(cfg config.Config, log *slog.Logger) page.Fetcher {
	if cfg.FetchMode == config.FetchRendered {
		return page.NewRenderedFetcher(
			page.NewChromeBrowser(cfg.ChromePath),
			page.RenderWait{
				Selector: cfg.RenderWaitSelector,
				Settle:   cfg.RenderSettle,
				Timeout:  cfg.RenderTimeout,
			},
			log,
		)
	}

	return page.NewStaticFetcher(cfg.FetchTimeout, log)
}

func initSummarizer(cfg config.Config, log *slog.Logger) (summarizer.Summarizer, error) {
	switch cfg.Backend {
	case config.BackendOpenAI:
		return summarizer.NewOpenAISummarizer(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil

	case config.BackendOllama:
		return summarizer.NewOllamaSummarizer(cfg.OllamaURL, cfg.OllamaModel, log), nil

	case config.BackendLocal:
		tokenizer, err := summarizer.NewTiktokenTokenizer(cfg.LocalEncoding)
		if err != nil {
			return nil, fmt.Errorf("new tiktoken tokenizer: %w", err)
		}

		return summarizer.NewLocalSummarizer(tokenizer, summarizer.LeadGenerator{}, cfg.LocalMaxTokens), nil

	default:
		return nil, errors.New("unknown backend " + cfg.Backend)
	}
}
