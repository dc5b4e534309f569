package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"websummarizer/internal/presenter"

	"github.com/gin-gonic/gin"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Summarizer is the presenter seen from the HTTP front-end.
type Summarizer interface {
	Summarize(ctx context.Context, rawURL string) (presenter.Result, error)
	ValidateCredential(ctx context.Context, apiKey string) bool
}

type Server struct {
	server *http.Server
	log    *slog.Logger
}

func NewRouter(s Summarizer, log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(requestID(), requestLogger(log), gin.Recovery())

	r.GET("/healthz", healthHandler)

	group := r.Group("/api")
	{
		group.POST("/summaries", summariesHandler(s))
		group.POST("/credentials/validate", validateCredentialHandler(s))
	}

	return r
}

func New(addr string, s Summarizer, log *slog.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(s, log),
			ReadHeaderTimeout: readHeaderTimeout,
		},
		log: log,
	}
}

// Start serves until ctx is done, then shuts the server down.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.InfoContext(ctx, "HTTP server is listening",
			"addr", s.server.Addr)

		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen and serve: %w", err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}

		return nil
	}
}
