package page_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"websummarizer/internal/page"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticFetcherReturnsBody(t *testing.T) {
	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html><title>ok</title></html>"))
	}))
	defer srv.Close()

	f := page.NewStaticFetcher(5*time.Second, slog.Default())

	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "<html><title>ok</title></html>", string(body))
	assert.Contains(t, gotUserAgent, "Mozilla/5.0")
}

func TestStaticFetcherTreatsErrorStatusAsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("<html><title>Not Found</title></html>"))
	}))
	defer srv.Close()

	f := page.NewStaticFetcher(5*time.Second, slog.Default())

	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, string(body), "Not Found")
}

func TestStaticFetcherConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	f := page.NewStaticFetcher(5*time.Second, slog.Default())

	_, err := f.Fetch(context.Background(), addr)
	require.Error(t, err)
}
