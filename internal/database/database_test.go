package database_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"websummarizer/internal/database"
	"websummarizer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *database.Database {
	t.Helper()

	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "test.sqlite"), slog.Default())
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})

	return db
}

func TestNewIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sqlite")

	first, err := database.New(context.Background(), path, slog.Default())
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := database.New(context.Background(), path, slog.Default())
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestAddAndGetUserSummaries(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, u := range []string{"https://a.example.com", "https://b.example.com", "https://c.example.com"} {
		_, err := db.AddSummary(ctx, domain.Summary{
			UserID:    42,
			URL:       u,
			Title:     "Title",
			Text:      "summary",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	_, err := db.AddSummary(ctx, domain.Summary{UserID: 7, URL: "https://other.example.com", Text: "x"})
	require.NoError(t, err)

	got, err := db.GetUserSummaries(ctx, 42, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "https://c.example.com", got[0].URL)
	assert.Equal(t, "https://b.example.com", got[1].URL)
	assert.NotEmpty(t, got[0].ID)
	assert.True(t, got[0].CreatedAt.Equal(base.Add(2*time.Minute)))
}

func TestAddSummaryRejectsEmpty(t *testing.T) {
	db := newTestDatabase(t)

	_, err := db.AddSummary(context.Background(), domain.Summary{URL: " ", Text: "x"})
	require.Error(t, err)

	_, err = db.AddSummary(context.Background(), domain.Summary{URL: "https://example.com", Text: " "})
	require.Error(t, err)
}

func TestDeleteSummariesBefore(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := db.AddSummary(ctx, domain.Summary{UserID: 1, URL: "https://old.example.com", Text: "old", CreatedAt: now.Add(-48 * time.Hour)})
	require.NoError(t, err)
	_, err = db.AddSummary(ctx, domain.Summary{UserID: 1, URL: "https://new.example.com", Text: "new", CreatedAt: now})
	require.NoError(t, err)

	deleted, err := db.DeleteSummariesBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	got, err := db.GetUserSummaries(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://new.example.com", got[0].URL)
}
