package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"websummarizer/internal/domain"

	"github.com/google/uuid"
)

const DefaultHistoryLimit = 10

// AddSummary stores a successful summary and returns it with ID and
// CreatedAt filled in when they were empty.
func (d *Database) AddSummary(ctx context.Context, s domain.Summary) (domain.Summary, error) {
	s.URL = strings.TrimSpace(s.URL)
	if s.URL == "" {
		return domain.Summary{}, errors.New("summary URL is empty")
	}

	if strings.TrimSpace(s.Text) == "" {
		return domain.Summary{}, errors.New("summary text is empty")
	}

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.CreatedAt = s.CreatedAt.UTC()

	query := "insert into summaries (id, user_id, url, title, summary, created_at) values (?, ?, ?, ?, ?, ?)"

	if _, err := d.db.ExecContext(ctx, query, s.ID, s.UserID, s.URL, s.Title, s.Text, s.CreatedAt); err != nil {
		return domain.Summary{}, fmt.Errorf("execute query: %w", err)
	}

	return s, nil
}

// GetUserSummaries returns the newest summaries of a user first.
func (d *Database) GetUserSummaries(ctx context.Context, userID int64, limit int) ([]domain.Summary, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := "select id, user_id, url, title, summary, created_at from summaries " +
		"where user_id = ? order by created_at desc, id limit ?"

	rows, err := d.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			d.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"userID", userID,
				"operation", "GetUserSummaries")
		}
	}()

	var summaries []domain.Summary
	for rows.Next() {
		var s domain.Summary
		if err = rows.Scan(&s.ID, &s.UserID, &s.URL, &s.Title, &s.Text, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return summaries, nil
}

// DeleteSummariesBefore removes history older than cutoff and returns how
// many rows were deleted.
func (d *Database) DeleteSummariesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := "delete from summaries where created_at < ?"

	res, err := d.db.ExecContext(ctx, query, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("execute query: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return n, nil
}
