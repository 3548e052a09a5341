package parts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CallDay is one day of API call accounting
type CallDay struct {
	Date  string
	Count int
}

func callDate(now time.Time) string {
	return now.Format("2006-01-02")
}

// IncrementCalls adds one API call to today's counter
func (s *Store) IncrementCalls(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_calls (call_date, call_count)
		VALUES (?, 1)
		ON CONFLICT(call_date) DO UPDATE SET
			call_count = call_count + 1`,
		callDate(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to increment API call count: %w", err)
	}
	return nil
}

// CallsToday returns the number of API calls recorded for the current date
func (s *Store) CallsToday(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT call_count FROM api_calls WHERE call_date = ?",
		callDate(time.Now())).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query today's API call count: %w", err)
	}
	return count, nil
}

// CallHistory returns up to limit days of call counts, most recent first
func (s *Store) CallHistory(ctx context.Context, limit int) ([]CallDay, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT call_date, call_count
		FROM api_calls
		ORDER BY call_date DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query API call history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var history []CallDay
	for rows.Next() {
		var day CallDay
		if err := rows.Scan(&day.Date, &day.Count); err != nil {
			return nil, fmt.Errorf("failed to scan API call row: %w", err)
		}
		history = append(history, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate API call history: %w", err)
	}
	return history, nil
}
