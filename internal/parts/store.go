package parts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Store persists part records and API call counts
type Store struct {
	db *sql.DB
}

// NewStore creates a store over an initialized parts database
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get returns the cached record for a part number, or nil when absent.
// Returned records are marked as cache hits.
func (s *Store) Get(ctx context.Context, partNumber string) (*Part, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT part_number, manufacturer, mounting_type, description,
		       product_url, datasheet_url, quantity_available, unit_price,
		       created_at, updated_at
		FROM parts
		WHERE part_number = ?`, strings.TrimSpace(partNumber))

	part, err := scanPart(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query part %s: %w", partNumber, err)
	}

	part.Source = SourceCache
	return part, nil
}

// Save upserts a part record. created_at of an existing row is preserved,
// updated_at always refreshes.
func (s *Store) Save(ctx context.Context, part *Part) error {
	if part == nil || strings.TrimSpace(part.PartNumber) == "" {
		return errors.New("part number is required")
	}

	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO parts (
			part_number, manufacturer, mounting_type, description,
			product_url, datasheet_url, quantity_available, unit_price,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(part_number) DO UPDATE SET
			manufacturer = excluded.manufacturer,
			mounting_type = excluded.mounting_type,
			description = excluded.description,
			product_url = excluded.product_url,
			datasheet_url = excluded.datasheet_url,
			quantity_available = excluded.quantity_available,
			unit_price = excluded.unit_price,
			updated_at = excluded.updated_at`,
		strings.TrimSpace(part.PartNumber),
		defaultString(part.Manufacturer, "N/A"),
		defaultString(part.MountingType, "N/A"),
		defaultString(part.Description, "N/A"),
		part.ProductURL,
		part.DatasheetURL,
		part.QuantityAvailable,
		part.UnitPrice,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to save part %s: %w", part.PartNumber, err)
	}
	return nil
}

// List returns all cached records ordered by part number. When failedOnly is
// set, only failed lookups are returned.
func (s *Store) List(ctx context.Context, failedOnly bool) ([]Part, error) {
	query := `
		SELECT part_number, manufacturer, mounting_type, description,
		       product_url, datasheet_url, quantity_available, unit_price,
		       created_at, updated_at
		FROM parts`
	args := []any{}
	if failedOnly {
		query += " WHERE manufacturer IN (?, ?)"
		args = append(args, NoMatch, APIError)
	}
	query += " ORDER BY part_number"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []Part
	for rows.Next() {
		part, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan part row: %w", err)
		}
		part.Source = SourceCache
		result = append(result, *part)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate parts: %w", err)
	}
	return result, nil
}

// Stats summarizes the cache contents
type Stats struct {
	TotalParts    int
	Manufacturers int
	MountingTypes int
	FailedLookups int
	CallsToday    int
}

// Stats returns cache totals plus today's API call count
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	queries := []struct {
		dest  *int
		query string
		args  []any
	}{
		{&stats.TotalParts, "SELECT COUNT(*) FROM parts", nil},
		{&stats.Manufacturers, "SELECT COUNT(DISTINCT manufacturer) FROM parts", nil},
		{&stats.MountingTypes, "SELECT COUNT(DISTINCT mounting_type) FROM parts WHERE mounting_type != 'N/A'", nil},
		{&stats.FailedLookups, "SELECT COUNT(*) FROM parts WHERE manufacturer IN (?, ?)", []any{NoMatch, APIError}},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query, q.args...).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("failed to query stats: %w", err)
		}
	}

	callsToday, err := s.CallsToday(ctx)
	if err != nil {
		return nil, err
	}
	stats.CallsToday = callsToday

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPart(row rowScanner) (*Part, error) {
	var part Part
	var createdAt, updatedAt int64
	err := row.Scan(
		&part.PartNumber, &part.Manufacturer, &part.MountingType, &part.Description,
		&part.ProductURL, &part.DatasheetURL, &part.QuantityAvailable, &part.UnitPrice,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	part.CreatedAt = time.Unix(createdAt, 0)
	part.UpdatedAt = time.Unix(updatedAt, 0)
	return &part, nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
