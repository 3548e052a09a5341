package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"partdex/internal/digikey"
	"partdex/internal/excel"
	"partdex/internal/logging"
	"partdex/internal/parts"
)

// BatchOptions selects what to read from a workbook
type BatchOptions struct {
	Path   string
	Sheet  string
	Column string
	// StartRow is the first data row to process, 1-based
	StartRow int
	// Output, when set, receives an xlsx results sheet
	Output string
}

// RowResult pairs a resolved part with its source row
type RowResult struct {
	Part      *parts.Part
	Row       int
	FromCache bool
}

// BatchSummary reports what a sheet run did
type BatchSummary struct {
	Results   []RowResult
	CacheHits int
	APICalls  int
	Skipped   int
	// RateLimited is set when the run stopped early on a 429
	RateLimited *digikey.RateLimitError
}

// Failed counts results that resolved to a failure record
func (s *BatchSummary) Failed() int {
	failed := 0
	for _, result := range s.Results {
		if result.Part.Failed() {
			failed++
		}
	}
	return failed
}

// RunSheet looks up every part number in one workbook column. Blank
// cells are skipped. A rate limit stops the run cleanly with the rows
// processed so far; every other lookup error aborts.
func (a *App) RunSheet(ctx context.Context, opts BatchOptions) (*BatchSummary, error) {
	logger := logging.Get(ctx)

	workbook, err := excel.Open(opts.Path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := workbook.Close(); closeErr != nil {
			logger.Warn().Err(closeErr).Msg("failed to close workbook")
		}
	}()

	sheetName := opts.Sheet
	if sheetName == "" {
		names := workbook.Sheets()
		if len(names) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheetName = names[0]
	}
	sheet, err := workbook.Sheet(sheetName)
	if err != nil {
		return nil, err
	}

	var column int
	if opts.Column != "" {
		index, ok := sheet.Column(opts.Column)
		if !ok {
			return nil, fmt.Errorf("sheet %q has no column %q", sheetName, opts.Column)
		}
		column = index
	} else {
		column, err = sheet.PartColumn()
		if err != nil {
			return nil, err
		}
	}

	start := opts.StartRow
	if start < 1 {
		start = 1
	}

	summary := &BatchSummary{}
	rows := collectRows(sheet, column, start, &summary.Skipped)

	for i, row := range rows {
		outcome, err := a.Lookup(ctx, row.partNumber)
		if err != nil {
			var rateLimit *digikey.RateLimitError
			if errors.As(err, &rateLimit) {
				summary.RateLimited = rateLimit
				fmt.Fprintf(a.out, "%s daily API limit reached, retry after %s\n",
					color.RedString("stopped:"), rateLimit.RetryAfter)
				break
			}
			return nil, fmt.Errorf("row %d (%s): %w", row.index, row.partNumber, err)
		}

		summary.APICalls += outcome.APICalls
		if outcome.FromCache {
			summary.CacheHits++
		}
		summary.Results = append(summary.Results, RowResult{
			Part:      outcome.Part,
			Row:       row.index,
			FromCache: outcome.FromCache,
		})

		a.printProgress(i+1, len(rows), outcome)
	}

	if opts.Output != "" && len(summary.Results) > 0 {
		resultRows := make([]excel.ResultRow, 0, len(summary.Results))
		for _, result := range summary.Results {
			resultRows = append(resultRows, excel.ResultRow{
				Part: *result.Part,
				Row:  result.Row,
			})
		}
		if err := excel.WriteResults(opts.Output, resultRows); err != nil {
			return nil, err
		}
		fmt.Fprintf(a.out, "results written to %s\n", opts.Output)
	}

	a.printSummary(ctx, summary)
	return summary, nil
}

// ExportParts writes the cached parts to an xlsx results sheet
func (a *App) ExportParts(ctx context.Context, path string, failedOnly bool) (int, error) {
	records, err := a.store.List(ctx, failedOnly)
	if err != nil {
		return 0, err
	}
	rows := make([]excel.ResultRow, 0, len(records))
	for i, record := range records {
		rows = append(rows, excel.ResultRow{Part: record, Row: i + 1})
	}
	if err := excel.WriteResults(path, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

type sheetRow struct {
	partNumber string
	index      int
}

// collectRows gathers the non-blank part numbers from a column
func collectRows(sheet *excel.Sheet, column, start int, skipped *int) []sheetRow {
	var rows []sheetRow
	for i := start - 1; i < len(sheet.Rows); i++ {
		value := strings.TrimSpace(sheet.Cell(i, column))
		if value == "" {
			*skipped++
			continue
		}
		rows = append(rows, sheetRow{partNumber: value, index: i + 1})
	}
	return rows
}

func (a *App) printProgress(done, total int, outcome *Outcome) {
	part := outcome.Part
	status := color.GreenString(part.Manufacturer)
	if part.Failed() {
		status = color.RedString(part.Manufacturer)
	}
	source := "api"
	if outcome.FromCache {
		source = "cache"
	}
	fmt.Fprintf(a.out, "[%d/%d] %s  %s (%s)\n", done, total, part.PartNumber, status, source)
}

func (a *App) printSummary(ctx context.Context, summary *BatchSummary) {
	fmt.Fprintf(a.out, "\n%d parts processed: %d from cache, %d API calls, %d failed\n",
		len(summary.Results), summary.CacheHits, summary.APICalls, summary.Failed())

	callsToday, err := a.store.CallsToday(ctx)
	if err != nil {
		logging.Get(ctx).Warn().Err(err).Msg("failed to read call counter")
		return
	}
	remaining := a.cfg.DailyLimit - callsToday
	if remaining < 0 {
		remaining = 0
	}
	fmt.Fprintf(a.out, "API calls today: %d (%d remaining of %d)\n",
		callsToday, remaining, a.cfg.DailyLimit)
}
