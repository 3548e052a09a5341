// Package excel reads part numbers from xlsx workbooks and writes result sheets.
package excel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook wraps an open xlsx file
type Workbook struct {
	file *excelize.File
	path string
}

// Open opens a workbook for reading
func Open(path string) (*Workbook, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return &Workbook{file: file, path: path}, nil
}

// Close releases the underlying file
func (w *Workbook) Close() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close workbook %s: %w", w.path, err)
	}
	return nil
}

// Sheets returns the sheet names in workbook order
func (w *Workbook) Sheets() []string {
	return w.file.GetSheetList()
}

// Sheet is a loaded sheet: the header row plus the data rows below it
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Sheet loads the named sheet. The first row is treated as the header.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	found := false
	for _, sheet := range w.Sheets() {
		if sheet == name {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("sheet %q not found in %s", name, w.path)
	}

	rows, err := w.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return &Sheet{Name: name}, nil
	}

	return &Sheet{
		Name:    name,
		Columns: rows[0],
		Rows:    rows[1:],
	}, nil
}

// Column returns the index of the named column, case-insensitively
func (s *Sheet) Column(name string) (int, bool) {
	for i, column := range s.Columns {
		if strings.EqualFold(strings.TrimSpace(column), strings.TrimSpace(name)) {
			return i, true
		}
	}
	return 0, false
}

// Cell returns the value at row/column, tolerating short rows
func (s *Sheet) Cell(row, column int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	cells := s.Rows[row]
	if column < 0 || column >= len(cells) {
		return ""
	}
	return cells[column]
}

// ErrNoPartColumn is returned when no header matches a known part-number pattern
var ErrNoPartColumn = errors.New("no part number column found")

// PartColumn finds the part-number column by header. The patterns cover the
// spreadsheets this tool sees in practice, including Korean BOM headers.
func (s *Sheet) PartColumn() (int, error) {
	patterns := []func(string) bool{
		func(col string) bool {
			lower := strings.ToLower(col)
			return strings.Contains(lower, "part") && strings.Contains(lower, "number")
		},
		func(col string) bool { return strings.Contains(col, "파트") && strings.Contains(col, "넘버") },
		func(col string) bool { return strings.Contains(col, "파트") && strings.Contains(col, "번호") },
		func(col string) bool { return collapse(col) == "partnumber" },
		func(col string) bool { return strings.EqualFold(col, "part") },
		func(col string) bool { return strings.EqualFold(col, "partno") },
		func(col string) bool { return strings.EqualFold(col, "part_no") },
		func(col string) bool {
			return strings.EqualFold(col, "number") && !strings.Contains(strings.ToLower(col), "part")
		},
	}

	for _, pattern := range patterns {
		for i, column := range s.Columns {
			if pattern(strings.TrimSpace(column)) {
				return i, nil
			}
		}
	}
	return 0, ErrNoPartColumn
}

func collapse(col string) string {
	lower := strings.ToLower(col)
	lower = strings.ReplaceAll(lower, " ", "")
	return strings.ReplaceAll(lower, "_", "")
}
