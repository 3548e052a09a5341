// Package parts defines the part record and its SQLite-backed store.
package parts

import (
	"strings"
	"time"
)

// Source describes where a lookup result came from
type Source string

const (
	SourceAPI   Source = "api"
	SourceCache Source = "cache"
)

// Manufacturer sentinels recorded for failed lookups. Failures are cached
// like successes so a known miss never spends another API call.
const (
	NoMatch  = "no match"
	APIError = "api error"
)

// Part is a resolved part number record
type Part struct {
	CreatedAt         time.Time
	UpdatedAt         time.Time
	PartNumber        string
	Manufacturer      string
	MountingType      string
	Description       string
	ProductURL        string
	DatasheetURL      string
	Err               string
	Source            Source
	QuantityAvailable int
	UnitPrice         float64
}

// Failed reports whether the record represents a lookup that found nothing
// or errored
func (p *Part) Failed() bool {
	if p == nil {
		return true
	}
	return p.Err != "" || p.Manufacturer == NoMatch || p.Manufacturer == APIError
}

// NotFound returns the sentinel record stored for a part number the API
// could not match
func NotFound(partNumber string) *Part {
	return &Part{
		PartNumber:   partNumber,
		Manufacturer: NoMatch,
		MountingType: "N/A",
		Description:  "part number not found",
	}
}

// Failure returns the sentinel record stored when the API call itself failed
func Failure(partNumber string, err error) *Part {
	p := &Part{
		PartNumber:   partNumber,
		Manufacturer: APIError,
		MountingType: "N/A",
	}
	if err != nil {
		p.Err = err.Error()
	}
	return p
}

// Normalize cleans a part number read from a spreadsheet cell: surrounding
// whitespace plus embedded newlines and tabs. Interior spaces are kept, some
// part numbers legitimately contain them.
func Normalize(partNumber string) string {
	cleaned := strings.TrimSpace(partNumber)
	replacer := strings.NewReplacer("\n", "", "\r", "", "\t", "")
	return replacer.Replace(cleaned)
}
