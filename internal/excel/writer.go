package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"partdex/internal/parts"
)

// ResultRow pairs a resolved part with the row it came from in the source sheet
type ResultRow struct {
	Part parts.Part
	Row  int
}

const resultsSheet = "Results"

var resultsHeader = []any{
	"Row", "Part Number", "Manufacturer", "Mounting Type", "Description",
	"Quantity Available", "Unit Price", "Product URL", "Datasheet URL", "Source", "Error",
}

// WriteResults writes lookup results to a new workbook at path
func WriteResults(path string, rows []ResultRow) error {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if err := file.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("failed to name results sheet: %w", err)
	}

	if err := file.SetSheetRow(resultsSheet, "A1", &resultsHeader); err != nil {
		return fmt.Errorf("failed to write results header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell for row %d: %w", i, err)
		}
		values := []any{
			row.Row,
			row.Part.PartNumber,
			row.Part.Manufacturer,
			row.Part.MountingType,
			row.Part.Description,
			row.Part.QuantityAvailable,
			row.Part.UnitPrice,
			row.Part.ProductURL,
			row.Part.DatasheetURL,
			string(row.Part.Source),
			row.Part.Err,
		}
		if err := file.SetSheetRow(resultsSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write result row %d: %w", i, err)
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save results workbook %s: %w", path, err)
	}
	return nil
}
