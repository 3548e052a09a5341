package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"

	"partdex/internal/parts"
)

// RenderStats prints cache and API usage counters
func (a *App) RenderStats(ctx context.Context) error {
	stats, err := a.store.Stats(ctx)
	if err != nil {
		return err
	}

	remaining := a.cfg.DailyLimit - stats.CallsToday
	if remaining < 0 {
		remaining = 0
	}

	fmt.Fprintf(a.out, "Cached parts:    %d\n", stats.TotalParts)
	fmt.Fprintf(a.out, "Manufacturers:   %d\n", stats.Manufacturers)
	fmt.Fprintf(a.out, "Mounting types:  %d\n", stats.MountingTypes)
	fmt.Fprintf(a.out, "Failed lookups:  %d\n", stats.FailedLookups)
	fmt.Fprintf(a.out, "API calls today: %d (%d remaining of %d)\n",
		stats.CallsToday, remaining, a.cfg.DailyLimit)
	return nil
}

// RenderHistory prints the daily API call counters, newest first
func (a *App) RenderHistory(ctx context.Context, days int) error {
	history, err := a.store.CallHistory(ctx, days)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Fprintln(a.out, "no API calls recorded")
		return nil
	}
	for _, day := range history {
		fmt.Fprintf(a.out, "%s  %d\n", day.Date, day.Count)
	}
	return nil
}

// RenderParts prints cached parts as an aligned table
func (a *App) RenderParts(records []parts.Part) error {
	if len(records) == 0 {
		fmt.Fprintln(a.out, "no parts cached")
		return nil
	}

	writer := tabwriter.NewWriter(a.out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "PART NUMBER\tMANUFACTURER\tMOUNTING\tPRICE\tQTY")
	for _, record := range records {
		price := ""
		if record.UnitPrice > 0 {
			price = fmt.Sprintf("%.4f", record.UnitPrice)
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d\n",
			record.PartNumber,
			record.Manufacturer,
			record.MountingType,
			price,
			record.QuantityAvailable)
	}
	return writer.Flush()
}

// RenderPart prints one part record in full
func (a *App) RenderPart(part *parts.Part) {
	name := color.CyanString(part.PartNumber)
	if part.Failed() {
		name = color.RedString(part.PartNumber)
	}
	fmt.Fprintf(a.out, "Part number:  %s\n", name)
	fmt.Fprintf(a.out, "Manufacturer: %s\n", part.Manufacturer)
	fmt.Fprintf(a.out, "Mounting:     %s\n", part.MountingType)
	fmt.Fprintf(a.out, "Description:  %s\n", part.Description)
	if part.UnitPrice > 0 {
		fmt.Fprintf(a.out, "Unit price:   %.4f\n", part.UnitPrice)
	}
	if part.QuantityAvailable > 0 {
		fmt.Fprintf(a.out, "Available:    %d\n", part.QuantityAvailable)
	}
	if part.ProductURL != "" {
		fmt.Fprintf(a.out, "Product:      %s\n", part.ProductURL)
	}
	if part.DatasheetURL != "" {
		fmt.Fprintf(a.out, "Datasheet:    %s\n", part.DatasheetURL)
	}
	if part.Err != "" {
		fmt.Fprintf(a.out, "Error:        %s\n", part.Err)
	}
	if !part.UpdatedAt.IsZero() {
		fmt.Fprintf(a.out, "Updated:      %s\n", part.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
}
