package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"partdex/internal/cli"
	"partdex/internal/prompt"
)

// createLookupCommand creates the lookup command for batch sheet runs.
func createLookupCommand() *cobra.Command {
	var (
		sheet       string
		column      string
		startRow    int
		output      string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "lookup <file.xlsx>",
		Short: "Look up every part number in a spreadsheet column",
		Long: "Look up every part number in a spreadsheet column. Cached parts are\n" +
			"reused without an API call, and unresolved parts are retried with a\n" +
			"normalized part number and a similarity search.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var prompter prompt.Prompter
			if interactive {
				prompter = prompt.NewLinerPrompter()
			}

			ctx, app, err := createAppFromCommand(cmd, prompter)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			if !app.Config().Configured() {
				return fmt.Errorf("API credentials not configured, run: partdex config init")
			}

			_, err = app.RunSheet(ctx, cli.BatchOptions{
				Path:     args[0],
				Sheet:    sheet,
				Column:   column,
				StartRow: startRow,
				Output:   output,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&sheet, "sheet", "s", "", "Sheet name (defaults to the first sheet)")
	cmd.Flags().StringVar(&column, "column", "", "Part number column header (auto-detected when empty)")
	cmd.Flags().IntVar(&startRow, "start-row", 1, "First data row to process, 1-based")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write results to this xlsx file")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"Prompt to pick from similar parts when a lookup fails")

	return cmd
}
