package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"partdex/internal/excel"
)

// createSheetsCommand creates the sheets command.
func createSheetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets <file.xlsx>",
		Short: "List the sheets in a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workbook, err := excel.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = workbook.Close() }()

			for _, name := range workbook.Sheets() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return fmt.Errorf("failed to print sheet name: %w", err)
				}
			}
			return nil
		},
	}
}
