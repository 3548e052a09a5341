package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createPartsCommand creates the parts command group for cache inspection.
func createPartsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parts",
		Short: "Inspect the local parts cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		createPartsListCommand(),
		createPartsShowCommand(),
		createPartsExportCommand(),
	)

	return cmd
}

func createPartsListCommand() *cobra.Command {
	var failed bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached parts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, app, err := createAppFromCommand(cmd, nil)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			records, err := app.Store().List(ctx, failed)
			if err != nil {
				return err
			}
			return app.RenderParts(records)
		},
	}

	cmd.Flags().BoolVar(&failed, "failed", false, "Only list failed lookups")
	return cmd
}

func createPartsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <part-number>",
		Short: "Show one cached part in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, err := createAppFromCommand(cmd, nil)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			part, err := app.Store().Get(ctx, args[0])
			if err != nil {
				return err
			}
			if part == nil {
				return fmt.Errorf("part %q is not cached", args[0])
			}
			app.RenderPart(part)
			return nil
		},
	}
}

func createPartsExportCommand() *cobra.Command {
	var failed bool

	cmd := &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Export cached parts to an xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, err := createAppFromCommand(cmd, nil)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			count, err := app.ExportParts(ctx, args[0], failed)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "exported %d parts to %s\n", count, args[0])
			return err
		},
	}

	cmd.Flags().BoolVar(&failed, "failed", false, "Only export failed lookups")
	return cmd
}
