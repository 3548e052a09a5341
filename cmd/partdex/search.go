package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"partdex/internal/prompt"
)

// createSearchCommand creates the search command for ad-hoc lookups.
func createSearchCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "search <part-number>...",
		Short: "Look up one or more part numbers",
		Args:  cobra.MinimumNArgs(1),
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

			for i, partNumber := range args {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				outcome, err := app.Lookup(ctx, partNumber)
				if err != nil {
					return err
				}
				app.RenderPart(outcome.Part)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"Prompt to pick from similar parts when a lookup fails")

	return cmd
}
