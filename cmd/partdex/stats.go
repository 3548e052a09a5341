package main

import (
	"github.com/spf13/cobra"
)

// createStatsCommand creates the stats command.
func createStatsCommand() *cobra.Command {
	var history int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache and API usage statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, app, err := createAppFromCommand(cmd, nil)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			if history > 0 {
				return app.RenderHistory(ctx, history)
			}
			return app.RenderStats(ctx)
		},
	}

	cmd.Flags().IntVar(&history, "history", 0, "Show daily API call counts for the last N days")
	return cmd
}
