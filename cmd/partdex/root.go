package main

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"partdex/internal/cli"
	"partdex/internal/logging"
	"partdex/internal/prompt"
)

// createNewRootCommand creates the main root command that shows help by default.
func createNewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "partdex",
		Short: "DigiKey part lookup with a local cache",
		Long: "partdex resolves electronic part numbers against the DigiKey API,\n" +
			"caches every outcome in a local SQLite database and tracks daily\n" +
			"API usage. Part numbers come from the command line or from xlsx\n" +
			"spreadsheets.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (defaults to the XDG config directory)")

	rootCmd.AddCommand(
		createSheetsCommand(),
		createLookupCommand(),
		createSearchCommand(),
		createPartsCommand(),
		createStatsCommand(),
		createConfigCommand(),
	)

	return rootCmd
}

// createAppFromCommand builds the app from the persistent config flag and
// attaches a file logger at the configured level
func createAppFromCommand(cmd *cobra.Command, prompter prompt.Prompter) (context.Context, *cli.App, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	app, err := cli.NewApp(cmd.Context(), cli.Options{
		Out:        cmd.OutOrStdout(),
		ConfigPath: configPath,
		Prompter:   prompter,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create app: %w", err)
	}

	ctx, err := logging.New(cmd.Context(), afero.NewOsFs(), logging.Config{
		Level: logging.ParseLevel(app.Config().Logging.Level),
	})
	if err != nil {
		_ = app.Close()
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	return ctx, app, nil
}
