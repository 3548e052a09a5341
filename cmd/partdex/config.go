package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"partdex/internal/config"
	"partdex/internal/storage"
)

// createConfigCommand creates the config command group.
func createConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage partdex configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		createConfigInitCommand(),
		createConfigShowCommand(),
		createConfigSetCommand(),
	)

	return cmd
}

// resolveConfigPath returns the persistent --config flag value, falling back
// to the XDG config directory
func resolveConfigPath(cmd *cobra.Command, fs afero.Fs) (string, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return "", fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return path, nil
	}
	return storage.New(fs).ConfigPath()
}

func createConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := afero.NewOsFs()
			path, err := resolveConfigPath(cmd, fs)
			if err != nil {
				return err
			}

			exists, err := afero.Exists(fs, path)
			if err != nil {
				return fmt.Errorf("failed to check config file: %w", err)
			}
			if exists {
				return fmt.Errorf("config file already exists at %s", path)
			}

			if err := config.Default().Save(fs, path); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "wrote %s\n", path)
			fmt.Fprintln(out, "set your DigiKey credentials with:")
			fmt.Fprintln(out, "  partdex config set client_id <id>")
			fmt.Fprintln(out, "  partdex config set client_secret <secret>")
			return nil
		},
	}
}

func createConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := afero.NewOsFs()
			path, err := resolveConfigPath(cmd, fs)
			if err != nil {
				return err
			}
			cfg, err := config.Load(fs, path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config file:     %s\n", path)
			fmt.Fprintf(out, "client_id:       %s\n", cfg.ClientID)
			fmt.Fprintf(out, "client_secret:   %s\n", cfg.MaskedSecret())
			fmt.Fprintf(out, "sandbox:         %t\n", cfg.Sandbox)
			fmt.Fprintf(out, "daily_limit:     %d\n", cfg.DailyLimit)
			fmt.Fprintf(out, "locale.site:     %s\n", cfg.Locale.Site)
			fmt.Fprintf(out, "locale.language: %s\n", cfg.Locale.Language)
			fmt.Fprintf(out, "locale.currency: %s\n", cfg.Locale.Currency)
			fmt.Fprintf(out, "logging.level:   %s\n", cfg.Logging.Level)
			return nil
		},
	}
}

func createConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration value",
		Long: "Set one configuration value. Keys: client_id, client_secret,\n" +
			"sandbox, daily_limit, locale.site, locale.language,\n" +
			"locale.currency, logging.level.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := afero.NewOsFs()
			path, err := resolveConfigPath(cmd, fs)
			if err != nil {
				return err
			}
			cfg, err := config.Load(fs, path)
			if err != nil {
				return err
			}

			if err := setConfigValue(cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Save(fs, path); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", args[0])
			return err
		},
	}
}

func setConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "client_id":
		cfg.ClientID = value
	case "client_secret":
		cfg.ClientSecret = value
	case "sandbox":
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid sandbox value %q: %w", value, err)
		}
		cfg.Sandbox = parsed
	case "daily_limit":
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid daily_limit value %q: %w", value, err)
		}
		cfg.DailyLimit = parsed
	case "locale.site":
		cfg.Locale.Site = value
	case "locale.language":
		cfg.Locale.Language = value
	case "locale.currency":
		cfg.Locale.Currency = value
	case "logging.level":
		cfg.Logging.Level = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
