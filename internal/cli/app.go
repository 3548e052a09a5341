// Package cli wires configuration, storage and the API client into the
// lookup workflows behind the partdex commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"

	"partdex/internal/config"
	"partdex/internal/database"
	"partdex/internal/digikey"
	"partdex/internal/parts"
	"partdex/internal/prompt"
	"partdex/internal/storage"
)

// Options configures App construction. Zero values select production
// defaults; tests inject a filesystem, writer and API base URL.
type Options struct {
	Fs           afero.Fs
	Out          io.Writer
	Prompter     prompt.Prompter
	ConfigPath   string
	DatabasePath string
	TokenFile    string
	// BaseURL overrides the DigiKey host, for tests
	BaseURL string
}

// App bundles everything a command needs
type App struct {
	fs       afero.Fs
	out      io.Writer
	cfg      *config.Config
	db       *database.Manager
	store    *parts.Store
	client   *digikey.Client
	prompter prompt.Prompter
}

// NewApp loads config and opens the parts database
func NewApp(ctx context.Context, opts Options) (*App, error) {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	storageManager := storage.New(fs)

	configPath := opts.ConfigPath
	if configPath == "" {
		path, err := storageManager.ConfigPath()
		if err != nil {
			return nil, err
		}
		configPath = path
	}
	cfg, err := config.Load(fs, configPath)
	if err != nil {
		return nil, err
	}

	databasePath := opts.DatabasePath
	if databasePath == "" {
		path, err := storageManager.DatabasePath()
		if err != nil {
			return nil, err
		}
		databasePath = path
	}
	db, err := database.NewManager(ctx, databasePath)
	if err != nil {
		return nil, err
	}

	tokenFile := opts.TokenFile
	if tokenFile == "" {
		path, err := storageManager.TokenPath()
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		tokenFile = path
	}

	client := digikey.New(digikey.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Sandbox:      cfg.Sandbox,
		BaseURL:      opts.BaseURL,
		TokenFile:    tokenFile,
		Fs:           fs,
		Locale: digikey.Locale{
			Site:     cfg.Locale.Site,
			Language: cfg.Locale.Language,
			Currency: cfg.Locale.Currency,
		},
	})

	return &App{
		fs:       fs,
		out:      out,
		cfg:      cfg,
		db:       db,
		store:    parts.NewStore(db.DB()),
		client:   client,
		prompter: opts.Prompter,
	}, nil
}

// Close releases the database and any prompter
func (a *App) Close() error {
	if a.prompter != nil {
		_ = a.prompter.Close()
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("failed to close app: %w", err)
	}
	return nil
}

// Config returns the loaded configuration
func (a *App) Config() *config.Config {
	return a.cfg
}

// Store exposes the parts store for commands that inspect the cache
func (a *App) Store() *parts.Store {
	return a.store
}
