// Package storage provides XDG-compliant storage path management for partdex.
package storage

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
)

const (
	// AppName is the application name used for XDG directory paths
	AppName = "partdex"

	cacheFilename  = "parts.db"
	logFilename    = "partdex.log"
	tokenFilename  = "token.json"
	configFilename = "partdex.yml"
)

// Manager handles storage operations with filesystem abstraction
type Manager struct {
	fs afero.Fs
}

// New creates a new storage manager with the given filesystem
func New(fs afero.Fs) *Manager {
	return &Manager{fs: fs}
}

// DataDir returns the XDG data directory for partdex, creating it if necessary
func (m *Manager) DataDir() (string, error) {
	dataDir := filepath.Join(xdg.DataHome, AppName)
	if err := m.fs.MkdirAll(dataDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	return dataDir, nil
}

// DatabasePath returns the full path to the parts cache database
func (m *Manager) DatabasePath() (string, error) {
	dataDir, err := m.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, cacheFilename), nil
}

// LogPath returns the full path to the partdex log file
func (m *Manager) LogPath() (string, error) {
	dataDir, err := m.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, logFilename), nil
}

// TokenPath returns the full path to the cached OAuth token file
func (m *Manager) TokenPath() (string, error) {
	dataDir, err := m.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, tokenFilename), nil
}

// ConfigPath returns the default config file location under XDG config home
func (m *Manager) ConfigPath() (string, error) {
	configDir := filepath.Join(xdg.ConfigHome, AppName)
	if err := m.fs.MkdirAll(configDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}
	return filepath.Join(configDir, configFilename), nil
}
