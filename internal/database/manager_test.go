package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "partdex/internal/testing"
)

func TestNewManager(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	manager, err := NewManager(ctx, filepath.Join(t.TempDir(), "parts.db"))

	require.NoError(t, err)
	require.NotNil(t, manager)
	require.NotNil(t, manager.DB())

	err = manager.Close()
	assert.NoError(t, err)
}

func TestWALModeEnabled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	manager, err := NewManager(ctx, filepath.Join(t.TempDir(), "parts.db"))
	require.NoError(t, err)
	defer func() { _ = manager.Close() }()

	var journalMode string
	err = manager.DB().QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode)
	require.NoError(t, err)
	assert.Equal(t, "wal", journalMode)
}

func TestMigrationsCreateTables(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	manager, err := NewManager(ctx, filepath.Join(t.TempDir(), "parts.db"))
	require.NoError(t, err)
	defer func() { _ = manager.Close() }()

	for _, table := range []string{"parts", "api_calls"} {
		var name string
		err = manager.DB().QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrationVersion(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	manager, err := NewManager(ctx, filepath.Join(t.TempDir(), "parts.db"))
	require.NoError(t, err)
	defer func() { _ = manager.Close() }()

	var version int
	err = manager.DB().QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestMigrationsIdempotent(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	dbPath := filepath.Join(t.TempDir(), "parts.db")

	manager, err := NewManager(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, manager.Close())

	// Reopening must not attempt to re-run migration 1
	manager, err = NewManager(ctx, dbPath)
	require.NoError(t, err)
	assert.NoError(t, manager.Close())
}
