package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorage_Init(t *testing.T) {
	t.Run("Migrations run once", func(t *testing.T) {
		ctx := context.Background()

		// Given: a fresh database file
		db, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		// When: Init is called twice
		require.NoError(t, db.Init(ctx))
		require.NoError(t, db.Init(ctx))

		// Then: each migration is recorded once and the tables exist
		var applied int
		require.NoError(t, db.Connection.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
		assert.Equal(t, 1, applied)

		for _, table := range []string{"game_moves", "player_stats"} {
			var name string
			err = db.Connection.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
			require.NoError(t, err, table)
		}
	})

	t.Run("Connection pragmas are applied", func(t *testing.T) {
		ctx := context.Background()

		// Given: a fresh database file
		db, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		// When: the connection settings are read back
		var journalMode string
		require.NoError(t, db.Connection.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode))

		var busyTimeout, foreignKeys, synchronous int
		require.NoError(t, db.Connection.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busyTimeout))
		require.NoError(t, db.Connection.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys))
		require.NoError(t, db.Connection.QueryRowContext(ctx, "PRAGMA synchronous").Scan(&synchronous))

		// Then: WAL, busy timeout, foreign keys and NORMAL sync are in effect
		assert.Equal(t, "wal", journalMode)
		assert.Equal(t, 5000, busyTimeout)
		assert.Equal(t, 1, foreignKeys)
		assert.Equal(t, 1, synchronous)
	})

	t.Run("Empty path is rejected", func(t *testing.T) {
		_, err := NewSQLiteStorage("  ")

		require.ErrorIs(t, err, ErrEmptyPath)
	})
}
