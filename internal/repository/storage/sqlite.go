package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rocketscienceinc/chainreaction-backend/internal/repository/storage/migrations"

	// registers the pure Go "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

const migrationTable = "schema_migrations"

var ErrEmptyPath = errors.New("sqlite storage path is required")

type SQLiteStorage struct {
	Connection *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &SQLiteStorage{Connection: conn}, nil
}

// Init applies every embedded migration that has not been recorded yet.
func (that *SQLiteStorage) Init(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (name TEXT PRIMARY KEY, applied_at INTEGER NOT NULL)`
	if _, err := that.Connection.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("can't create migration table: %w", err)
	}

	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("can't read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)

	for _, name := range names {
		if err = that.applyMigration(ctx, name); err != nil {
			return err
		}
	}

	return nil
}

func (that *SQLiteStorage) applyMigration(ctx context.Context, name string) error {
	var found int
	err := that.Connection.QueryRowContext(ctx, "SELECT 1 FROM "+migrationTable+" WHERE name = ?", name).Scan(&found)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("can't check migration %s: %w", name, err)
	}

	content, err := fs.ReadFile(migrations.FS, name)
	if err != nil {
		return fmt.Errorf("can't read migration %s: %w", name, err)
	}

	tx, err := that.Connection.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin migration %s: %w", name, err)
	}

	if _, err = tx.ExecContext(ctx, string(content)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("can't apply migration %s: %w", name, err)
	}

	insert := "INSERT INTO " + migrationTable + " (name, applied_at) VALUES (?, ?)"
	if _, err = tx.ExecContext(ctx, insert, name, time.Now().UTC().UnixMilli()); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("can't record migration %s: %w", name, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit migration %s: %w", name, err)
	}

	return nil
}

func (that *SQLiteStorage) Close() error {
	if err := that.Connection.Close(); err != nil {
		return fmt.Errorf("can't close database: %w", err)
	}

	return nil
}
