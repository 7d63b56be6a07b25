package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names a SQL backing.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const sqliteFile = "taskcal.db"

func sqliteDefaultPath(dir string) string {
	return filepath.Join(dir, sqliteFile)
}

type dialectQueries struct {
	driver string
	create string
	load   string
	save   string
}

var queries = map[Dialect]dialectQueries{
	DialectSQLite: {
		driver: "sqlite",
		create: `CREATE TABLE IF NOT EXISTS taskcal_kv (name TEXT PRIMARY KEY, doc TEXT NOT NULL)`,
		load:   `SELECT doc FROM taskcal_kv WHERE name = ?`,
		save:   `INSERT INTO taskcal_kv (name, doc) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET doc = excluded.doc`,
	},
	DialectPostgres: {
		driver: "postgres",
		create: `CREATE TABLE IF NOT EXISTS taskcal_kv (name TEXT PRIMARY KEY, doc TEXT NOT NULL)`,
		load:   `SELECT doc FROM taskcal_kv WHERE name = $1`,
		save:   `INSERT INTO taskcal_kv (name, doc) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET doc = EXCLUDED.doc`,
	},
}

// SQL stores keys as rows of a single two-column table.
type SQL struct {
	db *sql.DB
	q  dialectQueries
}

// OpenSQL connects to the database and creates the table if missing.
func OpenSQL(ctx context.Context, dialect Dialect, dsn string) (*SQL, error) {
	q, ok := queries[dialect]
	if !ok {
		return nil, fmt.Errorf("%w: sql dialect %s", ErrUnknownBackend, dialect)
	}
	if dsn == "" {
		return nil, fmt.Errorf("%s backend: dsn required", dialect)
	}
	db, err := sql.Open(q.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s backend: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// One connection keeps writes from tripping over SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s backend: %w", dialect, err)
	}
	if _, err := db.ExecContext(ctx, q.create); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s backend: create table: %w", dialect, err)
	}
	return &SQL{db: db, q: q}, nil
}

// Load implements Provider.
func (s *SQL) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, s.q.load, key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(doc), true, nil
}

// Save implements Provider.
func (s *SQL) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, s.q.save, key, string(data))
	return err
}

// Close implements Provider.
func (s *SQL) Close() error {
	return s.db.Close()
}
