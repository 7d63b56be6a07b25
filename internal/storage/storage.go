// Package storage provides the key-value persistence capability the
// repositories are built on. Values are JSON documents stored whole under a
// key; there are no transactions spanning keys.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Provider is a key-value store of opaque documents.
type Provider interface {
	// Load returns the stored bytes for key. ok is false when the key is absent.
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Save overwrites key with data. Readers never observe a partial write.
	Save(ctx context.Context, key string, data []byte) error

	// Close releases any resources held by the backing.
	Close() error
}

// Get decodes the JSON value stored under key.
// It returns fallback when the key is absent or the stored value does not
// decode; malformed data is treated as absent. Errors are only returned for
// failures of the backing itself.
func Get[T any](ctx context.Context, p Provider, key string, fallback T) (T, error) {
	data, ok, err := p.Load(ctx, key)
	if err != nil {
		return fallback, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || len(data) == 0 {
		return fallback, nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		slog.DebugContext(ctx, "discarding malformed value", "key", key, "err", err)
		return fallback, nil
	}
	return v, nil
}

// Set stores value under key as JSON, replacing any previous value.
func Set[T any](ctx context.Context, p Provider, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := p.Save(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendNeo4j    = "neo4j"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Options selects and configures a backing for Open.
type Options struct {
	// Backend is one of the Backend* names. Empty means file.
	Backend string

	// Dir is the data directory for the file backing and the default
	// location of the sqlite database.
	Dir string

	// DSN is the data source name for the sql backings.
	DSN string

	// Neo4j settings for the neo4j backing.
	Neo4j Neo4jOptions
}

// Open creates the backing named by opts.Backend.
func Open(ctx context.Context, opts Options) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendMemory:
		return NewMemory(), nil
	case "", BackendFile:
		return NewFile(opts.Dir)
	case BackendSQLite:
		dsn := opts.DSN
		if dsn == "" {
			dsn = sqliteDefaultPath(opts.Dir)
		}
		return OpenSQL(ctx, DialectSQLite, dsn)
	case BackendPostgres:
		return OpenSQL(ctx, DialectPostgres, opts.DSN)
	case BackendNeo4j:
		return OpenNeo4j(ctx, opts.Neo4j)
	}
	return nil, fmt.Errorf("%w: %s (want one of %s)", ErrUnknownBackend, opts.Backend, strings.Join(Backends(), ", "))
}

// Backends returns the accepted backend names, sorted.
func Backends() []string {
	names := []string{BackendMemory, BackendFile, BackendSQLite, BackendPostgres, BackendNeo4j}
	sort.Strings(names)
	return names
}
