package storage

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jOptions configures the neo4j backing.
type Neo4jOptions struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// Neo4j stores each key as a (:KV {key, value}) node.
type Neo4j struct {
	driver   neo4j.DriverWithContext
	database string
}

// OpenNeo4j connects to the server and verifies connectivity.
func OpenNeo4j(ctx context.Context, opts Neo4jOptions) (*Neo4j, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("neo4j backend: uri required")
	}
	driver, err := neo4j.NewDriverWithContext(opts.URI, neo4j.BasicAuth(opts.Username, opts.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j backend: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("neo4j backend: %w", err)
	}
	return &Neo4j{driver: driver, database: opts.Database}, nil
}

func (n *Neo4j) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return n.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: n.database})
}

// Load implements Provider.
func (n *Neo4j) Load(ctx context.Context, key string) ([]byte, bool, error) {
	session := n.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, "MATCH (k:KV {key: $key}) RETURN k.value AS value", map[string]any{"key": key})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			return nil, res.Err()
		}
		value, _ := res.Record().Get("value")
		s, _ := value.(string)
		return s, nil
	})
	if err != nil {
		return nil, false, err
	}
	if result == nil {
		return nil, false, nil
	}
	return []byte(result.(string)), true, nil
}

// Save implements Provider.
func (n *Neo4j) Save(ctx context.Context, key string, data []byte) error {
	session := n.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, "MERGE (k:KV {key: $key}) SET k.value = $value",
			map[string]any{"key": key, "value": string(data)})
		return nil, err
	})
	return err
}

// Close implements Provider.
func (n *Neo4j) Close() error {
	return n.driver.Close(context.Background())
}
