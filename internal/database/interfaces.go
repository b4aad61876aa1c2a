package database

//go:generate mockgen -destination=mocks/mock_database.go -package=mocks github.com/dsimile/mcp-neo4j-server/internal/database Driver,Session,Result,Service

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Driver abstracts the pooled Neo4j driver so the service can be tested
// without a live database. The driver is the only long-lived network
// resource in the process; it is created once at startup and closed once at
// shutdown.
type Driver interface {
	// NewSession creates a new session scoped to the given database.
	NewSession(ctx context.Context, databaseName string) (Session, error)

	// VerifyConnectivity performs a lightweight round-trip to the database.
	VerifyConnectivity(ctx context.Context) error

	// Close releases the connection pool. Safe to call more than once.
	Close(ctx context.Context) error
}

// Session is a short-lived execution context bound to one database. It is
// acquired, used for a single query and released before the call returns.
type Session interface {
	// Run submits a Cypher query with bound parameters.
	Run(ctx context.Context, cypher string, params map[string]any) (Result, error)

	// Close releases the session back to the pool.
	Close(ctx context.Context) error
}

// Result is the streaming result of one query execution.
type Result interface {
	// Next advances to the next record, returning false when exhausted.
	Next(ctx context.Context) bool

	// Record returns the current record.
	Record() *neo4j.Record

	// Consume discards any remaining records and returns the summary.
	Consume(ctx context.Context) (neo4j.ResultSummary, error)

	// Err returns the error that interrupted the stream, if any.
	Err() error
}

// Service is the query surface consumed by the MCP tool handlers.
type Service interface {
	// IsWriteQuery reports whether the query contains a mutating Cypher clause.
	IsWriteQuery(query string) bool

	// ExecuteQuery runs a Cypher query and returns one map per row, or a
	// single counters map for write queries.
	ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)

	// GetSchema returns one map per node label describing its attributes and relationships.
	GetSchema(ctx context.Context) ([]map[string]any, error)

	// RecordsToJSON serializes normalized results for the tool boundary.
	RecordsToJSON(results []map[string]any) (string, error)

	// VerifyConnectivity checks the underlying driver can reach the database.
	VerifyConnectivity(ctx context.Context) error

	// Close releases the underlying driver. Idempotent.
	Close(ctx context.Context) error
}
