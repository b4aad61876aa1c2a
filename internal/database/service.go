package database

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/dsimile/mcp-neo4j-server/internal/logger"
)

// Neo4jService is the concrete implementation of Service. It owns the
// driver for the lifetime of the process and acquires one session per
// query execution.
type Neo4jService struct {
	driver   Driver
	database string
	log      *logger.Service
}

// NewNeo4jService creates a service on top of a concrete driver.
func NewNeo4jService(driver neo4j.DriverWithContext, database string, log *logger.Service) *Neo4jService {
	return NewNeo4jServiceWithDriver(NewDriverAdapter(driver), database, log)
}

// NewNeo4jServiceWithDriver creates a service on top of the Driver
// abstraction. Used by tests to inject mocks.
func NewNeo4jServiceWithDriver(driver Driver, database string, log *logger.Service) *Neo4jService {
	return &Neo4jService{
		driver:   driver,
		database: database,
		log:      log,
	}
}

// IsWriteQuery reports whether the query contains a mutating Cypher clause.
func (s *Neo4jService) IsWriteQuery(query string) bool {
	return IsWriteQuery(query)
}

// ExecuteQuery runs a Cypher query against the configured database and
// returns normalized results. For write queries the result stream is fully
// consumed and the summary counters come back as the single element. For
// read queries every row is materialized in order.
//
// A database-level failure after submission (syntax error, constraint
// violation, lost connection) is logged and surfaces as an empty result
// set, not as an error. Callers cannot distinguish it from a legitimately
// empty result.
func (s *Neo4jService) ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	if s.driver == nil {
		return nil, fmt.Errorf("neo4j driver is not initialized")
	}
	if params == nil {
		params = map[string]any{}
	}

	s.log.Info("executing cypher query", "query", query)

	session, err := s.driver.NewSession(ctx, s.database)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer func() {
		if err := session.Close(ctx); err != nil {
			s.log.Warn("failed to close session", "error", err)
		}
	}()

	result, err := session.Run(ctx, query, params)
	if err != nil {
		s.log.Error("database error executing query", "error", err, "query", query)
		return []map[string]any{}, nil
	}

	if IsWriteQuery(query) {
		// Consume forces completion of the write and yields the summary.
		summary, err := result.Consume(ctx)
		if err != nil {
			s.log.Error("database error consuming write summary", "error", err, "query", query)
			return []map[string]any{}, nil
		}
		counters := CountersToMap(summary.Counters())
		s.log.Debug("write query counters", "counters", counters)
		return []map[string]any{counters}, nil
	}

	records := make([]map[string]any, 0)
	for result.Next(ctx) {
		records = append(records, RecordToMap(result.Record()))
	}
	if err := result.Err(); err != nil {
		s.log.Error("database error while streaming results", "error", err, "query", query)
		return []map[string]any{}, nil
	}

	s.log.Info("read query returned rows", "rows", len(records))
	return records, nil
}

// GetSchema introspects the database shape through the same execution path
// as any read query.
func (s *Neo4jService) GetSchema(ctx context.Context) ([]map[string]any, error) {
	return s.ExecuteQuery(ctx, SchemaQuery, nil)
}

// RecordsToJSON serializes normalized results for the tool boundary.
func (s *Neo4jService) RecordsToJSON(results []map[string]any) (string, error) {
	return resultsToJSON(results)
}

// VerifyConnectivity checks the driver can establish a valid connection
// with the Neo4j instance.
func (s *Neo4jService) VerifyConnectivity(ctx context.Context) error {
	if s.driver == nil {
		return fmt.Errorf("neo4j driver is not initialized")
	}
	return s.driver.VerifyConnectivity(ctx)
}

// Close releases the driver pool. Idempotent: closing an already-closed
// service is a no-op.
func (s *Neo4jService) Close(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	if err := s.driver.Close(ctx); err != nil {
		return fmt.Errorf("failed to close neo4j driver: %w", err)
	}
	s.log.Info("neo4j driver closed")
	return nil
}
