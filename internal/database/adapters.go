package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// neo4jDriverAdapter wraps neo4j.DriverWithContext to implement our Driver interface.
type neo4jDriverAdapter struct {
	driver    neo4j.DriverWithContext
	closeOnce sync.Once
	closeErr  error
}

// NewDriverAdapter wraps a concrete driver in the Driver interface.
func NewDriverAdapter(driver neo4j.DriverWithContext) Driver {
	return &neo4jDriverAdapter{driver: driver}
}

// NewSession creates a new session for the specified database.
func (a *neo4jDriverAdapter) NewSession(ctx context.Context, databaseName string) (Session, error) {
	if a.driver == nil {
		return nil, fmt.Errorf("neo4j driver is not initialized")
	}
	session := a.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: databaseName,
	})
	return &neo4jSessionAdapter{session: session}, nil
}

// VerifyConnectivity checks the driver can establish a valid connection.
func (a *neo4jDriverAdapter) VerifyConnectivity(ctx context.Context) error {
	if a.driver == nil {
		return fmt.Errorf("neo4j driver is not initialized")
	}
	return a.driver.VerifyConnectivity(ctx)
}

// Close releases the connection pool. Subsequent calls are no-ops and
// return the result of the first close.
func (a *neo4jDriverAdapter) Close(ctx context.Context) error {
	if a.driver == nil {
		return nil
	}
	a.closeOnce.Do(func() {
		a.closeErr = a.driver.Close(ctx)
	})
	return a.closeErr
}

// neo4jSessionAdapter wraps neo4j.SessionWithContext to implement our Session interface.
type neo4jSessionAdapter struct {
	session neo4j.SessionWithContext
}

// Run submits a Cypher query on the session.
func (a *neo4jSessionAdapter) Run(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	result, err := a.session.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Close releases the session.
func (a *neo4jSessionAdapter) Close(ctx context.Context) error {
	return a.session.Close(ctx)
}
