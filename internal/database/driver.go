package database

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/config"
)

// Connection pool policy applied to every driver this package creates.
const (
	connectTimeout        = 300 * time.Second
	maxConnectionPoolSize = 100
	maxConnectionLifetime = 1 * time.Hour
	acquisitionTimeout    = 600 * time.Second
	maxTxRetryTime        = 300 * time.Second
)

// NewDriver creates a pooled Neo4j driver and eagerly verifies connectivity.
// Startup must fail fast on an unreachable database, so an unverifiable
// driver is closed and never returned.
func NewDriver(ctx context.Context, uri, username, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""), func(c *config.Config) {
		c.SocketConnectTimeout = connectTimeout
		c.MaxConnectionPoolSize = maxConnectionPoolSize
		c.MaxConnectionLifetime = maxConnectionLifetime
		c.ConnectionAcquisitionTimeout = acquisitionTimeout
		c.MaxTransactionRetryTime = maxTxRetryTime
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver for %s: %w", uri, err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify connectivity to %s: %w", uri, err)
	}

	return driver, nil
}
