package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dsimile/mcp-neo4j-server/internal/analytics"
	"github.com/dsimile/mcp-neo4j-server/internal/cli"
	"github.com/dsimile/mcp-neo4j-server/internal/config"
	"github.com/dsimile/mcp-neo4j-server/internal/database"
	"github.com/dsimile/mcp-neo4j-server/internal/logger"
	"github.com/dsimile/mcp-neo4j-server/internal/server"
)

// Injected at build time via -ldflags. With empty values telemetry is a no-op.
var (
	analyticsToken    string
	analyticsEndpoint string
)

func main() {
	// Version, help and flag validation; exits for -v/-h/unknown flags.
	cli.HandleArgs(server.Version)

	uri := flag.String("neo4j-uri", "", "Neo4j connection URI (overrides NEO4J_URI)")
	username := flag.String("neo4j-username", "", "Database username (overrides NEO4J_USERNAME)")
	password := flag.String("neo4j-password", "", "Database password (overrides NEO4J_PASSWORD)")
	databaseName := flag.String("neo4j-database", "", "Database name (overrides NEO4J_DATABASE)")
	transport := flag.String("transport", "", "Transport mode: stdio, sse or http (overrides NEO4J_TRANSPORT_MODE)")
	httpHost := flag.String("http-host", "", "Bind host for sse/http transports (overrides NEO4J_MCP_HTTP_HOST)")
	httpPort := flag.String("http-port", "", "Bind port for sse/http transports (overrides NEO4J_MCP_HTTP_PORT)")
	readOnly := flag.String("read-only", "", "Register only read-only tools (overrides NEO4J_READ_ONLY)")
	telemetry := flag.String("telemetry", "", "Enable/disable usage telemetry (overrides NEO4J_TELEMETRY)")
	flag.Parse()

	cfg, err := config.LoadConfig(&config.CLIOverrides{
		URI:           *uri,
		Username:      *username,
		Password:      *password,
		Database:      *databaseName,
		ReadOnly:      *readOnly,
		Telemetry:     *telemetry,
		TransportMode: *transport,
		Host:          *httpHost,
		Port:          *httpPort,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Stdout is reserved for the stdio transport, so logs go to stderr.
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx := context.Background()

	driver, err := database.NewDriver(ctx, cfg.URI, cfg.Username, cfg.Password)
	if err != nil {
		log.Error("failed to connect to Neo4j", "uri", cfg.URI, "error", err)
		os.Exit(1)
	}
	dbService := database.NewNeo4jService(driver, cfg.Database, log)
	defer func() {
		if err := dbService.Close(ctx); err != nil {
			log.Error("failed to close database service", "error", err)
		}
	}()

	analyticsService := analytics.NewDisabledService(log)
	if cfg.Telemetry {
		analyticsService, err = analytics.NewService(analyticsToken, analyticsEndpoint, log)
		if err != nil {
			log.Warn("failed to initialize analytics, telemetry disabled", "error", err)
			analyticsService = analytics.NewDisabledService(log)
		}
	}

	mcpServer := server.NewNeo4jMCPServer(server.Version, cfg, dbService, analyticsService, log)
	defer func() {
		if err := mcpServer.Stop(ctx); err != nil {
			log.Error("error stopping server", "error", err)
		}
	}()

	// Blocks until the transport shuts down.
	if err := mcpServer.Start(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
