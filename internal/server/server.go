package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dsimile/mcp-neo4j-server/internal/analytics"
	"github.com/dsimile/mcp-neo4j-server/internal/config"
	"github.com/dsimile/mcp-neo4j-server/internal/database"
	"github.com/dsimile/mcp-neo4j-server/internal/logger"
)

const httpReadHeaderTimeout = 10 * time.Second

// Neo4jMCPServer bundles the MCP protocol server with the database service
// and the transport it serves on.
type Neo4jMCPServer struct {
	MCPServer *server.MCPServer

	httpServer *http.Server

	config           *config.Config
	dbService        database.Service
	analyticsService analytics.Service
	log              *logger.Service
	version          string
}

// NewNeo4jMCPServer creates a new MCP server instance.
// The config parameter is expected to be already validated.
func NewNeo4jMCPServer(version string, cfg *config.Config, dbService database.Service, analyticsService analytics.Service, log *logger.Service) *Neo4jMCPServer {
	s := &Neo4jMCPServer{
		config:           cfg,
		dbService:        dbService,
		analyticsService: analyticsService,
		log:              log,
		version:          version,
	}

	hooks := &server.Hooks{}
	hooks.AddAfterSetLevel(s.onAfterSetLevelHook)

	s.MCPServer = server.NewMCPServer(
		"mcp-neo4j-server",
		version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithHooks(hooks),
		server.WithInstructions("This server provides tool calling to interact with a Neo4j database: "+
			"inspect the data shape with get-neo4j-schema and run Cypher with read-neo4j-cypher and write-neo4j-cypher."),
	)

	return s
}

// Start registers the tools and serves on the configured transport.
// It blocks until the transport shuts down.
func (s *Neo4jMCPServer) Start() error {
	s.log.Info("starting MCP server", "transport", s.config.TransportMode, "version", s.version)

	if err := s.RegisterTools(); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	if s.analyticsService != nil {
		s.analyticsService.EmitEvent(s.analyticsService.NewStartupEvent(string(s.config.TransportMode)))
	}

	switch s.config.TransportMode {
	case config.TransportModeSSE:
		return s.startSSE()
	case config.TransportModeHTTP:
		return s.startHTTP()
	case config.TransportModeStdio:
		s.log.Info("listening on stdio")
		return server.ServeStdio(s.MCPServer)
	default:
		return fmt.Errorf("unsupported transport mode: %s", s.config.TransportMode)
	}
}

func (s *Neo4jMCPServer) startSSE() error {
	handler := server.NewSSEServer(s.MCPServer)
	s.log.Info("listening for SSE connections", "host", s.config.HTTPHost, "port", s.config.HTTPPort)
	return s.serveHTTP(handler)
}

func (s *Neo4jMCPServer) startHTTP() error {
	handler := server.NewStreamableHTTPServer(
		s.MCPServer,
		server.WithStateLess(true),
	)
	s.log.Info("listening for streamable HTTP connections", "host", s.config.HTTPHost, "port", s.config.HTTPPort)
	return s.serveHTTP(handler)
}

// serveHTTP runs an mcp-go transport handler behind our own http.Server so
// the read-header timeout and shutdown path are uniform across transports.
func (s *Neo4jMCPServer) serveHTTP(handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(s.config.HTTPHost, s.config.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: httpReadHeaderTimeout,
	}
	return s.httpServer.ListenAndServe()
}

// Stop shuts down the network transports. The stdio transport stops when
// its input stream closes, so there is nothing to do for it here.
// Database cleanup is handled by the caller.
func (s *Neo4jMCPServer) Stop(ctx context.Context) error {
	s.log.Info("stopping MCP server")
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
	}
	return nil
}
