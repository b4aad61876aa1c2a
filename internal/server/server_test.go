package server_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	analyticsmocks "github.com/dsimile/mcp-neo4j-server/internal/analytics/mocks"
	"github.com/dsimile/mcp-neo4j-server/internal/config"
	"github.com/dsimile/mcp-neo4j-server/internal/database/mocks"
	"github.com/dsimile/mcp-neo4j-server/internal/logger"
	"github.com/dsimile/mcp-neo4j-server/internal/server"
)

func testConfig(transport config.TransportMode) *config.Config {
	return &config.Config{
		URI:           "bolt://test-host:7687",
		Username:      "neo4j",
		Password:      "password",
		Database:      "neo4j",
		TransportMode: transport,
		HTTPHost:      "127.0.0.1",
		HTTPPort:      "0",
	}
}

func newServerMocks(t *testing.T) (*mocks.MockService, *analyticsmocks.MockService, *logger.Service) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockDB := mocks.NewMockService(ctrl)
	mockAnalytics := analyticsmocks.NewMockService(ctrl)
	mockAnalytics.EXPECT().NewStartupEvent(gomock.Any()).AnyTimes()
	mockAnalytics.EXPECT().EmitEvent(gomock.Any()).AnyTimes()
	return mockDB, mockAnalytics, logger.New("error", "text", io.Discard)
}

func TestNewNeo4jMCPServer(t *testing.T) {
	mockDB, mockAnalytics, log := newServerMocks(t)

	s := server.NewNeo4jMCPServer("test-version", testConfig(config.TransportModeStdio), mockDB, mockAnalytics, log)
	if s == nil {
		t.Fatal("expected non-nil server")
	}
	if s.MCPServer == nil {
		t.Error("expected underlying MCP server to be initialized")
	}
}

func TestNeo4jMCPServer_Start_UnsupportedTransport(t *testing.T) {
	mockDB, mockAnalytics, log := newServerMocks(t)

	s := server.NewNeo4jMCPServer("test-version", testConfig(config.TransportMode("carrier-pigeon")), mockDB, mockAnalytics, log)
	err := s.Start()
	if err == nil {
		t.Fatal("expected error for unsupported transport mode")
	}
	if !strings.Contains(err.Error(), "unsupported transport mode") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNeo4jMCPServer_Stop_WithoutStart(t *testing.T) {
	mockDB, mockAnalytics, log := newServerMocks(t)

	s := server.NewNeo4jMCPServer("test-version", testConfig(config.TransportModeStdio), mockDB, mockAnalytics, log)
	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("Stop() on a never-started server should be a no-op, got: %v", err)
	}
}

func TestNeo4jMCPServer_HTTPLifecycle(t *testing.T) {
	mockDB, mockAnalytics, log := newServerMocks(t)

	cfg := testConfig(config.TransportModeHTTP)
	cfg.HTTPPort = freePort(t)

	s := server.NewNeo4jMCPServer("test-version", cfg, mockDB, mockAnalytics, log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()

	waitForListener(t, net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("Start() returned unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after Stop()")
	}
}

func TestNeo4jMCPServer_SSELifecycle(t *testing.T) {
	mockDB, mockAnalytics, log := newServerMocks(t)

	cfg := testConfig(config.TransportModeSSE)
	cfg.HTTPPort = freePort(t)

	s := server.NewNeo4jMCPServer("test-version", cfg, mockDB, mockAnalytics, log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()

	waitForListener(t, net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("Start() returned unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after Stop()")
	}
}

// freePort reserves an ephemeral port and returns it as a string. The
// listener is closed before returning, so the port may in principle be
// reassigned, but in practice this is reliable for tests.
func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	defer l.Close()
	_, port, err := net.SplitHostPort(l.Addr().String())
	if err != nil {
		t.Fatalf("failed to parse listener address: %v", err)
	}
	return port
}

func waitForListener(t *testing.T, addr string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("server never started listening on %s", addr)
}
