package server_test

import (
	"io"
	"testing"

	"go.uber.org/mock/gomock"

	analyticsmocks "github.com/dsimile/mcp-neo4j-server/internal/analytics/mocks"
	"github.com/dsimile/mcp-neo4j-server/internal/config"
	"github.com/dsimile/mcp-neo4j-server/internal/database/mocks"
	"github.com/dsimile/mcp-neo4j-server/internal/logger"
	"github.com/dsimile/mcp-neo4j-server/internal/server"
)

func TestToolRegister(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mocks.NewMockService(ctrl)
	mockAnalytics := analyticsmocks.NewMockService(ctrl)
	dummyLogger := logger.New("info", "text", io.Discard)

	t.Run("registers all tools by default", func(t *testing.T) {
		cfg := &config.Config{
			URI:      "bolt://test-host:7687",
			Username: "neo4j",
			Password: "password",
			Database: "neo4j",
		}
		s := server.NewNeo4jMCPServer("test-version", cfg, mockDB, mockAnalytics, dummyLogger)

		// Update this number when a tool is added or removed.
		expectedTotalToolsCount := 3

		if err := s.RegisterTools(); err != nil {
			t.Fatalf("RegisterTools() failed: %v", err)
		}
		registeredTools := len(s.MCPServer.ListTools())

		if expectedTotalToolsCount != registeredTools {
			t.Errorf("Expected %d tools, got %d", expectedTotalToolsCount, registeredTools)
		}
	})

	t.Run("registers only readonly tools in read-only mode", func(t *testing.T) {
		cfg := &config.Config{
			URI:      "bolt://test-host:7687",
			Username: "neo4j",
			Password: "password",
			Database: "neo4j",
			ReadOnly: true,
		}
		s := server.NewNeo4jMCPServer("test-version", cfg, mockDB, mockAnalytics, dummyLogger)

		// get-neo4j-schema and read-neo4j-cypher; write-neo4j-cypher is excluded.
		expectedTotalToolsCount := 2

		if err := s.RegisterTools(); err != nil {
			t.Fatalf("RegisterTools() failed: %v", err)
		}

		registered := s.MCPServer.ListTools()
		if expectedTotalToolsCount != len(registered) {
			t.Errorf("Expected %d tools, got %d", expectedTotalToolsCount, len(registered))
		}
		for _, tool := range registered {
			if tool.Tool.Name == "write-neo4j-cypher" {
				t.Error("write-neo4j-cypher must not be registered in read-only mode")
			}
		}
	})

	t.Run("registers all tools when readonly is explicitly false", func(t *testing.T) {
		cfg := &config.Config{
			URI:      "bolt://test-host:7687",
			Username: "neo4j",
			Password: "password",
			Database: "neo4j",
			ReadOnly: false,
		}
		s := server.NewNeo4jMCPServer("test-version", cfg, mockDB, mockAnalytics, dummyLogger)

		expectedTotalToolsCount := 3

		if err := s.RegisterTools(); err != nil {
			t.Fatalf("RegisterTools() failed: %v", err)
		}
		registeredTools := len(s.MCPServer.ListTools())

		if expectedTotalToolsCount != registeredTools {
			t.Errorf("Expected %d tools, got %d", expectedTotalToolsCount, registeredTools)
		}
	})
}
