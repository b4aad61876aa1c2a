// Package tools defines the shared dependencies injected into MCP tool
// handlers. Tool implementations live in subpackages by category.
package tools

import (
	"github.com/dsimile/mcp-neo4j-server/internal/analytics"
	"github.com/dsimile/mcp-neo4j-server/internal/config"
	"github.com/dsimile/mcp-neo4j-server/internal/database"
	"github.com/dsimile/mcp-neo4j-server/internal/logger"
)

// ToolDependencies carries the services every tool handler closes over.
type ToolDependencies struct {
	Config           *config.Config
	DBService        database.Service
	AnalyticsService analytics.Service
	Log              *logger.Service
}
