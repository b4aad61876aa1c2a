package server

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/dsimile/mcp-neo4j-server/internal/tools"
	"github.com/dsimile/mcp-neo4j-server/internal/tools/cypher"
)

// RegisterTools adds the enabled MCP tools to the protocol server.
// When read-only mode is enabled (NEO4J_READ_ONLY or the --read-only flag),
// only tools annotated with ReadOnlyHint=true are registered; tools without
// the annotation are treated as mutating and excluded.
func (s *Neo4jMCPServer) RegisterTools() error {
	deps := &tools.ToolDependencies{
		Config:           s.config,
		DBService:        s.dbService,
		AnalyticsService: s.analyticsService,
		Log:              s.log,
	}

	all := getAllTools(deps)

	if s.config != nil && s.config.ReadOnly {
		readOnlyTools := make([]server.ServerTool, 0, len(all))
		for _, t := range all {
			if t.Tool.Annotations.ReadOnlyHint != nil && *t.Tool.Annotations.ReadOnlyHint {
				readOnlyTools = append(readOnlyTools, t)
			}
		}
		s.MCPServer.AddTools(readOnlyTools...)
		return nil
	}

	s.MCPServer.AddTools(all...)
	return nil
}

// getAllTools returns all available tools with their specs and handlers.
func getAllTools(deps *tools.ToolDependencies) []server.ServerTool {
	return []server.ServerTool{
		{
			Tool:    cypher.GetSchemaSpec(),
			Handler: cypher.GetSchemaHandler(deps),
		},
		{
			Tool:    cypher.ReadCypherSpec(),
			Handler: cypher.ReadCypherHandler(deps),
		},
		{
			Tool:    cypher.WriteCypherSpec(),
			Handler: cypher.WriteCypherHandler(deps),
		},
	}
}
