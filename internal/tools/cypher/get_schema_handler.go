package cypher

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dsimile/mcp-neo4j-server/internal/tools"
)

// GetSchemaHandler returns the handler for the get-neo4j-schema tool.
func GetSchemaHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetSchema(ctx, deps)
	}
}

// handleGetSchema retrieves the database shape via APOC, routed through the
// same executor path as any read query.
func handleGetSchema(ctx context.Context, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.DBService == nil {
		errMessage := "Database service is not initialized"
		deps.Log.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	if deps.AnalyticsService != nil {
		deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("get-neo4j-schema"))
	}

	deps.Log.Info("retrieving schema from the database")

	results, err := deps.DBService.GetSchema(ctx)
	if err != nil {
		deps.Log.Error("failed to execute schema query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		deps.Log.Warn("schema is empty, no data in the database")
		return mcp.NewToolResultText("The get-neo4j-schema tool executed successfully; however, since the Neo4j instance contains no data, no schema information was returned."), nil
	}

	response, err := deps.DBService.RecordsToJSON(results)
	if err != nil {
		deps.Log.Error("failed to format schema results to JSON", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response), nil
}
