package cypher

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dsimile/mcp-neo4j-server/internal/tools"
)

func ReadCypherHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleReadCypher(ctx, request, deps)
	}
}

func handleReadCypher(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if deps.DBService == nil {
		errMessage := "Database service is not initialized"
		deps.Log.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	if deps.AnalyticsService != nil {
		deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("read-neo4j-cypher"))
	}

	var args ReadCypherInput
	if err := request.BindArguments(&args); err != nil {
		deps.Log.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	if args.Query == "" {
		errMessage := "Query parameter is required and cannot be empty"
		deps.Log.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	// Reject before any database round-trip.
	if deps.DBService.IsWriteQuery(args.Query) {
		deps.Log.Warn("rejected write query submitted to read tool", "query", args.Query)
		return mcp.NewToolResultError("Only MATCH queries are allowed for read-query. Use write-neo4j-cypher for write operations."), nil
	}

	deps.Log.Info("executing read cypher query", "query", args.Query)

	results, err := deps.DBService.ExecuteQuery(ctx, args.Query, args.Params)
	if err != nil {
		deps.Log.Error("error executing cypher query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	response, err := deps.DBService.RecordsToJSON(results)
	if err != nil {
		deps.Log.Error("error formatting query results", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response), nil
}
