package cypher

import (
	"github.com/mark3labs/mcp-go/mcp"
)

type WriteCypherInput struct {
	Query  string `json:"query" jsonschema:"required,description=The Cypher write query to execute"`
	Params Params `json:"params,omitempty" jsonschema:"description=Parameters to pass to the Cypher query"`
}

func WriteCypherSpec() mcp.Tool {
	return mcp.NewTool("write-neo4j-cypher",
		mcp.WithDescription("Execute a write Cypher query on the neo4j database. Returns the mutation counters (nodes/relationships/properties created, deleted or modified)."),
		mcp.WithInputSchema[WriteCypherInput](),
		mcp.WithTitleAnnotation("Write Cypher"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
