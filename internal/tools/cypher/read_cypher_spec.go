package cypher

import (
	"github.com/mark3labs/mcp-go/mcp"
)

type ReadCypherInput struct {
	Query  string `json:"query" jsonschema:"required,description=The Cypher read query to execute"`
	Params Params `json:"params,omitempty" jsonschema:"description=Parameters to pass to the Cypher query"`
}

func ReadCypherSpec() mcp.Tool {
	return mcp.NewTool("read-neo4j-cypher",
		mcp.WithDescription("Execute a read Cypher query on the neo4j database. Queries containing write clauses (CREATE, MERGE, SET, DELETE, REMOVE, ADD) are rejected; use write-neo4j-cypher for those."),
		mcp.WithInputSchema[ReadCypherInput](),
		mcp.WithTitleAnnotation("Read Cypher"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
