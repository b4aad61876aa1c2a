package server

// Version is reported to MCP clients and by the -v flag. Release builds
// override it via -ldflags "-X github.com/dsimile/mcp-neo4j-server/internal/server.Version=...".
var Version = "dev"
