package cli

import (
	"fmt"
	"os"
	"strings"
)

// osExit is a variable that can be mocked in tests
var osExit = os.Exit

const helpText = `mcp-neo4j-server - Neo4j Model Context Protocol Server

Usage:
  mcp-neo4j-server [OPTIONS]

Options:
  -h, --help                          Show this help message
  -v, --version                       Show version information
  --neo4j-uri <URI>                   Neo4j connection URI (overrides env var)
  --neo4j-username <USERNAME>         Database username (overrides env var)
  --neo4j-password <PASSWORD>         Database password (overrides env var)
  --neo4j-database <DATABASE>         Database name (overrides env var)
  --transport <MODE>                  Transport mode: stdio, sse or http (overrides env var)
  --http-host <HOST>                  Bind host for sse/http transports (overrides env var)
  --http-port <PORT>                  Bind port for sse/http transports (overrides env var)
  --read-only <BOOL>                  Register only read-only tools (overrides env var)
  --telemetry <BOOL>                  Enable/disable usage telemetry (overrides env var)

Required Environment Variables:
  NEO4J_URI       Neo4j database URI
  NEO4J_USERNAME  Database username
  NEO4J_PASSWORD  Database password

Optional Environment Variables:
  NEO4J_DATABASE            Database name (default: neo4j)
  NEO4J_TRANSPORT_MODE      Transport mode: stdio, sse or http (default: stdio)
  NEO4J_MCP_HTTP_HOST       Bind host for sse/http transports (default: 127.0.0.1)
  NEO4J_MCP_HTTP_PORT       Bind port for sse/http transports (default: 8080)
  NEO4J_READ_ONLY           Register only read-only tools (default: false)
  NEO4J_TELEMETRY           Enable/disable usage telemetry (default: true)
  NEO4J_LOG_LEVEL           Log level (default: info)
  NEO4J_LOG_FORMAT          Log format: text or json (default: text)

Examples:
  # Using environment variables
  NEO4J_URI=bolt://localhost:7687 NEO4J_USERNAME=neo4j NEO4J_PASSWORD=password mcp-neo4j-server

  # Using CLI flags (takes precedence over environment variables)
  mcp-neo4j-server --neo4j-uri bolt://localhost:7687 --neo4j-username neo4j --neo4j-password password --transport sse
`

// configFlags are the value-taking flags that HandleArgs skips so the flag
// package in main can parse them afterwards.
var configFlags = map[string]bool{
	"--neo4j-uri":      true,
	"--neo4j-username": true,
	"--neo4j-password": true,
	"--neo4j-database": true,
	"--transport":      true,
	"--http-host":      true,
	"--http-port":      true,
	"--read-only":      true,
	"--telemetry":      true,
}

// HandleArgs processes command-line arguments for version and help flags,
// exiting after displaying the requested information. Unknown flags print
// an error and exit. Known configuration flags (and their values) are
// skipped untouched so flag.Parse in main can handle them.
func HandleArgs(version string) {
	if len(os.Args) <= 1 {
		return
	}

	flags := make(map[string]bool)
	var err error
	i := 1 // os.Args[0] is the program name, not a flag

	for i < len(os.Args) {
		arg := os.Args[i]
		switch {
		case arg == "-h" || arg == "--help":
			flags["help"] = true
			i++
		case arg == "-v" || arg == "--version":
			flags["version"] = true
			i++
		case configFlags[arg]:
			if i+1 >= len(os.Args) {
				err = fmt.Errorf("%s requires a value", arg)
				break
			}
			nextArg := os.Args[i+1]
			if strings.HasPrefix(nextArg, "--") {
				err = fmt.Errorf("%s requires a value (got flag %s instead)", arg, nextArg)
				break
			}
			// Skip flag and value, flag.Parse picks them up later.
			i += 2
		case arg == "--":
			// Stop processing, let the flag package handle the rest.
			i = len(os.Args)
		default:
			err = fmt.Errorf("unknown flag or argument: %s", arg)
			i++
		}
		if err != nil {
			break
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		osExit(1)
	}

	if flags["help"] {
		fmt.Print(helpText)
		osExit(0)
	}

	if flags["version"] {
		fmt.Printf("mcp-neo4j-server version: %s\n", version)
		osExit(0)
	}
}
