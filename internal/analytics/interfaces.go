package analytics

//go:generate mockgen -destination=mocks/mock_analytics.go -package=mocks github.com/dsimile/mcp-neo4j-server/internal/analytics Service

// Service is the telemetry surface consumed by the server and tool handlers.
type Service interface {
	// EmitEvent sends one track event; failures are logged, never returned.
	EmitEvent(event TrackEvent)

	// NewStartupEvent builds the server-start event.
	NewStartupEvent(transport string) TrackEvent

	// NewToolsEvent builds a tool-invocation event.
	NewToolsEvent(toolUsed string) TrackEvent
}
