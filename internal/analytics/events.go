package analytics

import (
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
)

const eventNamePrefix = "MCP4NEO4J"

// baseProperties are attached to every track event. DistinctID identifies
// one server execution, not a user; InsertID deduplicates retried messages.
type baseProperties struct {
	Token      string `json:"token"`
	Time       int64  `json:"time"`
	DistinctID string `json:"distinct_id"`
	InsertID   string `json:"$insert_id"`
	Uptime     int64  `json:"uptime"`
}

type startupProperties struct {
	baseProperties
	OS        string `json:"os"`
	OSArch    string `json:"os_arch"`
	Transport string `json:"transport"`
}

type toolsProperties struct {
	baseProperties
	ToolUsed string `json:"tools_used"`
}

// TrackEvent is one MixPanel-style track message.
type TrackEvent struct {
	Event      string `json:"event"`
	Properties any    `json:"properties"`
}

// NewStartupEvent reports a server start with host platform and transport.
func (s *trackingService) NewStartupEvent(transport string) TrackEvent {
	return TrackEvent{
		Event: strings.Join([]string{eventNamePrefix, "MCP_STARTUP"}, "_"),
		Properties: startupProperties{
			baseProperties: s.newBaseProperties(),
			OS:             runtime.GOOS,
			OSArch:         runtime.GOARCH,
			Transport:      transport,
		},
	}
}

// NewToolsEvent reports one tool invocation.
func (s *trackingService) NewToolsEvent(toolUsed string) TrackEvent {
	return TrackEvent{
		Event: strings.Join([]string{eventNamePrefix, "TOOL_USED"}, "_"),
		Properties: toolsProperties{
			baseProperties: s.newBaseProperties(),
			ToolUsed:       toolUsed,
		},
	}
}

func (s *trackingService) newBaseProperties() baseProperties {
	return baseProperties{
		Token:      s.token,
		Time:       time.Now().UnixMilli(),
		DistinctID: s.distinctID,
		InsertID:   s.newInsertID(),
		Uptime:     time.Now().Unix() - s.startupTime,
	}
}

func (s *trackingService) newInsertID() string {
	insertID, err := uuid.NewV6()
	if err != nil {
		s.log.Warn("failed to generate insert id for analytics event", "error", err)
		return ""
	}
	return insertID.String()
}
