// Package analytics implements optional usage telemetry. Events are posted
// as MixPanel-style track events; when no token/endpoint is configured, or
// telemetry is disabled, the service is a no-op.
package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dsimile/mcp-neo4j-server/internal/logger"
)

const emitTimeout = 10 * time.Second

// trackingService is the concrete Service implementation.
type trackingService struct {
	token       string
	endpoint    string
	distinctID  string
	startupTime int64
	client      *http.Client
	log         *logger.Service
	disabled    bool
}

// NewService creates an analytics service. With an empty token or endpoint
// the returned service is disabled and every emit is a no-op.
func NewService(token, endpoint string, log *logger.Service) (Service, error) {
	if token == "" || endpoint == "" {
		return &trackingService{disabled: true, log: log}, nil
	}

	distinctID, err := uuid.NewV6()
	if err != nil {
		return nil, fmt.Errorf("failed to generate distinct id for analytics: %w", err)
	}

	return &trackingService{
		token:       token,
		endpoint:    endpoint,
		distinctID:  distinctID.String(),
		startupTime: time.Now().Unix(),
		client:      &http.Client{Timeout: emitTimeout},
		log:         log,
	}, nil
}

// NewDisabledService creates a service that drops every event.
func NewDisabledService(log *logger.Service) Service {
	return &trackingService{disabled: true, log: log}
}

// EmitEvent sends a single track event. Failures are logged and never
// propagate; telemetry must not affect tool behavior.
func (s *trackingService) EmitEvent(event TrackEvent) {
	if s.disabled {
		return
	}

	s.log.Debug("sending analytics event", "event", event.Event)
	if err := s.sendTrackEvents([]TrackEvent{event}); err != nil {
		s.log.Warn("failed to send analytics event", "event", event.Event, "error", err)
	}
}

func (s *trackingService) sendTrackEvents(events []TrackEvent) error {
	b, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to marshal track events: %w", err)
	}

	url := strings.TrimRight(s.endpoint, "/") + "/track"
	resp, err := s.client.Post(url, "application/json; charset=utf-8", bytes.NewBuffer(b))
	if err != nil {
		return fmt.Errorf("failed to post track events: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read track response: %w", err)
	}

	s.log.Debug("analytics response", "status", resp.Status, "body", string(body))
	return nil
}
