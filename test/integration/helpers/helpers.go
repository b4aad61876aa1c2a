//go:build integration

// Package helpers provides the shared Neo4j test container and tool-calling
// utilities for the integration suite.
package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	driverconfig "github.com/neo4j/neo4j-go-driver/v5/neo4j/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dsimile/mcp-neo4j-server/internal/analytics"
	"github.com/dsimile/mcp-neo4j-server/internal/config"
	"github.com/dsimile/mcp-neo4j-server/internal/database"
	"github.com/dsimile/mcp-neo4j-server/internal/logger"
	"github.com/dsimile/mcp-neo4j-server/internal/tools"
)

// UniqueLabel is a node label suffixed with the test ID so parallel tests
// never see each other's data.
type UniqueLabel string

func (ul UniqueLabel) String() string {
	return string(ul)
}

// TestContext holds common test dependencies.
type TestContext struct {
	Ctx           context.Context
	T             *testing.T
	TestID        string
	Service       database.Service
	Deps          *tools.ToolDependencies
	createdLabels map[string]bool
	labelMutex    sync.Mutex
}

var (
	cfg       *config.Config
	container testcontainers.Container
	driver    neo4j.DriverWithContext
	once      sync.Once
)

// Start initializes the shared container and driver for the suite.
func Start(ctx context.Context) {
	once.Do(func() {
		startOnce(ctx)
	})
}

func startOnce(ctx context.Context) {
	ctr, boltURI, err := createNeo4jContainer(ctx)
	if err != nil {
		log.Fatalf("failed to start shared neo4j container: %v", err)
	}
	container = ctr

	cfg = &config.Config{
		URI:      boltURI,
		Username: config.GetEnvWithDefault("NEO4J_USERNAME", "neo4j"),
		Password: config.GetEnvWithDefault("NEO4J_PASSWORD", "password"),
		Database: config.GetEnvWithDefault("NEO4J_DATABASE", "neo4j"),
	}

	// The production connection path: pool policy plus eager verification.
	drv, err := connectWithBackoff(ctx, ctr)
	if err != nil {
		_ = ctr.Terminate(ctx)
		log.Fatalf("failed to connect to neo4j: %v", err)
	}
	driver = drv
}

// Close cleans up the shared container and driver.
func Close(ctx context.Context) {
	if err := driver.Close(ctx); err != nil {
		log.Printf("Warning: failed to close driver: %v", err)
	}
	if err := container.Terminate(ctx); err != nil {
		log.Printf("Warning: failed to terminate container: %v", err)
	}
}

func createNeo4jContainer(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        config.GetEnvWithDefault("NEO4J_IMAGE", "neo4j:5.24.2-community"),
		ExposedPorts: []string{"7687/tcp"},
		Env: map[string]string{
			"NEO4J_AUTH": fmt.Sprintf("%s/%s",
				config.GetEnvWithDefault("NEO4J_USERNAME", "neo4j"),
				config.GetEnvWithDefault("NEO4J_PASSWORD", "password")),
			// The schema tool needs apoc.meta.data.
			"NEO4JLABS_PLUGINS": config.GetEnvWithDefault("NEO4JLABS_PLUGINS", `["apoc"]`),
		},
		WaitingFor: wait.ForListeningPort("7687/tcp").WithStartupTimeout(119 * time.Second),
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, "", err
	}

	port, err := ctr.MappedPort(ctx, "7687/tcp")
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, "", err
	}

	boltURI := fmt.Sprintf("bolt://%s:%s", host, port.Port())

	return ctr, boltURI, nil
}

// connectWithBackoff builds the verified driver through database.NewDriver,
// retrying with exponential backoff while the container finishes booting and
// dumping container logs on failure.
func connectWithBackoff(ctx context.Context, ctr testcontainers.Container) (neo4j.DriverWithContext, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	backoff := 100 * time.Millisecond
	maxBackoff := 2 * time.Second

	var lastErr error
	for {
		drv, err := database.NewDriver(ctx, cfg.URI, cfg.Username, cfg.Password)
		if err == nil {
			return drv, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}

		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	var logs string
	if ctr != nil {
		rc, err := ctr.Logs(context.Background())
		if err == nil && rc != nil {
			b, rerr := io.ReadAll(rc)
			_ = rc.Close()
			if rerr == nil {
				logs = string(b)
			}
		}
	}
	return nil, fmt.Errorf("connectivity never established: %w\ncontainer logs:\n%s", lastErr, logs)
}

// NewTestContext creates a new test context with automatic cleanup.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()
	return newTestContext(t, driver)
}

// NewTestContextWithPoolSize creates a test context whose service runs on a
// dedicated driver with a bounded connection pool, for tests that exercise
// pool acquisition behavior. The driver is closed when the test ends.
func NewTestContextWithPoolSize(t *testing.T, poolSize int) *TestContext {
	t.Helper()

	drv, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""), func(c *driverconfig.Config) {
		c.MaxConnectionPoolSize = poolSize
	})
	if err != nil {
		t.Fatalf("failed to create pool-bounded driver: %v", err)
	}
	t.Cleanup(func() {
		_ = drv.Close(context.Background())
	})

	return newTestContext(t, drv)
}

func newTestContext(t *testing.T, drv neo4j.DriverWithContext) *TestContext {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	testID := makeTestID()

	tc := &TestContext{
		Ctx:           ctx,
		T:             t,
		TestID:        testID,
		createdLabels: make(map[string]bool),
	}

	t.Cleanup(func() {
		tc.Cleanup()
		cancel()
	})

	testLog := logger.New("error", "text", io.Discard)
	svc := database.NewNeo4jService(drv, cfg.Database, testLog)
	deps := &tools.ToolDependencies{
		Config:           cfg,
		DBService:        svc,
		AnalyticsService: analytics.NewDisabledService(testLog),
		Log:              testLog,
	}

	tc.Service = svc
	tc.Deps = deps

	return tc
}

func makeTestID() string {
	return "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// Cleanup removes all nodes with labels created during the test.
func (tc *TestContext) Cleanup() {
	if tc.Service == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tc.labelMutex.Lock()
	labels := make([]string, 0, len(tc.createdLabels))
	for label := range tc.createdLabels {
		labels = append(labels, label)
	}
	tc.labelMutex.Unlock()

	for _, label := range labels {
		query := fmt.Sprintf("MATCH (n:%s) DETACH DELETE n", label)
		if _, err := tc.Service.ExecuteQuery(ctx, query, nil); err != nil {
			log.Printf("Warning: cleanup failed for label=%s: %v", label, err)
		}
	}
}

// SeedNode creates a test node with a unique label and returns the label.
func (tc *TestContext) SeedNode(label string, props map[string]any) (UniqueLabel, error) {
	tc.T.Helper()

	if tc.TestID == "" {
		panic("SeedNode: TestID is not set in TestContext. Did you forget to use NewTestContext?")
	}

	uniqueLabel := UniqueLabel(fmt.Sprintf("%s_%s", label, tc.TestID))

	tc.labelMutex.Lock()
	tc.createdLabels[string(uniqueLabel)] = true
	tc.labelMutex.Unlock()

	query := fmt.Sprintf("CREATE (n:%s $props)", uniqueLabel)
	results, err := tc.Service.ExecuteQuery(tc.Ctx, query, map[string]any{"props": props})
	if err != nil {
		return "", err
	}
	// A write query returns a single counters map; a failed creation shows
	// up as zero created nodes because execution errors are not returned.
	if len(results) != 1 {
		return "", fmt.Errorf("expected counters record after seeding, got %d records", len(results))
	}
	if created, _ := results[0]["nodesCreated"].(int); created != 1 {
		return "", fmt.Errorf("expected 1 created node, got %v", results[0]["nodesCreated"])
	}

	return uniqueLabel, nil
}

// UniqueLabelFor builds a unique label for this test and registers it for
// cleanup, without seeding any data.
func (tc *TestContext) UniqueLabelFor(label string) UniqueLabel {
	tc.T.Helper()

	uniqueLabel := UniqueLabel(fmt.Sprintf("%s_%s", label, tc.TestID))

	tc.labelMutex.Lock()
	tc.createdLabels[string(uniqueLabel)] = true
	tc.labelMutex.Unlock()

	return uniqueLabel
}

// CallTool invokes an MCP tool handler and fails the test on any error.
func (tc *TestContext) CallTool(handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	tc.T.Helper()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}

	res, err := handler(tc.Ctx, req)
	if err != nil {
		tc.T.Fatalf("tool call failed: %v", err)
	}
	if res == nil {
		tc.T.Fatal("tool returned nil response")
	}
	if res.IsError {
		tc.T.Fatalf("tool returned error: %+v", res)
	}

	return res
}

// CallToolExpectError invokes an MCP tool handler and fails the test unless
// the handler returns a tool-level error result.
func (tc *TestContext) CallToolExpectError(handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	tc.T.Helper()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}

	res, err := handler(tc.Ctx, req)
	if err != nil {
		tc.T.Fatalf("tool call failed: %v", err)
	}
	if res == nil {
		tc.T.Fatal("tool returned nil response")
	}
	if !res.IsError {
		tc.T.Fatalf("expected tool error result, got success: %+v", res)
	}

	return res
}

// ResponseText extracts the text content of a tool response.
func (tc *TestContext) ResponseText(res *mcp.CallToolResult) string {
	tc.T.Helper()

	if len(res.Content) == 0 {
		tc.T.Fatal("response has no content")
	}

	textContent, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		tc.T.Fatalf("expected TextContent, got %T", res.Content[0])
	}
	return textContent.Text
}

// ParseJSONResponse parses a JSON tool response into the provided value.
func (tc *TestContext) ParseJSONResponse(res *mcp.CallToolResult, v any) {
	tc.T.Helper()

	raw := tc.ResponseText(res)
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		tc.T.Fatalf("failed to parse JSON response: %v\nraw: %s", err, raw)
	}
}

// VerifyNodeInDB asserts exactly one node with the label and properties
// exists, going through the driver directly rather than the service.
func (tc *TestContext) VerifyNodeInDB(label UniqueLabel, props map[string]any) *neo4j.Record {
	tc.T.Helper()

	session := driver.NewSession(tc.Ctx, neo4j.SessionConfig{DatabaseName: cfg.Database})
	defer session.Close(tc.Ctx)

	whereClauses := []string{}
	for key := range props {
		whereClauses = append(whereClauses, fmt.Sprintf("n.%s = $%s", key, key))
	}
	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := fmt.Sprintf("MATCH (n:%s)%s RETURN n", label, whereClause)
	result, err := session.ExecuteRead(tc.Ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(tc.Ctx, query, props)
		if err != nil {
			return nil, err
		}
		return res.Collect(tc.Ctx)
	})
	if err != nil {
		tc.T.Fatalf("failed to verify node in DB: %v", err)
	}

	records, ok := result.([]*neo4j.Record)
	if !ok || len(records) != 1 {
		tc.T.Fatalf("expected 1 record in DB, got %d", len(records))
	}

	return records[0]
}

// AssertNodeProperties validates node properties match expected values.
func AssertNodeProperties(t *testing.T, node map[string]any, expectedProps map[string]any) {
	t.Helper()

	props, ok := node["Props"].(map[string]any)
	if !ok {
		t.Fatalf("expected 'Props' to be a map, got %T: %+v", node["Props"], node)
	}

	for key, expectedVal := range expectedProps {
		actualVal, exists := props[key]
		if !exists {
			t.Errorf("property %q not found in node", key)
			continue
		}

		if actualVal != expectedVal {
			t.Errorf("property %q: expected %v (type=%T), got %v (type=%T)",
				key, expectedVal, expectedVal, actualVal, actualVal)
		}
	}
}

// AssertNodePropertyInt64 checks a driver-side node property kept its
// integer type end to end.
func AssertNodePropertyInt64(t *testing.T, value any, key string, expected int64) {
	t.Helper()

	node, ok := value.(neo4j.Node)
	if !ok {
		t.Fatalf("expected neo4j.Node, got %T", value)
	}
	got, ok := node.Props[key].(int64)
	if !ok {
		t.Fatalf("expected property %q to be int64, got %T (%v)", key, node.Props[key], node.Props[key])
	}
	if got != expected {
		t.Errorf("property %q: expected %d, got %d", key, expected, got)
	}
}

// AssertNodeHasLabel checks if a node has a specific label.
func AssertNodeHasLabel(t *testing.T, node map[string]any, expectedLabel UniqueLabel) {
	t.Helper()

	labels, ok := node["Labels"].([]any)
	if !ok {
		t.Fatalf("expected 'Labels' to be a slice, got %T", node["Labels"])
	}

	for _, label := range labels {
		if labelStr, ok := label.(string); ok && labelStr == string(expectedLabel) {
			return
		}
	}

	t.Errorf("expected node to have label %q, got labels=%v", expectedLabel, labels)
}
