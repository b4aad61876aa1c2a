package cypher_test

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/mock/gomock"

	dbmocks "github.com/dsimile/mcp-neo4j-server/internal/database/mocks"
	"github.com/dsimile/mcp-neo4j-server/internal/tools"
	"github.com/dsimile/mcp-neo4j-server/internal/tools/cypher"
)

func TestWriteCypherHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	analyticsService := newAnalyticsMock(ctrl)
	log := testLogger()

	t.Run("successful write returns counters record", func(t *testing.T) {
		counters := map[string]any{
			"nodesCreated": 1, "nodesDeleted": 0,
			"relationshipsCreated": 0, "relationshipsDeleted": 0,
			"propertiesSet": 1, "labelsAdded": 1, "labelsRemoved": 0,
			"indexesAdded": 0, "indexesRemoved": 0,
			"constraintsAdded": 0, "constraintsRemoved": 0,
			"systemUpdates": 0, "containsUpdates": true, "containsSystemUpdates": false,
		}

		mockDB := dbmocks.NewMockService(ctrl)
		mockDB.EXPECT().
			IsWriteQuery("CREATE (n:Person {name:'A'})").
			Return(true)
		mockDB.EXPECT().
			ExecuteQuery(gomock.Any(), "CREATE (n:Person {name:'A'})", gomock.Nil()).
			Return([]map[string]any{counters}, nil)
		mockDB.EXPECT().
			RecordsToJSON(gomock.Any()).
			Return(`[{"nodesCreated": 1, "containsUpdates": true}]`, nil)

		deps := &tools.ToolDependencies{
			DBService:        mockDB,
			AnalyticsService: analyticsService,
			Log:              log,
		}

		handler := cypher.WriteCypherHandler(deps)
		result, err := handler(context.Background(), callToolRequest(map[string]any{
			"query": "CREATE (n:Person {name:'A'})",
		}))

		if err != nil {
			t.Errorf("expected no error, got: %v", err)
		}
		if result == nil || result.IsError {
			t.Fatal("expected success result")
		}
		text, ok := result.Content[0].(mcp.TextContent)
		if !ok {
			t.Fatalf("expected text content, got %T", result.Content[0])
		}
		if !strings.Contains(text.Text, "nodesCreated") {
			t.Errorf("expected counters in response, got %q", text.Text)
		}
	})

	t.Run("read query rejected without database call", func(t *testing.T) {
		mockDB := dbmocks.NewMockService(ctrl)
		mockDB.EXPECT().
			IsWriteQuery("MATCH (n) RETURN n").
			Return(false)
		// No ExecuteQuery expectation: the call must never reach the database.

		deps := &tools.ToolDependencies{
			DBService:        mockDB,
			AnalyticsService: analyticsService,
			Log:              log,
		}

		handler := cypher.WriteCypherHandler(deps)
		result, err := handler(context.Background(), callToolRequest(map[string]any{
			"query": "MATCH (n) RETURN n",
		}))

		if err != nil {
			t.Errorf("expected no error, got: %v", err)
		}
		if result == nil || !result.IsError {
			t.Error("expected tool error result for read query on write tool")
		}
	})

	t.Run("empty query rejected", func(t *testing.T) {
		mockDB := dbmocks.NewMockService(ctrl)

		deps := &tools.ToolDependencies{
			DBService:        mockDB,
			AnalyticsService: analyticsService,
			Log:              log,
		}

		handler := cypher.WriteCypherHandler(deps)
		result, err := handler(context.Background(), callToolRequest(map[string]any{
			"query": "",
		}))

		if err != nil {
			t.Errorf("expected no error, got: %v", err)
		}
		if result == nil || !result.IsError {
			t.Error("expected tool error result for empty query")
		}
	})

	t.Run("integer parameters preserved through binding", func(t *testing.T) {
		mockDB := dbmocks.NewMockService(ctrl)
		mockDB.EXPECT().
			IsWriteQuery("CREATE (n:Person {age: $age})").
			Return(true)
		mockDB.EXPECT().
			ExecuteQuery(gomock.Any(), "CREATE (n:Person {age: $age})", map[string]any{"age": int64(30)}).
			Return([]map[string]any{{}}, nil)
		mockDB.EXPECT().
			RecordsToJSON(gomock.Any()).
			Return("[{}]", nil)

		deps := &tools.ToolDependencies{
			DBService:        mockDB,
			AnalyticsService: analyticsService,
			Log:              log,
		}

		handler := cypher.WriteCypherHandler(deps)
		result, err := handler(context.Background(), callToolRequest(map[string]any{
			"query":  "CREATE (n:Person {age: $age})",
			"params": map[string]any{"age": 30},
		}))

		if err != nil {
			t.Errorf("expected no error, got: %v", err)
		}
		if result == nil || result.IsError {
			t.Error("expected success result")
		}
	})
}
