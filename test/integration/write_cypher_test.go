//go:build integration

package integration

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dsimile/mcp-neo4j-server/internal/tools/cypher"
	"github.com/dsimile/mcp-neo4j-server/test/integration/helpers"
)

func TestWriteCypher(t *testing.T) {
	t.Parallel()

	tc := helpers.NewTestContext(t)
	personLabel := tc.UniqueLabelFor("Person")

	write := cypher.WriteCypherHandler(tc.Deps)
	res := tc.CallTool(write, map[string]any{
		"query":  fmt.Sprintf("CREATE (p:%s {name: $name, age: $age})", personLabel),
		"params": map[string]any{"name": "Bob", "age": 30},
	})

	var counters []map[string]any
	tc.ParseJSONResponse(res, &counters)

	if len(counters) != 1 {
		t.Fatalf("expected a single counters record, got %d", len(counters))
	}

	summary := counters[0]
	if got := summary["nodesCreated"]; got != float64(1) {
		t.Errorf("expected nodesCreated=1, got %v", got)
	}
	if got := summary["propertiesSet"]; got != float64(2) {
		t.Errorf("expected propertiesSet=2, got %v", got)
	}
	if got := summary["containsUpdates"]; got != true {
		t.Errorf("expected containsUpdates=true, got %v", got)
	}

	// Integer parameters must survive the JSON boundary as integers.
	node := tc.VerifyNodeInDB(personLabel, map[string]any{"name": "Bob"})
	p, _ := node.Get("n")
	helpers.AssertNodePropertyInt64(t, p, "age", 30)
}

func TestWriteCypher_CounterKeysComplete(t *testing.T) {
	t.Parallel()

	tc := helpers.NewTestContext(t)
	label := tc.UniqueLabelFor("Thing")

	write := cypher.WriteCypherHandler(tc.Deps)
	res := tc.CallTool(write, map[string]any{
		"query": fmt.Sprintf("CREATE (t:%s)", label),
	})

	var counters []map[string]any
	tc.ParseJSONResponse(res, &counters)
	if len(counters) != 1 {
		t.Fatalf("expected a single counters record, got %d", len(counters))
	}

	expectedKeys := []string{
		"nodesCreated", "nodesDeleted",
		"relationshipsCreated", "relationshipsDeleted",
		"propertiesSet", "labelsAdded", "labelsRemoved",
		"indexesAdded", "indexesRemoved",
		"constraintsAdded", "constraintsRemoved",
		"systemUpdates", "containsUpdates", "containsSystemUpdates",
	}
	for _, key := range expectedKeys {
		if _, ok := counters[0][key]; !ok {
			t.Errorf("counters record is missing key %q", key)
		}
	}
	if len(counters[0]) != len(expectedKeys) {
		t.Errorf("expected %d counter keys, got %d: %v", len(expectedKeys), len(counters[0]), counters[0])
	}
}

func TestWriteCypher_RejectsReadQuery(t *testing.T) {
	t.Parallel()

	tc := helpers.NewTestContext(t)

	write := cypher.WriteCypherHandler(tc.Deps)
	res := tc.CallToolExpectError(write, map[string]any{
		"query": "MATCH (n) RETURN n LIMIT 1",
	})

	if text := tc.ResponseText(res); !strings.Contains(text, "read-neo4j-cypher") {
		t.Errorf("rejection should point at the read tool, got %q", text)
	}
}
