//go:build integration

package integration

import (
	"testing"

	"github.com/dsimile/mcp-neo4j-server/internal/tools/cypher"
	"github.com/dsimile/mcp-neo4j-server/test/integration/helpers"
)

func TestGetSchema(t *testing.T) {
	t.Parallel()

	tc := helpers.NewTestContext(t)

	movieLabel, err := tc.SeedNode("Movie", map[string]any{"title": "The Matrix", "released": 1999})
	if err != nil {
		t.Fatalf("failed to seed data: %v", err)
	}

	schema := cypher.GetSchemaHandler(tc.Deps)
	res := tc.CallTool(schema, map[string]any{})

	var entries []map[string]any
	tc.ParseJSONResponse(res, &entries)

	if len(entries) == 0 {
		t.Fatal("expected at least one schema entry")
	}

	var movieEntry map[string]any
	for _, entry := range entries {
		if entry["label"] == movieLabel.String() {
			movieEntry = entry
			break
		}
	}
	if movieEntry == nil {
		t.Fatalf("schema does not contain label %q: %v", movieLabel, entries)
	}

	attributes, ok := movieEntry["attributes"].(map[string]any)
	if !ok {
		t.Fatalf("expected attributes map, got %T", movieEntry["attributes"])
	}
	for _, prop := range []string{"title", "released"} {
		if _, ok := attributes[prop]; !ok {
			t.Errorf("expected attribute %q in schema entry: %v", prop, attributes)
		}
	}

	if _, ok := movieEntry["relationships"].(map[string]any); !ok {
		t.Errorf("expected relationships map, got %T", movieEntry["relationships"])
	}
}

func TestGetSchema_TracksRelationships(t *testing.T) {
	t.Parallel()

	tc := helpers.NewTestContext(t)

	personLabel := tc.UniqueLabelFor("Person")
	movieLabel := tc.UniqueLabelFor("Movie")

	write := cypher.WriteCypherHandler(tc.Deps)
	tc.CallTool(write, map[string]any{
		"query": "CREATE (p:" + personLabel.String() + " {name: 'Keanu'})-[:ACTED_IN]->(m:" + movieLabel.String() + " {title: 'The Matrix'})",
	})

	schema := cypher.GetSchemaHandler(tc.Deps)
	res := tc.CallTool(schema, map[string]any{})

	var entries []map[string]any
	tc.ParseJSONResponse(res, &entries)

	for _, entry := range entries {
		if entry["label"] != personLabel.String() {
			continue
		}
		relationships, ok := entry["relationships"].(map[string]any)
		if !ok {
			t.Fatalf("expected relationships map, got %T", entry["relationships"])
		}
		if _, ok := relationships["ACTED_IN"]; !ok {
			t.Errorf("expected ACTED_IN relationship on %s: %v", personLabel, relationships)
		}
		return
	}
	t.Fatalf("schema does not contain label %q", personLabel)
}
