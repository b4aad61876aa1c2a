package database

import (
	"encoding/json"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// RecordToMap flattens a driver record into a plain key-value map, keyed by
// the record's field names. No driver handle types survive past this point.
func RecordToMap(record *neo4j.Record) map[string]any {
	m := make(map[string]any, len(record.Keys))
	for i, key := range record.Keys {
		m[key] = record.Values[i]
	}
	return m
}

// CountersToMap flattens a write summary into the fixed counters record.
// Every key is always present, even when its count is zero, so callers can
// rely on the shape without probing.
func CountersToMap(counters neo4j.Counters) map[string]any {
	return map[string]any{
		"nodesCreated":          counters.NodesCreated(),
		"nodesDeleted":          counters.NodesDeleted(),
		"relationshipsCreated":  counters.RelationshipsCreated(),
		"relationshipsDeleted":  counters.RelationshipsDeleted(),
		"propertiesSet":         counters.PropertiesSet(),
		"labelsAdded":           counters.LabelsAdded(),
		"labelsRemoved":         counters.LabelsRemoved(),
		"indexesAdded":          counters.IndexesAdded(),
		"indexesRemoved":        counters.IndexesRemoved(),
		"constraintsAdded":      counters.ConstraintsAdded(),
		"constraintsRemoved":    counters.ConstraintsRemoved(),
		"systemUpdates":         counters.SystemUpdates(),
		"containsUpdates":       counters.ContainsUpdates(),
		"containsSystemUpdates": counters.ContainsSystemUpdates(),
	}
}

// resultsToJSON serializes normalized results for the tool boundary. A nil
// or empty slice serializes as an empty JSON array, not null.
func resultsToJSON(results []map[string]any) (string, error) {
	if results == nil {
		results = []map[string]any{}
	}
	formatted, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format records as JSON: %w", err)
	}
	return string(formatted), nil
}
