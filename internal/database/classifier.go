package database

import "regexp"

// writeQueryPattern matches Cypher clauses that mutate the graph.
var writeQueryPattern = regexp.MustCompile(`(?i)\b(MERGE|CREATE|SET|DELETE|REMOVE|ADD)\b`)

// IsWriteQuery reports whether a Cypher query contains common write clauses.
// This is a whole-word keyword match, not a parse: a keyword appearing
// inside a string literal or a comment still classifies the query as a
// write. Queries without any of the keywords are treated as read-only.
func IsWriteQuery(query string) bool {
	return writeQueryPattern.MatchString(query)
}
