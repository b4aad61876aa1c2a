package database

// SchemaQuery asks the database for its own shape via apoc.meta.data: one
// row per node label (internal labels prefixed with '_' excluded), with the
// label's non-relationship properties folded into an attributes map (type
// string annotated with " unique"/" indexed") and its relationship-typed
// properties folded into a relationships map of name to target label.
const SchemaQuery = `
call apoc.meta.data() yield label, property, type, other, unique, index, elementType
where elementType = 'node' and not label starts with '_'
with label,
    collect(case when type <> 'RELATIONSHIP' then [property, type + case when unique then " unique" else "" end + case when index then " indexed" else "" end] end) as attributes,
    collect(case when type = 'RELATIONSHIP' then [property, head(other)] end) as relationships
RETURN label, apoc.map.fromPairs(attributes) as attributes, apoc.map.fromPairs(relationships) as relationships
`
