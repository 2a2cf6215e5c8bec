package clauso

import "fmt"

// Operator is a comparison operator accepted by Where. Operators map onto
// boolean groups through a fixed table; anything outside the table is a
// structural violation surfaced at execution time.
type Operator string

const (
	OpEquals    Operator = "equals"
	OpNotEquals Operator = "not-equals"
)

// Logic selects the boolean group a nested predicate joins.
type Logic string

const (
	LogicAnd       Logic = "and"
	LogicOr        Logic = "or"
	LogicNotEquals Logic = "not-equals"
)

// BoolGroup names one of the four clause lists of a boolean query.
type BoolGroup string

const (
	GroupFilter  BoolGroup = "filter"
	GroupMust    BoolGroup = "must"
	GroupMustNot BoolGroup = "must_not"
	GroupShould  BoolGroup = "should"
)

func groupForOperator(op Operator) (BoolGroup, error) {
	switch op {
	case OpEquals:
		return GroupFilter, nil
	case OpNotEquals:
		return GroupMustNot, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedOperator, op)
	}
}

func groupForLogic(logic Logic) (BoolGroup, error) {
	switch logic {
	case LogicAnd:
		return GroupMust, nil
	case LogicOr:
		return GroupShould, nil
	case LogicNotEquals:
		return GroupMustNot, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLogic, logic)
	}
}

// Clause is a single search predicate. Body renders the clause in the
// engine's native query grammar.
type Clause interface {
	Body() map[string]any
}

// TermClause matches one field against an exact value. QueryType defaults
// to "term" and may be overridden (e.g. "match") for analyzed fields.
type TermClause struct {
	QueryType string
	Field     string
	Value     any
}

func (c TermClause) Body() map[string]any {
	queryType := c.QueryType
	if queryType == "" {
		queryType = "term"
	}
	return map[string]any{queryType: map[string]any{c.Field: c.Value}}
}

// MultiMatchClause matches a query string across several fields.
type MultiMatchClause struct {
	Query  string
	Fields []string
}

func (c MultiMatchClause) Body() map[string]any {
	return map[string]any{"multi_match": map[string]any{
		"query":  c.Query,
		"fields": c.Fields,
	}}
}

// ExistsClause checks that a field is present and non-null.
type ExistsClause struct {
	Field string
}

func (c ExistsClause) Body() map[string]any {
	return map[string]any{"exists": map[string]any{"field": c.Field}}
}

// NestedClause scopes an inner predicate to a sub-document path.
type NestedClause struct {
	Path  string
	Inner Clause
}

func (c NestedClause) Body() map[string]any {
	return map[string]any{"nested": map[string]any{
		"path":  c.Path,
		"query": c.Inner.Body(),
	}}
}

// RawClause carries a caller-supplied query body verbatim.
type RawClause struct {
	Query map[string]any
}

func (c RawClause) Body() map[string]any {
	return c.Query
}

func clauseBodies(clauses []Clause) []any {
	bodies := make([]any, 0, len(clauses))
	for _, c := range clauses {
		bodies = append(bodies, c.Body())
	}
	return bodies
}
