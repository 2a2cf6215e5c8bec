package clauso

import "fmt"

// SortOrder is a sort direction understood by the engine.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortField is one entry of the ordered sort sequence.
type SortField struct {
	Field string
	Order SortOrder
}

// ScoreFunction pairs a clause with the ranking weight it contributes when
// the query is wrapped in a function-score envelope.
type ScoreFunction struct {
	Clause Clause
	Weight float64
}

// HighlightSpec describes which fields are highlighted and the CSS class of
// the wrapping tag.
type HighlightSpec struct {
	Fields       []string
	WrapperClass string
}

func (h *HighlightSpec) body() map[string]any {
	fields := make(map[string]any, len(h.Fields))
	for _, f := range h.Fields {
		fields[f] = map[string]any{}
	}
	return map[string]any{
		"pre_tags":            []string{fmt.Sprintf("<em class=%q>", h.WrapperClass)},
		"post_tags":           []string{"</em>"},
		"require_field_match": true,
		"fields":              fields,
	}
}

// BoolGroups holds the four clause lists of the working boolean query.
type BoolGroups struct {
	Filter             []Clause
	Must               []Clause
	MustNot            []Clause
	Should             []Clause
	MinimumShouldMatch int
}

// QueryDocument is the accumulated, serializable state of one query. It is
// mutated through the Builder and turned into an immutable snapshot exactly
// once at execution time.
type QueryDocument struct {
	Index     string
	From      int
	Size      *int
	Sort      []SortField
	Bool      BoolGroups
	Functions []ScoreFunction
	ScoreMode string
	BoostMode string
	Wrapped   bool
	Highlight *HighlightSpec
	MinScore  *float64
	Aggs      []AggregationNode
}

// Snapshot returns a deep copy of the document. Later mutation of the live
// builder is not observable through a snapshot.
func (d *QueryDocument) Snapshot() QueryDocument {
	snap := *d
	snap.Sort = append([]SortField(nil), d.Sort...)
	snap.Bool.Filter = copyClauses(d.Bool.Filter)
	snap.Bool.Must = copyClauses(d.Bool.Must)
	snap.Bool.MustNot = copyClauses(d.Bool.MustNot)
	snap.Bool.Should = copyClauses(d.Bool.Should)
	snap.Functions = make([]ScoreFunction, len(d.Functions))
	for i, f := range d.Functions {
		snap.Functions[i] = ScoreFunction{Clause: copyClause(f.Clause), Weight: f.Weight}
	}
	if d.Size != nil {
		size := *d.Size
		snap.Size = &size
	}
	if d.MinScore != nil {
		score := *d.MinScore
		snap.MinScore = &score
	}
	if d.Highlight != nil {
		snap.Highlight = &HighlightSpec{
			Fields:       append([]string(nil), d.Highlight.Fields...),
			WrapperClass: d.Highlight.WrapperClass,
		}
	}
	snap.Aggs = copyAggregationNodes(d.Aggs)
	return snap
}

func copyClauses(clauses []Clause) []Clause {
	out := make([]Clause, len(clauses))
	for i, c := range clauses {
		out[i] = copyClause(c)
	}
	return out
}

// copyClause deep-copies the clause variants that hold reference types.
// Value-only variants are immutable as stored and copy by assignment.
func copyClause(c Clause) Clause {
	switch v := c.(type) {
	case MultiMatchClause:
		v.Fields = append([]string(nil), v.Fields...)
		return v
	case NestedClause:
		v.Inner = copyClause(v.Inner)
		return v
	case RawClause:
		v.Query = deepCopyMap(v.Query)
		return v
	default:
		return c
	}
}

func deepCopyMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = deepCopyValue(v)
	}
	return dst
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}

// Body renders the document body in the engine's query grammar.
func (d *QueryDocument) Body() map[string]any {
	body := map[string]any{"query": d.queryBody()}
	if len(d.Sort) > 0 {
		sorts := make([]any, 0, len(d.Sort))
		for _, s := range d.Sort {
			sorts = append(sorts, map[string]any{s.Field: map[string]any{"order": string(s.Order)}})
		}
		body["sort"] = sorts
	}
	if d.From > 0 {
		body["from"] = d.From
	}
	if d.Size != nil {
		body["size"] = *d.Size
	}
	if d.MinScore != nil {
		body["min_score"] = *d.MinScore
	}
	if d.Highlight != nil {
		body["highlight"] = d.Highlight.body()
	}
	if len(d.Aggs) > 0 {
		body["aggs"] = BuildAggregations(d.Aggs)
	}
	return body
}

// Compile renders the full wire envelope: the target index plus the body.
func (d *QueryDocument) Compile() map[string]any {
	return map[string]any{
		"index": d.Index,
		"body":  d.Body(),
	}
}

func (d *QueryDocument) queryBody() map[string]any {
	boolQuery := map[string]any{
		"filter":   clauseBodies(d.Bool.Filter),
		"must":     clauseBodies(d.Bool.Must),
		"must_not": clauseBodies(d.Bool.MustNot),
		"should":   clauseBodies(d.Bool.Should),
	}
	if d.Bool.MinimumShouldMatch > 0 {
		boolQuery["minimum_should_match"] = d.Bool.MinimumShouldMatch
	}
	query := map[string]any{"bool": boolQuery}
	if !d.Wrapped {
		return query
	}
	functions := make([]any, 0, len(d.Functions))
	for _, f := range d.Functions {
		functions = append(functions, map[string]any{
			"filter": f.Clause.Body(),
			"weight": f.Weight,
		})
	}
	return map[string]any{"function_score": map[string]any{
		"query":      query,
		"functions":  functions,
		"score_mode": d.ScoreMode,
		"boost_mode": d.BoostMode,
	}}
}
