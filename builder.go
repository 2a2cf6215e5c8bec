package clauso

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/soundprediction/clauso/pkg/driver"
)

// DefaultFunctionWeight is the ranking weight given to a nested clause
// promoted to a scoring function when the caller does not supply one.
const DefaultFunctionWeight = 2.0

// ExecutionMode selects the shape Execute returns results in.
type ExecutionMode string

const (
	// ModeDecoded decodes hit sources into plain maps.
	ModeDecoded ExecutionMode = "decoded"
	// ModeRaw passes the gateway response through untouched.
	ModeRaw ExecutionMode = "raw"
)

// Builder accumulates structured search predicates, scoring hints, sort
// orders and aggregation descriptors, and compiles them into a single query
// document for the search engine. One builder owns one logical query: it is
// mutated by chained calls from a single caller, executed once, and then
// consumed. Builders are not safe for concurrent mutation; independent
// builders own disjoint state and may be constructed concurrently.
type Builder struct {
	doc      QueryDocument
	gateway  driver.QueryExecutor
	logger   *slog.Logger
	mode     ExecutionMode
	err      error
	consumed bool
}

// NestedOpt overrides the defaults of NestedWhere and NestedWhereRaw. Zero
// values mean "or" logic, "term" query type, and promotion to a scoring
// function with DefaultFunctionWeight.
type NestedOpt struct {
	Logic     Logic
	QueryType string
	NoScore   bool
	Weight    float64
}

func (o NestedOpt) normalize() NestedOpt {
	if o.Logic == "" {
		o.Logic = LogicOr
	}
	if o.QueryType == "" {
		o.QueryType = "term"
	}
	if o.Weight == 0 {
		o.Weight = DefaultFunctionWeight
	}
	return o
}

// New creates a builder bound to an execution gateway. A nil logger falls
// back to slog.Default().
func New(gateway driver.QueryExecutor, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		gateway: gateway,
		logger:  logger,
		mode:    ModeDecoded,
	}
}

// Index sets the target index the query runs against.
func (b *Builder) Index(name string) *Builder {
	b.doc.Index = name
	return b
}

// ResponseMode selects between decoded documents and the raw gateway
// response.
func (b *Builder) ResponseMode(mode ExecutionMode) *Builder {
	b.mode = mode
	return b
}

// Where adds a single-field predicate. The operator selects the boolean
// group: equals lands in filter, not-equals in must_not. An operator outside
// the table records a sticky error and adds nothing. The optional queryType
// overrides the default "term" rendering.
func (b *Builder) Where(field string, value any, op Operator, queryType ...string) *Builder {
	group, err := groupForOperator(op)
	if err != nil {
		b.fail(err)
		return b
	}
	clause := TermClause{Field: field, Value: value}
	if len(queryType) > 0 {
		clause.QueryType = queryType[0]
	}
	b.add(group, clause)
	return b
}

// WhereIn unrolls a value list into independent equality filters, one term
// clause per element.
func (b *Builder) WhereIn(field string, values []any) *Builder {
	for _, v := range values {
		b.add(GroupFilter, TermClause{Field: field, Value: v})
	}
	return b
}

// WhereNull adds an existence predicate: isNull true requires the field to
// be absent (must_not exists), false requires it present (must exists).
// Repeated calls accumulate, one predicate per call.
func (b *Builder) WhereNull(field string, isNull bool) *Builder {
	if isNull {
		b.add(GroupMustNot, ExistsClause{Field: field})
	} else {
		b.add(GroupMust, ExistsClause{Field: field})
	}
	return b
}

// Keywords adds one multi_match predicate per keyword to the must group,
// each carrying the full field set. A scalar keyword is treated as a
// one-element sequence.
func (b *Builder) Keywords(keywords any, fields ...string) *Builder {
	for _, kw := range unroll(keywords) {
		b.add(GroupMust, MultiMatchClause{
			Query:  fmt.Sprint(kw),
			Fields: append([]string(nil), fields...),
		})
	}
	return b
}

// NestedWhere adds a path-scoped predicate with the defaults: "or" logic,
// term matching, promoted to a scoring function with DefaultFunctionWeight.
// A slice value unrolls into one independent nested clause per element.
func (b *Builder) NestedWhere(path, field string, value any) *Builder {
	return b.NestedWhereOpt(path, field, value, NestedOpt{})
}

// NestedWhereOpt is NestedWhere with explicit grouping, query type and
// scoring overrides.
func (b *Builder) NestedWhereOpt(path, field string, value any, opt NestedOpt) *Builder {
	opt = opt.normalize()
	group, err := groupForLogic(opt.Logic)
	if err != nil {
		b.fail(err)
		return b
	}
	for _, v := range unroll(value) {
		clause := NestedClause{
			Path:  path,
			Inner: TermClause{QueryType: opt.QueryType, Field: field, Value: v},
		}
		b.add(group, clause)
		if !opt.NoScore {
			b.registerScoreFunction(clause, opt.Weight)
		}
	}
	return b
}

// NestedWhereRaw adds a path-scoped predicate whose inner query body is
// supplied verbatim. Grouping and scoring mechanics match NestedWhereOpt.
func (b *Builder) NestedWhereRaw(path string, query map[string]any, opt NestedOpt) *Builder {
	opt = opt.normalize()
	group, err := groupForLogic(opt.Logic)
	if err != nil {
		b.fail(err)
		return b
	}
	clause := NestedClause{Path: path, Inner: RawClause{Query: query}}
	b.add(group, clause)
	if !opt.NoScore {
		b.registerScoreFunction(clause, opt.Weight)
	}
	return b
}

// MinimumShouldMatch sets the minimum number of should clauses a document
// must match.
func (b *Builder) MinimumShouldMatch(count int) *Builder {
	b.doc.Bool.MinimumShouldMatch = count
	return b
}

// MinScore drops hits scoring below the given threshold.
func (b *Builder) MinScore(score float64) *Builder {
	b.doc.MinScore = &score
	return b
}

// Sort appends a sort order; calls accumulate in sequence.
func (b *Builder) Sort(field string, order SortOrder) *Builder {
	b.doc.Sort = append(b.doc.Sort, SortField{Field: field, Order: order})
	return b
}

// Paginate sets offset pagination: from = (page-1) * pageSize. Pages start
// at 1; smaller values clamp to the first page.
func (b *Builder) Paginate(pageSize, page int) *Builder {
	if page < 1 {
		page = 1
	}
	b.doc.From = (page - 1) * pageSize
	size := pageSize
	b.doc.Size = &size
	return b
}

// Limit caps the number of hits without touching the offset.
func (b *Builder) Limit(size int) *Builder {
	b.doc.Size = &size
	return b
}

// Highlight requests highlighting for the given fields, wrapping matches in
// an <em> tag carrying wrapperClass.
func (b *Builder) Highlight(wrapperClass string, fields ...string) *Builder {
	b.doc.Highlight = &HighlightSpec{
		Fields:       append([]string(nil), fields...),
		WrapperClass: wrapperClass,
	}
	return b
}

// Aggregations sets the declarative aggregation tree expanded at compile
// time.
func (b *Builder) Aggregations(nodes ...AggregationNode) *Builder {
	b.doc.Aggs = nodes
	return b
}

// ApplyFunctionScore wraps the current boolean query and the registered
// scoring functions into a function-score envelope. Empty modes default to
// score_mode "sum" and boost_mode "replace". The wrap is one-way: clause
// methods called afterwards record a sticky ErrQueryWrapped instead of
// mutating the wrapped document.
func (b *Builder) ApplyFunctionScore(scoreMode, boostMode string) *Builder {
	if scoreMode == "" {
		scoreMode = "sum"
	}
	if boostMode == "" {
		boostMode = "replace"
	}
	b.doc.ScoreMode = scoreMode
	b.doc.BoostMode = boostMode
	b.doc.Wrapped = true
	return b
}

// Err reports the first structural violation recorded by a chained call,
// nil if the builder state is valid.
func (b *Builder) Err() error {
	return b.err
}

// Snapshot returns a deep, read-only copy of the current document state.
func (b *Builder) Snapshot() QueryDocument {
	return b.doc.Snapshot()
}

// Compile validates the accumulated state and renders the wire envelope.
func (b *Builder) Compile() (map[string]any, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.doc.Index == "" {
		return nil, ErrNoIndex
	}
	return b.doc.Compile(), nil
}

// Result holds the outcome of an executed query. Raw is always set;
// Documents and Total are populated in decoded mode.
type Result struct {
	Raw       *driver.SearchResponse
	Documents []map[string]any
	Total     int64
}

// Execute validates the document, snapshots it, and forwards it to the
// execution gateway. A missing index fails before any gateway call. The
// builder is consumed on success and must not be reused.
func (b *Builder) Execute(ctx context.Context) (*Result, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.consumed {
		return nil, ErrBuilderConsumed
	}
	if b.doc.Index == "" {
		return nil, ErrNoIndex
	}

	snap := b.doc.Snapshot()
	b.consumed = true

	b.logger.Debug("executing search",
		"index", snap.Index,
		"filter", len(snap.Bool.Filter),
		"must", len(snap.Bool.Must),
		"must_not", len(snap.Bool.MustNot),
		"should", len(snap.Bool.Should),
		"functions", len(snap.Functions))

	resp, err := b.gateway.Search(ctx, snap.Index, snap.Body())
	if err != nil {
		return nil, err
	}

	result := &Result{Raw: resp, Total: resp.Hits.Total.Value}
	if b.mode == ModeRaw {
		return result, nil
	}
	result.Documents = make([]map[string]any, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		doc := map[string]any{}
		if len(hit.Source) > 0 {
			if err := json.Unmarshal(hit.Source, &doc); err != nil {
				return nil, fmt.Errorf("decode hit %s: %w", hit.ID, err)
			}
		}
		result.Documents = append(result.Documents, doc)
	}
	return result, nil
}

func (b *Builder) add(group BoolGroup, clause Clause) {
	if b.consumed {
		b.fail(ErrBuilderConsumed)
		return
	}
	if b.doc.Wrapped {
		b.fail(ErrQueryWrapped)
		return
	}
	switch group {
	case GroupFilter:
		b.doc.Bool.Filter = append(b.doc.Bool.Filter, clause)
	case GroupMust:
		b.doc.Bool.Must = append(b.doc.Bool.Must, clause)
	case GroupMustNot:
		b.doc.Bool.MustNot = append(b.doc.Bool.MustNot, clause)
	case GroupShould:
		b.doc.Bool.Should = append(b.doc.Bool.Should, clause)
	}
}

func (b *Builder) registerScoreFunction(clause Clause, weight float64) {
	if b.doc.Wrapped || b.consumed {
		return
	}
	b.doc.Functions = append(b.doc.Functions, ScoreFunction{Clause: clause, Weight: weight})
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
	b.logger.Warn("builder call rejected", "error", err)
}

// unroll normalizes a scalar into a one-element sequence and flattens
// slices and arrays into independent elements.
func unroll(value any) []any {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return []any{value}
	}
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		out := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			out = append(out, v.Index(i).Interface())
		}
		return out
	}
	return []any{value}
}
