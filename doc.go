// Package clauso provides a fluent query builder for document search
// engines.
//
// A Builder accumulates structured search predicates, scoring hints, sort
// orders and aggregation descriptors through chained calls, and compiles
// them into a single nested query document in the engine's native grammar.
// Transport is delegated to an execution gateway from the driver package;
// the builder itself performs no I/O before Execute.
//
// # Basic Usage
//
// Create a driver and bind a builder to it:
//
//	drv, err := driver.NewElasticsearchDriver(driver.Config{
//		Hosts: []string{"http://localhost:9200"},
//	}, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := clauso.New(drv, nil).
//		Index("products").
//		Where("status", 1, clauso.OpEquals).
//		Keywords("espresso", "title", "description").
//		Paginate(10, 1).
//		Execute(ctx)
//
// # Nested Predicates and Scoring
//
// Nested predicates scope a clause to a sub-document path. Slice values
// unroll into independent clauses, each promoted to a scoring function by
// default; ApplyFunctionScore folds the registered functions into a
// function-score envelope:
//
//	result, err := clauso.New(drv, nil).
//		Index("products").
//		NestedWhere("tags", "name", []string{"organic", "fairtrade"}).
//		ApplyFunctionScore("sum", "replace").
//		Execute(ctx)
//
// # Lifecycle
//
// One builder owns one logical query. It is mutated synchronously by
// chained calls, snapshotted and executed exactly once, and then consumed;
// reuse returns ErrBuilderConsumed. Structural violations (an operator
// outside the table, a clause call after the function-score wrap) are
// recorded on the builder and surfaced before any gateway call.
package clauso
