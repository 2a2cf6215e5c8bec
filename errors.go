package clauso

import "errors"

var (
	// ErrNoIndex is returned when a query is executed without a target index.
	ErrNoIndex = errors.New("no target index set")
	// ErrUnsupportedOperator is returned when Where receives an operator
	// outside the operator table.
	ErrUnsupportedOperator = errors.New("unsupported where operator")
	// ErrUnsupportedLogic is returned when a nested predicate receives a
	// logic value outside the logic table.
	ErrUnsupportedLogic = errors.New("unsupported nested logic")
	// ErrQueryWrapped is returned when a clause method is called after
	// ApplyFunctionScore; the boolean groups are frozen once wrapped.
	ErrQueryWrapped = errors.New("clause added after function score was applied")
	// ErrBuilderConsumed is returned when a builder is reused after Execute.
	ErrBuilderConsumed = errors.New("builder already executed")
)
