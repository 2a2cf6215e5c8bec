package dto

import (
	"errors"
	"strings"
)

// MaxPageSize caps the number of hits a single request may ask for.
const MaxPageSize = 1000

// SearchRequest is the JSON body of POST /search. Filters map fields to
// exact values (equality), Exclude to values the document must not carry.
type SearchRequest struct {
	Index         string         `json:"index,omitempty"`
	Query         string         `json:"query,omitempty"`
	Fields        []string       `json:"fields,omitempty"`
	Filters       map[string]any `json:"filters,omitempty"`
	Exclude       map[string]any `json:"exclude,omitempty"`
	Nested        []NestedFilter `json:"nested,omitempty"`
	Page          int            `json:"page,omitempty"`
	PageSize      int            `json:"page_size,omitempty"`
	Sort          []SortSpec     `json:"sort,omitempty"`
	MinScore      *float64       `json:"min_score,omitempty"`
	Highlight     bool           `json:"highlight,omitempty"`
	FunctionScore bool           `json:"function_score,omitempty"`
	Raw           bool           `json:"raw,omitempty"`
}

// NestedFilter is a path-scoped predicate. Value may be a scalar or a list;
// lists expand into independent clauses.
type NestedFilter struct {
	Path  string `json:"path"`
	Field string `json:"field"`
	Value any    `json:"value"`
	Logic string `json:"logic,omitempty"`
	Score bool   `json:"score,omitempty"`
}

// SortSpec is one entry of the sort sequence.
type SortSpec struct {
	Field string `json:"field"`
	Order string `json:"order,omitempty"`
}

// Validate performs validation on SearchRequest
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" && len(r.Filters) == 0 && len(r.Nested) == 0 {
		return errors.New("at least one of query, filters, or nested is required")
	}
	if strings.TrimSpace(r.Query) != "" && len(r.Fields) == 0 {
		return errors.New("fields is required when query is set")
	}
	if r.Page < 0 {
		return errors.New("page cannot be negative")
	}
	if r.PageSize < 0 || r.PageSize > MaxPageSize {
		return errors.New("page_size out of range")
	}
	for _, n := range r.Nested {
		if strings.TrimSpace(n.Path) == "" {
			return errors.New("nested filter path cannot be empty")
		}
	}
	return nil
}

// SearchResponse is the decoded result returned for non-raw requests.
type SearchResponse struct {
	Total     int64            `json:"total"`
	Documents []map[string]any `json:"documents"`
}

// ErrorResponse is a generic API error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
