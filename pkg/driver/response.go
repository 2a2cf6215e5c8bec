package driver

import "encoding/json"

// SearchResponse is the decoded engine search response. Aggregation payloads
// stay raw until the caller knows which aggregation type to parse.
type SearchResponse struct {
	Took         int                        `json:"took"`
	TimedOut     bool                       `json:"timed_out"`
	Shards       ShardsInfo                 `json:"_shards"`
	Hits         HitsInfo                   `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations,omitempty"`
}

// ShardsInfo describes shard execution for the request.
type ShardsInfo struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// HitsInfo holds the matched documents and scoring envelope.
type HitsInfo struct {
	Total    TotalHits `json:"total"`
	MaxScore *float64  `json:"max_score"`
	Hits     []Hit     `json:"hits"`
}

// TotalHits is the match count; Relation is "eq" for exact counts or "gte"
// for lower bounds.
type TotalHits struct {
	Value    int64  `json:"value"`
	Relation string `json:"relation"`
}

// Hit is a single matched document.
type Hit struct {
	Index     string              `json:"_index"`
	ID        string              `json:"_id"`
	Score     *float64            `json:"_score"`
	Source    json.RawMessage     `json:"_source"`
	Highlight map[string][]string `json:"highlight,omitempty"`
}

// Document is one document submitted to BulkUpsert. An empty ID is assigned
// by the driver before submission.
type Document struct {
	ID     string
	Source map[string]any
}

// BulkResult is the engine's bulk response, returned as-is. Items carries
// the per-operation outcomes, including any partial failures.
type BulkResult struct {
	Took   int               `json:"took"`
	Errors bool              `json:"errors"`
	Items  []json.RawMessage `json:"items"`
}
