package driver

import "context"

// This file defines focused interfaces composed into the full SearchDriver.
// Consumers should depend on the smallest interface that meets their needs;
// the builder core depends only on QueryExecutor.

// QueryExecutor runs compiled query documents against the engine.
type QueryExecutor interface {
	// Search transports a compiled query body to the engine and returns the
	// decoded response. The context governs cancellation and timeout of the
	// single network call.
	Search(ctx context.Context, index string, body map[string]any) (*SearchResponse, error)
}

// DocumentStore provides single-document and bulk write operations.
type DocumentStore interface {
	// UpsertDocument creates or replaces one document by ID.
	UpsertDocument(ctx context.Context, index, id string, doc map[string]any) error

	// DeleteDocument removes one document by ID.
	DeleteDocument(ctx context.Context, index, id string) error

	// BulkUpsert indexes a batch of documents in one request. Partial
	// failures are returned as-is in the result, not retried.
	BulkUpsert(ctx context.Context, index string, docs []Document) (*BulkResult, error)
}

// IndexAdmin provides index lifecycle and mapping operations.
type IndexAdmin interface {
	// CreateIndex creates an index with default settings.
	CreateIndex(ctx context.Context, index string) error

	// DeleteIndex removes an index.
	DeleteIndex(ctx context.Context, index string) error

	// IndexExists reports whether an index exists.
	IndexExists(ctx context.Context, index string) (bool, error)

	// PutMapping applies a field-name to engine-type schema to an index.
	PutMapping(ctx context.Context, index string, fields map[string]string) error
}

// SearchDriver composes the full gateway surface.
type SearchDriver interface {
	QueryExecutor
	DocumentStore
	IndexAdmin

	// Provider returns the engine behind this driver.
	Provider() Provider

	// Close releases resources held by the driver.
	Close() error
}

// Ensure the concrete driver satisfies the composed surface.
var _ SearchDriver = (*ElasticsearchDriver)(nil)
