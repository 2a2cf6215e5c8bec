package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
)

// ElasticsearchDriver implements the SearchDriver interface for
// Elasticsearch clusters.
type ElasticsearchDriver struct {
	client *elasticsearch.Client
	logger *slog.Logger
}

// NewElasticsearchDriver creates a new Elasticsearch driver instance. It
// validates the connection configuration and fails with a *ConfigError on
// malformed hosts or client setup failure. A nil logger falls back to
// slog.Default().
func NewElasticsearchDriver(cfg Config, logger *slog.Logger) (*ElasticsearchDriver, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Hosts,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, &ConfigError{Reason: "client setup failed", Err: err}
	}

	return &ElasticsearchDriver{
		client: client,
		logger: logger,
	}, nil
}

// Provider returns the engine behind this driver.
func (d *ElasticsearchDriver) Provider() Provider {
	return ProviderElasticsearch
}

// Close releases driver resources. The HTTP transport owns no long-lived
// handles, so this is a no-op kept for interface symmetry.
func (d *ElasticsearchDriver) Close() error {
	return nil
}

// Search transports a compiled query body to the engine and decodes the
// response.
func (d *ElasticsearchDriver) Search(ctx context.Context, index string, body map[string]any) (*SearchResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode query body: %w", err)
	}

	res, err := d.client.Search(
		d.client.Search.WithContext(ctx),
		d.client.Search.WithIndex(index),
		d.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, parseResponseError(res)
	}

	var out SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	d.logger.Debug("search completed", "index", index, "took_ms", out.Took, "hits", out.Hits.Total.Value)
	return &out, nil
}

// UpsertDocument creates or replaces one document by ID.
func (d *ElasticsearchDriver) UpsertDocument(ctx context.Context, index, id string, doc map[string]any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	res, err := d.client.Index(index, &buf,
		d.client.Index.WithContext(ctx),
		d.client.Index.WithDocumentID(id),
	)
	if err != nil {
		return fmt.Errorf("index request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return parseResponseError(res)
	}
	return nil
}

// DeleteDocument removes one document by ID.
func (d *ElasticsearchDriver) DeleteDocument(ctx context.Context, index, id string) error {
	res, err := d.client.Delete(index, id, d.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return parseResponseError(res)
	}
	return nil
}

// BulkUpsert indexes a batch of documents in one request. Documents without
// an ID are assigned one. The engine's per-item outcomes are returned
// as-is, including partial failures.
func (d *ElasticsearchDriver) BulkUpsert(ctx context.Context, index string, docs []Document) (*BulkResult, error) {
	if len(docs) == 0 {
		return &BulkResult{}, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, doc := range docs {
		id := doc.ID
		if id == "" {
			id = uuid.NewString()
		}
		action := map[string]any{"index": map[string]any{"_index": index, "_id": id}}
		if err := enc.Encode(action); err != nil {
			return nil, fmt.Errorf("encode bulk action: %w", err)
		}
		if err := enc.Encode(doc.Source); err != nil {
			return nil, fmt.Errorf("encode bulk document %s: %w", id, err)
		}
	}

	res, err := d.client.Bulk(&buf, d.client.Bulk.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, parseResponseError(res)
	}

	var out BulkResult
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode bulk response: %w", err)
	}
	d.logger.Debug("bulk upsert completed", "index", index, "items", len(out.Items), "errors", out.Errors)
	return &out, nil
}

// CreateIndex creates an index with default settings.
func (d *ElasticsearchDriver) CreateIndex(ctx context.Context, index string) error {
	res, err := d.client.Indices.Create(index, d.client.Indices.Create.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("create index request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return parseResponseError(res)
	}
	return nil
}

// DeleteIndex removes an index.
func (d *ElasticsearchDriver) DeleteIndex(ctx context.Context, index string) error {
	res, err := d.client.Indices.Delete([]string{index}, d.client.Indices.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete index request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return parseResponseError(res)
	}
	return nil
}

// IndexExists reports whether an index exists.
func (d *ElasticsearchDriver) IndexExists(ctx context.Context, index string) (bool, error) {
	res, err := d.client.Indices.Exists([]string{index}, d.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("index exists request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case 200:
		return true, nil
	case 404:
		return false, nil
	default:
		return false, parseResponseError(res)
	}
}

// PutMapping applies a field-name to engine-type schema to an index. Source
// storage is enabled by convention.
func (d *ElasticsearchDriver) PutMapping(ctx context.Context, index string, fields map[string]string) error {
	properties := make(map[string]any, len(fields))
	for field, engineType := range fields {
		properties[field] = map[string]any{"type": engineType}
	}
	mapping := map[string]any{
		"_source":    map[string]any{"enabled": true},
		"properties": properties,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(mapping); err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}

	res, err := d.client.Indices.PutMapping([]string{index}, &buf,
		d.client.Indices.PutMapping.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("put mapping request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return parseResponseError(res)
	}
	return nil
}

// parseResponseError decodes an engine error payload into a ResponseError.
// Both the structured {"error":{"type","reason"}} shape and the bare string
// shape occur in the wild.
func parseResponseError(res *esapi.Response) *ResponseError {
	respErr := &ResponseError{StatusCode: res.StatusCode}

	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil && len(body.Error) > 0 {
		var detail struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		}
		if err := json.Unmarshal(body.Error, &detail); err == nil && detail.Type != "" {
			respErr.Kind = detail.Type
			respErr.Reason = detail.Reason
		} else {
			var msg string
			if json.Unmarshal(body.Error, &msg) == nil {
				respErr.Reason = msg
			}
		}
	}
	if respErr.Kind == "" {
		respErr.Kind = res.Status()
	}
	return respErr
}
