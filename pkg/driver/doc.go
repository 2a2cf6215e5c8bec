// Package driver provides search engine driver implementations for clauso.
//
// This package defines the SearchDriver interface and provides an
// Elasticsearch implementation. A driver is the execution gateway: it
// transports a compiled query document to the engine and returns the
// response, and it carries the I/O surface that sits outside the builder
// core (index administration, document upserts, bulk ingestion).
//
// # Usage
//
// Create a driver with a connection configuration:
//
//	drv, err := driver.NewElasticsearchDriver(driver.Config{
//		Hosts:    []string{"http://localhost:9200"},
//		Username: "elastic",
//		Password: "changeme",
//	}, nil)
//
// # Error Contract
//
// Construction fails with a *ConfigError on malformed hosts or client setup
// failure. Engine error responses surface unchanged as *ResponseError; the
// driver performs no retries and no interpretation of partial-success
// payloads.
//
// # Thread Safety
//
// Driver implementations are safe for concurrent use from multiple
// goroutines; the underlying client manages its own connection pool.
package driver
