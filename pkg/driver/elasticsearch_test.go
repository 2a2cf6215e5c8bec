package driver_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soundprediction/clauso/pkg/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine is an httptest-backed stand-in for the search engine. The
// product header is required by the client's verification handshake.
func fakeEngine(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newDriver(t *testing.T, srv *httptest.Server) *driver.ElasticsearchDriver {
	t.Helper()
	drv, err := driver.NewElasticsearchDriver(driver.Config{Hosts: []string{srv.URL}}, nil)
	require.NoError(t, err)
	return drv
}

func TestNewElasticsearchDriver(t *testing.T) {
	t.Run("no hosts", func(t *testing.T) {
		_, err := driver.NewElasticsearchDriver(driver.Config{}, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, &driver.ConfigError{}))
	})

	t.Run("malformed host", func(t *testing.T) {
		_, err := driver.NewElasticsearchDriver(driver.Config{Hosts: []string{"not a url"}}, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, &driver.ConfigError{}))
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := driver.NewElasticsearchDriver(driver.Config{Hosts: []string{"ftp://localhost:9200"}}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported scheme")
	})

	t.Run("valid config", func(t *testing.T) {
		drv, err := driver.NewElasticsearchDriver(driver.Config{
			Hosts:    []string{"http://localhost:9200"},
			Username: "elastic",
			Password: "changeme",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, driver.ProviderElasticsearch, drv.Provider())
		assert.NoError(t, drv.Close())
	})
}

func TestSearch(t *testing.T) {
	t.Run("decodes hits and totals", func(t *testing.T) {
		var gotPath string
		var gotBody map[string]any
		srv := fakeEngine(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{
				"took": 3,
				"timed_out": false,
				"_shards": {"total": 1, "successful": 1, "skipped": 0, "failed": 0},
				"hits": {
					"total": {"value": 2, "relation": "eq"},
					"max_score": 1.5,
					"hits": [
						{"_index": "products", "_id": "1", "_score": 1.5, "_source": {"status": 1}},
						{"_index": "products", "_id": "2", "_score": 1.1, "_source": {"status": 1}}
					]
				}
			}`)
		})

		drv := newDriver(t, srv)
		resp, err := drv.Search(context.Background(), "products", map[string]any{
			"query": map[string]any{"match_all": map[string]any{}},
		})
		require.NoError(t, err)

		assert.Equal(t, "/products/_search", gotPath)
		assert.Contains(t, gotBody, "query")
		assert.Equal(t, int64(2), resp.Hits.Total.Value)
		assert.Equal(t, "eq", resp.Hits.Total.Relation)
		assert.Len(t, resp.Hits.Hits, 2)
		assert.Equal(t, "1", resp.Hits.Hits[0].ID)
		require.NotNil(t, resp.Hits.MaxScore)
		assert.InDelta(t, 1.5, *resp.Hits.MaxScore, 1e-9)
	})

	t.Run("engine error surfaces unchanged", func(t *testing.T) {
		srv := fakeEngine(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error": {"type": "parsing_exception", "reason": "unknown query [bogus]"}, "status": 400}`)
		})

		drv := newDriver(t, srv)
		_, err := drv.Search(context.Background(), "products", map[string]any{})
		require.Error(t, err)

		var respErr *driver.ResponseError
		require.ErrorAs(t, err, &respErr)
		assert.Equal(t, http.StatusBadRequest, respErr.StatusCode)
		assert.Equal(t, "parsing_exception", respErr.Kind)
		assert.Equal(t, "unknown query [bogus]", respErr.Reason)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		srv := fakeEngine(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{}`)
		})

		drv := newDriver(t, srv)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := drv.Search(ctx, "products", map[string]any{})
		require.Error(t, err)
	})
}

func TestIndexAdmin(t *testing.T) {
	t.Run("index exists", func(t *testing.T) {
		srv := fakeEngine(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/present" {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		})

		drv := newDriver(t, srv)
		exists, err := drv.IndexExists(context.Background(), "present")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = drv.IndexExists(context.Background(), "absent")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("put mapping enables source", func(t *testing.T) {
		var gotBody map[string]any
		srv := fakeEngine(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"acknowledged": true}`)
		})

		drv := newDriver(t, srv)
		err := drv.PutMapping(context.Background(), "products", map[string]string{
			"name":   "text",
			"status": "integer",
		})
		require.NoError(t, err)

		assert.Equal(t, map[string]any{"enabled": true}, gotBody["_source"])
		props, ok := gotBody["properties"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, map[string]any{"type": "text"}, props["name"])
		assert.Equal(t, map[string]any{"type": "integer"}, props["status"])
	})

	t.Run("create and delete", func(t *testing.T) {
		var methods []string
		srv := fakeEngine(t, func(w http.ResponseWriter, r *http.Request) {
			methods = append(methods, r.Method+" "+r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"acknowledged": true}`)
		})

		drv := newDriver(t, srv)
		require.NoError(t, drv.CreateIndex(context.Background(), "products"))
		require.NoError(t, drv.DeleteIndex(context.Background(), "products"))
		assert.Equal(t, []string{"PUT /products", "DELETE /products"}, methods)
	})
}

func TestBulkUpsert(t *testing.T) {
	t.Run("assigns ids and returns items as-is", func(t *testing.T) {
		var lines []map[string]any
		srv := fakeEngine(t, func(w http.ResponseWriter, r *http.Request) {
			raw, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			scanner := bufio.NewScanner(bytes.NewReader(raw))
			for scanner.Scan() {
				var line map[string]any
				require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
				lines = append(lines, line)
			}
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"took": 7, "errors": true, "items": [{"index": {"_id": "a", "status": 201}}, {"index": {"status": 400}}]}`)
		})

		drv := newDriver(t, srv)
		result, err := drv.BulkUpsert(context.Background(), "products", []driver.Document{
			{ID: "a", Source: map[string]any{"status": 1}},
			{Source: map[string]any{"status": 2}},
		})
		require.NoError(t, err)

		require.Len(t, lines, 4)
		first := lines[0]["index"].(map[string]any)
		assert.Equal(t, "products", first["_index"])
		assert.Equal(t, "a", first["_id"])
		third := lines[2]["index"].(map[string]any)
		assert.NotEmpty(t, third["_id"], "missing IDs are assigned")

		// Partial failures come back untouched.
		assert.True(t, result.Errors)
		assert.Len(t, result.Items, 2)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		srv := fakeEngine(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected")
		})

		drv := newDriver(t, srv)
		result, err := drv.BulkUpsert(context.Background(), "products", nil)
		require.NoError(t, err)
		assert.False(t, result.Errors)
	})
}
