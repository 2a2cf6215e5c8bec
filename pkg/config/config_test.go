package config_test

import (
	"testing"

	"github.com/soundprediction/clauso/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "localhost", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, []string{"http://localhost:9200"}, cfg.Search.Hosts)
		assert.Equal(t, "highlight", cfg.Search.HighlightClass)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("ELASTICSEARCH_HOSTS", "http://es1:9200,http://es2:9200")
		t.Setenv("ELASTICSEARCH_USERNAME", "elastic")
		t.Setenv("ELASTICSEARCH_INDEX", "products")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.Search.Hosts)
		assert.Equal(t, "elastic", cfg.Search.Username)
		assert.Equal(t, "products", cfg.Search.Index)
	})
}
