package clauso

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/soundprediction/clauso/pkg/config"
	"github.com/soundprediction/clauso/pkg/driver"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var mappingCmd = &cobra.Command{
	Use:   "put-mapping",
	Short: "Apply a field schema to an index",
	Long: `Read a YAML schema mapping field names to engine types and apply it to
an index, creating the index first when it does not exist.

Schema file format:

  title: text
  status: integer
  published_at: date`,
	RunE: runPutMapping,
}

var (
	mappingIndex  string
	mappingSchema string
)

func init() {
	rootCmd.AddCommand(mappingCmd)

	mappingCmd.Flags().StringVar(&mappingIndex, "index", "", "Target index")
	mappingCmd.Flags().StringVar(&mappingSchema, "schema", "", "Path to the YAML schema file")
	mappingCmd.MarkFlagRequired("index")
	mappingCmd.MarkFlagRequired("schema")
}

func runPutMapping(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg)

	raw, err := os.ReadFile(mappingSchema)
	if err != nil {
		return fmt.Errorf("read schema file: %w", err)
	}
	var fields map[string]string
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("parse schema file: %w", err)
	}
	if len(fields) == 0 {
		return fmt.Errorf("schema file %s defines no fields", mappingSchema)
	}

	drv, err := driver.NewElasticsearchDriver(driver.Config{
		Hosts:    cfg.Search.Hosts,
		Username: cfg.Search.Username,
		Password: cfg.Search.Password,
	}, logger)
	if err != nil {
		return err
	}
	defer drv.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	exists, err := drv.IndexExists(ctx, mappingIndex)
	if err != nil {
		return err
	}
	if !exists {
		if err := drv.CreateIndex(ctx, mappingIndex); err != nil {
			return err
		}
		logger.Info("created index", "index", mappingIndex)
	}

	if err := drv.PutMapping(ctx, mappingIndex, fields); err != nil {
		return err
	}
	logger.Info("mapping applied", "index", mappingIndex, "fields", len(fields))
	return nil
}
