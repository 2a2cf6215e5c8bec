package clauso

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/soundprediction/clauso"
	"github.com/soundprediction/clauso/pkg/config"
	"github.com/soundprediction/clauso/pkg/driver"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Build and execute a search query",
	Long: `Build a query from command-line predicates and execute it against the
configured cluster, printing the result as JSON.

Predicates:
  --where field=value     equality filter (repeatable)
  --exclude field=value   negated filter (repeatable)
  --query / --field       full-text multi-field match

Use --dry-run to print the compiled query document instead of executing it.`,
	RunE: runSearch,
}

var (
	searchIndex    string
	searchQuery    string
	searchFields   []string
	searchWhere    []string
	searchExclude  []string
	searchSort     []string
	searchPage     int
	searchPageSize int
	searchRaw      bool
	searchDryRun   bool
	searchTimeout  time.Duration
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchIndex, "index", "", "Target index (defaults to search.index from config)")
	searchCmd.Flags().StringVar(&searchQuery, "query", "", "Full-text query string")
	searchCmd.Flags().StringSliceVar(&searchFields, "field", nil, "Field searched by --query (repeatable)")
	searchCmd.Flags().StringSliceVar(&searchWhere, "where", nil, "Equality filter field=value (repeatable)")
	searchCmd.Flags().StringSliceVar(&searchExclude, "exclude", nil, "Negated filter field=value (repeatable)")
	searchCmd.Flags().StringSliceVar(&searchSort, "sort", nil, "Sort order field:asc|desc (repeatable)")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "Page number, starting at 1")
	searchCmd.Flags().IntVar(&searchPageSize, "page-size", 10, "Hits per page")
	searchCmd.Flags().BoolVar(&searchRaw, "raw", false, "Print the raw engine response")
	searchCmd.Flags().BoolVar(&searchDryRun, "dry-run", false, "Print the compiled query without executing")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 30*time.Second, "Request timeout")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg)

	index := searchIndex
	if index == "" {
		index = cfg.Search.Index
	}

	var gateway driver.QueryExecutor
	if !searchDryRun {
		drv, err := driver.NewElasticsearchDriver(driver.Config{
			Hosts:    cfg.Search.Hosts,
			Username: cfg.Search.Username,
			Password: cfg.Search.Password,
		}, logger)
		if err != nil {
			return err
		}
		defer drv.Close()
		gateway = drv
	}

	builder := clauso.New(gateway, logger).Index(index)
	if searchQuery != "" {
		builder.Keywords(searchQuery, searchFields...)
	}
	if err := applyPairs(builder, searchWhere, clauso.OpEquals); err != nil {
		return err
	}
	if err := applyPairs(builder, searchExclude, clauso.OpNotEquals); err != nil {
		return err
	}
	for _, spec := range searchSort {
		field, order := splitSort(spec)
		builder.Sort(field, order)
	}
	builder.Paginate(searchPageSize, searchPage)
	if searchRaw {
		builder.ResponseMode(clauso.ModeRaw)
	}

	if searchDryRun {
		envelope, err := builder.Compile()
		if err != nil {
			return err
		}
		return printJSON(envelope)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), searchTimeout)
	defer cancel()

	result, err := builder.Execute(ctx)
	if err != nil {
		return err
	}
	if searchRaw {
		return printJSON(result.Raw)
	}
	return printJSON(map[string]any{
		"total":     result.Total,
		"documents": result.Documents,
	})
}

func applyPairs(builder *clauso.Builder, pairs []string, op clauso.Operator) error {
	for _, pair := range pairs {
		field, value, found := strings.Cut(pair, "=")
		if !found || field == "" {
			return fmt.Errorf("invalid predicate %q: expected field=value", pair)
		}
		builder.Where(field, value, op)
	}
	return nil
}

func splitSort(spec string) (string, clauso.SortOrder) {
	field, order, found := strings.Cut(spec, ":")
	if !found || order != string(clauso.SortDesc) {
		return field, clauso.SortAsc
	}
	return field, clauso.SortDesc
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
