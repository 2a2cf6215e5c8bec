package clauso

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soundprediction/clauso/pkg/config"
	"github.com/soundprediction/clauso/pkg/driver"
	"github.com/soundprediction/clauso/pkg/server"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Clauso HTTP server",
	Long: `Start the Clauso HTTP server to provide REST API access to the search
builder.

The server provides endpoints for:
- Executing structured searches (POST /api/v1/search)
- Health checks (GET /health)

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")

	// Search engine flags
	serverCmd.Flags().StringSlice("search-hosts", nil, "Search engine hosts")
	serverCmd.Flags().String("search-username", "", "Search engine username")
	serverCmd.Flags().String("search-password", "", "Search engine password")
	serverCmd.Flags().String("search-index", "", "Default target index")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	overrideConfigWithFlags(cmd, cfg)
	logger := newLogger(cfg)

	// Create the execution gateway
	drv, err := driver.NewElasticsearchDriver(driver.Config{
		Hosts:    cfg.Search.Hosts,
		Username: cfg.Search.Username,
		Password: cfg.Search.Password,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize driver: %w", err)
	}
	defer drv.Close()

	// Create and setup server
	srv := server.New(cfg, drv, logger)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.Info("received signal", "signal", sig.String())

		// Create shutdown context with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Shutdown server
		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		logger.Info("server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}
	if cmd.Flags().Changed("search-hosts") {
		cfg.Search.Hosts, _ = cmd.Flags().GetStringSlice("search-hosts")
	}
	if cmd.Flags().Changed("search-username") {
		cfg.Search.Username, _ = cmd.Flags().GetString("search-username")
	}
	if cmd.Flags().Changed("search-password") {
		cfg.Search.Password, _ = cmd.Flags().GetString("search-password")
	}
	if cmd.Flags().Changed("search-index") {
		cfg.Search.Index, _ = cmd.Flags().GetString("search-index")
	}
}
