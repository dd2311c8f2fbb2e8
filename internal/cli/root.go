package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/avh-labs/audiencehub/internal/config"
	"github.com/avh-labs/audiencehub/internal/core"
	"github.com/avh-labs/audiencehub/internal/httpx"
	"github.com/avh-labs/audiencehub/internal/logging"
	"github.com/avh-labs/audiencehub/internal/services/audience"
	"github.com/avh-labs/audiencehub/internal/store"
)

var (
	// Version is set at build time via ldflags.
	// Example: go build -ldflags "-X github.com/avh-labs/audiencehub/internal/cli.Version=1.0.0"
	Version = "dev"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "audiencehub",
	Short: "Local audience state service",
	Long: `Audiencehub is a local audience state service in the shape of a mobile
analytics SDK module. It tracks visitor identifiers and a visitor profile,
persists them through a namespaced key-value store, and gates every write
behind the configured privacy status.

It exposes a single edge HTTP port where each enabled module mounts its routes.`,
}

// startCmd represents the start command.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the audiencehub server",
	Long: `Start the audiencehub edge server on the configured port.
The server will listen for HTTP requests and route them to enabled modules.`,
	RunE: runStart,
}

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Print the version number of audiencehub.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("audiencehub version %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute is the entry point for the CLI. It should be called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runStart initializes and starts the HTTP server.
func runStart(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Initialize logger
	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting audiencehub",
		logging.String("version", Version),
		logging.Int("http_port", cfg.HTTPPort),
		logging.String("data_dir", cfg.DataDir),
		logging.String("log_level", cfg.LogLevel),
		logging.String("store_backend", cfg.StoreBackend),
	)

	// Initialize the persistent store provider
	var stores store.Provider
	switch cfg.StoreBackend {
	case "memory":
		stores = store.NewMemoryProvider()
	default:
		fileStores, err := store.NewFileProvider(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("failed to initialize store provider: %w", err)
		}
		stores = fileStores
	}

	// Create and register modules
	state := audience.NewState(stores, logger, audience.PrivacyStatusOrDefault(cfg.DefaultPrivacy))
	audienceService := audience.NewService(state, logger)
	core.RegisterModule(audienceService)

	logger.Info("registered modules",
		logging.Int("count", len(core.RegisteredModules())),
	)

	// Create edge router
	router := httpx.NewEdgeRouter(cfg, logger)

	// Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("listening on edge port",
		logging.String("address", addr),
	)

	if err := http.ListenAndServe(addr, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
