package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/janwilmake/cloudflare-fs/internal/logger"
	"github.com/janwilmake/cloudflare-fs/internal/telemetry"
	"github.com/janwilmake/cloudflare-fs/pkg/api"
	"github.com/janwilmake/cloudflare-fs/pkg/config"
	"github.com/janwilmake/cloudflare-fs/pkg/metrics"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/router"
	"github.com/spf13/cobra"
)

var servePidFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the cfs HTTP server",
	Long: `Start the cfs HTTP server with the specified configuration.

The server exposes the filesystem API on the configured port and opens
shard databases on demand as paths are accessed.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/cfs/config.yaml.

Examples:
  # Start with default config
  cfs serve

  # Start with custom config file
  cfs serve --config /etc/cfs/config.yaml

  # Start with environment variable overrides
  CFS_LOGGING_LEVEL=DEBUG cfs serve`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePidFile, "pid-file", "", "Path to PID file (default: none)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	// Initialize the structured logger
	if err := InitLogger(cfg); err != nil {
		return err
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry (if enabled)
	telemetryShutdown, err := telemetry.Init(ctx, cfg.Telemetry.TracingConfig(Version))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	// Initialize Pyroscope profiling (if enabled)
	profilingShutdown, err := telemetry.InitProfiling(cfg.Telemetry.ProfilingConfig(Version))
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	} else {
		logger.Info("Telemetry disabled")
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint, "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	}

	// Initialize metrics (if enabled)
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		logger.Info("Metrics enabled", "endpoint", "/metrics")
	} else {
		logger.Info("Metrics collection disabled")
	}

	// Open the shard registry and build the filesystem
	shards := router.NewRegistry(&cfg.Database)
	fs := vfs.New(shards)
	defer func() {
		if err := fs.Close(); err != nil {
			logger.Error("shard registry close error", "error", err)
		}
	}()

	server := api.NewServer(cfg.API, fs, shards)
	logger.Info("API server configured", "port", server.Port())

	// Re-apply the log level when the config file changes
	if configFile := getConfigSource(GetConfigFile()); configFile != "defaults" {
		go func() {
			err := config.Watch(ctx, configFile, func(next *config.Config) {
				logger.SetLevel(next.Logging.Level)
				logger.Info("Log level reloaded", "level", next.Logging.Level)
			}, func(err error) {
				logger.Warn("Config reload failed", "error", err)
			})
			if err != nil {
				logger.Warn("Config watch unavailable", "error", err)
			}
		}()
	}

	// Write PID file if specified
	if servePidFile != "" {
		if err := os.WriteFile(servePidFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0644); err != nil {
			return fmt.Errorf("failed to write PID file: %w", err)
		}
		defer func() { _ = os.Remove(servePidFile) }()
	}

	// Start server in background
	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Start(ctx)
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		if err := server.Stop(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
			return err
		}
		cancel()
		<-serverDone
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("Server error", "error", err)
			return err
		}
		logger.Info("Server stopped")
	}

	return nil
}

// getConfigSource returns a description of where the config was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
