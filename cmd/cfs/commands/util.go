package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/janwilmake/cloudflare-fs/internal/logger"
	"github.com/janwilmake/cloudflare-fs/pkg/config"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs"
)

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// GetDefaultStateDir returns the default state directory path.
func GetDefaultStateDir() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "/tmp"
		}
		stateDir = filepath.Join(homeDir, ".local", "state")
	}
	return filepath.Join(stateDir, "cfs")
}

// openFS loads the configuration and opens the shard databases for the
// local filesystem commands.
func openFS() (*vfs.FS, error) {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return nil, err
	}
	return vfs.Open(&cfg.Database), nil
}

// parseMode parses an octal permission string like "0755" or "644".
// An empty string returns zero, which lets the store apply its default.
func parseMode(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	mode, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid mode %q (expected octal, e.g. 0755): %w", s, err)
	}
	return uint32(mode), nil
}
