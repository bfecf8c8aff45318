package config

import (
	"fmt"

	"github.com/janwilmake/cloudflare-fs/pkg/config"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/store"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the cfs configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  cfs config validate

  # Validate specific config file
  cfs config validate --config /etc/cfs/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	// Get config path from parent's persistent flag
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	// Determine path for display
	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	var warnings []string

	if !cfg.API.IsEnabled() {
		warnings = append(warnings, "HTTP API disabled - only local commands will work")
	}
	if cfg.Database.Type == store.DatabaseTypePostgres && cfg.Database.Postgres.Password == "" {
		warnings = append(warnings, "Postgres password not set - relying on environment or trust auth")
	}

	fmt.Printf("Configuration file: %s\n", displayPath)
	fmt.Println("Validation: OK")

	if len(warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	fmt.Printf("\nConfiguration summary:\n")
	fmt.Printf("  Database type:   %s\n", cfg.Database.Type)
	fmt.Printf("  API port:        %d\n", cfg.API.Port)
	fmt.Printf("  Log level:       %s\n", cfg.Logging.Level)

	return nil
}
