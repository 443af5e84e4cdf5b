package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/ash/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	ConfigFile string `json:"config_file"`
	*config.Config
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	if !humanOutput {
		return outputJSON(ConfigResponse{ConfigFile: config.ConfigPath(), Config: cfg})
	}

	fmt.Printf("Config file:   %s\n", config.ConfigPath())
	fmt.Printf("Retraction DB: %s\n", valueOrUnset(cfg.RetractionDB))
	fmt.Printf("Cache path:    %s\n", valueOrUnset(cfg.CachePath))
	return nil
}

func valueOrUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
