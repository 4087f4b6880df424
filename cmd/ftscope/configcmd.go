package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(configPath, backendURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfigWithOverrides(cmd, *configPath, *backendURL)
			if err != nil {
				return err
			}
			out, err := renderConfig(cfg)
			if err != nil {
				return err
			}
			if cfg.ConfigPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# loaded from %s\n", shortenPath(cfg.ConfigPath))
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

// renderConfig encodes cfg as YAML. Durations are written in their
// string form so the output can be fed back as a config file.
func renderConfig(cfg appConfig) ([]byte, error) {
	doc := map[string]any{
		"backend-url":      cfg.BackendURL,
		"poll-interval":    cfg.PollInterval.String(),
		"request-timeout":  cfg.RequestTimeout.String(),
		"window-capacity":  cfg.WindowCapacity,
		"series-retention": cfg.SeriesRetention,
		"log-level":        cfg.LogLevel,
		"log-file":         cfg.LogFile,
		"sim-addr":         cfg.SimAddr,
		"sim-data-dir":     cfg.SimDataDir,
		"sim-seed":         cfg.SimSeed,
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}
