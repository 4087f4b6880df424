package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var backendURL string

	rootCmd := &cobra.Command{
		Use:   "ftscope",
		Short: "ftscope - live force/torque and position dashboard",
		Long: `ftscope polls a force/torque bench backend and plots load cell and
encoder readings on three live charts in the terminal.

Run "ftscope sim" in another terminal to get a simulated backend.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfigWithOverrides(cmd, configPath, backendURL)
			if err != nil {
				return err
			}
			return runDashboard(cmd.Context(), cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is $HOME/.config/ftscope/config.yml)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL (overrides backend-url)")

	rootCmd.AddCommand(
		newSimCmd(&configPath),
		newTailCmd(&configPath, &backendURL),
		newConfigCmd(&configPath, &backendURL),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfigWithOverrides loads configuration and applies flag overrides.
func loadConfigWithOverrides(cmd *cobra.Command, configPath, backendURL string) (appConfig, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("backend") {
		cfg.BackendURL = backendURL
		if err := cfg.validate(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ftscope - Live Telemetry Dashboard\n")
			fmt.Fprintf(out, "  Version:    %s\n", version)
			fmt.Fprintf(out, "  Commit:     %s\n", commit)
			fmt.Fprintf(out, "  Built:      %s\n", buildTime)
			fmt.Fprintf(out, "  Go version: %s\n", goVersion)
		},
	}
}
