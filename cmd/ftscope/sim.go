package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tinytelemetry/ftscope/internal/devicesim"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newSimCmd(configPath *string) *cobra.Command {
	var addr string
	var dataDir string
	var seed uint64

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run a simulated bench backend",
		Long: `sim serves the bench HTTP API backed by a synthetic load cell and
encoder set. Recording files are written to the data directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cmd.Flags().Changed("addr") {
				cfg.SimAddr = addr
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.SimDataDir = dataDir
			}
			if cmd.Flags().Changed("seed") {
				cfg.SimSeed = seed
			}
			return runSim(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultSimAddr, "listen address")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory for recording files")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "seed for synthetic readings")
	return cmd
}

// runSim serves the simulated backend until interrupted.
func runSim(parent context.Context, cfg appConfig) error {
	logger, cleanup, err := newConsoleLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := os.MkdirAll(cfg.SimDataDir, 0755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	recorder := devicesim.NewRecorder(cfg.SimDataDir)
	device := devicesim.NewDevice(cfg.SimSeed, recorder)
	server := devicesim.NewServer(cfg.SimAddr, device, logger)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start simulated backend: %w", err)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
			return
		}
		fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")
		cancel()

		// Shutdown deadline starts now, not at boot.
		deadline := time.NewTimer(10 * time.Second)
		defer deadline.Stop()

		select {
		case <-sigCh:
			fmt.Println("\nForce shutdown.")
		case <-deadline.C:
			fmt.Println("Shutdown timed out, forcing exit.")
		}
		os.Exit(1)
	}()

	printSimBanner(cfg, server.Addr())
	started := time.Now()

	g, gctx := errgroup.WithContext(ctx)

	// Periodic throughput report.
	g.Go(func() error {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				logger.Info("[sim] status",
					zap.Bool("connected", device.Connected()),
					zap.String("samples", humanize.Comma(device.Samples())),
					zap.String("rows", humanize.Comma(recorder.Rows())),
				)
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Warn("[sim] errgroup exited with error", zap.Error(err))
	}

	if err := server.Stop(); err != nil {
		logger.Warn("[sim] server shutdown", zap.Error(err))
	}
	logger.Info("[sim] stopped",
		zap.String("uptime", humanize.RelTime(started, time.Now(), "", "")),
		zap.Int64("samples", device.Samples()),
	)
	return nil
}

func printSimBanner(cfg appConfig, addr string) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")
	dot := dim.Render("●")

	logo := cyan.Bold(true).Render(`
    ╔═╗╔╦╗╔═╗╔═╗╔═╗╔═╗╔═╗
    ╠╣  ║ ╚═╗║  ║ ║╠═╝║╣
    ╚   ╩ ╚═╝╚═╝╚═╝╩  ╚═╝`)

	ver := dim.Render("v" + version + " simulated backend")

	var lines []string
	lines = append(lines, "", logo, "    "+ver, "")

	separator := dim.Render("    ─────────────────────────────────")
	lines = append(lines, separator, "")

	lines = append(lines, bold.Render("    Gateway"), "")
	lines = append(lines, fmt.Sprintf("    %s  HTTP API       %s", check, cyan.Render("http://"+addr)))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Device"), "")
	lines = append(lines, fmt.Sprintf("    %s  Recordings     %s", check, dim.Render(shortenPath(cfg.SimDataDir))))
	lines = append(lines, fmt.Sprintf("    %s  Seed           %s", check, dim.Render(fmt.Sprint(cfg.SimSeed))))
	lines = append(lines, "")

	lines = append(lines, bold.Render("    Config"), "")
	if cfg.ConfigPath != "" {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", check, dim.Render(shortenPath(cfg.ConfigPath))))
	} else {
		lines = append(lines, fmt.Sprintf("    %s  Config File    %s", dot, dim.Render("default (no file)")))
	}

	lines = append(lines, "", separator, "")
	lines = append(lines, "    "+dim.Render("Press ")+yellow.Render("Ctrl+C")+dim.Render(" to stop"), "")

	fmt.Println(strings.Join(lines, "\n"))
}

func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
