package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/tinytelemetry/ftscope/internal/backend"
	"github.com/tinytelemetry/ftscope/internal/poller"
	"github.com/tinytelemetry/ftscope/internal/series"
	"github.com/tinytelemetry/ftscope/internal/session"
	"github.com/tinytelemetry/ftscope/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// runDashboard runs the interactive dashboard until the user quits.
func runDashboard(parent context.Context, cfg appConfig) error {
	logger, cleanup, err := newFileLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer cleanup()

	client, err := backend.NewClient(cfg.BackendURL, logger)
	if err != nil {
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	charts := series.DefaultCharts()
	state := session.New()
	window := series.NewWindow(cfg.WindowCapacity, cfg.SeriesRetention, charts)
	driver := poller.New(client, state, window, logger,
		poller.WithInterval(cfg.PollInterval),
		poller.WithRequestTimeout(cfg.RequestTimeout),
	)

	logger.Info("[main] dashboard starting",
		zap.String("backend", client.BaseURL()),
		zap.Duration("interval", cfg.PollInterval),
		zap.Int("capacity", cfg.WindowCapacity),
	)

	dashboard := tui.NewDashboardModel(tui.Deps{
		Backend:        client,
		State:          state,
		Window:         window,
		Driver:         driver,
		Charts:         charts,
		Logger:         logger,
		BackendLabel:   hostLabel(cfg.BackendURL),
		RequestTimeout: cfg.controlTimeout(),
		Context:        ctx,
	})
	app := tui.NewApp("ftscope", tui.NewDashboardPage(dashboard))

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	logger.Info("[main] dashboard stopped", zap.Int64("samples", window.Counter()))
	return nil
}

// hostLabel trims the scheme from a backend URL for the status line.
func hostLabel(raw string) string {
	label := strings.TrimPrefix(strings.TrimPrefix(raw, "http://"), "https://")
	return strings.TrimSuffix(label, "/")
}
