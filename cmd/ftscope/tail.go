package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"

	"github.com/tinytelemetry/ftscope/internal/backend"
	"github.com/tinytelemetry/ftscope/internal/model"
	"github.com/tinytelemetry/ftscope/internal/poller"
	"github.com/tinytelemetry/ftscope/internal/series"
	"github.com/tinytelemetry/ftscope/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type tailOptions struct {
	connect bool
	record  bool
	count   int64
}

func newTailCmd(configPath, backendURL *string) *cobra.Command {
	var opts tailOptions

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Poll the backend and print samples without the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfigWithOverrides(cmd, *configPath, *backendURL)
			if err != nil {
				return err
			}
			return runTail(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.connect, "connect", false, "connect before polling and disconnect on exit")
	cmd.Flags().BoolVar(&opts.record, "record", false, "ask the backend to record polled samples")
	cmd.Flags().Int64Var(&opts.count, "count", 0, "stop after this many samples (0 = until interrupted)")
	return cmd
}

// runTail drives the poller on its own ticker and prints every accepted
// sample with the window range it produced.
func runTail(parent context.Context, cfg appConfig, opts tailOptions, out io.Writer) error {
	logger, cleanup, err := newConsoleLogger(cfg.LogLevel)
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
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return tailSamples(ctx, client, cfg, opts, out, logger)
}

func tailSamples(ctx context.Context, b model.Backend, cfg appConfig, opts tailOptions, out io.Writer, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	state := session.New()
	state.SetRecording(opts.record)

	if opts.connect {
		if err := connectForTail(ctx, b, state, cfg, logger); err != nil {
			return err
		}
		defer disconnectForTail(b, cfg, logger)
	} else {
		// The operator vouches for an already open device.
		state.ApplyConnect(model.ConnectReply{Message: model.ConnectSuccessMessage})
	}
	if err := state.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	printer := func(res poller.Result) {
		mu.Lock()
		defer mu.Unlock()
		if res.Err != nil {
			fmt.Fprintf(out, "#%d error: %v\n", res.Counter, res.Err)
			return
		}
		fmt.Fprintln(out, formatTailLine(res))
		if opts.count > 0 && res.Counter >= opts.count {
			cancel()
		}
	}

	window := series.NewWindow(cfg.WindowCapacity, cfg.SeriesRetention, series.DefaultCharts())
	driver := poller.New(b, state, window, logger,
		poller.WithInterval(cfg.PollInterval),
		poller.WithRequestTimeout(cfg.RequestTimeout),
		poller.WithObserver(printer),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return driver.Run(gctx)
	})
	return g.Wait()
}

func connectForTail(ctx context.Context, b model.Backend, state *session.State, cfg appConfig, logger *zap.Logger) error {
	cctx, cancel := context.WithTimeout(ctx, cfg.controlTimeout())
	defer cancel()

	reply, err := b.Connect(cctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if !state.ApplyConnect(reply) {
		return fmt.Errorf("connect: %s", reply.Message)
	}
	logger.Info("[tail] connected", zap.String("filename", reply.Filename))
	return nil
}

func disconnectForTail(b model.Backend, cfg appConfig, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.controlTimeout())
	defer cancel()

	reply, err := b.Disconnect(ctx)
	if err != nil {
		logger.Warn("[tail] disconnect failed", zap.Error(err))
		return
	}
	logger.Info("[tail] disconnected", zap.String("message", reply.Message))
}

func formatTailLine(res poller.Result) string {
	s := res.Sample
	return fmt.Sprintf("#%d [%d,%d] Ax: %.3f mm  Ay: %.3f mm  Az: %.3f mm  Fz: %.3f N",
		res.Counter, res.Range.Lo, res.Range.Hi, s.Ax, s.Ay, s.Az, s.Fz)
}

