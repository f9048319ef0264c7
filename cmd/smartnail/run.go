package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/appengine-ltd/smartnail/internal/console"
	"github.com/appengine-ltd/smartnail/internal/host"
	"github.com/appengine-ltd/smartnail/internal/nail"
	"github.com/appengine-ltd/smartnail/internal/settings"
)

// errQuit ends the session group without being reported as a failure.
var errQuit = errors.New("quit")

type runOptions struct {
	metricsAddr string
	saveDir     string
	mods        []string
	noWatch     bool
}

func (a *app) runCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play an interactive session against the in-memory host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.run(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464")
	cmd.Flags().StringVar(&opts.saveDir, "save-dir", "", "write the per-slot baseline files here on save")
	cmd.Flags().StringSliceVar(&opts.mods, "mod", []string{"ItemChangerMod", "RandoPlus"}, "mods reported as installed")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not reload settings when the file changes")
	return cmd
}

func (a *app) run(ctx context.Context, in io.Reader, out io.Writer, opts runOptions) error {
	path, err := a.globalPath()
	if err != nil {
		return fmt.Errorf("settings path: %w", err)
	}
	global, err := settings.LoadGlobal(path)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	store := settings.NewStore(global)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	h := host.New(a.logger)
	h.SetMods(opts.mods...)
	h.RegisterModule(host.DefaultDamagePerUpgrade, 0)

	b := nail.NewBooster(nail.Config{
		Player:       h,
		Modules:      h,
		Broadcast:    h,
		Scenes:       h,
		Settings:     store,
		Logger:       a.logger,
		Metrics:      nail.NewMetrics(reg),
		SettleDelay:  a.env.SettleDelay,
		PollInterval: a.env.PollInterval,
	})
	if err := b.Initialize(h, h); err != nil {
		return err
	}
	defer b.Detach()

	session := console.NewSession(h, b, out,
		console.WithSaveDir(opts.saveDir),
		console.WithLogger(a.logger))
	queue := host.NewQueue(16)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := queue.Run(ctx, h)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return readLoop(ctx, in, out, queue, session)
	})
	if !opts.noWatch {
		w, err := settings.NewWatcher(path, store, a.logger)
		if err != nil {
			return fmt.Errorf("settings watcher: %w", err)
		}
		g.Go(func() error {
			defer w.Stop()
			if err := w.Start(ctx); err != nil {
				a.logger.Warn("settings not watched", zap.String("path", path), zap.Error(err))
				return nil
			}
			<-ctx.Done()
			return nil
		})
	}
	if opts.metricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(ctx, opts.metricsAddr, reg, a.logger)
		})
	}

	err = g.Wait()
	if errors.Is(err, errQuit) {
		err = nil
	}
	if saved := store.Global(); saved != global {
		if serr := settings.SaveGlobal(path, saved); serr != nil {
			return errors.Join(err, fmt.Errorf("save settings: %w", serr))
		}
		a.logger.Info("settings saved", zap.String("path", path))
	}
	return err
}

// readLoop hands each input line to the host queue and waits for it to run,
// so output stays in input order. EOF and the exit command end the session.
func readLoop(ctx context.Context, in io.Reader, out io.Writer, queue *host.Queue, session *console.Session) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(out, "SmartNail console. Type help for commands.")
	for {
		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return errQuit
			}
			line = l
		}

		done := make(chan error, 1)
		if !queue.Enqueue(func(*host.Host) { done <- session.Execute(line) }) {
			fmt.Fprintln(out, "busy, try again")
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case err := <-done:
			if errors.Is(err, console.ErrExit) {
				return errQuit
			}
			if err != nil {
				return err
			}
		}
	}
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
