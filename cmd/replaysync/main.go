package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spiretechnology/go-replaysync"
	"github.com/spiretechnology/go-replaysync/internal/config"
	"github.com/spiretechnology/go-replaysync/internal/logfields"
	"github.com/spiretechnology/go-replaysync/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

type WatchCmd struct {
	Dir         string `arg:"" optional:"" help:"Directory to watch (defaults to the Slippi replay folder)"`
	ServerURL   string `help:"Base URL of the ingestion server"`
	Extension   string `help:"Replay file extension"`
	MetricsAddr string `help:"Serve Prometheus metrics on this address (e.g. :9090)"`
}

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" type:"path"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Watch       WatchCmd `cmd:"" default:"withargs" help:"Watch a directory and upload new replays"`
	DefaultPath struct{} `cmd:"" help:"Print the default replay directory"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("replaysync"),
		kong.Description("Uploads new Slippi replays as soon as they are written."),
		kong.UsageOnError(),
	)

	switch ctx.Command() {
	case "default-path":
		fmt.Println(replaysync.DefaultWatchedPath())
	case "watch", "watch <dir>":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		CLI.Watch.apply(cfg)

		logger := newLogger(cfg.LogLevel, CLI.Verbose)
		slog.SetDefault(logger)

		if err := runWatch(cfg, logger); err != nil {
			logger.Error("Watch failed", logfields.Error(err))
			os.Exit(1)
		}
	default:
		ctx.Fatalf("unknown command %q", ctx.Command())
	}
}

// apply layers the command line flags over the loaded configuration.
func (c *WatchCmd) apply(cfg *config.Config) {
	if c.Dir != "" {
		cfg.WatchDir = c.Dir
	}
	if c.ServerURL != "" {
		cfg.ServerURL = c.ServerURL
	}
	if c.Extension != "" {
		cfg.Extension = c.Extension
	}
	if c.MetricsAddr != "" {
		cfg.MetricsAddr = c.MetricsAddr
	}
}

func newLogger(level string, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// resolveWatchDir picks the configured directory, or the default one, as an absolute path.
func resolveWatchDir(dir string) string {
	if dir == "" {
		dir = replaysync.DefaultWatchedPath()
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func runWatch(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.MetricsAddr != "" {
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	svc := replaysync.New(
		replaysync.WithLogger(logger),
		replaysync.WithRecorder(recorder),
		replaysync.WithExtension(cfg.Extension),
		replaysync.WithServerURL(cfg.ServerURL),
		replaysync.WithStabilityInterval(cfg.Stability.Interval),
		replaysync.WithStabilityAttempts(cfg.Stability.Attempts),
	)

	dir := resolveWatchDir(cfg.WatchDir)
	if err := svc.SetWatchedPath(dir); err != nil {
		_ = svc.Close(context.Background())
		return err
	}
	serverURL := cfg.ServerURL
	if serverURL == "" {
		serverURL = replaysync.ResolveServerURL(nil)
	}
	logger.Info("Uploading new replays", logfields.Dir(dir), logfields.URL(serverURL))

	g, gctx := errgroup.WithContext(ctx)
	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metricsMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("Serving metrics", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return svc.Close(closeCtx)
	})
	return g.Wait()
}

func metricsMux(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
