package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contre95/structwatch/src/features/config"
	"github.com/contre95/structwatch/src/features/documents"
	"github.com/contre95/structwatch/src/features/hosting"
	"github.com/contre95/structwatch/src/features/logging"
	"github.com/contre95/structwatch/src/features/monitor"
	"github.com/contre95/structwatch/src/infra/watcher"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the configured documents and keep them in sync with disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts)
		},
	}
}

func runServe(ctx context.Context, opts *RootOptions) error {
	cfgManager, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := cfgManager.Get()

	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	layer, err := watcher.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	mon := monitor.New(layer,
		monitor.WithPollInterval(cfg.Monitor.PollInterval),
		monitor.WithLogger(logger.With("component", "monitor")),
		monitor.WithRegisterer(reg),
	)

	docs := loadDocuments(cfg.Monitor.Documents, mon)

	if cfg.Monitor.WatchConfig {
		if _, err := mon.Register(cfgManager.Path(), cfgManager.Reload); err != nil {
			slog.Error("Failed to watch config file", "path", cfgManager.Path(), "error", err)
		}
	}

	mon.Start(ctx)

	var server *hosting.Server
	if cfg.Server.Enabled {
		server = hosting.NewServer(cfgManager, mon, docs, reg)
		go func() {
			if err := server.Start(); err != nil {
				slog.Error("Server stopped", "error", err)
			}
		}()
		slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfg.Server.Port)
	}

	<-ctx.Done()
	slog.Info("Shutting down...")

	if server != nil {
		if err := server.Shutdown(); err != nil {
			slog.Error("Failed to shutdown server", "error", err)
		}
	}

	mon.Stop()
	select {
	case <-mon.Done():
	case <-time.After(2*cfg.Monitor.PollInterval + time.Second):
		slog.Warn("File monitor did not stop in time")
	}
	return nil
}

// loadDocuments loads every configured document and registers it for reload.
// A document that fails to load is logged and left out.
func loadDocuments(configured []config.Document, r documents.Registrar) *documents.Set {
	docs := documents.NewSet()
	for _, d := range configured {
		doc := documents.New(d.Path, map[string]any{})

		load := doc.Reload
		if d.Create {
			load = doc.Load
		}
		if err := load(); err != nil {
			slog.Error("Failed to load document", "name", d.Name, "path", d.Path, "error", err)
			continue
		}

		handle, err := doc.Watch(r)
		if err != nil {
			slog.Error("Failed to watch document", "name", d.Name, "path", d.Path, "error", err)
			continue
		}

		docs.Add(d.Name, doc)
		slog.Info("Watching document", "name", d.Name, "path", handle.Path(), "id", handle.ID())
	}
	return docs
}
