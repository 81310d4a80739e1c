package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contre95/structwatch/src/features/config"
	"github.com/contre95/structwatch/src/features/logging"
	"github.com/contre95/structwatch/src/infra/watcher"
	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <path>...",
		Short: "Print a line every time one of the files changes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, rootOpts, args, cmd.OutOrStdout())
		},
	}
}

func runWatch(ctx context.Context, opts *RootOptions, paths []string, out io.Writer) error {
	slog.SetDefault(logging.NewLogger(config.Logger{Enabled: true, Level: opts.LogLevel, Format: "text"}, os.Stderr))

	for _, path := range paths {
		handle, err := watcher.Register(path, printChange(out, path))
		if err != nil {
			return err
		}
		slog.Debug("Watching file", "path", handle.Path())
	}

	if err := watcher.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	watcher.Stop()
	return nil
}

func printChange(out io.Writer, path string) func() error {
	return func() error {
		_, err := fmt.Fprintf(out, "%s changed %s\n", time.Now().Format(time.RFC3339), path)
		return err
	}
}
