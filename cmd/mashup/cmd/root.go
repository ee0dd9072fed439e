// Package cmd implements the mashup command line.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/mashup/internal/app"
	"github.com/ewilliams-labs/mashup/internal/config"
	"github.com/ewilliams-labs/mashup/pkg/client"
)

const closeTimeout = 5 * time.Second

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "mashup",
		Short:        "Find tracks that mix well together",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("server", "", "base URL of a running mashup API; runs locally when empty")

	root.AddCommand(cmdServe(), cmdSearch(), cmdMatch(), cmdKeys())
	return root
}

// Execute runs the command line against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// remote returns an API client when --server is set.
func remote(cmd *cobra.Command) *client.Client {
	server, _ := cmd.Flags().GetString("server")
	if server == "" {
		return nil
	}
	return client.New(server, nil)
}

// withLocalApp builds the service in-process for one command. Background
// prefetching is disabled since the process exits right after.
func withLocalApp(cmd *cobra.Command, fn func(*app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.NewLogger(cmd.ErrOrStderr()))
	cfg.Worker.PrefetchWorkers = 0

	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := a.Close(ctx); err != nil {
			slog.Warn("mashup: close", "error", err)
		}
	}()
	return fn(a)
}

func printMeta(cmd *cobra.Command, source, warning string) {
	fmt.Fprintf(cmd.ErrOrStderr(), "source: %s\n", source)
	if warning != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
	}
}
