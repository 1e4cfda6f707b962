package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storepos/internal/config"
	"storepos/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the CLI. Without a subcommand it serves the API
// configured from the environment.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "storepos",
		Short:         "Multi-tenant point of sale server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), nil)
		},
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	return cmd
}

// loadConfig resolves the environment, then applies non-empty overrides
// keyed by environment variable name.
func loadConfig(overrides map[string]string) (*config.Config, *zap.Logger, error) {
	v := config.New()
	for key, value := range overrides {
		if value != "" {
			v.Set(key, value)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logger.InitLogger(cfg.Server.Env, cfg.Log.Level), nil
}
