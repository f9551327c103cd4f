package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/jersey-metadata/internal/app"
	"github.com/riskibarqy/jersey-metadata/internal/config"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
)

type rootOptions struct {
	store   string
	json    bool
	verbose bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "metadatactl",
		Short:        "Resolve and backfill jersey reference metadata",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.store, "store", "", "reference store override (postgres|memory)")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print JSON instead of tables")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newResolveCommand(opts),
		newPlayersCommand(opts),
		newBackfillCommand(opts),
		newSeedCommand(opts),
	)
	return root
}

// withServices loads config from the environment and runs fn against a fresh
// service container, closing it afterwards.
func withServices(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, svc *app.Services) error) error {
	if store := strings.TrimSpace(opts.store); store != "" {
		if err := os.Setenv("APP_STORE", store); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if opts.verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewConsole(cmd.ErrOrStderr(), level).Named("metadatactl")
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, err := app.NewServices(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}
	defer func() {
		if closeErr := svc.Close(context.WithoutCancel(ctx)); closeErr != nil {
			logger.Warn("close services", "error", closeErr)
		}
	}()

	return fn(ctx, svc)
}

func writeJSON(w io.Writer, v any) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
