package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/spf13/cobra"
	log "go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanet-platform/coalesce/internal/app"
	"github.com/yanet-platform/coalesce/internal/monitoring/logger"
)

type flags struct {
	configPath string
	layers     []string
	format     string
}

func main() {
	// Create a new command with the application name and the exec function.
	var f flags
	cmd := &cobra.Command{
		Use:   path.Base(os.Args[0]),
		Short: "Resolve layered health-check scheduler settings",
		Run: func(cmd *cobra.Command, args []string) {
			if err := exec(f); err != nil {
				fmt.Fprintln(os.Stderr, err.Error())
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Path to the config file (required).")
	cmd.Flags().StringArrayVarP(&f.layers, "layer", "l", nil, "Additional layer file, applied after the configured ones. Repeatable.")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: json or yaml. Overrides the config.")
	if err := cmd.MarkFlagRequired("config"); err != nil {
		panic("Logic error: `config` flag not exists in the program")
	}

	// Execute the command. If an error occurs, print it and exit with a
	// non-zero status code.
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(1)
	}
}

func exec(f flags) error {
	// Create a base context.
	ctx := context.Background()

	// Load the application configuration from the specified config path.
	config, err := app.LoadConfig(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	config.Layers = append(config.Layers, f.layers...)
	if f.format != "" {
		config.Output.Format = app.Format(f.format)
	}

	logger, err := logger.New(ctx, config.Logger)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info(
		"starting coalesce",
		log.Strings("layers", config.Layers),
		log.String("format", string(config.Output.Format)),
	)

	// Initialize the main application logic.
	coalesce, err := app.New(config, os.Stdout, logger)
	if err != nil {
		return fmt.Errorf("failed to init coalesce: %w", err)
	}

	// Create an error group with a derived context for managing goroutines.
	wg, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)

	// Add a goroutine to the error group that waits for an interruption signal.
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)
	wg.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case s := <-ch:
			return errors.New(s.String())
		}
	})

	// Add a goroutine to the error group that runs the main application logic.
	// A finished run stops the signal watcher.
	wg.Go(func() error {
		defer cancel()
		return coalesce.Run(ctx)
	})

	// Wait for all goroutines in the error group to complete.
	return wg.Wait()
}
