package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/niagara/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})
	defer runner.Close()

	app := &cli.Command{
		Name:     "niagara",
		Usage:    "Browse Niagara events and keep your favorites in sync",
		Version:  "0.3.0",
		Flags:    globalFlags(),
		Before:   runner.Before,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
