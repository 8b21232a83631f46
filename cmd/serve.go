package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/niagara/internal/server"
	"github.com/desertthunder/niagara/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the development backend until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}
	path := cmd.String("db")
	if path == "" {
		path = r.config.Server.DatabasePath
	}
	if r.ephemeral {
		path = ":memory:"
	}

	db, err := shared.OpenMigrated(path, 1, 1)
	if err != nil {
		return fmt.Errorf("failed to open backend database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("starting development backend", "addr", addr, "db", path)
	srv := server.New(addr, server.NewBackend(db, r.catalog, r.logger), r.logger)
	return srv.Run(ctx)
}
