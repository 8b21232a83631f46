package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/niagara/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the default configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Wrote %s\n", path)
	return nil
}

// SetupDatabase initializes the local store and runs migrations.
//
// A missing config file is created from the template first.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if r.ephemeral {
		return fmt.Errorf("%w: --ephemeral has no database to set up", shared.ErrInvalidFlag)
	}

	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err != nil {
			r.logger.Info("config file not found, creating from template", "path", r.configPath)
			if err := shared.CreateConfigFile(r.configPath); err != nil {
				r.logger.Warn("failed to create config file, using defaults", "error", err)
			} else {
				r.logger.Info("config file created", "path", r.configPath)
			}
		}
	}

	path := r.config.Store.Path
	r.logger.Info("initializing database", "path", path)

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Store.MaxOpenConns, r.config.Store.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", path)
	r.writePlain("✓ Store ready at %s\n", path)
	return nil
}
