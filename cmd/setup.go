package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/todox/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the session database and runs migrations.
//
// A missing config file is created from the embedded template first.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
		}
		config = shared.DefaultConfig()
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenDatabase(ctx, config.Database)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(ctx, db); err != nil {
			return err
		}
		r.logger.Warn("rolled back latest migration", "path", config.Database.Path)
		return r.writePlain("✓ Rolled back the latest migration of %s\n", config.Database.Path)
	}

	versions, err := shared.MigrationVersions(ctx, db)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return r.writePlain("✓ Database ready at %s (%d migrations applied)\n", config.Database.Path, len(versions))
}

// SetupStatus prints the active configuration, the signed-in backend and the migration state.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.sessionRepo(ctx)
	if err != nil {
		return err
	}

	versions, err := shared.MigrationVersions(ctx, r.db)
	if err != nil {
		return err
	}
	pending, err := shared.PendingMigrations(ctx, r.db)
	if err != nil {
		return err
	}

	r.writePlainHeader("todox status")
	if r.configPath != "" {
		r.writePlain("Config:     %s\n", r.configPath)
	}
	r.writePlain("Database:   %s\n", r.config.Database.Path)
	r.writePlain("Migrations: %d applied, %d pending\n", len(versions), len(pending))
	r.writePlain("Endpoint:   %s\n", r.client.Endpoint())
	r.writePlain("Demo:       usernames starting with %q\n", r.config.Demo.Prefix)

	session, err := repo.Current(ctx)
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		return r.writePlain("Session:    not signed in\n")
	case err != nil:
		return err
	}

	return r.writePlain("Session:    %s via %s\n", session.Username, r.backend(session.Username, session.Token).Name())
}
