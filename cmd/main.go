package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/todox/internal/shared"
	"github.com/urfave/cli/v3"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config, err := shared.LoadConfig(configPath)
	switch {
	case errors.Is(err, shared.ErrMissingConfig):
		config = shared.DefaultConfig()
	case err != nil:
		logger.Warn("failed to load config, using defaults", "error", err)
		config = shared.DefaultConfig()
	}

	if lvl, err := shared.ParseLevel(config.Log.Level); err == nil {
		shared.SetLogLevel(logger, lvl)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "todox",
		Usage:    "Manage task lists from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			return
		}
		logger.Error(describe(err))
		runner.Close()
		os.Exit(1)
	}
}

// describe turns the errors a user can act on into readable messages.
func describe(err error) string {
	switch {
	case errors.Is(err, shared.ErrDuplicateUsername):
		return "that username is already taken"
	case errors.Is(err, shared.ErrInvalidCredentials):
		return "invalid username or password"
	case errors.Is(err, shared.ErrListNotFound), errors.Is(err, shared.ErrTaskNotFound):
		return err.Error()
	case errors.Is(err, shared.ErrNotAuthenticated):
		return "not signed in, run 'todox auth login <username> --password <password>'"
	case errors.Is(err, shared.ErrServiceUnavailable):
		return "the server could not be reached: " + err.Error()
	default:
		return err.Error()
	}
}
