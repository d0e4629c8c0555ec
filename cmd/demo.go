package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// DemoDump prints the demo store's users and lists. Passwords are never serialised.
func (r *Runner) DemoDump(ctx context.Context, cmd *cli.Command) error {
	return r.writeJSON(r.demo.Store().Snapshot(), true)
}
