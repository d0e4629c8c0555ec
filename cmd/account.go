package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/todox/internal/shared"
	"github.com/urfave/cli/v3"
)

// AccountDelete removes the signed-in user with all of their lists, then forgets the session.
func (r *Runner) AccountDelete(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: pass --yes to delete your account", shared.ErrMissingArgument)
	}

	session, srv, err := r.signedIn(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("deleting account", "username", session.Username, "backend", srv.Name())
	if err := srv.DeleteUser(ctx, session.UserID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if _, err := r.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return r.writePlain("✓ Deleted account %s\n", session.Username)
}
