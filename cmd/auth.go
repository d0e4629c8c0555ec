package main

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/desertthunder/todox/internal/models"
	"github.com/desertthunder/todox/internal/shared"
	"github.com/urfave/cli/v3"
)

func usernameArg(cmd *cli.Command) (string, error) {
	username := strings.TrimSpace(cmd.StringArg("username"))
	if username == "" {
		return "", fmt.Errorf("%w: username is required", shared.ErrMissingArgument)
	}
	if strings.ContainsFunc(username, unicode.IsSpace) {
		return "", fmt.Errorf("%w: username %q contains whitespace", shared.ErrInvalidArgument, username)
	}
	return username, nil
}

// AuthSignUp creates an account on the backend that owns the username and stores the session.
func (r *Runner) AuthSignUp(ctx context.Context, cmd *cli.Command) error {
	username, err := usernameArg(cmd)
	if err != nil {
		return err
	}

	srv := r.backend(username, "")
	r.logger.Info("signing up", "username", username, "backend", srv.Name())

	auth, err := srv.SignUp(ctx, username, cmd.String("password"))
	if err != nil {
		return fmt.Errorf("sign up failed: %w", err)
	}

	if err := r.storeSession(ctx, username, auth); err != nil {
		return err
	}
	return r.writePlain("✓ Signed up as %s (%s)\n", username, srv.Name())
}

// AuthLogin signs in and replaces any stored session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username, err := usernameArg(cmd)
	if err != nil {
		return err
	}

	srv := r.backend(username, "")
	r.logger.Info("signing in", "username", username, "backend", srv.Name())

	auth, err := srv.SignIn(ctx, username, cmd.String("password"))
	if err != nil {
		return fmt.Errorf("sign in failed: %w", err)
	}

	if err := r.storeSession(ctx, username, auth); err != nil {
		return err
	}
	return r.writePlain("✓ Signed in as %s (%s)\n", username, srv.Name())
}

func (r *Runner) storeSession(ctx context.Context, username string, auth *models.AuthResult) error {
	repo, err := r.sessionRepo(ctx)
	if err != nil {
		return err
	}

	if _, err := repo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear previous session: %w", err)
	}

	session := models.NewSession(username, *auth, r.resolver("").IsDemo(username))
	if err := repo.Create(ctx, session); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	r.logger.Debug("stored session", "id", session.ID, "sequence", session.Sequence)
	return nil
}

// AuthLogout forgets the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.sessionRepo(ctx)
	if err != nil {
		return err
	}

	n, err := repo.Clear(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if n == 0 {
		return r.writePlain("Not signed in\n")
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus prints the signed-in user.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	session, srv, err := r.signedIn(ctx)
	if err != nil {
		return err
	}

	r.writePlain("Username: %s\n", session.Username)
	r.writePlain("User ID:  %s\n", session.UserID)
	r.writePlain("Backend:  %s\n", srv.Name())
	return r.writePlain("Since:    %s\n", session.CreatedAt.Format("2006-01-02 15:04:05"))
}
