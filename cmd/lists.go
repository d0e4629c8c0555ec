package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/todox/internal/models"
	"github.com/desertthunder/todox/internal/services"
	"github.com/desertthunder/todox/internal/shared"
	"github.com/urfave/cli/v3"
)

func requiredArg(cmd *cli.Command, name string) (string, error) {
	v := strings.TrimSpace(cmd.StringArg(name))
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", shared.ErrMissingArgument, name)
	}
	return v, nil
}

// ListsList prints the signed-in user's lists with their completion counts.
func (r *Runner) ListsList(ctx context.Context, cmd *cli.Command) error {
	session, srv, err := r.signedIn(ctx)
	if err != nil {
		return err
	}

	collected, err := r.engine.Collect(ctx, nil, srv, session.UserID, r.engineOpts())
	if err != nil {
		return err
	}
	for _, failed := range collected.Failed {
		r.logger.Warn("could not fetch tasks", "list", failed.Title, "error", failed.Error)
	}

	lists := services.FilterLists(collected.Lists, cmd.String("search"))
	if cmd.Bool("json") {
		return r.writeJSON(lists, true)
	}

	if len(lists) == 0 {
		return r.writePlain("No lists\n")
	}
	for _, l := range lists {
		done, total := l.Progress()
		r.writePlain("%-16s %-30s %d/%d\n", l.ID, l.Title, done, total)
	}
	return nil
}

// ListsShow prints the tasks of one list, optionally filtered by completion.
func (r *Runner) ListsShow(ctx context.Context, cmd *cli.Command) error {
	listID, err := requiredArg(cmd, "id")
	if err != nil {
		return err
	}
	filter, err := services.ParseTaskFilter(cmd.String("filter"))
	if err != nil {
		return err
	}

	_, srv, err := r.signedIn(ctx)
	if err != nil {
		return err
	}

	list, err := srv.GetList(ctx, listID)
	if err != nil {
		return err
	}
	if list == nil {
		r.logger.Warn("list not found", "id", listID)
		return fmt.Errorf("%w: %s", shared.ErrListNotFound, listID)
	}

	list.Todos = services.FilterTasks(list.Todos, filter)
	if cmd.Bool("json") {
		return r.writeJSON(list, true)
	}

	done, total := list.Progress()
	r.writePlainHeader(fmt.Sprintf("%s (%s) %d/%d", list.Title, filter, done, total))
	if total == 0 {
		return r.writePlain("No tasks\n")
	}
	for _, t := range list.Todos {
		content := models.ParseTaskContent(t.Content)
		mark := " "
		if t.Done {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] %-16s %s", mark, t.ID, content.Title)
		if content.HasImage() {
			line += " (image)"
		}
		r.writePlain("%s\n", line)
	}
	return nil
}

// ListsCreate creates a list owned by the signed-in user.
func (r *Runner) ListsCreate(ctx context.Context, cmd *cli.Command) error {
	title, err := requiredArg(cmd, "title")
	if err != nil {
		return err
	}
	if err := services.ValidateTitle(title); err != nil {
		return err
	}

	session, srv, err := r.signedIn(ctx)
	if err != nil {
		return err
	}

	list, err := srv.CreateList(ctx, title, session.Owner())
	if err != nil {
		return fmt.Errorf("failed to create list: %w", err)
	}
	return r.writePlain("✓ Created list %s (%s)\n", list.Title, list.ID)
}

// ListsRename changes a list's title. A missing list is reported but not treated as an error.
func (r *Runner) ListsRename(ctx context.Context, cmd *cli.Command) error {
	listID, err := requiredArg(cmd, "id")
	if err != nil {
		return err
	}
	title, err := requiredArg(cmd, "title")
	if err != nil {
		return err
	}
	if err := services.ValidateTitle(title); err != nil {
		return err
	}

	_, srv, err := r.signedIn(ctx)
	if err != nil {
		return err
	}

	list, err := srv.RenameList(ctx, listID, title)
	if err != nil {
		return fmt.Errorf("failed to rename list: %w", err)
	}
	if list == nil {
		r.logger.Warn("list not found", "id", listID)
		return r.writePlain("! No list with id %s\n", listID)
	}
	return r.writePlain("✓ Renamed list %s to %s\n", list.ID, list.Title)
}

// ListsDelete removes a list and its tasks.
func (r *Runner) ListsDelete(ctx context.Context, cmd *cli.Command) error {
	listID, err := requiredArg(cmd, "id")
	if err != nil {
		return err
	}

	_, srv, err := r.signedIn(ctx)
	if err != nil {
		return err
	}

	if err := srv.DeleteList(ctx, listID); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return r.writePlain("✓ Deleted list %s\n", listID)
}

// ListsPurge removes every list owned by the signed-in user.
func (r *Runner) ListsPurge(ctx context.Context, cmd *cli.Command) error {
	session, srv, err := r.signedIn(ctx)
	if err != nil {
		return err
	}

	if err := srv.DeleteAllLists(ctx, session.UserID); err != nil {
		return fmt.Errorf("failed to delete lists: %w", err)
	}
	return r.writePlain("✓ Deleted all lists for %s\n", session.Username)
}
