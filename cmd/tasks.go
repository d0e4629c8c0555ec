package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/todox/internal/models"
	"github.com/desertthunder/todox/internal/services"
	"github.com/desertthunder/todox/internal/shared"
	"github.com/urfave/cli/v3"
)

// taskContent encodes title with the image read from the --image flag, if any.
func taskContent(cmd *cli.Command, title string) (string, error) {
	if err := services.ValidateTitle(title); err != nil {
		return "", err
	}

	var image []byte
	if path := cmd.String("image"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("%w: cannot read image: %v", shared.ErrInvalidFlag, err)
		}
		image = data
	}
	return models.NewTaskContent(title, image)
}

// TasksAdd appends a task to a list.
func (r *Runner) TasksAdd(ctx context.Context, cmd *cli.Command) error {
	listID, err := requiredArg(cmd, "list")
	if err != nil {
		return err
	}
	title, err := requiredArg(cmd, "title")
	if err != nil {
		return err
	}
	content, err := taskContent(cmd, title)
	if err != nil {
		return err
	}

	_, srv, err := r.signedIn(ctx)
	if err != nil {
		return err
	}

	task, err := srv.CreateTask(ctx, listID, content, cmd.Bool("done"))
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	return r.writePlain("✓ Added %s (%s)\n", title, task.ID)
}

// TasksDone marks a task as completed.
func (r *Runner) TasksDone(ctx context.Context, cmd *cli.Command) error {
	return r.setDone(ctx, cmd, true)
}

// TasksUndo marks a task as not completed.
func (r *Runner) TasksUndo(ctx context.Context, cmd *cli.Command) error {
	return r.setDone(ctx, cmd, false)
}

func (r *Runner) setDone(ctx context.Context, cmd *cli.Command, done bool) error {
	taskID, err := requiredArg(cmd, "id")
	if err != nil {
		return err
	}

	task, err := r.updateTask(ctx, taskID, models.TaskPatch{Done: &done})
	if err != nil {
		return err
	}

	if task.Done {
		return r.writePlain("✓ Completed %s\n", task.Title())
	}
	return r.writePlain("✓ Reopened %s\n", task.Title())
}

// TasksEdit replaces a task's content.
func (r *Runner) TasksEdit(ctx context.Context, cmd *cli.Command) error {
	taskID, err := requiredArg(cmd, "id")
	if err != nil {
		return err
	}
	title, err := requiredArg(cmd, "title")
	if err != nil {
		return err
	}
	content, err := taskContent(cmd, title)
	if err != nil {
		return err
	}

	task, err := r.updateTask(ctx, taskID, models.TaskPatch{Content: &content})
	if err != nil {
		return err
	}
	return r.writePlain("✓ Updated %s\n", task.Title())
}

// updateTask applies patch and turns a missing task into [shared.ErrTaskNotFound].
func (r *Runner) updateTask(ctx context.Context, taskID string, patch models.TaskPatch) (*models.Task, error) {
	_, srv, err := r.signedIn(ctx)
	if err != nil {
		return nil, err
	}

	task, err := srv.UpdateTask(ctx, taskID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if task == nil {
		r.logger.Warn("task not found", "id", taskID)
		return nil, fmt.Errorf("%w: %s", shared.ErrTaskNotFound, taskID)
	}
	return task, nil
}

// TasksDelete removes a task.
func (r *Runner) TasksDelete(ctx context.Context, cmd *cli.Command) error {
	taskID, err := requiredArg(cmd, "id")
	if err != nil {
		return err
	}

	_, srv, err := r.signedIn(ctx)
	if err != nil {
		return err
	}

	if err := srv.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return r.writePlain("✓ Deleted task %s\n", taskID)
}
