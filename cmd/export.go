package main

import (
	"context"

	"github.com/desertthunder/todox/internal/engine"
	"github.com/desertthunder/todox/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Export collects every list with its tasks and writes them to a file.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	session, srv, err := r.signedIn(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("starting export", "username", session.Username, "format", format)

	progressCh := make(chan engine.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case engine.FetchLists:
				r.writePlain("📥 %s\n", update.Message)
			case engine.FetchTasks:
				r.writePlain("   %s\n", update.Message)
			case engine.WriteExport:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Export(ctx, progressCh, srv, session.UserID, engine.ExportOpts{
		Opts:     r.engineOpts(),
		Format:   format,
		Path:     cmd.String("output"),
		Username: session.Username,
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n✓ Exported %d lists to %s\n", len(result.Lists), result.Path)
	if len(result.Failed) > 0 {
		r.writePlain("\nCould not fetch tasks for %d lists:\n", len(result.Failed))
		for _, f := range result.Failed {
			r.writePlain("  - %s: %v\n", f.Title, f.Error)
		}
	}
	return nil
}
