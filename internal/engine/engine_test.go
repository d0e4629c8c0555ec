package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/todox/internal/formatter"
	"github.com/desertthunder/todox/internal/models"
	"github.com/desertthunder/todox/internal/shared"
	tu "github.com/desertthunder/todox/internal/testing"
)

var fastOpts = Opts{Workers: 3, RateLimit: 1000}

func testLists(n int) []models.List {
	owner := models.Owner{ID: "owner-1", Username: "alice"}
	lists := make([]models.List, n)
	for i := range lists {
		lists[i] = models.List{
			ID:    fmt.Sprintf("list-%d", i+1),
			Title: fmt.Sprintf("List %d", i+1),
			Owner: owner,
			Todos: []models.Task{{ID: fmt.Sprintf("task-%d", i+1), Content: "Task", Done: i%2 == 0}},
		}
	}
	return lists
}

// flakyService fails GetTasks for one list.
type flakyService struct {
	*tu.MockService
	failList string
}

func (f *flakyService) GetTasks(ctx context.Context, listID string) ([]models.Task, error) {
	if listID == f.failList {
		return nil, fmt.Errorf("%w: boom", shared.ErrAPIRequest)
	}
	return f.MockService.GetTasks(ctx, listID)
}

func drain(ch chan ProgressUpdate) []ProgressUpdate {
	var out []ProgressUpdate
	for {
		select {
		case u := <-ch:
			out = append(out, u)
		default:
			return out
		}
	}
}

func TestOpts(t *testing.T) {
	tc := []struct {
		name string
		in   Opts
		want Opts
	}{
		{name: "defaults", in: Opts{}, want: Opts{Workers: DefaultWorkers, RateLimit: DefaultRateLimit}},
		{name: "clamped workers", in: Opts{Workers: 50, RateLimit: 2}, want: Opts{Workers: MaxWorkers, RateLimit: 2}},
		{name: "kept", in: Opts{Workers: 2, RateLimit: 1}, want: Opts{Workers: 2, RateLimit: 1}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.normalize(); got != tt.want {
				t.Errorf("normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPhaseString(t *testing.T) {
	for p, want := range map[Phase]string{FetchLists: "fetch_lists", FetchTasks: "fetch_tasks", WriteExport: "write_export", Phase(99): ""} {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, got, want)
		}
	}
}

func TestCollect(t *testing.T) {
	ctx := context.Background()

	t.Run("fills tasks for every list in order", func(t *testing.T) {
		srv := tu.NewMockService(testLists(5)...)
		prog := make(chan ProgressUpdate, 100)

		res, err := New(nil).Collect(ctx, prog, srv, "owner-1", fastOpts)
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}

		if len(res.Lists) != 5 || len(res.Failed) != 0 {
			t.Fatalf("expected 5 lists and no failures, got %d and %d", len(res.Lists), len(res.Failed))
		}
		for i, l := range res.Lists {
			if l.ID != fmt.Sprintf("list-%d", i+1) {
				t.Errorf("list %d out of order: %s", i, l.ID)
			}
			if len(l.Todos) != 1 {
				t.Errorf("list %s: expected 1 task, got %d", l.ID, len(l.Todos))
			}
		}

		if n := srv.CallCount("GetTasks"); n != 5 {
			t.Errorf("expected 5 GetTasks calls, got %d", n)
		}

		updates := drain(prog)
		var taskUpdates int
		for _, u := range updates {
			if u.Phase == FetchTasks {
				taskUpdates++
			}
		}
		if taskUpdates != 5 {
			t.Errorf("expected 5 task updates, got %d", taskUpdates)
		}
	})

	t.Run("partial failure", func(t *testing.T) {
		srv := &flakyService{MockService: tu.NewMockService(testLists(3)...), failList: "list-2"}

		res, err := New(nil).Collect(ctx, nil, srv, "owner-1", fastOpts)
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}

		if len(res.Failed) != 1 || res.Failed[0].ListID != "list-2" {
			t.Fatalf("expected list-2 to fail, got %+v", res.Failed)
		}
		if !errors.Is(res.Failed[0].Error, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", res.Failed[0].Error)
		}
		if res.Lists[1].Todos == nil || len(res.Lists[1].Todos) != 0 {
			t.Errorf("failed list should have an empty task slice, got %v", res.Lists[1].Todos)
		}
	})

	t.Run("GetLists error", func(t *testing.T) {
		srv := tu.NewMockService()
		srv.FailOn["GetLists"] = shared.ErrServiceUnavailable

		if _, err := New(nil).Collect(ctx, nil, srv, "owner-1", fastOpts); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("nil service", func(t *testing.T) {
		if _, err := New(nil).Collect(ctx, nil, nil, "owner-1", fastOpts); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("no lists", func(t *testing.T) {
		res, err := New(nil).Collect(ctx, nil, tu.NewMockService(), "owner-1", fastOpts)
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}
		if len(res.Lists) != 0 {
			t.Errorf("expected no lists, got %d", len(res.Lists))
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		srv := tu.NewMockService(testLists(4)...)
		cancel()

		res, err := New(nil).Collect(cctx, nil, srv, "owner-1", Opts{Workers: 1, RateLimit: 0.001})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if res == nil || len(res.Failed) != 4 {
			t.Errorf("expected every list to fail, got %+v", res)
		}
	})

	t.Run("full progress channel does not block", func(t *testing.T) {
		srv := tu.NewMockService(testLists(6)...)
		prog := make(chan ProgressUpdate, 1)

		done := make(chan struct{})
		go func() {
			defer close(done)
			if _, err := New(nil).Collect(ctx, prog, srv, "owner-1", fastOpts); err != nil {
				t.Errorf("Collect() error = %v", err)
			}
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("Collect blocked on a full progress channel")
		}
	})
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	e := New(nil)
	e.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	t.Run("writes markdown to the given path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lists.md")
		prog := make(chan ProgressUpdate, 100)

		res, err := e.Export(ctx, prog, tu.NewMockService(testLists(2)...), "owner-1", ExportOpts{
			Opts: fastOpts, Format: formatter.FormatMarkdown, Path: path, Username: "alice",
		})
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if res.Path != path {
			t.Errorf("expected %s, got %s", path, res.Path)
		}

		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "## List 1") || !strings.Contains(content, "**User**: alice") {
			t.Errorf("unexpected export:\n%s", content)
		}

		last := drain(prog)
		if len(last) == 0 || last[len(last)-1].Phase != WriteExport {
			t.Error("expected final update to be WriteExport")
		}
	})

	t.Run("default filename", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		res, err := e.Export(ctx, nil, tu.NewMockService(testLists(1)...), "owner-1", ExportOpts{Opts: fastOpts, Username: "alice"})
		if err != nil {
			t.Fatalf("Export() error = %v", err)
		}
		if res.Path != "alice-lists-2025-01-02_03-04-05.json" {
			t.Errorf("unexpected default path %s", res.Path)
		}
		tu.AssertFileExists(t, filepath.Join(dir, res.Path))
	})
}
