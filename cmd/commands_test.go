package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/todox/internal/demo"
	"github.com/desertthunder/todox/internal/models"
	"github.com/desertthunder/todox/internal/services"
	"github.com/desertthunder/todox/internal/shared"
	tu "github.com/desertthunder/todox/internal/testing"
	"github.com/urfave/cli/v3"
)

type harness struct {
	runner *Runner
	out    *bytes.Buffer
	store  *demo.Store
	remote *tu.MockService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	config := shared.DefaultConfig()
	config.Database.Path = ":memory:"
	config.Log.File = filepath.Join(t.TempDir(), "todox.log")

	db, err := shared.OpenDatabase(context.Background(), config.Database)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := shared.NewLogger(io.Discard)
	store := demo.NewSeededStore()
	remote := tu.NewMockService()
	out := &bytes.Buffer{}

	runner := NewRunner(RunnerOpts{
		Config: config,
		DB:     db,
		Demo:   services.NewDemoService(store, logger),
		Remote: remote,
		Logger: logger,
		Output: out,
	})
	return &harness{runner: runner, out: out, store: store, remote: remote}
}

// run executes args against a fresh command tree and clears previous output.
func (h *harness) run(args ...string) error {
	h.out.Reset()
	app := &cli.Command{
		Name:      "todox",
		Commands:  h.runner.register(),
		Writer:    io.Discard,
		ErrWriter: io.Discard,
	}
	return app.Run(context.Background(), append([]string{"todox"}, args...))
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	if err := h.run(args...); err != nil {
		t.Fatalf("%s: unexpected error: %v", strings.Join(args, " "), err)
	}
	return h.out.String()
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	h.mustRun(t, "auth", "login", "--password", "password1", "demo-user")
}

func (h *harness) findList(title string) (models.List, bool) {
	for _, l := range h.store.Snapshot().Lists {
		if l.Title == title {
			return l, true
		}
	}
	return models.List{}, false
}

func TestAuthCommands(t *testing.T) {
	t.Run("login stores a demo session", func(t *testing.T) {
		h := newHarness(t)

		out := h.mustRun(t, "auth", "login", "--password", "password1", "demo-user")
		if !strings.Contains(out, "Signed in as demo-user (Demo)") {
			t.Errorf("unexpected output %q", out)
		}

		session, err := h.runner.sessions.Current(context.Background())
		if err != nil {
			t.Fatalf("expected stored session, got %v", err)
		}
		if session.UserID != "demo-owner-1" || session.Token != "mock-token-demo-user" || !session.Demo {
			t.Errorf("unexpected session %+v", session)
		}
	})

	t.Run("login with wrong password", func(t *testing.T) {
		h := newHarness(t)

		err := h.run("auth", "login", "--password", "nope", "demo-user")
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
		if _, err := h.runner.sessions.Current(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected no session, got %v", err)
		}
	})

	t.Run("login with whitespace in username", func(t *testing.T) {
		h := newHarness(t)

		if err := h.run("auth", "login", "--password", "x", "demo user"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("login without username", func(t *testing.T) {
		h := newHarness(t)

		if err := h.run("auth", "login", "--password", "x"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("signup signs the new demo user in", func(t *testing.T) {
		h := newHarness(t)

		out := h.mustRun(t, "auth", "signup", "--password", "pw", "demo-new")
		if !strings.Contains(out, "Signed up as demo-new") {
			t.Errorf("unexpected output %q", out)
		}
		if _, ok := h.store.UserID("demo-new"); !ok {
			t.Error("expected demo-new in store")
		}

		out = h.mustRun(t, "auth", "status")
		if !strings.Contains(out, "Username: demo-new") || !strings.Contains(out, "Backend:  Demo") {
			t.Errorf("unexpected status %q", out)
		}
	})

	t.Run("signup with taken username", func(t *testing.T) {
		h := newHarness(t)

		err := h.run("auth", "signup", "--password", "pw", "demo-user")
		if !errors.Is(err, shared.ErrDuplicateUsername) {
			t.Errorf("expected ErrDuplicateUsername, got %v", err)
		}
	})

	t.Run("regular usernames go to the remote backend", func(t *testing.T) {
		h := newHarness(t)

		out := h.mustRun(t, "auth", "login", "--password", "pw", "alice")
		if !strings.Contains(out, "Signed in as alice (mock)") {
			t.Errorf("unexpected output %q", out)
		}
		if h.remote.CallCount("SignIn") != 1 {
			t.Errorf("expected remote SignIn, calls: %v", h.remote.Calls())
		}
	})

	t.Run("login replaces the previous session", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)
		h.mustRun(t, "auth", "login", "--password", "pw", "alice")

		sessions, err := h.runner.sessions.List(context.Background(), nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(sessions) != 1 || sessions[0].Username != "alice" {
			t.Errorf("expected only alice's session, got %d sessions", len(sessions))
		}
	})

	t.Run("logout", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		if out := h.mustRun(t, "auth", "logout"); !strings.Contains(out, "Signed out") {
			t.Errorf("unexpected output %q", out)
		}
		if out := h.mustRun(t, "auth", "logout"); !strings.Contains(out, "Not signed in") {
			t.Errorf("unexpected output %q", out)
		}
		if err := h.run("auth", "status"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestListsCommands(t *testing.T) {
	t.Run("requires a session", func(t *testing.T) {
		h := newHarness(t)

		if err := h.run("lists", "ls"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("ls shows progress", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		out := h.mustRun(t, "lists", "ls")
		for _, want := range []string{"demo-list-1", "List 1", "2/2", "1/4"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("ls --search --json", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		out := h.mustRun(t, "lists", "ls", "--json", "--search", "3")
		var lists []models.List
		if err := json.Unmarshal([]byte(out), &lists); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if len(lists) != 1 || lists[0].ID != "demo-list-3" {
			t.Errorf("expected only demo-list-3, got %+v", lists)
		}
		if len(lists[0].Todos) != 4 {
			t.Errorf("expected todos included, got %d", len(lists[0].Todos))
		}
	})

	t.Run("show filters tasks", func(t *testing.T) {
		tests := []struct {
			filter  string
			want    []string
			notWant []string
		}{
			{"all", []string{"Task 4", "Task 5"}, nil},
			{"active", []string{"Task 5", "Task 7"}, []string{"Task 4"}},
			{"completed", []string{"[x] demo-todo-4"}, []string{"Task 5"}},
		}

		h := newHarness(t)
		h.login(t)
		for _, tt := range tests {
			t.Run(tt.filter, func(t *testing.T) {
				out := h.mustRun(t, "lists", "show", "--filter", tt.filter, "demo-list-3")
				for _, w := range tt.want {
					if !strings.Contains(out, w) {
						t.Errorf("expected %q in output:\n%s", w, out)
					}
				}
				for _, w := range tt.notWant {
					if strings.Contains(out, w) {
						t.Errorf("did not expect %q in output:\n%s", w, out)
					}
				}
			})
		}
	})

	t.Run("show with invalid filter", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		if err := h.run("lists", "show", "--filter", "later", "demo-list-1"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("show missing list", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		if err := h.run("lists", "show", "demo-list-missing"); !errors.Is(err, shared.ErrListNotFound) {
			t.Errorf("expected ErrListNotFound, got %v", err)
		}
	})

	t.Run("create rename and rm", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		h.mustRun(t, "lists", "create", "Groceries")
		list, ok := h.findList("Groceries")
		if !ok {
			t.Fatal("expected Groceries list")
		}
		if list.Owner.ID != "demo-owner-1" || list.Owner.Username != "demo-user" {
			t.Errorf("unexpected owner %+v", list.Owner)
		}

		h.mustRun(t, "lists", "rename", list.ID, "Shopping")
		if _, ok := h.findList("Shopping"); !ok {
			t.Error("expected list renamed")
		}

		h.mustRun(t, "lists", "rm", list.ID)
		if _, ok := h.findList("Shopping"); ok {
			t.Error("expected list deleted")
		}
	})

	t.Run("create rejects blank titles", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		if err := h.run("lists", "create", "   "); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("rename missing list warns", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		out := h.mustRun(t, "lists", "rename", "demo-list-missing", "Anything")
		if !strings.Contains(out, "No list with id demo-list-missing") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("purge", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		h.mustRun(t, "lists", "purge")
		if got := len(h.store.ListsForOwner("demo-owner-1")); got != 0 {
			t.Errorf("expected no lists, got %d", got)
		}
	})
}

func TestTasksCommands(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		h.mustRun(t, "tasks", "add", "--done", "demo-list-2", "Buy milk")
		tasks := h.store.TasksForList("demo-list-2")
		if len(tasks) != 2 {
			t.Fatalf("expected 2 tasks, got %d", len(tasks))
		}
		added := tasks[1]
		if !added.Done || added.Title() != "Buy milk" {
			t.Errorf("unexpected task %+v", added)
		}
		if !strings.HasPrefix(added.ID, demo.TaskPrefix+"-") {
			t.Errorf("unexpected id %s", added.ID)
		}
	})

	t.Run("add with image", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		path := filepath.Join(t.TempDir(), "pic.png")
		png := []byte("\x89PNG\r\n\x1a\n0000")
		if err := os.WriteFile(path, png, 0o644); err != nil {
			t.Fatal(err)
		}

		h.mustRun(t, "tasks", "add", "--image", path, "demo-list-2", "Photo")
		tasks := h.store.TasksForList("demo-list-2")
		content := models.ParseTaskContent(tasks[len(tasks)-1].Content)
		if !content.HasImage() || !strings.HasPrefix(*content.Image, "data:image/png;base64,") {
			t.Errorf("expected png data URI, got %+v", content)
		}
	})

	t.Run("add with unreadable image", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		err := h.run("tasks", "add", "--image", filepath.Join(t.TempDir(), "missing.png"), "demo-list-2", "Photo")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("add to missing list", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		if err := h.run("tasks", "add", "demo-list-missing", "Orphan"); !errors.Is(err, shared.ErrListNotFound) {
			t.Errorf("expected ErrListNotFound, got %v", err)
		}
	})

	t.Run("done and undo", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		if out := h.mustRun(t, "tasks", "done", "demo-todo-3"); !strings.Contains(out, "Completed Task 3") {
			t.Errorf("unexpected output %q", out)
		}
		if !h.store.TasksForList("demo-list-2")[0].Done {
			t.Error("expected demo-todo-3 done")
		}

		if out := h.mustRun(t, "tasks", "undo", "demo-todo-3"); !strings.Contains(out, "Reopened Task 3") {
			t.Errorf("unexpected output %q", out)
		}
		if h.store.TasksForList("demo-list-2")[0].Done {
			t.Error("expected demo-todo-3 reopened")
		}
	})

	t.Run("done on missing task", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		if err := h.run("tasks", "done", "demo-todo-missing"); !errors.Is(err, shared.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("edit replaces content and keeps done", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		h.mustRun(t, "tasks", "edit", "demo-todo-1", "Renamed")
		task := h.store.TasksForList("demo-list-1")[0]
		if task.Title() != "Renamed" || !task.Done {
			t.Errorf("unexpected task %+v", task)
		}
	})

	t.Run("rm", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		h.mustRun(t, "tasks", "rm", "demo-todo-1")
		if got := len(h.store.TasksForList("demo-list-1")); got != 1 {
			t.Errorf("expected 1 task left, got %d", got)
		}
	})
}

func TestExportCommand(t *testing.T) {
	t.Run("markdown to path", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		path := filepath.Join(t.TempDir(), "out.md")
		out := h.mustRun(t, "export", "--format", "markdown", "--output", path)
		if !strings.Contains(out, "Exported 3 lists to "+path) {
			t.Errorf("unexpected output %q", out)
		}

		content := tu.MustReadFile(t, path)
		for _, want := range []string{"# My Lists", "## List 3", "- [x] Task 4", "- [ ] Task 5"} {
			if !strings.Contains(content, want) {
				t.Errorf("expected %q in export:\n%s", want, content)
			}
		}
	})

	t.Run("json default filename", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)
		t.Chdir(t.TempDir())

		h.mustRun(t, "export")
		matches, err := filepath.Glob("demo-user-lists-*.json")
		if err != nil || len(matches) != 1 {
			t.Fatalf("expected one export file, got %v (%v)", matches, err)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		if err := h.run("export", "--format", "pdf"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestAccountCommand(t *testing.T) {
	t.Run("requires confirmation", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		if err := h.run("account", "delete"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if _, ok := h.store.UserID("demo-user"); !ok {
			t.Error("user should still exist")
		}
	})

	t.Run("deletes user lists and session", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		h.mustRun(t, "account", "delete", "--yes")
		if _, ok := h.store.UserID("demo-user"); ok {
			t.Error("expected user deleted")
		}
		if got := len(h.store.Snapshot().Lists); got != 0 {
			t.Errorf("expected lists cascaded, got %d", got)
		}
		if err := h.run("auth", "status"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestDemoDump(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "demo", "dump")
	if !strings.Contains(out, `"username": "demo-user"`) {
		t.Errorf("expected demo user in dump:\n%s", out)
	}
	if strings.Contains(out, "password1") {
		t.Error("dump must not contain passwords")
	}
}

func TestSetupCommands(t *testing.T) {
	t.Run("database creates config and database", func(t *testing.T) {
		t.Chdir(t.TempDir())
		h := newHarness(t)

		out := h.mustRun(t, "setup", "database", "--config", "config.toml")
		if !strings.Contains(out, "Database ready at ./todox.db (1 migrations applied)") {
			t.Errorf("unexpected output %q", out)
		}
		tu.AssertFileExists(t, "config.toml")
		tu.AssertFileExists(t, "todox.db")
	})

	t.Run("database rollback", func(t *testing.T) {
		t.Chdir(t.TempDir())
		h := newHarness(t)

		out := h.mustRun(t, "setup", "database", "--rollback")
		if !strings.Contains(out, "Rolled back the latest migration") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("status", func(t *testing.T) {
		h := newHarness(t)

		out := h.mustRun(t, "setup", "status")
		for _, want := range []string{"Migrations: 1 applied, 0 pending", "Session:    not signed in"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}

		h.login(t)
		if out := h.mustRun(t, "setup", "status"); !strings.Contains(out, "Session:    demo-user via Demo") {
			t.Errorf("unexpected status:\n%s", out)
		}
	})
}
