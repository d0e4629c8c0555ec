package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/todox/internal/demo"
	"github.com/desertthunder/todox/internal/engine"
	"github.com/desertthunder/todox/internal/models"
	"github.com/desertthunder/todox/internal/repositories"
	"github.com/desertthunder/todox/internal/services"
	"github.com/desertthunder/todox/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	db         *sql.DB
	sessions   *repositories.SessionRepository
	demo       *services.DemoService
	remote     services.Service
	client     *services.GraphClient
	engine     *engine.ListEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	DB         *sql.DB               // Session database; opened from Config on first use when nil
	Demo       *services.DemoService // Defaults to a store built from Config.Demo
	Remote     services.Service      // Overrides the GraphQL backend for non-demo users
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Demo == nil {
		opts.Demo = services.NewDemoService(newDemoStore(opts.Config.Demo), opts.Logger)
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		demo:       opts.Demo,
		remote:     opts.Remote,
		client:     services.NewGraphClient(opts.Config.API.Endpoint, opts.HTTPClient, opts.Config.API.Timeout()),
		engine:     engine.New(opts.Logger),
	}
	if opts.DB != nil {
		r.db = opts.DB
		r.sessions = repositories.NewSessionRepository(opts.DB)
	}
	return r
}

func newDemoStore(cfg shared.DemoConfig) *demo.Store {
	if cfg.Seed {
		return demo.NewSeededStore()
	}
	return demo.NewStore(demo.Dataset{}, nil)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, listsCommand, tasksCommand, exportCommand, accountCommand, demoCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by the runner and its engine.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.engine = engine.New(l)
}

// Close releases the session database.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.sessions = nil
	return err
}

// sessionRepo opens and migrates the session database on first use.
func (r *Runner) sessionRepo(ctx context.Context) (*repositories.SessionRepository, error) {
	if r.sessions != nil {
		return r.sessions, nil
	}

	db, err := shared.OpenDatabase(ctx, r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	r.db = db
	r.sessions = repositories.NewSessionRepository(db)
	return r.sessions, nil
}

// currentSession returns the signed-in session or [shared.ErrNotAuthenticated].
func (r *Runner) currentSession(ctx context.Context) (*models.Session, error) {
	repo, err := r.sessionRepo(ctx)
	if err != nil {
		return nil, err
	}
	return repo.Current(ctx)
}

func (r *Runner) resolver(token string) *services.Resolver {
	remote := r.remote
	if remote == nil {
		client := r.client
		if token != "" {
			client = client.WithToken(token)
		}
		remote = services.NewGraphService(client, r.logger)
	}
	return services.NewResolver(r.demo, remote, r.config.Demo.Prefix)
}

// backend returns the service that owns username, authorised with token for remote users.
func (r *Runner) backend(username, token string) services.Service {
	return r.resolver(token).For(username)
}

// signedIn returns the current session and the service that serves it.
func (r *Runner) signedIn(ctx context.Context) (*models.Session, services.Service, error) {
	session, err := r.currentSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	return session, r.backend(session.Username, session.Token), nil
}

func (r *Runner) engineOpts() engine.Opts {
	return engine.Opts{Workers: r.config.API.Workers, RateLimit: r.config.API.RateLimit}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
