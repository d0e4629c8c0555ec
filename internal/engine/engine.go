package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/todox/internal/formatter"
	"github.com/desertthunder/todox/internal/models"
	"github.com/desertthunder/todox/internal/services"
	"github.com/desertthunder/todox/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultWorkers   = 4
	MaxWorkers       = 10
	DefaultRateLimit = 5.0
)

// Opts controls the worker pool.
type Opts struct {
	Workers   int     // Concurrent task fetches (default 4, max 10)
	RateLimit float64 // Requests per second (default 5)
}

func (o Opts) normalize() Opts {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.Workers > MaxWorkers {
		o.Workers = MaxWorkers
	}
	if o.RateLimit <= 0 {
		o.RateLimit = DefaultRateLimit
	}
	return o
}

// ListResult is the outcome of fetching one list's tasks.
type ListResult struct {
	ListID string
	Title  string
	Tasks  int
	Error  error
}

// CollectResult holds every list of an owner with its tasks filled in.
type CollectResult struct {
	Lists  []models.List // In backend order
	Failed []ListResult  // Lists whose tasks could not be fetched
}

// ExportOpts configures [ListEngine.Export].
type ExportOpts struct {
	Opts
	Format   formatter.Format
	Path     string // Output path; empty uses formatter.DefaultFilename
	Username string
}

// ExportResult describes a written export.
type ExportResult struct {
	CollectResult
	Path string
}

// ListEngine fetches lists and tasks from a [services.Service].
type ListEngine struct {
	logger *log.Logger
	now    func() time.Time
}

// New creates a [ListEngine].
func New(logger *log.Logger) *ListEngine {
	if logger == nil {
		logger = log.Default()
	}
	return &ListEngine{logger: logger.WithPrefix("engine"), now: time.Now}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ListEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

type taskJob struct {
	index int
	list  models.List
}

type taskResult struct {
	index int
	tasks []models.Task
	err   error
}

// Collect fetches the owner's lists, then each list's tasks through the worker pool.
func (e *ListEngine) Collect(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	srv services.Service,
	ownerID string,
	opts Opts,
) (*CollectResult, error) {
	if srv == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	opts = opts.normalize()

	e.sendProgress(prog, fetchingListsUpdate(srv.Name()))
	lists, err := srv.GetLists(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lists: %w", err)
	}
	e.sendProgress(prog, foundListsUpdate(len(lists)))
	e.logger.Debug("collecting tasks", "lists", len(lists), "workers", opts.Workers, "rate", opts.RateLimit)

	result := &CollectResult{Lists: make([]models.List, len(lists)), Failed: []ListResult{}}
	for i, l := range lists {
		result.Lists[i] = l.Clone()
	}
	if len(lists) == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan taskJob, len(lists))
	results := make(chan taskResult, len(lists))

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go e.taskWorker(ctx, &wg, limiter, srv, jobs, results)
	}

	for i, l := range result.Lists {
		jobs <- taskJob{index: i, list: l}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		l := &result.Lists[res.index]
		lr := ListResult{ListID: l.ID, Title: l.Title}

		if res.err != nil {
			lr.Error = res.err
			l.Todos = []models.Task{}
			result.Failed = append(result.Failed, lr)
			e.logger.Warn("failed to fetch tasks", "list", l.ID, "error", res.err)
			e.sendProgress(prog, failedTasksUpdate(completed, len(lists), lr))
			continue
		}

		l.Todos = res.tasks
		lr.Tasks = len(res.tasks)
		e.sendProgress(prog, fetchedTasksUpdate(completed, len(lists), lr))
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// taskWorker fetches tasks for jobs until the channel closes or ctx is done.
func (e *ListEngine) taskWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	srv services.Service,
	jobs <-chan taskJob,
	results chan<- taskResult,
) {
	defer wg.Done()

	for job := range jobs {
		if err := limiter.Wait(ctx); err != nil {
			results <- taskResult{index: job.index, err: err}
			continue
		}

		tasks, err := srv.GetTasks(ctx, job.list.ID)
		if tasks == nil && err == nil {
			tasks = []models.Task{}
		}
		results <- taskResult{index: job.index, tasks: tasks, err: err}
	}
}

// Export collects the owner's lists and writes them in the requested format.
func (e *ListEngine) Export(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	srv services.Service,
	ownerID string,
	opts ExportOpts,
) (*ExportResult, error) {
	collected, err := e.Collect(ctx, prog, srv, ownerID, opts.Opts)
	if err != nil {
		return nil, err
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}

	e.sendProgress(prog, writingExportUpdate(string(opts.Format)))
	export := &formatter.Export{Username: opts.Username, ExportedAt: e.now(), Lists: collected.Lists}

	path, err := formatter.WriteExport(export, opts.Format, opts.Path)
	if err != nil {
		return nil, err
	}
	e.sendProgress(prog, wroteExportUpdate(path))

	return &ExportResult{CollectResult: *collected, Path: path}, nil
}
