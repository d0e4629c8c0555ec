package services

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/todox/internal/demo"
	"github.com/desertthunder/todox/internal/models"
)

// DemoService implements [Service] on top of an in-memory [demo.Store].
type DemoService struct {
	store  *demo.Store
	logger *log.Logger
}

// NewDemoService creates a [DemoService] backed by store.
func NewDemoService(store *demo.Store, logger *log.Logger) *DemoService {
	if logger == nil {
		logger = log.Default()
	}
	return &DemoService{store: store, logger: logger.WithPrefix("demo")}
}

// Name returns the service name.
func (d *DemoService) Name() string {
	return "Demo"
}

// Store returns the underlying store.
func (d *DemoService) Store() *demo.Store {
	return d.store
}

// SignUp creates the account and signs it in immediately.
func (d *DemoService) SignUp(ctx context.Context, username, password string) (*models.AuthResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u, err := d.store.CreateUser(username, password)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("created demo user", "username", username, "id", u.ID)

	return d.SignIn(ctx, username, password)
}

func (d *DemoService) SignIn(ctx context.Context, username, password string) (*models.AuthResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := d.store.Authenticate(username, password)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (d *DemoService) GetLists(ctx context.Context, ownerID string) ([]models.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.store.ListsForOwner(ownerID), nil
}

func (d *DemoService) GetList(ctx context.Context, listID string) (*models.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l, ok := d.store.ListDetail(listID)
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (d *DemoService) CreateList(ctx context.Context, title string, owner models.Owner) (*models.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := d.store.CreateList(title, owner)
	d.logger.Debug("created list", "id", l.ID, "owner", owner.ID)
	return &l, nil
}

func (d *DemoService) RenameList(ctx context.Context, listID, title string) (*models.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l, ok := d.store.RenameList(listID, title)
	if !ok {
		d.logger.Debug("rename of missing list ignored", "id", listID)
		return nil, nil
	}
	return &l, nil
}

func (d *DemoService) DeleteList(ctx context.Context, listID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.store.DeleteList(listID)
	return nil
}

func (d *DemoService) DeleteAllLists(ctx context.Context, ownerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n := d.store.DeleteAllListsForOwner(ownerID)
	d.logger.Debug("deleted lists", "owner", ownerID, "count", n)
	return nil
}

func (d *DemoService) GetTasks(ctx context.Context, listID string) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.store.TasksForList(listID), nil
}

func (d *DemoService) CreateTask(ctx context.Context, listID, content string, done bool) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, err := d.store.CreateTask(content, done, listID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (d *DemoService) UpdateTask(ctx context.Context, taskID string, patch models.TaskPatch) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, ok := d.store.UpdateTask(taskID, patch)
	if !ok {
		d.logger.Debug("update of missing task ignored", "id", taskID)
		return nil, nil
	}
	return &t, nil
}

func (d *DemoService) DeleteTask(ctx context.Context, taskID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.store.DeleteTask(taskID)
	return nil
}

func (d *DemoService) DeleteUser(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.store.DeleteUser(userID)
	return nil
}
