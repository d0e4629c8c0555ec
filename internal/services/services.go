// package services defines interface Service for reading and writing task lists
//
// GraphQL API, in-memory demo store
package services

import (
	"context"

	"github.com/desertthunder/todox/internal/models"
)

// Service is the CRUD contract shared by every backend.
//
// Lookups of a single list or task that does not exist return nil without an error; callers
// decide whether that is worth reporting.
type Service interface {
	// SignUp creates an account and signs it in.
	SignUp(ctx context.Context, username, password string) (*models.AuthResult, error)

	// SignIn exchanges credentials for a token and the account id.
	SignIn(ctx context.Context, username, password string) (*models.AuthResult, error)

	// GetLists returns the lists owned by ownerID.
	GetLists(ctx context.Context, ownerID string) ([]models.List, error)

	// GetList returns a list with its tasks, or nil when it does not exist.
	GetList(ctx context.Context, listID string) (*models.List, error)

	CreateList(ctx context.Context, title string, owner models.Owner) (*models.List, error)

	// RenameList returns nil when the list does not exist.
	RenameList(ctx context.Context, listID, title string) (*models.List, error)

	DeleteList(ctx context.Context, listID string) error

	// DeleteAllLists removes every list owned by ownerID.
	DeleteAllLists(ctx context.Context, ownerID string) error

	GetTasks(ctx context.Context, listID string) ([]models.Task, error)

	// CreateTask appends a task to a list; fails with [shared.ErrListNotFound] when the list is missing.
	CreateTask(ctx context.Context, listID, content string, done bool) (*models.Task, error)

	// UpdateTask applies patch and returns nil when the task does not exist.
	UpdateTask(ctx context.Context, taskID string, patch models.TaskPatch) (*models.Task, error)

	DeleteTask(ctx context.Context, taskID string) error

	// DeleteUser removes the account and every list it owns.
	DeleteUser(ctx context.Context, userID string) error

	// Name returns the name of the backend (e.g., "Demo", "GraphQL")
	Name() string
}
