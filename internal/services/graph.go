// GraphQL API implementation of [Service]
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/todox/internal/models"
	"github.com/desertthunder/todox/internal/shared"
)

const (
	signUpMutation = `mutation SignUp($username: String!, $password: String!) {
  signUp(username: $username, password: $password)
}`

	signInMutation = `mutation SignIn($username: String!, $password: String!) {
  signIn(username: $username, password: $password)
}`

	userIDQuery = `query GetUserId($where: UserWhere) {
  users(where: $where) { id }
}`

	todoListsQuery = `query GetTodoLists($where: TodoListWhere) {
  todoLists(where: $where) {
    id
    title
    owner { id username roles }
  }
}`

	todosByListQuery = `query GetTodosByList($listId: ID!) {
  todos(where: { belongsTo: { id: $listId } }) { id content done }
}`

	createTodoListMutation = `mutation CreateTodoLists($input: [TodoListCreateInput!]!) {
  createTodoLists(input: $input) {
    todoLists { id title owner { id username roles } }
  }
}`

	updateTodoListMutation = `mutation UpdateTodoList($id: ID!, $title: String!) {
  updateTodoLists(where: { id: $id }, update: { title: $title }) {
    todoLists { id title owner { id username roles } }
  }
}`

	deleteTodoListMutation = `mutation DeleteTodoList($id: ID!) {
  deleteTodoLists(where: { id: $id }) { nodesDeleted relationshipsDeleted }
}`

	createTodoMutation = `mutation CreateTodo($content: String!, $done: Boolean!, $listId: ID!) {
  createTodos(input: [{
    content: $content,
    done: $done,
    belongsTo: { connect: { where: { id: $listId } } }
  }]) {
    todos { id content done }
  }
}`

	updateTodoMutation = `mutation UpdateTodo($id: ID!, $content: String, $done: Boolean) {
  updateTodos(where: { id: $id }, update: { content: $content, done: $done }) {
    todos { id content done }
  }
}`

	deleteTodoMutation = `mutation DeleteTodo($id: ID!) {
  deleteTodos(where: { id: $id }) { nodesDeleted relationshipsDeleted }
}`

	deleteUserMutation = `mutation DeleteUsers($where: UserWhere) {
  deleteUsers(where: $where) { nodesDeleted relationshipsDeleted }
}`
)

type graphList struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Owner models.Owner `json:"owner"`
}

func (g graphList) toModel() models.List {
	return models.List{ID: g.ID, Title: g.Title, Owner: g.Owner.Clone(), Todos: []models.Task{}}
}

type todoListsResult struct {
	TodoLists []graphList `json:"todoLists"`
}

type todosResult struct {
	Todos []models.Task `json:"todos"`
}

// GraphService implements [Service] against the GraphQL API.
type GraphService struct {
	client *GraphClient
	logger *log.Logger
}

// NewGraphService creates a [GraphService]. The client should already carry the session token
// for anything but sign-up and sign-in.
func NewGraphService(client *GraphClient, logger *log.Logger) *GraphService {
	if logger == nil {
		logger = log.Default()
	}
	return &GraphService{client: client, logger: logger.WithPrefix("graphql")}
}

// Name returns the service name.
func (g *GraphService) Name() string {
	return "GraphQL"
}

// SignUp registers the account, then resolves its id.
func (g *GraphService) SignUp(ctx context.Context, username, password string) (*models.AuthResult, error) {
	var res struct {
		SignUp *string `json:"signUp"`
	}

	err := g.client.Do(ctx, signUpMutation, map[string]any{"username": username, "password": password}, &res)
	var gerrs GraphErrors
	if errors.As(err, &gerrs) && gerrs.contains("exist", "taken", "duplicate", "unique") {
		return nil, shared.ErrDuplicateUsername
	}
	if err != nil {
		return nil, fmt.Errorf("sign up failed: %w", err)
	}
	if res.SignUp == nil || *res.SignUp == "" {
		return nil, fmt.Errorf("%w: sign up returned no token", shared.ErrAPIRequest)
	}

	return g.authResult(ctx, username, *res.SignUp)
}

// SignIn exchanges credentials for a token. A null token means the credentials were rejected.
func (g *GraphService) SignIn(ctx context.Context, username, password string) (*models.AuthResult, error) {
	var res struct {
		SignIn *string `json:"signIn"`
	}

	err := g.client.Do(ctx, signInMutation, map[string]any{"username": username, "password": password}, &res)
	var gerrs GraphErrors
	if errors.As(err, &gerrs) && gerrs.contains("invalid", "incorrect") {
		return nil, shared.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("sign in failed: %w", err)
	}
	if res.SignIn == nil || *res.SignIn == "" {
		return nil, shared.ErrInvalidCredentials
	}

	return g.authResult(ctx, username, *res.SignIn)
}

func (g *GraphService) authResult(ctx context.Context, username, token string) (*models.AuthResult, error) {
	id, err := g.client.WithToken(token).userID(ctx, username)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{Token: token, UserID: id}, nil
}

// userID looks up the id for username.
func (c *GraphClient) userID(ctx context.Context, username string) (string, error) {
	var res struct {
		Users []struct {
			ID string `json:"id"`
		} `json:"users"`
	}

	vars := map[string]any{"where": map[string]any{"username": username}}
	if err := c.Do(ctx, userIDQuery, vars, &res); err != nil {
		return "", fmt.Errorf("failed to look up user id: %w", err)
	}
	if len(res.Users) == 0 {
		return "", fmt.Errorf("%w: no user named %s", shared.ErrAPIRequest, username)
	}
	return res.Users[0].ID, nil
}

// GetLists returns the owner's lists. Tasks are not included; use [GraphService.GetTasks].
func (g *GraphService) GetLists(ctx context.Context, ownerID string) ([]models.List, error) {
	var res todoListsResult
	vars := map[string]any{"where": map[string]any{"owner": map[string]any{"id": ownerID}}}
	if err := g.client.Do(ctx, todoListsQuery, vars, &res); err != nil {
		return nil, fmt.Errorf("failed to get lists: %w", err)
	}

	lists := make([]models.List, len(res.TodoLists))
	for i, gl := range res.TodoLists {
		lists[i] = gl.toModel()
	}
	return lists, nil
}

// GetList fetches a list and its tasks.
func (g *GraphService) GetList(ctx context.Context, listID string) (*models.List, error) {
	var res todoListsResult
	vars := map[string]any{"where": map[string]any{"id": listID}}
	if err := g.client.Do(ctx, todoListsQuery, vars, &res); err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	if len(res.TodoLists) == 0 {
		return nil, nil
	}

	l := res.TodoLists[0].toModel()
	tasks, err := g.GetTasks(ctx, listID)
	if err != nil {
		return nil, err
	}
	l.Todos = tasks
	return &l, nil
}

// CreateList creates a list connected to the owner by username.
func (g *GraphService) CreateList(ctx context.Context, title string, owner models.Owner) (*models.List, error) {
	input := []map[string]any{{
		"title": title,
		"owner": map[string]any{
			"connect": map[string]any{"where": map[string]any{"username": owner.Username}},
		},
	}}

	var res struct {
		CreateTodoLists todoListsResult `json:"createTodoLists"`
	}
	if err := g.client.Do(ctx, createTodoListMutation, map[string]any{"input": input}, &res); err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	created := res.CreateTodoLists.TodoLists
	if len(created) == 0 {
		return nil, fmt.Errorf("%w: create list returned nothing", shared.ErrAPIRequest)
	}

	l := created[0].toModel()
	if l.Owner.ID == "" {
		l.Owner = owner.Clone()
	}
	g.logger.Debug("created list", "id", l.ID)
	return &l, nil
}

func (g *GraphService) RenameList(ctx context.Context, listID, title string) (*models.List, error) {
	var res struct {
		UpdateTodoLists todoListsResult `json:"updateTodoLists"`
	}
	if err := g.client.Do(ctx, updateTodoListMutation, map[string]any{"id": listID, "title": title}, &res); err != nil {
		return nil, fmt.Errorf("failed to rename list: %w", err)
	}

	updated := res.UpdateTodoLists.TodoLists
	if len(updated) == 0 {
		return nil, nil
	}
	l := updated[0].toModel()
	return &l, nil
}

func (g *GraphService) DeleteList(ctx context.Context, listID string) error {
	if err := g.client.Do(ctx, deleteTodoListMutation, map[string]any{"id": listID}, nil); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// DeleteAllLists deletes the owner's lists one at a time.
func (g *GraphService) DeleteAllLists(ctx context.Context, ownerID string) error {
	lists, err := g.GetLists(ctx, ownerID)
	if err != nil {
		return err
	}

	for _, l := range lists {
		if err := g.DeleteList(ctx, l.ID); err != nil {
			return err
		}
	}
	g.logger.Debug("deleted lists", "owner", ownerID, "count", len(lists))
	return nil
}

func (g *GraphService) GetTasks(ctx context.Context, listID string) ([]models.Task, error) {
	var res todosResult
	if err := g.client.Do(ctx, todosByListQuery, map[string]any{"listId": listID}, &res); err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	if res.Todos == nil {
		return []models.Task{}, nil
	}
	return res.Todos, nil
}

// CreateTask fails with [shared.ErrListNotFound] when the API creates nothing.
func (g *GraphService) CreateTask(ctx context.Context, listID, content string, done bool) (*models.Task, error) {
	var res struct {
		CreateTodos todosResult `json:"createTodos"`
	}
	vars := map[string]any{"content": content, "done": done, "listId": listID}
	if err := g.client.Do(ctx, createTodoMutation, vars, &res); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if len(res.CreateTodos.Todos) == 0 {
		return nil, shared.ErrListNotFound
	}
	return &res.CreateTodos.Todos[0], nil
}

// UpdateTask sends only the fields set in patch.
func (g *GraphService) UpdateTask(ctx context.Context, taskID string, patch models.TaskPatch) (*models.Task, error) {
	vars := map[string]any{"id": taskID}
	if patch.Content != nil {
		vars["content"] = *patch.Content
	}
	if patch.Done != nil {
		vars["done"] = *patch.Done
	}

	var res struct {
		UpdateTodos todosResult `json:"updateTodos"`
	}
	if err := g.client.Do(ctx, updateTodoMutation, vars, &res); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if len(res.UpdateTodos.Todos) == 0 {
		return nil, nil
	}
	return &res.UpdateTodos.Todos[0], nil
}

func (g *GraphService) DeleteTask(ctx context.Context, taskID string) error {
	if err := g.client.Do(ctx, deleteTodoMutation, map[string]any{"id": taskID}, nil); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// DeleteUser removes the user's lists, then the user.
func (g *GraphService) DeleteUser(ctx context.Context, userID string) error {
	if err := g.DeleteAllLists(ctx, userID); err != nil {
		return err
	}

	vars := map[string]any{"where": map[string]any{"id": userID}}
	if err := g.client.Do(ctx, deleteUserMutation, vars, nil); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
