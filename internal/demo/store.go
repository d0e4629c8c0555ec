package demo

import (
	"slices"
	"sync"

	"github.com/desertthunder/todox/internal/models"
)

// TokenPrefix is prepended to the username to form a demo session token.
const TokenPrefix = "mock-token-"

// Store is the in-memory demo backend.
//
// All methods are safe for concurrent use. Values returned by a Store are copies.
type Store struct {
	mu    sync.Mutex
	users []models.User
	lists []models.List
	newID IDFunc
}

// NewStore creates a Store holding a copy of data. A nil newID defaults to [RandomID].
func NewStore(data Dataset, newID IDFunc) *Store {
	if newID == nil {
		newID = RandomID
	}

	s := &Store{
		users: make([]models.User, 0, len(data.Users)),
		lists: make([]models.List, 0, len(data.Lists)),
		newID: newID,
	}
	for _, u := range data.Users {
		s.users = append(s.users, u.Clone())
	}
	for _, l := range data.Lists {
		s.lists = append(s.lists, l.Clone())
	}
	return s
}

// NewSeededStore creates a Store loaded with [SeedData].
func NewSeededStore() *Store {
	return NewStore(SeedData(), nil)
}

// CreateUser adds an account. Usernames are compared exactly.
func (s *Store) CreateUser(username, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userIndexByName(username) >= 0 {
		return models.User{}, ErrDuplicateUsername
	}

	u := models.User{
		ID:       s.newID(OwnerPrefix),
		Username: username,
		Roles:    slices.Clone(models.DefaultRoles),
		Password: password,
	}
	s.users = append(s.users, u)
	return u.Clone(), nil
}

// Authenticate checks username and password and returns a token for the account.
func (s *Store) Authenticate(username, password string) (models.AuthResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndexByName(username)
	if i < 0 || s.users[i].Password != password {
		return models.AuthResult{}, ErrInvalidCredentials
	}
	return models.AuthResult{Token: TokenPrefix + username, UserID: s.users[i].ID}, nil
}

// UserID looks up the id of the account with the given username.
func (s *Store) UserID(username string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.userIndexByName(username); i >= 0 {
		return s.users[i].ID, true
	}
	return "", false
}

// ListsForOwner returns the lists owned by ownerID in creation order.
func (s *Store) ListsForOwner(ownerID string) []models.List {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.List{}
	for _, l := range s.lists {
		if l.Owner.ID == ownerID {
			out = append(out, l.Clone())
		}
	}
	return out
}

// ListDetail returns the list with the given id.
func (s *Store) ListDetail(listID string) (models.List, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.listIndex(listID); i >= 0 {
		return s.lists[i].Clone(), true
	}
	return models.List{}, false
}

// CreateList adds an empty list owned by a snapshot of owner.
// An owner without roles is given [models.DefaultRoles].
func (s *Store) CreateList(title string, owner models.Owner) models.List {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner = owner.Clone()
	if len(owner.Roles) == 0 {
		owner.Roles = slices.Clone(models.DefaultRoles)
	}

	l := models.List{
		ID:    s.newID(ListPrefix),
		Title: title,
		Owner: owner,
		Todos: []models.Task{},
	}
	s.lists = append(s.lists, l)
	return l.Clone()
}

// RenameList sets the title of a list. Reports false, without error, when the list does not exist.
func (s *Store) RenameList(listID, title string) (models.List, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.listIndex(listID)
	if i < 0 {
		return models.List{}, false
	}
	s.lists[i].Title = title
	return s.lists[i].Clone(), true
}

// DeleteList removes a list and its tasks. Deleting a missing list does nothing.
func (s *Store) DeleteList(listID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists = slices.DeleteFunc(s.lists, func(l models.List) bool { return l.ID == listID })
}

// DeleteAllListsForOwner removes every list owned by ownerID and returns how many were removed.
func (s *Store) DeleteAllListsForOwner(ownerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteOwnedLists(ownerID)
}

// TasksForList returns the tasks of a list, or an empty slice when the list does not exist.
func (s *Store) TasksForList(listID string) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.listIndex(listID)
	if i < 0 {
		return []models.Task{}
	}
	return append([]models.Task{}, s.lists[i].Todos...)
}

// CreateTask appends a task to a list.
func (s *Store) CreateTask(content string, done bool, listID string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.listIndex(listID)
	if i < 0 {
		return models.Task{}, ErrListNotFound
	}

	t := models.Task{ID: s.newID(TaskPrefix), Content: content, Done: done}
	s.lists[i].Todos = append(s.lists[i].Todos, t)
	return t, nil
}

// UpdateTask applies the non-nil fields of patch to a task.
// Reports false, without error, when no list holds the task.
func (s *Store) UpdateTask(taskID string, patch models.TaskPatch) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	li, ti := s.taskIndex(taskID)
	if li < 0 {
		return models.Task{}, false
	}

	t := &s.lists[li].Todos[ti]
	if patch.Content != nil {
		t.Content = *patch.Content
	}
	if patch.Done != nil {
		t.Done = *patch.Done
	}
	return *t, true
}

// DeleteTask removes the first task with the given id. Deleting a missing task does nothing.
func (s *Store) DeleteTask(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	li, ti := s.taskIndex(taskID)
	if li < 0 {
		return
	}
	s.lists[li].Todos = slices.Delete(s.lists[li].Todos, ti, ti+1)
}

// DeleteUser removes an account together with every list it owns.
func (s *Store) DeleteUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteOwnedLists(userID)
	s.users = slices.DeleteFunc(s.users, func(u models.User) bool { return u.ID == userID })
}

// Snapshot returns a copy of the full store content.
func (s *Store) Snapshot() Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := Dataset{
		Users: make([]models.User, 0, len(s.users)),
		Lists: make([]models.List, 0, len(s.lists)),
	}
	for _, u := range s.users {
		d.Users = append(d.Users, u.Clone())
	}
	for _, l := range s.lists {
		d.Lists = append(d.Lists, l.Clone())
	}
	return d
}

func (s *Store) deleteOwnedLists(ownerID string) int {
	before := len(s.lists)
	s.lists = slices.DeleteFunc(s.lists, func(l models.List) bool { return l.Owner.ID == ownerID })
	return before - len(s.lists)
}

func (s *Store) userIndexByName(username string) int {
	return slices.IndexFunc(s.users, func(u models.User) bool { return u.Username == username })
}

func (s *Store) listIndex(listID string) int {
	return slices.IndexFunc(s.lists, func(l models.List) bool { return l.ID == listID })
}

// taskIndex scans every list for the task; -1, -1 when absent.
func (s *Store) taskIndex(taskID string) (int, int) {
	for li := range s.lists {
		for ti := range s.lists[li].Todos {
			if s.lists[li].Todos[ti].ID == taskID {
				return li, ti
			}
		}
	}
	return -1, -1
}
