package models

import (
	"fmt"
	"slices"
	"time"
)

// DefaultRoles is the role set given to new accounts and to owners that carry none.
var DefaultRoles = []string{"user"}

// User is an account known to a backend.
type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Password string   `json:"-"`
}

// Owner returns the denormalized snapshot of u used as a list owner.
func (u User) Owner() Owner {
	return Owner{ID: u.ID, Username: u.Username, Roles: slices.Clone(u.Roles)}
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	u.Roles = slices.Clone(u.Roles)
	return u
}

// Owner is the user snapshot embedded in a [List].
type Owner struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// Clone returns a deep copy of o.
func (o Owner) Clone() Owner {
	o.Roles = slices.Clone(o.Roles)
	return o
}

// List is a titled sequence of tasks belonging to one owner.
type List struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Owner Owner  `json:"owner"`
	Todos []Task `json:"todos"`
}

// Clone returns a deep copy of l, including its tasks.
func (l List) Clone() List {
	l.Owner = l.Owner.Clone()
	l.Todos = slices.Clone(l.Todos)
	if l.Todos == nil {
		l.Todos = []Task{}
	}
	return l
}

// Progress returns the number of done tasks and the total task count.
func (l List) Progress() (done, total int) {
	for _, t := range l.Todos {
		if t.Done {
			done++
		}
	}
	return done, len(l.Todos)
}

// Task is a single todo item.
type Task struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Done    bool   `json:"done"`
}

// Title returns the human readable title stored in the task content.
func (t Task) Title() string {
	return ParseTaskContent(t.Content).Title
}

// TaskPatch describes a partial task update. Nil fields are left unchanged.
type TaskPatch struct {
	Content *string
	Done    *bool
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Content == nil && p.Done == nil
}

// AuthResult is returned by a successful sign-in.
type AuthResult struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// Session is the sign-in state persisted by the local client between runs.
type Session struct {
	ID        string
	Sequence  int
	Username  string
	UserID    string
	Token     string
	Demo      bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// NewSession creates a [Session] for a freshly authenticated user.
func NewSession(username string, auth AuthResult, demo bool) *Session {
	now := time.Now()
	return &Session{
		Username:  username,
		UserID:    auth.UserID,
		Token:     auth.Token,
		Demo:      demo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Owner returns the list owner snapshot for the signed-in user.
func (s *Session) Owner() Owner {
	return Owner{ID: s.UserID, Username: s.Username, Roles: slices.Clone(DefaultRoles)}
}

// Validate checks the fields required to persist a session.
func (s *Session) Validate() error {
	switch {
	case s.Username == "":
		return missingField("username")
	case s.UserID == "":
		return missingField("user_id")
	case s.Token == "":
		return missingField("token")
	}
	return nil
}

func missingField(name string) error {
	return fmt.Errorf("missing required field: %s", name)
}
