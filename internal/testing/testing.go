// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"sync"
	"testing"

	"github.com/desertthunder/todox/internal/models"
)

// MockService is a test double for [services.Service] that keeps lists in memory.
//
// Every call is recorded by method name. Errors registered in FailOn are returned by the named method.
type MockService struct {
	mu     sync.Mutex
	Lists  []models.List
	FailOn map[string]error
	calls  []string
	nextID int
}

// NewMockService creates a [MockService] holding copies of lists.
func NewMockService(lists ...models.List) *MockService {
	m := &MockService{FailOn: map[string]error{}}
	for _, l := range lists {
		m.Lists = append(m.Lists, l.Clone())
	}
	return m
}

// Calls returns the recorded method names in call order.
func (m *MockService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// CallCount returns how many times method was called.
func (m *MockService) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.calls {
		if c == method {
			n++
		}
	}
	return n
}

// record must be called with mu held.
func (m *MockService) record(method string) error {
	m.calls = append(m.calls, method)
	if err, ok := m.FailOn[method]; ok {
		return err
	}
	return nil
}

func (m *MockService) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *MockService) listIndex(id string) int {
	return slices.IndexFunc(m.Lists, func(l models.List) bool { return l.ID == id })
}

func (m *MockService) SignUp(ctx context.Context, username, password string) (*models.AuthResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("SignUp"); err != nil {
		return nil, err
	}
	return &models.AuthResult{Token: "mock-" + username, UserID: "user-" + username}, nil
}

func (m *MockService) SignIn(ctx context.Context, username, password string) (*models.AuthResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("SignIn"); err != nil {
		return nil, err
	}
	return &models.AuthResult{Token: "mock-" + username, UserID: "user-" + username}, nil
}

func (m *MockService) GetLists(ctx context.Context, ownerID string) ([]models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetLists"); err != nil {
		return nil, err
	}

	out := []models.List{}
	for _, l := range m.Lists {
		if l.Owner.ID == ownerID {
			out = append(out, l.Clone())
		}
	}
	return out, nil
}

func (m *MockService) GetList(ctx context.Context, listID string) (*models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetList"); err != nil {
		return nil, err
	}

	if i := m.listIndex(listID); i >= 0 {
		l := m.Lists[i].Clone()
		return &l, nil
	}
	return nil, nil
}

func (m *MockService) CreateList(ctx context.Context, title string, owner models.Owner) (*models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateList"); err != nil {
		return nil, err
	}

	l := models.List{ID: m.id("list"), Title: title, Owner: owner.Clone(), Todos: []models.Task{}}
	m.Lists = append(m.Lists, l)
	return &l, nil
}

func (m *MockService) RenameList(ctx context.Context, listID, title string) (*models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("RenameList"); err != nil {
		return nil, err
	}

	i := m.listIndex(listID)
	if i < 0 {
		return nil, nil
	}
	m.Lists[i].Title = title
	l := m.Lists[i].Clone()
	return &l, nil
}

func (m *MockService) DeleteList(ctx context.Context, listID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteList"); err != nil {
		return err
	}
	m.Lists = slices.DeleteFunc(m.Lists, func(l models.List) bool { return l.ID == listID })
	return nil
}

func (m *MockService) DeleteAllLists(ctx context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteAllLists"); err != nil {
		return err
	}
	m.Lists = slices.DeleteFunc(m.Lists, func(l models.List) bool { return l.Owner.ID == ownerID })
	return nil
}

func (m *MockService) GetTasks(ctx context.Context, listID string) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetTasks"); err != nil {
		return nil, err
	}

	if i := m.listIndex(listID); i >= 0 {
		return slices.Clone(m.Lists[i].Todos), nil
	}
	return []models.Task{}, nil
}

func (m *MockService) CreateTask(ctx context.Context, listID, content string, done bool) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateTask"); err != nil {
		return nil, err
	}

	i := m.listIndex(listID)
	if i < 0 {
		return nil, errors.New("list not found")
	}
	t := models.Task{ID: m.id("task"), Content: content, Done: done}
	m.Lists[i].Todos = append(m.Lists[i].Todos, t)
	return &t, nil
}

func (m *MockService) UpdateTask(ctx context.Context, taskID string, patch models.TaskPatch) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UpdateTask"); err != nil {
		return nil, err
	}

	for li := range m.Lists {
		for ti := range m.Lists[li].Todos {
			t := &m.Lists[li].Todos[ti]
			if t.ID != taskID {
				continue
			}
			if patch.Content != nil {
				t.Content = *patch.Content
			}
			if patch.Done != nil {
				t.Done = *patch.Done
			}
			out := *t
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MockService) DeleteTask(ctx context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteTask"); err != nil {
		return err
	}

	for li := range m.Lists {
		m.Lists[li].Todos = slices.DeleteFunc(m.Lists[li].Todos, func(t models.Task) bool { return t.ID == taskID })
	}
	return nil
}

func (m *MockService) DeleteUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteUser"); err != nil {
		return err
	}
	m.Lists = slices.DeleteFunc(m.Lists, func(l models.List) bool { return l.Owner.ID == userID })
	return nil
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
