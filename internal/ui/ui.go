package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/todox/internal/engine"
	"github.com/desertthunder/todox/internal/models"
	"github.com/desertthunder/todox/internal/services"
	"github.com/desertthunder/todox/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListsView ViewState = iota
	TasksView
	InputView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	srv      services.Service
	engine   *engine.ListEngine
	owner    models.Owner
	logger   *log.Logger
	width    int
	height   int
	listList list.Model
	lists    []models.List
	taskList list.Model
	current  *models.List
	filter   services.TaskFilter
	input    textinput.Model
	returnTo ViewState // view restored when the input closes
	status   string
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model browsing owner's lists on srv.
func NewModel(ctx context.Context, srv services.Service, eng *engine.ListEngine, owner models.Owner, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Default()
	}

	lists := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	lists.Title = fmt.Sprintf("Lists for %s", owner.Username)
	lists.DisableQuitKeybindings()

	tasks := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	tasks.SetFilteringEnabled(false)
	tasks.DisableQuitKeybindings()

	input := textinput.New()
	input.CharLimit = 120

	return &Model{
		ctx:      ctx,
		view:     ListsView,
		srv:      srv,
		engine:   eng,
		owner:    owner,
		logger:   logger.WithPrefix("ui"),
		listList: lists,
		taskList: tasks,
		filter:   services.FilterAll,
		input:    input,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init loads the owner's lists.
func (m *Model) Init() tea.Cmd {
	return m.fetchLists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.listList.SetSize(msg.Width-4, msg.Height-8)
		m.taskList.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ListsView:
			return m.handleListKeys(msg)
		case TasksView:
			return m.handleTaskKeys(msg)
		case InputView:
			return m.handleInputKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgListsFetched:
		data := msg.data.(listsFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.lists = data.lists
		items := make([]list.Item, len(data.lists))
		for i, l := range data.lists {
			items[i] = listItem{list: l}
		}
		return m, m.listList.SetItems(items)

	case MsgListFetched:
		data := msg.data.(listFetched)
		if data.err != nil {
			m.err = data.err
			m.view = ListsView
			m.current = nil
			return m, m.fetchLists()
		}
		m.current = data.list
		m.view = TasksView
		return m, m.refreshTasks()

	case MsgMutated:
		data := msg.data.(mutated)
		if data.err != nil {
			m.logger.Error("change failed", "error", data.err)
			m.err = data.err
		} else {
			m.err = nil
			m.status = data.status
		}
		if m.view == TasksView && m.current != nil {
			return m, m.fetchList(m.current.ID)
		}
		return m, m.fetchLists()
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case ListsView:
		body = m.renderLists()
	case TasksView:
		body = m.renderTasks()
	case InputView:
		body = m.renderInput()
	}

	return fmt.Sprintf("%s\n%s", body, m.renderFooter())
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.listList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.listList, cmd = m.listList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.listList.SelectedItem().(listItem); ok {
			return m, m.fetchList(item.list.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.add):
		return m, m.openInput("New list title")
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.listList.SelectedItem().(listItem); ok {
			return m, m.deleteList(item.list)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.listList, cmd = m.listList.Update(msg)
	return m, cmd
}

func (m *Model) handleTaskKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ListsView
		m.current = nil
		m.filter = services.FilterAll
		return m, m.fetchLists()
	case key.Matches(msg, m.keys.toggle):
		if item, ok := m.taskList.SelectedItem().(taskItem); ok {
			return m, m.toggleTask(item)
		}
		return m, nil
	case key.Matches(msg, m.keys.add):
		return m, m.openInput("New task title")
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.taskList.SelectedItem().(taskItem); ok {
			return m, m.deleteTask(item)
		}
		return m, nil
	case key.Matches(msg, m.keys.filter):
		m.filter = m.filter.Next()
		return m, m.refreshTasks()
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.closeInput()
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		if err := services.ValidateTitle(title); err != nil {
			m.err = err
			return m, nil
		}
		m.closeInput()
		if m.view == TasksView && m.current != nil {
			return m, m.createTask(m.current.ID, title)
		}
		return m, m.createList(title)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) openInput(placeholder string) tea.Cmd {
	m.returnTo = m.view
	m.view = InputView
	m.err = nil
	m.input.Reset()
	m.input.Placeholder = placeholder
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.input.Blur()
	m.input.Reset()
	m.view = m.returnTo
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ListsView:
		m.listList, cmd = m.listList.Update(msg)
	case TasksView:
		m.taskList, cmd = m.taskList.Update(msg)
	case InputView:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// refreshTasks rebuilds the task list from the current list and filter.
func (m *Model) refreshTasks() tea.Cmd {
	if m.current == nil {
		return nil
	}
	tasks := services.FilterTasks(m.current.Todos, m.filter)
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = newTaskItem(t)
	}
	m.taskList.Title = fmt.Sprintf("%s (%s)", m.current.Title, m.filter)
	return m.taskList.SetItems(items)
}

func (m *Model) fetchLists() tea.Cmd {
	return func() tea.Msg {
		res, err := m.engine.Collect(m.ctx, nil, m.srv, m.owner.ID, engine.Opts{})
		if err != nil {
			return listsFetchedMsg(nil, err)
		}
		return listsFetchedMsg(res.Lists, nil)
	}
}

func (m *Model) fetchList(listID string) tea.Cmd {
	return func() tea.Msg {
		l, err := m.srv.GetList(m.ctx, listID)
		if err == nil && l == nil {
			err = fmt.Errorf("%w: %s", shared.ErrListNotFound, listID)
		}
		return listFetchedMsg(l, err)
	}
}

func (m *Model) createList(title string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.srv.CreateList(m.ctx, title, m.owner)
		return mutatedMsg(fmt.Sprintf("Created list %q", title), err)
	}
}

func (m *Model) deleteList(l models.List) tea.Cmd {
	return func() tea.Msg {
		err := m.srv.DeleteList(m.ctx, l.ID)
		return mutatedMsg(fmt.Sprintf("Deleted list %q", l.Title), err)
	}
}

func (m *Model) createTask(listID, title string) tea.Cmd {
	return func() tea.Msg {
		content, err := models.NewTaskContent(title, nil)
		if err != nil {
			return mutatedMsg("", err)
		}
		_, err = m.srv.CreateTask(m.ctx, listID, content, false)
		return mutatedMsg(fmt.Sprintf("Added %q", title), err)
	}
}

func (m *Model) toggleTask(item taskItem) tea.Cmd {
	done := !item.task.Done
	return func() tea.Msg {
		_, err := m.srv.UpdateTask(m.ctx, item.task.ID, models.TaskPatch{Done: &done})
		status := fmt.Sprintf("Reopened %q", item.content.Title)
		if done {
			status = fmt.Sprintf("Completed %q", item.content.Title)
		}
		return mutatedMsg(status, err)
	}
}

func (m *Model) deleteTask(item taskItem) tea.Cmd {
	return func() tea.Msg {
		err := m.srv.DeleteTask(m.ctx, item.task.ID)
		return mutatedMsg(fmt.Sprintf("Deleted %q", item.content.Title), err)
	}
}

func (m *Model) renderLists() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.add, m.keys.remove, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.listList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderTasks() string {
	if m.current == nil {
		return styles.warn.Render("No list selected")
	}

	done, total := m.current.Progress()
	header := styles.title.Render(fmt.Sprintf("%s • %d/%d done (%d%%)", m.current.Title, done, total, percent(done, total)))

	helpKeys := []key.Binding{m.keys.toggle, m.keys.add, m.keys.remove, m.keys.filter, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", header, m.taskList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderInput() string {
	title := styles.title.Render("New list")
	if m.returnTo == TasksView && m.current != nil {
		title = styles.title.Render(fmt.Sprintf("New task in '%s'", m.current.Title))
	}

	submit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save"))
	cancel := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.input.View(), m.help.ShortHelpView([]key.Binding{submit, cancel}))
}

func (m *Model) renderFooter() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.status != "" {
		return styles.ok.Render(m.status)
	}
	return styles.help.Render(m.owner.Username)
}

func percent(done, total int) int {
	if total == 0 {
		return 0
	}
	return done * 100 / total
}
