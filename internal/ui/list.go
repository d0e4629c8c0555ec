package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/todox/internal/models"
)

var (
	_ list.Item = listItem{}
	_ list.Item = taskItem{}
)

// listItem wraps [models.List] to implement [list.Item].
type listItem struct {
	list models.List
}

func (i listItem) FilterValue() string { return i.list.Title }
func (i listItem) Title() string       { return i.list.Title }
func (i listItem) Description() string {
	done, total := i.list.Progress()
	if total == 0 {
		return "No tasks"
	}
	return fmt.Sprintf("%d/%d done", done, total)
}

// taskItem wraps [models.Task] to implement [list.Item].
type taskItem struct {
	task    models.Task
	content models.TaskContent
}

func newTaskItem(t models.Task) taskItem {
	return taskItem{task: t, content: models.ParseTaskContent(t.Content)}
}

func (i taskItem) FilterValue() string { return i.content.Title }
func (i taskItem) Title() string {
	if i.task.Done {
		return "[x] " + i.content.Title
	}
	return "[ ] " + i.content.Title
}
func (i taskItem) Description() string {
	if i.content.HasImage() {
		return "image attached"
	}
	return ""
}
