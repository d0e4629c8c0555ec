package demo

import (
	"slices"
	"strings"

	"github.com/desertthunder/todox/internal/models"
)

// UsernamePrefix marks usernames served by the demo backend.
const UsernamePrefix = "demo-"

// IsDemoUser reports whether username belongs to the demo backend.
func IsDemoUser(username string) bool {
	return strings.HasPrefix(username, UsernamePrefix)
}

// Dataset is the initial content of a [Store].
type Dataset struct {
	Users []models.User
	Lists []models.List
}

// SeedData returns the demo account "demo-user" (password "password1") with three sample lists.
func SeedData() Dataset {
	owner := models.User{
		ID:       "demo-owner-1",
		Username: "demo-user",
		Roles:    slices.Clone(models.DefaultRoles),
		Password: "password1",
	}

	task := func(n string, done bool) models.Task {
		return models.Task{ID: "demo-todo-" + n, Content: "Task " + n, Done: done}
	}

	return Dataset{
		Users: []models.User{owner},
		Lists: []models.List{
			{
				ID: "demo-list-1", Title: "List 1", Owner: owner.Owner(),
				Todos: []models.Task{task("1", true), task("2", true)},
			},
			{
				ID: "demo-list-2", Title: "List 2", Owner: owner.Owner(),
				Todos: []models.Task{task("3", false)},
			},
			{
				ID: "demo-list-3", Title: "List 3", Owner: owner.Owner(),
				Todos: []models.Task{task("4", true), task("5", false), task("6", false), task("7", false)},
			},
		},
	}
}
