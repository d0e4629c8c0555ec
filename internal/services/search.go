package services

import (
	"fmt"
	"strings"

	"github.com/desertthunder/todox/internal/models"
	"github.com/desertthunder/todox/internal/shared"
	"github.com/sahilm/fuzzy"
)

// listTitles adapts a slice of lists to [fuzzy.Source].
type listTitles []models.List

func (l listTitles) String(i int) string { return l[i].Title }
func (l listTitles) Len() int            { return len(l) }

// FilterLists returns the lists whose title matches query, best match first.
//
// Matching is case-insensitive and fuzzy, so every title containing query as a substring is kept.
// An empty query returns lists unchanged.
func FilterLists(lists []models.List, query string) []models.List {
	query = strings.TrimSpace(query)
	if query == "" {
		return lists
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), lowerTitles(lists))
	out := make([]models.List, 0, len(matches))
	for _, m := range matches {
		out = append(out, lists[m.Index])
	}
	return out
}

func lowerTitles(lists []models.List) listTitles {
	lowered := make(listTitles, len(lists))
	for i, l := range lists {
		lowered[i] = models.List{ID: l.ID, Title: strings.ToLower(l.Title)}
	}
	return lowered
}

// TaskFilter selects tasks by completion state.
type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterActive    TaskFilter = "active"
	FilterCompleted TaskFilter = "completed"
)

// ParseTaskFilter validates a filter name. Empty names map to [FilterAll].
func ParseTaskFilter(name string) (TaskFilter, error) {
	switch f := TaskFilter(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	default:
		return FilterAll, fmt.Errorf("%w: filter must be all, active or completed, got %q", shared.ErrInvalidFlag, name)
	}
}

// Next cycles all → active → completed → all.
func (f TaskFilter) Next() TaskFilter {
	switch f {
	case FilterAll:
		return FilterActive
	case FilterActive:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// FilterTasks returns the tasks selected by f in their original order.
func FilterTasks(tasks []models.Task, f TaskFilter) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		switch {
		case f == FilterActive && t.Done:
		case f == FilterCompleted && !t.Done:
		default:
			out = append(out, t)
		}
	}
	return out
}

// ValidateTitle rejects blank list or task titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title must not be empty", shared.ErrInvalidInput)
	}
	return nil
}
