package services

import (
	"errors"
	"testing"

	"github.com/desertthunder/todox/internal/models"
	"github.com/desertthunder/todox/internal/shared"
)

func TestFilterLists(t *testing.T) {
	lists := []models.List{
		{ID: "1", Title: "Groceries"},
		{ID: "2", Title: "Work"},
		{ID: "3", Title: "Weekend groceries"},
	}

	t.Run("empty query returns input", func(t *testing.T) {
		if got := FilterLists(lists, "  "); len(got) != 3 {
			t.Errorf("expected 3 lists, got %d", len(got))
		}
	})

	t.Run("substring matches are kept case-insensitively", func(t *testing.T) {
		got := FilterLists(lists, "GROC")
		if len(got) != 2 {
			t.Fatalf("expected 2 matches, got %d", len(got))
		}
		for _, l := range got {
			if l.ID == "2" {
				t.Error("Work should not match")
			}
		}
	})

	t.Run("results keep original titles", func(t *testing.T) {
		got := FilterLists(lists, "work")
		if len(got) != 1 || got[0].Title != "Work" {
			t.Errorf("unexpected result %+v", got)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if got := FilterLists(lists, "zzz"); len(got) != 0 {
			t.Errorf("expected no matches, got %d", len(got))
		}
	})
}

func TestTaskFilter(t *testing.T) {
	tasks := []models.Task{{ID: "a", Done: true}, {ID: "b"}, {ID: "c", Done: true}}

	tc := []struct {
		name   string
		filter string
		want   int
	}{
		{name: "empty", filter: "", want: 3},
		{name: "all", filter: "all", want: 3},
		{name: "active", filter: "active", want: 1},
		{name: "completed", filter: "Completed", want: 2},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseTaskFilter(tt.filter)
			if err != nil {
				t.Fatalf("ParseTaskFilter() error = %v", err)
			}
			if got := FilterTasks(tasks, f); len(got) != tt.want {
				t.Errorf("FilterTasks(%s) returned %d tasks, want %d", f, len(got), tt.want)
			}
		})
	}

	t.Run("invalid", func(t *testing.T) {
		if _, err := ParseTaskFilter("pending"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("Next cycles", func(t *testing.T) {
		f := FilterAll
		for _, want := range []TaskFilter{FilterActive, FilterCompleted, FilterAll} {
			f = f.Next()
			if f != want {
				t.Errorf("Next() = %s, want %s", f, want)
			}
		}
	})
}

func TestValidateTitle(t *testing.T) {
	if err := ValidateTitle("Groceries"); err != nil {
		t.Errorf("expected valid title, got %v", err)
	}
	for _, title := range []string{"", "   ", "\t\n"} {
		if err := ValidateTitle(title); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("ValidateTitle(%q) = %v, want ErrInvalidInput", title, err)
		}
	}
}
