package engine

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchLists Phase = iota
	FetchTasks
	WriteExport
)

func (p Phase) String() string {
	switch p {
	case FetchLists:
		return "fetch_lists"
	case FetchTasks:
		return "fetch_tasks"
	case WriteExport:
		return "write_export"
	default:
		return ""
	}
}

func fetchingListsUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLists,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Fetching lists from %s...", name),
	}
}

func foundListsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d lists", count),
		Data:    count,
	}
}

func fetchedTasksUpdate(step, total int, res ListResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTasks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d tasks)", step, total, res.Title, res.Tasks),
		Data:    res,
	}
}

func failedTasksUpdate(step, total int, res ListResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTasks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Title, res.Error),
		Data:    res,
	}
}

func writingExportUpdate(format string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Writing %s export...", format),
	}
}

func wroteExportUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Export written to %s", path),
		Data:    path,
	}
}
