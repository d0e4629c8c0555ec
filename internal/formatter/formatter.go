// package formatter provides functions to export task lists to various formats (JSON, Markdown, plain text)
package formatter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/todox/internal/models"
	"github.com/desertthunder/todox/internal/shared"
)

// Format names an export file format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// ParseFormat validates a format name. Empty names map to JSON.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatMarkdown, FormatText:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: format must be json, markdown or txt, got %q", shared.ErrInvalidFlag, name)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return "json"
	}
}

// Export is the data written by every format: one user's lists with their tasks.
type Export struct {
	Username   string
	ExportedAt time.Time
	Lists      []models.List
}

// exportTask is a task with its content reduced to the title.
type exportTask struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Done    bool   `json:"done"`
}

type exportList struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Owner models.Owner `json:"owner"`
	Todos []exportTask `json:"todos"`
}

// ExportToJSON converts an Export to an indented JSON array of lists.
//
// Task content is replaced by its title so the file stays readable; images are dropped.
func ExportToJSON(export *Export) ([]byte, error) {
	lists := make([]exportList, len(export.Lists))
	for i, l := range export.Lists {
		todos := make([]exportTask, len(l.Todos))
		for j, t := range l.Todos {
			todos[j] = exportTask{ID: t.ID, Content: t.Title(), Done: t.Done}
		}
		lists[i] = exportList{ID: l.ID, Title: l.Title, Owner: l.Owner, Todos: todos}
	}
	return shared.MarshalJSON(lists)
}

// ExportToMarkdown converts an Export to Markdown with one section per list and checkbox items.
func ExportToMarkdown(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# My Lists\n\n")
	if export.Username != "" {
		fmt.Fprintf(&buf, "**User**: %s\n", export.Username)
	}
	if !export.ExportedAt.IsZero() {
		fmt.Fprintf(&buf, "**Exported**: %s\n", export.ExportedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&buf, "**Lists**: %d\n\n", len(export.Lists))

	for _, l := range export.Lists {
		done, total := l.Progress()
		fmt.Fprintf(&buf, "## %s\n\n", l.Title)
		fmt.Fprintf(&buf, "%d/%d done\n\n", done, total)

		if total == 0 {
			buf.WriteString("- No tasks\n\n")
			continue
		}

		for _, t := range l.Todos {
			c := models.ParseTaskContent(t.Content)
			fmt.Fprintf(&buf, "- %s %s\n", checkbox(t.Done), c.Title)
			if c.HasImage() && strings.HasPrefix(*c.Image, "http") {
				fmt.Fprintf(&buf, "  ![%s](%s)\n", c.Title, *c.Image)
			}
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts an Export to plain text
func ExportToText(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("My Lists\n")
	if export.Username != "" {
		fmt.Fprintf(&buf, "User: %s\n", export.Username)
	}
	buf.WriteString("\n")

	for _, l := range export.Lists {
		done, total := l.Progress()
		fmt.Fprintf(&buf, "%s (%d/%d)\n", l.Title, done, total)
		if total == 0 {
			buf.WriteString("  - No tasks\n")
		}
		for _, t := range l.Todos {
			fmt.Fprintf(&buf, "  %s %s\n", checkbox(t.Done), t.Title())
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// Render encodes export in the given format.
func Render(export *Export, f Format) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	case FormatJSON:
		return ExportToJSON(export)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// DefaultFilename returns "{username}-lists-YYYY-MM-DD_HH-MM-SS.{ext}" for the given time.
func DefaultFilename(username string, at time.Time, f Format) string {
	return fmt.Sprintf("%s-lists-%s.%s", username, at.Format("2006-01-02_15-04-05"), f.Extension())
}

// WriteExport renders export and writes it to path, creating parent directories.
//
// An empty path uses [DefaultFilename] in the working directory. Returns the written path.
func WriteExport(export *Export, f Format, path string) (string, error) {
	if path == "" {
		at := export.ExportedAt
		if at.IsZero() {
			at = time.Now()
		}
		path = DefaultFilename(export.Username, at, f)
	}

	data, err := Render(export, f)
	if err != nil {
		return "", fmt.Errorf("failed to render %s export: %w", f, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
