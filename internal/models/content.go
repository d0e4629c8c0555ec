package models

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// TaskContent is the structured payload stored in [Task.Content].
//
// Image holds a data URI (or an http URL written by another client) and is nil when the task has no picture.
type TaskContent struct {
	Title string  `json:"title"`
	Image *string `json:"image"`
}

// Encode serialises c into the string form stored by backends.
func (c TaskContent) Encode() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode task content: %w", err)
	}
	return string(data), nil
}

// HasImage reports whether the content carries a non-empty image.
func (c TaskContent) HasImage() bool {
	return c.Image != nil && *c.Image != ""
}

// ParseTaskContent decodes a stored content string.
//
// Content written by older clients may be a bare string; it is returned as the title.
func ParseTaskContent(raw string) TaskContent {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return TaskContent{Title: raw}
	}

	var c TaskContent
	if err := json.Unmarshal([]byte(trimmed), &c); err != nil || c.Title == "" {
		return TaskContent{Title: raw}
	}
	return c
}

// NewTaskContent builds the encoded content for a title and optional image bytes.
func NewTaskContent(title string, image []byte) (string, error) {
	c := TaskContent{Title: title}
	if len(image) > 0 {
		uri := DataURI(image)
		c.Image = &uri
	}
	return c.Encode()
}

// DataURI encodes raw bytes as a base64 data URI using the sniffed content type.
func DataURI(data []byte) string {
	mime := http.DetectContentType(data)
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
