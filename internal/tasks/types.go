package tasks

import (
	tasks "google.golang.org/api/tasks/v1"
)

// Task is the normalized representation of a Google Tasks task. Due,
// Completed, and Updated carry the provider's RFC 3339 strings verbatim
// and are empty when the provider omits them.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	Due         string `json:"due,omitempty"`
	Completed   string `json:"completed,omitempty"`
	Updated     string `json:"updated,omitempty"`
}

// TaskInput carries the caller-supplied fields for task creation.
type TaskInput struct {
	Title       string
	Description string
	Status      Status
	Due         string
}

// TaskUpdate carries the fields of a partial update. Nil pointers leave
// the stored value untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *Status
}

// normalizeTask converts a provider task into a Task.
func normalizeTask(t *tasks.Task) Task {
	status, description := decodeNotes(t.Status, t.Notes)

	title := t.Title
	if title == "" {
		title = "Untitled"
	}

	var completed string
	if t.Completed != nil {
		completed = *t.Completed
	}

	return Task{
		ID:          t.Id,
		Title:       title,
		Description: description,
		Status:      status,
		Due:         t.Due,
		Completed:   completed,
		Updated:     t.Updated,
	}
}
