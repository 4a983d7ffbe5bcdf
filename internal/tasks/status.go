package tasks

import "strings"

// Status is the dashboard-level task status. Google Tasks only knows
// "needsAction" and "completed"; the in-progress state is encoded as a
// marker inside the task notes.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// inProgressMarker tags a task's notes as in-progress. It survives
// round trips through the Google Tasks API untouched.
const inProgressMarker = "[IN_PROGRESS]"

// decodeNotes derives the dashboard status and clean description from a
// provider task's status and notes. A completed provider status always
// wins; otherwise the marker anywhere in the notes means in-progress.
func decodeNotes(googleStatus, notes string) (Status, string) {
	description := strings.TrimSpace(strings.ReplaceAll(notes, inProgressMarker, ""))

	switch {
	case googleStatus == "completed":
		return StatusDone, description
	case strings.Contains(notes, inProgressMarker):
		return StatusInProgress, description
	default:
		return StatusNotStarted, description
	}
}

// encodeNotes builds the provider notes field for a status and
// description. Only the in-progress state needs the marker.
func encodeNotes(status Status, description string) string {
	if status == StatusInProgress {
		return strings.TrimSpace(inProgressMarker + " " + description)
	}
	return description
}

// googleStatus maps a dashboard status onto the provider's two-state
// status field.
func googleStatus(status Status) string {
	if status == StatusDone {
		return "completed"
	}
	return "needsAction"
}
