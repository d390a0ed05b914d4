package job

import (
	"context"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// State is the state of an unpack job.
type State int

// The states a job can be in. Completed and Failed are terminal.
const (
	StateUnknown State = iota
	StateQueued
	StateProcessing
	StateCompleted
	StateFailed
)

var stateNames = map[State]string{
	StateQueued:     "queued",
	StateProcessing: "processing",
	StateCompleted:  "completed",
	StateFailed:     "failed",
}

// ParseState maps a status as reported by the service to a State. The service reports the display name of a state,
// e.g. "Processing", and any other spelling is unknown. The second return value is false for unknown statuses.
func ParseState(status string) (State, bool) {
	for s := range stateNames {
		if s.Title() == status {
			return s, true
		}
	}
	return StateUnknown, false
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Title returns the display name of s.
func (s State) Title() string {
	return cases.Title(language.English).String(s.String())
}

// Done checks whether s is a state that a job doesn't transition out of.
func (s State) Done() bool {
	return s == StateCompleted || s == StateFailed
}

// Indicator returns the progress marker printed for every poll that observes s.
func (s State) Indicator() string {
	switch s {
	case StateQueued:
		return "."
	case StateProcessing:
		return "+"
	default:
		return ""
	}
}

// Job represents an asynchronous task of the scan service that is tied to an upload.
type Job struct {
	ID       int
	Name     string
	UploadID int
	GroupID  int
	Status   string
	ETA      string
}

// Reader is the interface for reading jobs.
type Reader interface {
	// Jobs returns the jobs of the upload with the given id.
	Jobs(ctx context.Context, uploadID int) ([]Job, error)
}
