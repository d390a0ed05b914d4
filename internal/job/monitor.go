package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/scanflow/scanctl/internal/apierr"
)

// ErrJobFailed is returned when a job ends in StateFailed.
var ErrJobFailed = errors.New("job failed")

// DefaultInterval is the time between two polls.
const DefaultInterval = 1 * time.Second

// Summary describes the job a Monitor waited for.
type Summary struct {
	JobID   int
	GroupID int
	ETA     string
	State   State
	// Polls is the number of times the job status was read.
	Polls int
}

// Monitor waits for the unpack job of an upload.
type Monitor struct {
	Reader   Reader
	Interval time.Duration
	// Out receives a progress indicator for every poll that finds the job still running.
	Out io.Writer
}

// Wait polls the job of the given upload until it completes. The first poll happens right away, every further poll
// one interval after the previous one returned. There is no upper bound on the number of polls; a failed job, an
// unknown job status or a failed request ends the wait with an error, as does ctx.
func (m *Monitor) Wait(ctx context.Context, uploadID int) (Summary, error) {
	interval := m.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	out := m.Out
	if out == nil {
		out = io.Discard
	}

	limiter := rate.NewLimiter(rate.Every(interval), 1)
	var sum Summary
	captured := false

	for {
		if err := limiter.Wait(ctx); err != nil {
			return sum, err
		}

		jobs, err := m.Reader.Jobs(ctx, uploadID)
		if err != nil {
			return sum, fmt.Errorf("failed to read job status: %w", err)
		}
		sum.Polls++

		// The job may not be scheduled yet right after the upload.
		state := StateQueued
		if len(jobs) > 0 {
			j := jobs[0]
			if !captured {
				sum.JobID, sum.GroupID, sum.ETA = j.ID, j.GroupID, j.ETA
				captured = true
			}

			var ok bool
			if state, ok = ParseState(j.Status); !ok {
				return sum, &apierr.ProtocolError{
					Op:     "GET jobs",
					Reason: fmt.Sprintf("unknown status %q of job %d", j.Status, j.ID),
				}
			}
		}
		sum.State = state
		log.Trace().Int("upload", uploadID).Str("state", state.Title()).Int("poll", sum.Polls).Msg("Job status.")

		switch state {
		case StateCompleted:
			return sum, nil
		case StateFailed:
			return sum, fmt.Errorf("%w: job %d of upload %d", ErrJobFailed, sum.JobID, uploadID)
		default:
			_, _ = io.WriteString(out, state.Indicator())
		}
		limiter = pause(interval)
	}
}

// pause returns a limiter whose next Wait blocks for a full interval, counted from now.
func pause(interval time.Duration) *rate.Limiter {
	l := rate.NewLimiter(rate.Every(interval), 1)
	l.Allow()
	return l
}
