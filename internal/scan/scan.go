// Package scan starts scan jobs and finds baselines for incremental scans.
package scan

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/scanflow/scanctl/internal/upload"
)

// ErrNoBaseline is returned when reuse was requested but no previous upload exists.
var ErrNoBaseline = errors.New("no previous upload to reuse")

// Baseline is a previous upload whose conclusions a scan reuses.
type Baseline struct {
	UploadID int
	Group    string
}

// ReuseFinder finds the previous upload of an artifact.
type ReuseFinder struct {
	Searcher upload.Searcher
	// Group is the group the reused conclusions belong to.
	Group string
}

// FindPrevious returns the second to last upload named name. The last one is assumed to be the upload of the
// current run. Uploads of the same name made concurrently by somebody else break this assumption.
func (f *ReuseFinder) FindPrevious(ctx context.Context, name string) (Baseline, error) {
	hits, err := f.Searcher.Search(ctx, name)
	if err != nil {
		return Baseline{}, fmt.Errorf("failed to search for previous uploads: %w", err)
	}
	if len(hits) < 2 {
		return Baseline{}, fmt.Errorf("%w: found %d upload(s) named %q", ErrNoBaseline, len(hits), name)
	}

	prev := hits[len(hits)-2]
	log.Debug().Int("upload", prev.UploadID).Str("name", name).Msg("Found previous upload.")

	return Baseline{UploadID: prev.UploadID, Group: f.Group}, nil
}

// Starter starts scan jobs.
type Starter interface {
	StartScan(ctx context.Context, folderID, uploadID int, opts Options) error
}

// Trigger starts the scan of an upload.
type Trigger struct {
	Starter Starter
	// Options is the template for every scan. The zero value means DefaultOptions.
	Options *Options
}

// Trigger starts a scan of uploadID in folderID. A non-nil baseline turns it into an incremental scan.
func (t *Trigger) Trigger(ctx context.Context, folderID, uploadID int, baseline *Baseline) error {
	opts := DefaultOptions()
	if t.Options != nil {
		opts = *t.Options
	}
	if baseline != nil {
		opts = opts.WithReuse(*baseline)
	}

	if err := t.Starter.StartScan(ctx, folderID, uploadID, opts); err != nil {
		return fmt.Errorf("failed to start scan: %w", err)
	}
	return nil
}
