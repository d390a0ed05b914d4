// Package workflow runs a complete upload: it authenticates, resolves the destination folder, uploads the artifact,
// waits for it to be unpacked and finally schedules the scan.
package workflow

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/scanflow/scanctl/internal/folder"
	"github.com/scanflow/scanctl/internal/iam"
	"github.com/scanflow/scanctl/internal/job"
	"github.com/scanflow/scanctl/internal/progress"
	"github.com/scanflow/scanctl/internal/scan"
	"github.com/scanflow/scanctl/internal/upload"
)

// Steps of a run, in order of execution.
const (
	StepToken    = "obtain token"
	StepFolder   = "resolve folder"
	StepUpload   = "upload"
	StepMonitor  = "await unpack job"
	StepBaseline = "find baseline"
	StepScan     = "trigger scan"
)

// StepError is returned by Run and names the step that failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Service is the scan service as seen by a run.
type Service interface {
	iam.Minter
	folder.Store
	upload.Uploader
	upload.Searcher
	job.Reader
	scan.Starter

	// Authorize sets the token used for all subsequent requests.
	Authorize(token string)
}

// Params describe a single run.
type Params struct {
	Credentials   iam.Credentials
	TokenScope    string
	TokenValidity int

	Target upload.Target
	// Folder is the "/"-separated destination folder path.
	Folder  string
	GroupID *int

	Reuse      bool
	ReuseGroup string

	PollInterval time.Duration
	// ScanOptions replaces the default scan options if set.
	ScanOptions *scan.Options
}

// Result describes a successful run.
type Result struct {
	FolderID int
	Upload   upload.Upload
	Job      job.Summary
	Baseline *scan.Baseline
}

// Runner executes runs against a Service. Steps run strictly one after another.
type Runner struct {
	Service Service
	// Progress receives the upload progress bar and job indicators. Nil disables them.
	Progress io.Writer
	// Spinner shows a spinner while the folder is resolved.
	Spinner bool
	// Now defaults to time.Now.
	Now func() time.Time
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Run executes all steps of p and stops at the first failure, which is returned as *StepError.
func (r *Runner) Run(ctx context.Context, p Params) (Result, error) {
	var res Result

	tokens := iam.TokenProvider{Minter: r.Service, Now: r.Now}
	token, err := tokens.Obtain(ctx, p.Credentials, p.TokenScope, p.TokenValidity)
	if err != nil {
		return res, &StepError{Step: StepToken, Err: err}
	}
	r.Service.Authorize(token)

	path := folder.ParsePath(p.Folder)
	if r.Spinner {
		progress.Show("Resolving folder %s", path)
	}
	resolver := folder.Resolver{Store: r.Service}
	res.FolderID, err = resolver.Resolve(ctx, path)
	if r.Spinner {
		progress.Stop()
	}
	if err != nil {
		return res, &StepError{Step: StepFolder, Err: err}
	}
	log.Info().Int("folder", res.FolderID).Str("path", path.String()).Msg("Resolved folder.")

	dispatcher := upload.Dispatcher{
		Uploader: r.Service,
		Searcher: r.Service,
		Progress: r.Progress,
		Getenv:   r.Getenv,
	}
	res.Upload, err = dispatcher.Upload(ctx, p.Target, res.FolderID, p.GroupID)
	if err != nil {
		return res, &StepError{Step: StepUpload, Err: err}
	}
	log.Info().Int("upload", res.Upload.ID).Str("name", res.Upload.Name).Msg("Uploaded.")

	indicators := &countingWriter{w: r.Progress}
	monitor := job.Monitor{Reader: r.Service, Interval: p.PollInterval, Out: indicators}
	res.Job, err = monitor.Wait(ctx, res.Upload.ID)
	if indicators.n > 0 {
		_, _ = fmt.Fprintln(r.Progress)
	}
	if err != nil {
		return res, &StepError{Step: StepMonitor, Err: err}
	}
	log.Info().Int("job", res.Job.JobID).Int("polls", res.Job.Polls).Msg("Upload unpacked.")

	if p.Reuse {
		finder := scan.ReuseFinder{Searcher: r.Service, Group: p.ReuseGroup}
		baseline, err := finder.FindPrevious(ctx, res.Upload.Name)
		if err != nil {
			return res, &StepError{Step: StepBaseline, Err: err}
		}
		res.Baseline = &baseline
		log.Info().Int("baseline", baseline.UploadID).Str("group", baseline.Group).Msg("Reusing previous upload.")
	}

	trigger := scan.Trigger{Starter: r.Service, Options: p.ScanOptions}
	if err := trigger.Trigger(ctx, res.FolderID, res.Upload.ID, res.Baseline); err != nil {
		return res, &StepError{Step: StepScan, Err: err}
	}

	return res, nil
}

// countingWriter counts the bytes written to w. A nil w discards them.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.w == nil {
		return len(p), nil
	}
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
