package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"
)

var spinnerSpeed = 1 * time.Second
var spinnerInstance = spinner.New(spinner.CharSets[14], spinnerSpeed)

// Show starts showing a progress spinner.
func Show(text string, args ...interface{}) *spinner.Spinner {
	message := " " + fmt.Sprintf(text, args...)
	spinnerInstance.Suffix = message
	spinnerInstance.Stop()
	spinnerInstance.Start()
	return spinnerInstance
}

// Stop stops the progress spinner.
func Stop() {
	spinnerInstance.Stop()
}

// NewBytesBar returns a progress bar for size bytes that renders to w. A nil w yields a silent bar.
func NewBytesBar(w io.Writer, size int64, description string) *progressbar.ProgressBar {
	if w == nil {
		return progressbar.DefaultBytesSilent(size, description)
	}
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(10),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
	)
}

// ReadSeeker is a wrapper around io.ReadSeeker that updates a progress bar.
type ReadSeeker struct {
	io.ReadSeeker
	bar *progressbar.ProgressBar
}

// NewReadSeeker returns a new ReadSeeker with the given bar.
func NewReadSeeker(r io.ReadSeeker, bar *progressbar.ProgressBar) *ReadSeeker {
	return &ReadSeeker{
		ReadSeeker: r,
		bar:        bar,
	}
}

// Seek leaves the progress bar untouched. Resetting a bar ends up drawing multiple bars.
func (r *ReadSeeker) Seek(offset int64, whence int) (int64, error) {
	return r.ReadSeeker.Seek(offset, whence)
}

func (r *ReadSeeker) Read(p []byte) (n int, err error) {
	n, err = r.ReadSeeker.Read(p)
	_ = r.bar.Add(n)
	return
}

// Close finishes the bar and closes the underlying reader if it is an io.Closer.
func (r *ReadSeeker) Close() error {
	_ = r.bar.Finish()
	if closer, ok := r.ReadSeeker.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
