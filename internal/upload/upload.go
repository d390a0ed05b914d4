// Package upload submits artifacts to the scan service.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/rs/zerolog/log"

	"github.com/scanflow/scanctl/internal/human"
	"github.com/scanflow/scanctl/internal/progress"
)

// Environment variables holding the credentials for a VCS upload.
const (
	EnvVCSUsername = "SCANCTL_VCS_USERNAME"
	EnvVCSPassword = "SCANCTL_VCS_PASSWORD"
)

// Description is attached to every upload.
const Description = "uploaded by scanctl"

// ErrInvalidTarget is returned when a target names neither or both of a file and a VCS URL.
var ErrInvalidTarget = errors.New("exactly one of a file or a VCS URL must be given")

// Target is the artifact to upload. Exactly one of File and VCS must be set.
type Target struct {
	File string
	VCS  string
}

// Validate checks that exactly one kind of artifact is set.
func (t Target) Validate() error {
	if (t.File == "") == (t.VCS == "") {
		return ErrInvalidTarget
	}
	return nil
}

// Name returns the base name of the artifact, which is what the service lists it under.
func (t Target) Name() (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	if t.File != "" {
		return filepath.Base(t.File), nil
	}

	ep, err := transport.NewEndpoint(t.VCS)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	name := path.Base(strings.TrimSuffix(strings.TrimSuffix(ep.Path, "/"), ".git"))
	if name == "." || name == "/" {
		return ep.Host, nil
	}
	return name, nil
}

// Meta is the metadata sent along with every upload.
type Meta struct {
	FolderID    int
	GroupID     *int
	Description string
	Public      string
	IgnoreSCM   bool
}

// VCS describes a repository the service should clone.
type VCS struct {
	Type     string `json:"vcs_type"`
	URL      string `json:"vcs_url"`
	Name     string `json:"vcs_name"`
	Username string `json:"vcs_username"`
	Password string `json:"vcs_password"`
}

// Upload is an upload created by scanctl.
type Upload struct {
	ID       int
	Name     string
	FolderID int
	GroupID  *int
	// ItemID is the item of the upload's root in the file tree. It is looked up on a best-effort basis and may be nil.
	ItemID *int
}

// Uploader creates uploads and returns their ids.
type Uploader interface {
	UploadFile(ctx context.Context, meta Meta, filename string, content io.ReadSeeker) (int, error)
	UploadVCS(ctx context.Context, meta Meta, vcs VCS) (int, error)
}

// Hit is a single search result.
type Hit struct {
	UploadID int
	FolderID int
	Name     string
	ItemID   int
}

// Searcher searches uploads by file name.
type Searcher interface {
	Search(ctx context.Context, filename string) ([]Hit, error)
}

// Dispatcher creates an upload from a Target.
type Dispatcher struct {
	Uploader Uploader
	Searcher Searcher
	// Progress renders the upload progress of files. Nil disables it.
	Progress io.Writer
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Upload submits t into the folder folderID, under groupID if set.
func (d *Dispatcher) Upload(ctx context.Context, t Target, folderID int, groupID *int) (Upload, error) {
	name, err := t.Name()
	if err != nil {
		return Upload{}, err
	}

	meta := Meta{
		FolderID:    folderID,
		GroupID:     groupID,
		Description: Description,
		Public:      "private",
		IgnoreSCM:   true,
	}

	var id int
	if t.File != "" {
		id, err = d.uploadFile(ctx, meta, t.File)
	} else {
		id, err = d.Uploader.UploadVCS(ctx, meta, d.vcs(t.VCS, name))
	}
	if err != nil {
		return Upload{}, err
	}

	up := Upload{ID: id, Name: name, FolderID: folderID, GroupID: groupID}
	up.ItemID = d.findItem(ctx, name, id)

	return up, nil
}

func (d *Dispatcher) uploadFile(ctx context.Context, meta Meta, filename string) (int, error) {
	f, err := os.Open(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	finfo, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("failed to inspect file: %w", err)
	}

	log.Info().Str("file", filename).Str("size", human.Bytes(finfo.Size())).Msg("Uploading file.")
	reader := progress.NewReadSeeker(f, progress.NewBytesBar(d.Progress, finfo.Size(), "Uploading"))
	defer reader.Close()

	return d.Uploader.UploadFile(ctx, meta, finfo.Name(), reader)
}

func (d *Dispatcher) vcs(url, name string) VCS {
	getenv := d.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return VCS{
		Type:     "git",
		URL:      url,
		Name:     name,
		Username: getenv(EnvVCSUsername),
		Password: getenv(EnvVCSPassword),
	}
}

// findItem looks up the item id of the new upload. The search index of the service is known to lag behind new
// uploads, so a miss or failure is not an error.
func (d *Dispatcher) findItem(ctx context.Context, name string, uploadID int) *int {
	if d.Searcher == nil {
		return nil
	}
	hits, err := d.Searcher.Search(ctx, name)
	if err != nil {
		log.Debug().Err(err).Str("name", name).Msg("Item lookup failed.")
		return nil
	}
	for _, h := range hits {
		if h.UploadID == uploadID {
			item := h.ItemID
			return &item
		}
	}
	log.Debug().Str("name", name).Int("upload", uploadID).Msg("Item not found.")
	return nil
}
