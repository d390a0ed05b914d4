// Package folder resolves slash-separated folder paths against the remote folder tree.
package folder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// RootID is the id of the root folder of the remote folder tree.
const RootID = 1

var (
	// ErrEmptyPath is returned for a path without any segments.
	ErrEmptyPath = errors.New("folder path has no segments")
	// ErrInconsistent is returned when a folder cannot be found right after it has been created.
	ErrInconsistent = errors.New("created folder cannot be found")
)

// Folder is an entry of the remote folder tree.
type Folder struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Parent      int    `json:"parent"`
}

// Store gives access to the remote folder tree.
type Store interface {
	// Folders lists all folders visible to the caller.
	Folders(ctx context.Context) ([]Folder, error)
	// CreateFolder creates a folder named name underneath parentID.
	CreateFolder(ctx context.Context, parentID int, name string) error
}

// Path is an ordered sequence of folder names, starting below the root folder.
type Path []string

// ParsePath splits a slash-separated path into its segments. Surrounding whitespace of every segment is removed.
func ParsePath(s string) Path {
	segments := strings.Split(s, "/")
	p := make(Path, 0, len(segments))
	for _, seg := range segments {
		p = append(p, strings.TrimSpace(seg))
	}
	return p
}

func (p Path) String() string {
	return strings.Join(p, "/")
}

// Resolver maps folder paths to folder ids, creating missing folders along the way.
type Resolver struct {
	Store Store
	// Root is the id the resolution starts from. Defaults to RootID.
	Root int
}

// Resolve walks p segment by segment and returns the id of the last one. Segments that do not exist yet are created.
// Empty segments keep the current folder, which makes a path consisting of a single empty segment resolve to the
// root folder.
func (r *Resolver) Resolve(ctx context.Context, p Path) (int, error) {
	if len(p) == 0 {
		return 0, ErrEmptyPath
	}

	parent := r.Root
	if parent == 0 {
		parent = RootID
	}

	for _, name := range p {
		if name == "" {
			continue
		}

		id, found, err := r.Lookup(ctx, parent, name)
		if err != nil {
			return 0, err
		}
		if !found {
			log.Debug().Str("folder", name).Int("parent", parent).Msg("Creating folder.")
			if err := r.Store.CreateFolder(ctx, parent, name); err != nil {
				return 0, fmt.Errorf("failed to create folder %q: %w", name, err)
			}
			// The creation reply does not contain the new id.
			id, found, err = r.Lookup(ctx, parent, name)
			if err != nil {
				return 0, err
			}
			if !found {
				return 0, fmt.Errorf("%w: %q below folder %d", ErrInconsistent, name, parent)
			}
		}
		parent = id
	}

	return parent, nil
}

// Lookup finds the folder called name directly underneath parentID. The listing is fetched on every call since
// creating a folder changes it.
func (r *Resolver) Lookup(ctx context.Context, parentID int, name string) (int, bool, error) {
	folders, err := r.Store.Folders(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to list folders: %w", err)
	}

	for _, f := range folders {
		if f.Name == name && f.Parent == parentID {
			return f.ID, true, nil
		}
	}

	return 0, false, nil
}
