package folder

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory folder tree.
type memStore struct {
	folders []Folder
	nextID  int
	creates int
	lists   int
	// lose drops created folders instead of storing them.
	lose bool
}

func newMemStore(folders ...Folder) *memStore {
	s := &memStore{folders: append([]Folder{{ID: RootID, Name: "Software Repository"}}, folders...), nextID: 100}
	return s
}

func (s *memStore) Folders(context.Context) ([]Folder, error) {
	s.lists++
	return append([]Folder(nil), s.folders...), nil
}

func (s *memStore) CreateFolder(_ context.Context, parentID int, name string) error {
	s.creates++
	if s.lose {
		return nil
	}
	s.nextID++
	s.folders = append(s.folders, Folder{ID: s.nextID, Name: name, Parent: parentID})
	return nil
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want Path
	}{
		{in: "Sandbox/001", want: Path{"Sandbox", "001"}},
		{in: "Sandbox", want: Path{"Sandbox"}},
		{in: "", want: Path{""}},
		{in: " a / b ", want: Path{"a", "b"}},
		{in: "a//b", want: Path{"a", "", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParsePath(tt.in)); diff != "" {
				t.Errorf("ParsePath() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolver_Resolve_CreatesMissing(t *testing.T) {
	s := newMemStore()
	r := Resolver{Store: s}

	id, err := r.Resolve(context.Background(), ParsePath("Sandbox/001"))
	require.NoError(t, err)

	assert.Equal(t, 2, s.creates)
	assert.Equal(t, 102, id)
	assert.Contains(t, s.folders, Folder{ID: 101, Name: "Sandbox", Parent: RootID})
	assert.Contains(t, s.folders, Folder{ID: 102, Name: "001", Parent: 101})
}

func TestResolver_Resolve_Idempotent(t *testing.T) {
	paths := []string{"Sandbox", "Sandbox/001", "a/b/c/d", "", "x//y"}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			s := newMemStore()
			r := Resolver{Store: s}

			first, err := r.Resolve(context.Background(), ParsePath(p))
			require.NoError(t, err)
			creates := s.creates

			second, err := r.Resolve(context.Background(), ParsePath(p))
			require.NoError(t, err)

			assert.Equal(t, first, second)
			assert.Equal(t, creates, s.creates, "second resolution must not create folders")
		})
	}
}

func TestResolver_Resolve_SameNameDifferentParent(t *testing.T) {
	s := newMemStore(
		Folder{ID: 10, Name: "Sandbox", Parent: RootID},
		Folder{ID: 11, Name: "001", Parent: 10},
		Folder{ID: 20, Name: "Other", Parent: RootID},
		Folder{ID: 21, Name: "Sandbox", Parent: 20},
	)
	r := Resolver{Store: s}

	id, err := r.Resolve(context.Background(), ParsePath("Other/Sandbox/001"))
	require.NoError(t, err)

	assert.Equal(t, 1, s.creates)
	assert.NotEqual(t, 11, id)
	assert.Contains(t, s.folders, Folder{ID: id, Name: "001", Parent: 21})
}

func TestResolver_Resolve_Existing(t *testing.T) {
	s := newMemStore(
		Folder{ID: 10, Name: "Sandbox", Parent: RootID},
		Folder{ID: 11, Name: "001", Parent: 10},
	)
	r := Resolver{Store: s}

	id, err := r.Resolve(context.Background(), ParsePath("Sandbox/001"))
	require.NoError(t, err)
	assert.Equal(t, 11, id)
	assert.Equal(t, 0, s.creates)
	assert.Equal(t, 2, s.lists)
}

func TestResolver_Resolve_EmptySegment(t *testing.T) {
	s := newMemStore()
	r := Resolver{Store: s}

	id, err := r.Resolve(context.Background(), ParsePath(""))
	require.NoError(t, err)
	assert.Equal(t, RootID, id)

	_, err = r.Resolve(context.Background(), Path{})
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestResolver_Resolve_Inconsistent(t *testing.T) {
	s := newMemStore()
	s.lose = true
	r := Resolver{Store: s}

	_, err := r.Resolve(context.Background(), ParsePath("Sandbox"))
	assert.ErrorIs(t, err, ErrInconsistent)
	assert.Equal(t, 1, s.creates)
}

type failingStore struct{ memStore }

func (s *failingStore) CreateFolder(context.Context, int, string) error {
	return errors.New("denied")
}

func TestResolver_Resolve_CreateFailure(t *testing.T) {
	r := Resolver{Store: &failingStore{memStore: *newMemStore()}}

	_, err := r.Resolve(context.Background(), ParsePath("Sandbox"))
	assert.EqualError(t, err, `failed to create folder "Sandbox": denied`)
}
