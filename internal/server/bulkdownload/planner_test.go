package bulkdownload

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/dmitrijs2005/filedrop/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

type fakeStore struct {
	folders []*models.Folder
	files   []*models.File

	folderCalls [][]int64
	fileCalls   [][]string
	listCalls   int
}

func (s *fakeStore) ListFolders(_ context.Context, workspaceID int64) ([]*models.Folder, error) {
	s.listCalls++
	var out []*models.Folder
	for _, f := range s.folders {
		if f.WorkspaceID == workspaceID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeStore) ListFilesInFolders(_ context.Context, workspaceID int64, folderIDs []int64) ([]*models.File, error) {
	s.folderCalls = append(s.folderCalls, append([]int64(nil), folderIDs...))
	in := make(map[int64]bool)
	for _, id := range folderIDs {
		in[id] = true
	}
	var out []*models.File
	for _, f := range s.files {
		if f.WorkspaceID == workspaceID && f.FolderID != nil && in[*f.FolderID] {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeStore) GetFilesByExternalIDs(_ context.Context, workspaceID int64, ids []string) ([]*models.File, error) {
	s.fileCalls = append(s.fileCalls, append([]string(nil), ids...))
	want := make(map[string]bool)
	for _, id := range ids {
		want[id] = true
	}
	var out []*models.File
	for _, f := range s.files {
		if f.WorkspaceID == workspaceID && want[f.ExternalID] {
			out = append(out, f)
		}
	}
	return out, nil
}

var testWorkspace = &models.Workspace{ID: 1, ExternalID: "ws_1", StorageName: "local", BucketName: "bucket"}

func folder(id int64, ext, name string, parent *int64) *models.Folder {
	return &models.Folder{ID: id, ExternalID: ext, WorkspaceID: 1, ParentID: parent, Name: name}
}

func file(id int64, ext, name string, folderID *int64, size int64) *models.File {
	return &models.File{
		ID: id, ExternalID: ext, SecretPart: fmt.Sprintf("sec%d", id), WorkspaceID: 1, FolderID: folderID,
		Name: name, SizeInBytes: size, CreatedAt: time.Date(2024, 1, 2, 3, 4, 6, 0, time.UTC),
	}
}

// sampleStore holds:
//
//	A
//	├── f1.txt
//	└── B
//	    ├── f2.txt
//	    └── C
//	        └── f3.txt
//	D
//	└── f4.txt
//	f5.txt
func sampleStore() *fakeStore {
	return &fakeStore{
		folders: []*models.Folder{
			folder(1, "fo_a", "A", nil),
			folder(2, "fo_b", "B", ptr(1)),
			folder(3, "fo_c", "C", ptr(2)),
			folder(4, "fo_d", "D", nil),
		},
		files: []*models.File{
			file(10, "fi_1", "f1.txt", ptr(1), 10),
			file(11, "fi_2", "f2.txt", ptr(2), 20),
			file(12, "fi_3", "f3.txt", ptr(3), 30),
			file(13, "fi_4", "f4.txt", ptr(4), 40),
			file(14, "fi_5", "f5.txt", nil, 50),
		},
	}
}

func paths(p *Plan) []string {
	out := make([]string, len(p.Files))
	for i, f := range p.Files {
		out[i] = f.Path
	}
	return out
}

func plan(t *testing.T, store Store, sel Selection, opts ...PlannerOption) *Plan {
	t.Helper()
	p, err := NewPlanner(store, nil, opts...).Plan(context.Background(), testWorkspace, sel)
	require.NoError(t, err)
	return p
}

func TestPlan_ExcludedSubfolder(t *testing.T) {
	p := plan(t, sampleStore(), Selection{FolderIDs: []string{"fo_a"}, ExcludedFolderIDs: []string{"fo_b"}})

	assert.Equal(t, []string{"A/f1.txt"}, paths(p))
	assert.True(t, p.Folders.Contains(1))
	assert.False(t, p.Folders.Contains(2))
	assert.False(t, p.Folders.Contains(3))
	assert.True(t, p.NotFound.Empty())
	assert.Equal(t, int64(10), p.TotalSize())
}

func TestPlan_WholeSubtree(t *testing.T) {
	p := plan(t, sampleStore(), Selection{FolderIDs: []string{"fo_a"}})

	assert.Equal(t, []string{"A/B/C/f3.txt", "A/B/f2.txt", "A/f1.txt"}, paths(p))
	assert.Equal(t, []string{"A", "A/B", "A/B/C"}, p.Folders.Paths())
}

func TestPlan_ExcludedAncestorBlocksSelectedDescendant(t *testing.T) {
	p := plan(t, sampleStore(), Selection{
		FolderIDs:         []string{"fo_a", "fo_c"},
		ExcludedFolderIDs: []string{"fo_b"},
	})

	assert.Equal(t, []string{"A/f1.txt"}, paths(p))
	assert.False(t, p.Folders.Contains(3))

	p = plan(t, sampleStore(), Selection{FolderIDs: []string{"fo_c"}, ExcludedFolderIDs: []string{"fo_a"}})
	assert.Empty(t, p.Files)
	assert.True(t, p.NotFound.Empty())
}

func TestPlan_ExcludedFile(t *testing.T) {
	p := plan(t, sampleStore(), Selection{FolderIDs: []string{"fo_a"}, ExcludedFileIDs: []string{"fi_2"}})
	assert.Equal(t, []string{"A/B/C/f3.txt", "A/f1.txt"}, paths(p))

	p = plan(t, sampleStore(), Selection{FileIDs: []string{"fi_4"}, ExcludedFileIDs: []string{"fi_4"}})
	assert.Empty(t, p.Files)
}

func TestPlan_EmptySelection(t *testing.T) {
	store := sampleStore()
	p := plan(t, store, Selection{ExcludedFolderIDs: []string{"fo_a"}})

	assert.Empty(t, p.Files)
	assert.Zero(t, p.Folders.Len())
	assert.Empty(t, p.Folders.Paths())
	assert.Zero(t, store.listCalls)
}

func TestPlan_DirectFiles(t *testing.T) {
	p := plan(t, sampleStore(), Selection{FileIDs: []string{"fi_5", "fi_4", "fi_2", "fi_5"}})
	assert.Equal(t, []string{"f2.txt", "f4.txt", "f5.txt"}, paths(p))

	// a file inside a selected folder is placed in that folder once
	p = plan(t, sampleStore(), Selection{FileIDs: []string{"fi_4"}, FolderIDs: []string{"fo_d"}})
	assert.Equal(t, []string{"D/f4.txt"}, paths(p))
}

func TestPlan_NotFoundReported(t *testing.T) {
	p := plan(t, sampleStore(), Selection{
		FileIDs:   []string{"fi_1", "fi_missing"},
		FolderIDs: []string{"fo_d", "fo_missing"},
	})

	assert.Equal(t, []string{"D/f4.txt", "f1.txt"}, paths(p))
	assert.Equal(t, []string{"fi_missing"}, p.NotFound.FileIDs)
	assert.Equal(t, []string{"fo_missing"}, p.NotFound.FolderIDs)

	err := &SelectionNotFoundError{NotFound: p.NotFound}
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, err.Error(), "fi_missing")
	assert.Contains(t, err.Error(), "fo_missing")
}

func TestPlan_Scope(t *testing.T) {
	store := sampleStore()

	p := plan(t, store, Selection{ScopeFolderID: "fo_b", FolderIDs: []string{"fo_c", "fo_a"}})
	assert.Equal(t, []string{"C/f3.txt"}, paths(p))
	assert.Equal(t, []string{"fo_a"}, p.NotFound.FolderIDs)

	p = plan(t, store, Selection{ScopeFolderID: "fo_b", FolderIDs: []string{"fo_b"}})
	assert.Equal(t, []string{"B/C/f3.txt", "B/f2.txt"}, paths(p))

	p = plan(t, store, Selection{ScopeFolderID: "fo_b", FileIDs: []string{"fi_1", "fi_5", "fi_3"}})
	assert.Equal(t, []string{"f3.txt"}, paths(p))
	assert.ElementsMatch(t, []string{"fi_1", "fi_5"}, p.NotFound.FileIDs)

	_, err := NewPlanner(store, nil).Plan(context.Background(), testWorkspace, Selection{ScopeFolderID: "fo_x", FolderIDs: []string{"fo_a"}})
	assert.ErrorIs(t, err, common.ErrScopeNotFound)

	_, err = NewPlanner(store, nil).Plan(context.Background(), testWorkspace, Selection{ScopeFolderID: "fo_x"})
	assert.ErrorIs(t, err, common.ErrScopeNotFound)

	p = plan(t, store, Selection{ScopeFolderID: "fo_b"})
	assert.Empty(t, p.Files)
	assert.Zero(t, p.Folders.Len())
}

func TestPlan_NameCollisions(t *testing.T) {
	store := sampleStore()
	store.files = append(store.files,
		file(20, "fi_x", "r.txt", ptr(1), 1),
		file(21, "fi_y", "r.txt", ptr(1), 1),
		file(22, "fi_z", "B", ptr(1), 1),
		file(23, "fi_w", "a/b", ptr(4), 1),
	)

	p := plan(t, store, Selection{FolderIDs: []string{"fo_a", "fo_d"}})
	assert.Equal(t, []string{
		"A/B/C/f3.txt",
		"A/B/f2.txt",
		"A/B_fi_z",
		"A/f1.txt",
		"A/r.txt",
		"A/r_fi_y.txt",
		"D/a_b",
		"D/f4.txt",
	}, paths(p))
	assert.Equal(t, int64(20), p.Files[4].File.ID)
}

func TestPlan_ChunksQueries(t *testing.T) {
	store := sampleStore()
	p := plan(t, store, Selection{
		FolderIDs: []string{"fo_a", "fo_d"},
		FileIDs:   []string{"fi_5", "fi_1", "fi_2"},
	}, WithChunkSize(2))

	assert.Len(t, p.Files, 5)
	require.Len(t, store.folderCalls, 2)
	assert.Len(t, store.folderCalls[0], 2)
	assert.Len(t, store.folderCalls[1], 2)
	assert.Equal(t, [][]string{{"fi_5", "fi_1"}, {"fi_2"}}, store.fileCalls)
}

func TestPlan_InconsistentTree(t *testing.T) {
	cyclic := &fakeStore{folders: []*models.Folder{
		folder(1, "fo_1", "one", ptr(2)),
		folder(2, "fo_2", "two", ptr(1)),
	}}
	_, err := NewPlanner(cyclic, nil).Plan(context.Background(), testWorkspace, Selection{FolderIDs: []string{"fo_1"}})
	assert.ErrorIs(t, err, common.ErrInternal)

	orphan := &fakeStore{folders: []*models.Folder{folder(1, "fo_1", "one", ptr(99))}}
	_, err = NewPlanner(orphan, nil).Plan(context.Background(), testWorkspace, Selection{FolderIDs: []string{"fo_1"}})
	assert.ErrorIs(t, err, common.ErrInternal)
}

func TestFolderSubtree(t *testing.T) {
	p := plan(t, sampleStore(), Selection{FolderIDs: []string{"fo_b", "fo_d"}})
	s := p.Folders

	path, err := s.Path(3)
	require.NoError(t, err)
	assert.Equal(t, "B/C", path)

	depth, err := s.Depth(3)
	require.NoError(t, err)
	assert.Equal(t, 1, depth)

	depth, err = s.Depth(4)
	require.NoError(t, err)
	assert.Zero(t, depth)

	_, err = s.Path(1)
	assert.ErrorIs(t, err, common.ErrFolderNotInIndex)
	_, err = s.Depth(404)
	assert.ErrorIs(t, err, common.ErrFolderNotInIndex)

	assert.Equal(t, []int64{2, 3, 4}, s.IDs())
	assert.Equal(t, 3, s.Len())
}

func TestFolderSubtree_DeepChainMemoized(t *testing.T) {
	const depth = 2000
	store := &fakeStore{}
	for i := int64(1); i <= depth; i++ {
		var parent *int64
		if i > 1 {
			parent = ptr(i - 1)
		}
		store.folders = append(store.folders, folder(i, fmt.Sprintf("fo_%d", i), "d", parent))
	}

	p := plan(t, store, Selection{FolderIDs: []string{store.folders[0].ExternalID}})
	d, err := p.Folders.Depth(depth)
	require.NoError(t, err)
	assert.Equal(t, depth-1, d)
	assert.Len(t, p.Folders.paths, depth)

	path, err := p.Folders.Path(2)
	require.NoError(t, err)
	assert.Equal(t, "d/d", path)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "a_b_c", sanitizeName(`a/b\c`))
	assert.Equal(t, "_", sanitizeName(""))
	assert.Equal(t, "_", sanitizeName(".."))
	assert.Equal(t, "tab_x", sanitizeName("tab\tx"))
	assert.Equal(t, "ünïcode.txt", sanitizeName("ünïcode.txt"))
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "A/r_fi_1.txt", withSuffix("A/r.txt", "fi_1"))
	assert.Equal(t, "noext_fi_1", withSuffix("noext", "fi_1"))
	assert.Equal(t, ".bashrc_fi_1", withSuffix(".bashrc", "fi_1"))
	assert.Equal(t, "a.tar_fi_1.gz", withSuffix("a.tar.gz", "fi_1"))
}
