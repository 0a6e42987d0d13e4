package bulkdownload

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/dmitrijs2005/filedrop/internal/logging"
	"github.com/dmitrijs2005/filedrop/internal/server/models"
)

// DefaultChunkSize bounds the number of ids bound into one query.
const DefaultChunkSize = 5000

// ResolvedFile is one archive member.
type ResolvedFile struct {
	File *models.File
	// Path is the member name inside the archive.
	Path string
}

// Plan is the resolved form of a Selection. Files are ordered by Path,
// then by file id.
type Plan struct {
	Workspace *models.Workspace
	Files     []ResolvedFile
	Folders   *FolderSubtree
	NotFound  NotFound
}

// TotalSize is the sum of the plaintext sizes of all members.
func (p *Plan) TotalSize() int64 {
	var n int64
	for _, f := range p.Files {
		n += f.File.SizeInBytes
	}
	return n
}

type Planner struct {
	store  Store
	chunk  int
	logger logging.Logger
}

type PlannerOption func(*Planner)

// WithChunkSize overrides DefaultChunkSize.
func WithChunkSize(n int) PlannerOption {
	return func(p *Planner) {
		if n > 0 {
			p.chunk = n
		}
	}
}

func NewPlanner(store Store, logger logging.Logger, opts ...PlannerOption) *Planner {
	p := &Planner{
		store:  store,
		chunk:  DefaultChunkSize,
		logger: logging.OrNop(logger).With("module", "bulkdownload"),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Plan resolves sel within ws. Ids that do not resolve are reported in
// Plan.NotFound; a missing scope folder fails with common.ErrScopeNotFound,
// even when nothing is selected.
func (p *Planner) Plan(ctx context.Context, ws *models.Workspace, sel Selection) (*Plan, error) {
	plan := &Plan{Workspace: ws}
	if sel.Empty() && sel.ScopeFolderID == "" {
		plan.Folders = newFolderSubtree(nil)
		return plan, nil
	}

	folders, err := p.store.ListFolders(ctx, ws.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	t, err := newTree(folders)
	if err != nil {
		return nil, err
	}

	if sel.ScopeFolderID != "" {
		i, ok := t.byExt[sel.ScopeFolderID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", common.ErrScopeNotFound, sel.ScopeFolderID)
		}
		t.scope = i
	}
	if sel.Empty() {
		plan.Folders = newFolderSubtree(nil)
		return plan, nil
	}

	selected := unique(sel.FolderIDs)
	for _, ext := range selected {
		if i, ok := t.byExt[ext]; ok {
			t.nodes[i].selected = true
		}
	}
	for _, ext := range sel.ExcludedFolderIDs {
		if i, ok := t.byExt[ext]; ok {
			t.nodes[i].excluded = true
		}
	}
	if err := t.resolveAll(); err != nil {
		return nil, err
	}
	for _, ext := range selected {
		if i, ok := t.byExt[ext]; !ok || !t.nodes[i].inScope {
			plan.NotFound.FolderIDs = append(plan.NotFound.FolderIDs, ext)
		}
	}
	plan.Folders = newFolderSubtree(t)

	excluded := make(map[string]struct{}, len(sel.ExcludedFileIDs))
	for _, ext := range sel.ExcludedFileIDs {
		excluded[ext] = struct{}{}
	}

	files := make(map[int64]*models.File)
	for _, ids := range chunks(t.coveredIDs(), p.chunk) {
		list, err := p.store.ListFilesInFolders(ctx, ws.ID, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to list files in folders: %w", err)
		}
		for _, f := range list {
			files[f.ID] = f
		}
	}

	for _, exts := range chunks(unique(sel.FileIDs), p.chunk) {
		list, err := p.store.GetFilesByExternalIDs(ctx, ws.ID, exts)
		if err != nil {
			return nil, fmt.Errorf("failed to get files: %w", err)
		}
		found := make(map[string]struct{}, len(list))
		for _, f := range list {
			if !t.folderInScope(f.FolderID) {
				continue
			}
			found[f.ExternalID] = struct{}{}
			files[f.ID] = f
		}
		for _, ext := range exts {
			if _, ok := found[ext]; !ok {
				plan.NotFound.FileIDs = append(plan.NotFound.FileIDs, ext)
			}
		}
	}

	for id, f := range files {
		if _, ok := excluded[f.ExternalID]; ok {
			delete(files, id)
		}
	}

	plan.Files = place(files, plan.Folders)

	p.logger.Debug(ctx, "bulk download planned",
		"workspace", ws.ExternalID,
		"files", len(plan.Files),
		"folders", plan.Folders.Len(),
		"missing_files", len(plan.NotFound.FileIDs),
		"missing_folders", len(plan.NotFound.FolderIDs))
	return plan, nil
}

// place assigns archive paths. A file goes into its folder's path when the
// folder survived and to the archive root otherwise. Names that clash with
// an earlier member or a folder get the file external id appended.
func place(files map[int64]*models.File, folders *FolderSubtree) []ResolvedFile {
	out := make([]ResolvedFile, 0, len(files))
	for _, f := range files {
		name := sanitizeName(f.Name)
		if f.FolderID != nil && folders.Contains(*f.FolderID) {
			dir, _ := folders.Path(*f.FolderID)
			name = dir + "/" + name
		}
		out = append(out, ResolvedFile{File: f, Path: name})
	}
	sortMembers(out)

	used := make(map[string]struct{}, len(out))
	for _, dir := range folders.Paths() {
		used[dir] = struct{}{}
	}
	for k := range out {
		p := out[k].Path
		for n := 1; ; n++ {
			if _, ok := used[p]; !ok {
				break
			}
			tag := out[k].File.ExternalID
			if n > 1 {
				tag = fmt.Sprintf("%s_%d", tag, n)
			}
			p = withSuffix(out[k].Path, tag)
		}
		used[p] = struct{}{}
		out[k].Path = p
	}
	sortMembers(out)
	return out
}

func sortMembers(m []ResolvedFile) {
	sort.Slice(m, func(a, b int) bool {
		if m[a].Path != m[b].Path {
			return m[a].Path < m[b].Path
		}
		return m[a].File.ID < m[b].File.ID
	})
}

// withSuffix inserts "_"+tag before the extension of the last element.
func withSuffix(p, tag string) string {
	dir, base := path.Split(p)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem, ext = base, ""
	}
	return dir + stem + "_" + tag + ext
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func chunks[T any](s []T, n int) [][]T {
	var out [][]T
	for len(s) > 0 {
		k := min(n, len(s))
		out = append(out, s[:k])
		s = s[k:]
	}
	return out
}
