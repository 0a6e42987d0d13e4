package bulkdownload

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/filedrop/internal/common"
)

// FolderSubtree indexes the folders that survived a selection. Display
// paths start at the topmost surviving folder of each branch. Paths and
// depths are computed on first use and memoized.
type FolderSubtree struct {
	t     *tree
	paths map[int]string
	depth map[int]int
}

func newFolderSubtree(t *tree) *FolderSubtree {
	if t == nil {
		t = &tree{byID: map[int64]int{}, byExt: map[string]int{}, scope: noNode}
	}
	return &FolderSubtree{t: t, paths: make(map[int]string), depth: make(map[int]int)}
}

// Contains reports whether the folder is part of the subtree.
func (s *FolderSubtree) Contains(folderID int64) bool {
	i, ok := s.t.byID[folderID]
	return ok && s.t.nodes[i].covered
}

func (s *FolderSubtree) Len() int {
	n := 0
	for _, nd := range s.t.nodes {
		if nd.covered {
			n++
		}
	}
	return n
}

// Path returns the slash separated display path of the folder.
func (s *FolderSubtree) Path(folderID int64) (string, error) {
	i, err := s.index(folderID)
	if err != nil {
		return "", err
	}
	s.fill(i)
	return s.paths[i], nil
}

// Depth returns the distance from the topmost surviving ancestor, which has
// depth 0.
func (s *FolderSubtree) Depth(folderID int64) (int, error) {
	i, err := s.index(folderID)
	if err != nil {
		return 0, err
	}
	s.fill(i)
	return s.depth[i], nil
}

// IDs returns the folder ids ordered by display path, then id.
func (s *FolderSubtree) IDs() []int64 {
	type entry struct {
		id   int64
		path string
	}
	var entries []entry
	for i, nd := range s.t.nodes {
		if !nd.covered {
			continue
		}
		s.fill(i)
		entries = append(entries, entry{nd.folder.ID, s.paths[i]})
	}
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].path != entries[b].path {
			return entries[a].path < entries[b].path
		}
		return entries[a].id < entries[b].id
	})
	ids := make([]int64, len(entries))
	for k, e := range entries {
		ids[k] = e.id
	}
	return ids
}

// Paths returns the distinct display paths in order. Sibling folders with
// equal names share one path.
func (s *FolderSubtree) Paths() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, id := range s.IDs() {
		p, _ := s.Path(id)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func (s *FolderSubtree) index(folderID int64) (int, error) {
	i, ok := s.t.byID[folderID]
	if !ok || !s.t.nodes[i].covered {
		return 0, fmt.Errorf("%w: %d", common.ErrFolderNotInIndex, folderID)
	}
	return i, nil
}

// fill computes the path of i and of any ancestors not memoized yet,
// walking up only until a known path or the top of the branch.
func (s *FolderSubtree) fill(i int) {
	var chain []int
	j := i
	for {
		if _, ok := s.paths[j]; ok {
			break
		}
		chain = append(chain, j)
		p := s.t.nodes[j].parent
		if p == noNode || !s.t.nodes[p].covered {
			break
		}
		j = p
	}

	for k := len(chain) - 1; k >= 0; k-- {
		c := chain[k]
		name := sanitizeName(s.t.nodes[c].folder.Name)
		p := s.t.nodes[c].parent
		if p != noNode && s.t.nodes[p].covered {
			s.paths[c] = s.paths[p] + "/" + name
			s.depth[c] = s.depth[p] + 1
		} else {
			s.paths[c] = name
			s.depth[c] = 0
		}
	}
}

// sanitizeName makes a folder or file name safe as one archive path element.
func sanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}
