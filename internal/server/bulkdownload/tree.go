package bulkdownload

import (
	"fmt"

	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/dmitrijs2005/filedrop/internal/server/models"
)

const noNode = -1

const (
	unresolved uint8 = iota
	visiting
	resolved
)

// node is one folder in the arena. Flags derived from ancestors are filled
// by resolve, once per node.
type node struct {
	folder *models.Folder
	parent int

	selected bool
	excluded bool

	state   uint8
	inScope bool
	// blocked: the folder or one of its ancestors is excluded.
	blocked bool
	// covered: the folder survives the selection.
	covered bool
}

// tree is the folder hierarchy of one workspace stored as an arena indexed
// by position, with parents as indices.
type tree struct {
	nodes []node
	byID  map[int64]int
	byExt map[string]int
	scope int
}

func newTree(folders []*models.Folder) (*tree, error) {
	t := &tree{
		nodes: make([]node, len(folders)),
		byID:  make(map[int64]int, len(folders)),
		byExt: make(map[string]int, len(folders)),
		scope: noNode,
	}
	for i, f := range folders {
		t.nodes[i] = node{folder: f, parent: noNode}
		t.byID[f.ID] = i
		t.byExt[f.ExternalID] = i
	}
	for i, f := range folders {
		if f.ParentID == nil {
			continue
		}
		p, ok := t.byID[*f.ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: folder %d has unknown parent %d", common.ErrInternal, f.ID, *f.ParentID)
		}
		t.nodes[i].parent = p
	}
	return t, nil
}

// resolveAll derives scope, exclusion and coverage for every node. Each
// node is computed once from its already resolved parent, so the total work
// is linear in the number of folders.
func (t *tree) resolveAll() error {
	var chain []int
	for i := range t.nodes {
		chain = chain[:0]
		j := i
		for j != noNode && t.nodes[j].state == unresolved {
			t.nodes[j].state = visiting
			chain = append(chain, j)
			j = t.nodes[j].parent
		}
		if j != noNode && t.nodes[j].state == visiting {
			return fmt.Errorf("%w: folder %d is its own ancestor", common.ErrInternal, t.nodes[j].folder.ID)
		}
		for k := len(chain) - 1; k >= 0; k-- {
			t.derive(chain[k])
		}
	}
	return nil
}

func (t *tree) derive(i int) {
	n := &t.nodes[i]
	var parent *node
	if n.parent != noNode {
		parent = &t.nodes[n.parent]
	}

	n.inScope = t.scope == noNode || i == t.scope || (parent != nil && parent.inScope)
	n.blocked = n.excluded || (parent != nil && parent.blocked)
	n.covered = n.inScope && !n.blocked && (n.selected || (parent != nil && parent.covered))
	n.state = resolved
}

// coveredIDs returns the ids of all surviving folders in arena order.
func (t *tree) coveredIDs() []int64 {
	var ids []int64
	for _, n := range t.nodes {
		if n.covered {
			ids = append(ids, n.folder.ID)
		}
	}
	return ids
}

func (t *tree) folderInScope(folderID *int64) bool {
	if t.scope == noNode {
		return true
	}
	if folderID == nil {
		return false
	}
	i, ok := t.byID[*folderID]
	return ok && t.nodes[i].inScope
}
