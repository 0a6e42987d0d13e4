// Package bulkdownload resolves a multi-select of files and folders into an
// ordered list of archive members and streams them as one ZIP archive.
package bulkdownload

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filedrop/internal/common"
)

// Selection is a bulk download request expressed in external ids.
type Selection struct {
	FileIDs           []string
	ExcludedFileIDs   []string
	FolderIDs         []string
	ExcludedFolderIDs []string
	// ScopeFolderID restricts the selection to one folder subtree, as used
	// by shared boxes. Empty means the whole workspace.
	ScopeFolderID string
}

// Empty reports whether nothing is selected. Exclusions alone select nothing.
func (s Selection) Empty() bool {
	return len(s.FileIDs) == 0 && len(s.FolderIDs) == 0
}

// NotFound lists requested ids that did not resolve.
type NotFound struct {
	FileIDs   []string
	FolderIDs []string
}

func (n NotFound) Empty() bool {
	return len(n.FileIDs) == 0 && len(n.FolderIDs) == 0
}

// SelectionNotFoundError is returned when part of a selection did not
// resolve and partial archives are not allowed.
type SelectionNotFoundError struct {
	NotFound NotFound
}

func (e *SelectionNotFoundError) Error() string {
	var parts []string
	if len(e.NotFound.FileIDs) > 0 {
		parts = append(parts, "files "+strings.Join(e.NotFound.FileIDs, ","))
	}
	if len(e.NotFound.FolderIDs) > 0 {
		parts = append(parts, "folders "+strings.Join(e.NotFound.FolderIDs, ","))
	}
	return fmt.Sprintf("selection not found: %s", strings.Join(parts, "; "))
}

// Is makes the error match common.ErrNotFound.
func (e *SelectionNotFoundError) Is(target error) bool {
	return target == common.ErrNotFound
}
