package models

// Folder is a row of the folder tree. ParentID is nil for top-level folders.
type Folder struct {
	ID          int64
	ExternalID  string
	WorkspaceID int64
	ParentID    *int64
	Name        string
}
