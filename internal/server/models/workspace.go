// Package models defines server-side data models persisted in the metadata
// store and exchanged between the storage core and its collaborators.
package models

// Workspace is the unit of storage scoping. Its files live in one bucket of
// one configured storage.
type Workspace struct {
	ID         int64
	ExternalID string
	Name       string
	// StorageName selects the configured backend ("local", "s3", ...).
	StorageName string
	// BucketName is the bucket (or directory under the local root) holding
	// the workspace objects.
	BucketName string
}
