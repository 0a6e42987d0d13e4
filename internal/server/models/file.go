package models

import "time"

// EncryptionType describes how an object is stored physically.
type EncryptionType int16

const (
	// EncryptionNone means the object bytes are the plaintext.
	EncryptionNone EncryptionType = 0
	// EncryptionManaged means the object uses the segmented AEAD layout.
	EncryptionManaged EncryptionType = 1
)

func (t EncryptionType) String() string {
	switch t {
	case EncryptionNone:
		return "none"
	case EncryptionManaged:
		return "managed"
	default:
		return "unknown"
	}
}

// EncryptionMetadata is written once when an upload completes and is
// immutable afterwards.
type EncryptionMetadata struct {
	Type EncryptionType
	// SegmentSize is the size of one ciphertext segment including its tag.
	// The first segment also carries the header.
	SegmentSize int32
	TagSize     int32
	HeaderSize  int32
	// KeyReference identifies the key material for the file.
	KeyReference string
}

// File describes server-side metadata for a stored object.
type File struct {
	ID         int64
	ExternalID string
	// SecretPart is the unguessable suffix of the physical object name.
	SecretPart  string
	WorkspaceID int64
	// FolderID is nil for files at the workspace root.
	FolderID    *int64
	Name        string
	SizeInBytes int64
	Encryption  EncryptionMetadata
	CreatedAt   time.Time
}

// StorageKey returns the physical object name of the file.
func (f *File) StorageKey() S3FileKey {
	return S3FileKey{FileExternalID: f.ExternalID, SecretPart: f.SecretPart}
}
