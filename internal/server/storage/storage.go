// Package storage streams stored objects out of a physical backend. Both
// backends share one Downloader that owns the range arithmetic, decryption
// and trimming; a backend only has to open a physical byte range.
package storage

import (
	"context"
	"io"

	"github.com/dmitrijs2005/filedrop/internal/server/models"
)

// Object identifies one stored file and how to read it.
type Object struct {
	Key    models.S3FileKey
	Bucket string
	// Size is the plaintext size in bytes.
	Size       int64
	Encryption models.EncryptionMetadata
}

// ObjectFromFile builds an Object for a file of the given workspace.
func ObjectFromFile(f *models.File, bucket string) Object {
	return Object{
		Key:        f.StorageKey(),
		Bucket:     bucket,
		Size:       f.SizeInBytes,
		Encryption: f.Encryption,
	}
}

// Backend is the download capability of one configured storage. Writes to
// dst may block while the consumer applies flow control.
type Backend interface {
	// DownloadFull writes exactly obj.Size plaintext bytes to dst.
	DownloadFull(ctx context.Context, obj Object, dst io.Writer) error
	// DownloadRange writes exactly r.Length plaintext bytes starting at r.Start.
	DownloadRange(ctx context.Context, obj Object, r models.BytesRange, dst io.Writer) error
	DeleteObject(ctx context.Context, key models.S3FileKey, bucket string) error
}

// ObjectSource opens physical byte ranges of stored objects.
type ObjectSource interface {
	// OpenRange returns a reader over [offset, offset+length) of the object.
	// length may be zero, in which case the source still reports a missing
	// object with common.ErrFileNotFoundInStorage.
	OpenRange(ctx context.Context, bucket, key string, offset, length int64) (io.ReadCloser, error)
	Delete(ctx context.Context, bucket, key string) error
}
