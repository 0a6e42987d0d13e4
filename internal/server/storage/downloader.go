package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/dmitrijs2005/filedrop/internal/cryptox"
	"github.com/dmitrijs2005/filedrop/internal/logging"
	"github.com/dmitrijs2005/filedrop/internal/server/models"
)

// Downloader implements Backend on top of an ObjectSource.
type Downloader struct {
	name   string
	source ObjectSource
	keys   cryptox.KeyProvider
	bufs   *bufferPool
	logger logging.Logger
}

// NewDownloader returns a Backend named name. keys may be nil when no object
// of this storage is managed-encrypted.
func NewDownloader(name string, source ObjectSource, keys cryptox.KeyProvider, chunkSize int, logger logging.Logger) *Downloader {
	if chunkSize <= 0 {
		chunkSize = common.DefaultStreamChunkSize
	}
	return &Downloader{
		name:   name,
		source: source,
		keys:   keys,
		bufs:   newBufferPool(chunkSize),
		logger: logging.OrNop(logger).With("module", "storage", "storage", name),
	}
}

func (d *Downloader) DownloadFull(ctx context.Context, obj Object, dst io.Writer) error {
	err := d.downloadFull(ctx, obj, dst)
	return d.report(ctx, "full", obj, err)
}

func (d *Downloader) DownloadRange(ctx context.Context, obj Object, r models.BytesRange, dst io.Writer) error {
	if err := r.Validate(obj.Size); err != nil {
		return err
	}
	err := d.downloadRange(ctx, obj, r, dst)
	return d.report(ctx, "range", obj, err)
}

func (d *Downloader) DeleteObject(ctx context.Context, key models.S3FileKey, bucket string) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if err := d.source.Delete(ctx, bucket, key.String()); err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, key, err)
	}
	d.logger.Info(ctx, "object deleted", "bucket", bucket, "key", key.String())
	return nil
}

func (d *Downloader) downloadFull(ctx context.Context, obj Object, dst io.Writer) error {
	switch obj.Encryption.Type {
	case models.EncryptionNone:
		return d.copyPlain(ctx, obj, 0, obj.Size, dst)

	case models.EncryptionManaged:
		codec, err := d.codec(ctx, obj.Encryption)
		if err != nil {
			return err
		}
		l := codec.Layout()
		body, err := d.open(ctx, obj, l.HeaderSize, l.CiphertextSize(obj.Size)-l.HeaderSize)
		if err != nil {
			return err
		}
		defer body.Close()
		return codec.DecryptFull(ctx, dst, body, obj.Size)

	default:
		return fmt.Errorf("%w: %d", common.ErrUnsupportedEncryptionType, obj.Encryption.Type)
	}
}

func (d *Downloader) downloadRange(ctx context.Context, obj Object, r models.BytesRange, dst io.Writer) error {
	switch obj.Encryption.Type {
	case models.EncryptionNone:
		return d.copyPlain(ctx, obj, r.Start, r.Length, dst)

	case models.EncryptionManaged:
		codec, err := d.codec(ctx, obj.Encryption)
		if err != nil {
			return err
		}
		pr, err := codec.Layout().EncryptedRange(r.Start, r.Length, obj.Size)
		if err != nil {
			return err
		}
		body, err := d.open(ctx, obj, pr.Start, pr.Length)
		if err != nil {
			return err
		}
		defer body.Close()
		return codec.DecryptRange(ctx, dst, body, r.Start, r.Length, obj.Size)

	default:
		return fmt.Errorf("%w: %d", common.ErrUnsupportedEncryptionType, obj.Encryption.Type)
	}
}

func (d *Downloader) codec(ctx context.Context, meta models.EncryptionMetadata) (*cryptox.Codec, error) {
	if d.keys == nil {
		return nil, fmt.Errorf("%w: no key provider configured for storage %q", common.ErrUnsupportedEncryptionType, d.name)
	}
	layout, err := cryptox.LayoutFromSegmentSize(int64(meta.SegmentSize), int64(meta.HeaderSize), int64(meta.TagSize))
	if err != nil {
		return nil, err
	}

	key, err := d.keys.FileKey(ctx, meta.KeyReference)
	if err != nil {
		return nil, fmt.Errorf("resolve file key: %w", err)
	}
	defer key.Wipe()

	return cryptox.NewCodec(layout, key)
}

func (d *Downloader) open(ctx context.Context, obj Object, offset, length int64) (io.ReadCloser, error) {
	body, err := d.source.OpenRange(ctx, obj.Bucket, obj.Key.String(), offset, length)
	if err != nil {
		return nil, err
	}
	return &ctxReader{ctx: ctx, r: body}, nil
}

func (d *Downloader) copyPlain(ctx context.Context, obj Object, offset, length int64, dst io.Writer) error {
	body, err := d.open(ctx, obj, offset, length)
	if err != nil {
		return err
	}
	defer body.Close()

	buf := d.bufs.get()
	defer d.bufs.put(buf)

	n, err := io.CopyBuffer(dst, io.LimitReader(body, length), *buf)
	if err != nil {
		return err
	}
	if n != length {
		return fmt.Errorf("object %s: got %d of %d bytes: %w", obj.Key, n, length, io.ErrUnexpectedEOF)
	}
	return nil
}

func (d *Downloader) report(ctx context.Context, kind string, obj Object, err error) error {
	if err == nil {
		return nil
	}

	args := []any{"kind", kind, "bucket", obj.Bucket, "key", obj.Key.String(), "error", err}
	switch {
	case common.IsCancellation(err):
		d.logger.Info(ctx, "download cancelled by client", args...)
	case errors.Is(err, common.ErrFileNotFoundInStorage):
		d.logger.Warn(ctx, "object not found in storage", args...)
	default:
		d.logger.Error(ctx, "download failed", args...)
	}
	return err
}

// ctxReader fails the next Read once ctx is done, so a copy loop stops at
// the next chunk boundary.
type ctxReader struct {
	ctx context.Context
	r   io.ReadCloser
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func (c *ctxReader) Close() error { return c.r.Close() }
