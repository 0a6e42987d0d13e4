// Package localfs serves objects from a directory tree on local disk. A
// bucket is a directory directly under the root and an object is a file in it.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/filedrop/internal/common"
)

type Source struct {
	root string
}

func New(root string) *Source {
	return &Source{root: root}
}

func (s *Source) path(bucket, key string) (string, error) {
	for _, part := range []string{bucket, key} {
		if part == "" || !filepath.IsLocal(part) || strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("%w: %q", common.ErrInvalidFileKey, part)
		}
	}
	return filepath.Join(s.root, bucket, key), nil
}

// OpenRange opens the object file, seeks to offset and limits reads to length.
func (s *Source) OpenRange(ctx context.Context, bucket, key string, offset, length int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(bucket, key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, mapErr(err)
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("seek %s to %d: %w", key, offset, err)
	}

	return &limitedFile{Reader: io.LimitReader(f, length), f: f}, nil
}

func (s *Source) Delete(ctx context.Context, bucket, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(bucket, key)
	if err != nil {
		return err
	}
	return mapErr(os.Remove(p))
}

// Put stores r as a new object, replacing any existing one. The write goes
// through a temporary file so readers never see a partial object.
func (s *Source) Put(ctx context.Context, bucket, key string, r io.Reader) (int64, error) {
	p, err := s.path(bucket, key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r})
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, err
	}
	return n, os.Rename(tmp.Name(), p)
}

func mapErr(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", common.ErrFileNotFoundInStorage, err)
	}
	return err
}

type limitedFile struct {
	io.Reader
	f *os.File
}

func (l *limitedFile) Close() error { return l.f.Close() }

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
