// Package services contains server-side business logic. This file implements
// DownloadService, which resolves a single file and streams it from the
// storage its workspace is configured with.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/dmitrijs2005/filedrop/internal/dbx"
	"github.com/dmitrijs2005/filedrop/internal/logging"
	"github.com/dmitrijs2005/filedrop/internal/server/models"
	"github.com/dmitrijs2005/filedrop/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filedrop/internal/server/storage"
)

// Linker issues direct links to plaintext objects of one storage.
type Linker interface {
	PresignGet(ctx context.Context, bucket, key, filename string, ttl time.Duration) (string, error)
}

// FileDownload is a resolved single-file request. Range is nil for a full
// download.
type FileDownload struct {
	Workspace *models.Workspace
	File      *models.File
	Range     *models.BytesRange

	backend storage.Backend
	object  storage.Object
}

// ContentLength is the number of bytes the download emits.
func (d *FileDownload) ContentLength() int64 {
	if d.Range != nil {
		return d.Range.Length
	}
	return d.File.SizeInBytes
}

// ContentRange returns the Content-Range value of a ranged download, or ""
// for a full one.
func (d *FileDownload) ContentRange() string {
	if d.Range == nil {
		return ""
	}
	return d.Range.ContentRange(d.File.SizeInBytes)
}

type DownloadService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	storages *storage.Registry
	linkers  map[string]Linker
	linkTTL  time.Duration
	logger   logging.Logger
}

func NewDownloadService(db *sql.DB, repos repomanager.RepositoryManager, storages *storage.Registry, logger logging.Logger) *DownloadService {
	return &DownloadService{
		db:       db,
		repos:    repos,
		storages: storages,
		linkers:  make(map[string]Linker),
		linkTTL:  15 * time.Minute,
		logger:   logging.OrNop(logger).With("module", "services"),
	}
}

// RegisterLinker enables direct links for the named storage.
func (s *DownloadService) RegisterLinker(storageName string, l Linker, ttl time.Duration) {
	s.linkers[storageName] = l
	if ttl > 0 {
		s.linkTTL = ttl
	}
}

func (s *DownloadService) lookup(ctx context.Context, db dbx.DBTX, workspaceExternalID, fileExternalID string) (*models.Workspace, *models.File, error) {
	ws, err := s.repos.Workspaces(db).GetByExternalID(ctx, workspaceExternalID)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.repos.Files(db).GetByExternalID(ctx, ws.ID, fileExternalID)
	if err != nil {
		return nil, nil, err
	}
	return ws, f, nil
}

// Open resolves the file and validates r against its size. A nil r means
// the whole file.
func (s *DownloadService) Open(ctx context.Context, workspaceExternalID, fileExternalID string, r *models.BytesRange) (*FileDownload, error) {
	ws, f, err := s.lookup(ctx, s.db, workspaceExternalID, fileExternalID)
	if err != nil {
		return nil, err
	}
	if r != nil {
		if err := r.Validate(f.SizeInBytes); err != nil {
			return nil, err
		}
	}
	backend, err := s.storages.ForWorkspace(ws)
	if err != nil {
		return nil, err
	}
	return &FileDownload{
		Workspace: ws,
		File:      f,
		Range:     r,
		backend:   backend,
		object:    storage.ObjectFromFile(f, ws.BucketName),
	}, nil
}

// Stream writes the download to dst.
func (s *DownloadService) Stream(ctx context.Context, d *FileDownload, dst io.Writer) error {
	if d.Range != nil {
		return d.backend.DownloadRange(ctx, d.object, *d.Range, dst)
	}
	return d.backend.DownloadFull(ctx, d.object, dst)
}

// DirectLink returns a presigned URL for a plaintext object on a storage that
// supports links. Managed-encrypted objects never get one.
func (s *DownloadService) DirectLink(ctx context.Context, workspaceExternalID, fileExternalID string) (string, error) {
	ws, f, err := s.lookup(ctx, s.db, workspaceExternalID, fileExternalID)
	if err != nil {
		return "", err
	}
	l, ok := s.linkers[ws.StorageName]
	if !ok || f.Encryption.Type != models.EncryptionNone {
		return "", fmt.Errorf("%w: file %s on %s storage", common.ErrLinkUnavailable, f.ExternalID, ws.StorageName)
	}
	return l.PresignGet(ctx, ws.BucketName, f.StorageKey().String(), f.Name, s.linkTTL)
}

// DeleteFile removes the physical object and then the metadata row. An
// object that is already gone does not block removing the row.
func (s *DownloadService) DeleteFile(ctx context.Context, workspaceExternalID, fileExternalID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		ws, f, err := s.lookup(ctx, tx, workspaceExternalID, fileExternalID)
		if err != nil {
			return err
		}
		backend, err := s.storages.ForWorkspace(ws)
		if err != nil {
			return err
		}

		err = backend.DeleteObject(ctx, f.StorageKey(), ws.BucketName)
		if errors.Is(err, common.ErrFileNotFoundInStorage) {
			s.logger.Warn(ctx, "object already missing", "workspace", ws.ExternalID, "file", f.ExternalID)
		} else if err != nil {
			return err
		}

		if err := s.repos.Files(tx).Delete(ctx, ws.ID, f.ID); err != nil {
			return fmt.Errorf("error deleting file: %w", err)
		}
		return nil
	})
}
