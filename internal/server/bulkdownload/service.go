package bulkdownload

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
	"github.com/dmitrijs2005/filedrop/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filedrop/internal/server/storage"
	"github.com/dmitrijs2005/filedrop/internal/zipstream"
)

// Options configures a Service.
type Options struct {
	Method zipstream.Method
	// AllowPartial lets a selection with unresolved ids still produce an
	// archive of what did resolve.
	AllowPartial bool
	ChunkSize    int
}

// Service plans bulk downloads inside one read-only snapshot and streams
// the resulting archive.
type Service struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	storages *storage.Registry
	opts     Options
	logger   logging.Logger
	now      func() time.Time
}

func NewService(db *sql.DB, repos repomanager.RepositoryManager, storages *storage.Registry, opts Options, logger logging.Logger) *Service {
	return &Service{
		db:       db,
		repos:    repos,
		storages: storages,
		opts:     opts,
		logger:   logging.OrNop(logger).With("module", "bulkdownload"),
		now:      time.Now,
	}
}

// Prepare resolves the workspace and the selection. When ids did not resolve
// and partial archives are not allowed it returns the plan together with a
// *SelectionNotFoundError.
func (s *Service) Prepare(ctx context.Context, workspaceExternalID string, sel Selection) (*Plan, error) {
	var plan *Plan
	err := dbx.WithTx(ctx, s.db, dbx.ReadOnlySnapshot(), func(ctx context.Context, tx dbx.DBTX) error {
		ws, err := s.repos.Workspaces(tx).GetByExternalID(ctx, workspaceExternalID)
		if err != nil {
			return err
		}
		store := NewRepositoryStore(s.repos.Folders(tx), s.repos.Files(tx))
		plan, err = NewPlanner(store, s.logger, WithChunkSize(s.opts.ChunkSize)).Plan(ctx, ws, sel)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !plan.NotFound.Empty() && !s.opts.AllowPartial {
		return plan, &SelectionNotFoundError{NotFound: plan.NotFound}
	}
	return plan, nil
}

// Stream writes plan as one ZIP archive to dst. Directory entries come
// first, then the files in plan order. The first failing member aborts the
// archive; dst then holds complete members only and no central directory.
func (s *Service) Stream(ctx context.Context, plan *Plan, dst io.Writer) error {
	backend, err := s.storages.ForWorkspace(plan.Workspace)
	if err != nil {
		return err
	}

	log := s.logger.With("workspace", plan.Workspace.ExternalID)
	z := zipstream.NewWriter(dst, zipstream.WithMethod(s.opts.Method))
	modified := s.now()

	for _, dir := range plan.Folders.Paths() {
		if err := z.AddDirectory(dir, modified); err != nil {
			return s.fail(ctx, log, z, err)
		}
	}

	for _, m := range plan.Files {
		if err := ctx.Err(); err != nil {
			return s.fail(ctx, log, z, z.Abort(err))
		}
		obj := storage.ObjectFromFile(m.File, plan.Workspace.BucketName)
		hdr := zipstream.FileHeader{Name: m.Path, Size: m.File.SizeInBytes, Modified: m.File.CreatedAt}
		log.Debug(ctx, "archive member", "path", m.Path, "file", m.File.ExternalID, "state", z.State().String())

		err := z.AddFile(hdr, func(w io.Writer) error {
			return backend.DownloadFull(ctx, obj, w)
		})
		if err != nil {
			return s.fail(ctx, log, z, fmt.Errorf("member %s: %w", m.Path, err))
		}
	}

	if err := z.Close(); err != nil {
		return s.fail(ctx, log, z, err)
	}
	log.Info(ctx, "bulk download completed", "members", z.Entries(), "bytes", z.Written())
	return nil
}

// Download prepares and streams in one call.
func (s *Service) Download(ctx context.Context, workspaceExternalID string, sel Selection, dst io.Writer) (*Plan, error) {
	plan, err := s.Prepare(ctx, workspaceExternalID, sel)
	if err != nil {
		return plan, err
	}
	return plan, s.Stream(ctx, plan, dst)
}

// ArchiveName returns the attachment file name for an archive started at t.
func ArchiveName(t time.Time) string {
	return "files-" + t.UTC().Format("20060102T150405Z") + ".zip"
}

func (s *Service) fail(ctx context.Context, log logging.Logger, z *zipstream.Writer, err error) error {
	z.Abort(err)
	args := []any{"members", z.Entries(), "bytes", z.Written(), "error", err}
	switch {
	case common.IsCancellation(err):
		log.Info(ctx, "bulk download cancelled by client", args...)
	case errors.Is(err, common.ErrFileNotFoundInStorage):
		log.Warn(ctx, "bulk download aborted", args...)
	default:
		log.Error(ctx, "bulk download aborted", args...)
	}
	return err
}
