package bulkdownload

import (
	"context"

	"github.com/dmitrijs2005/filedrop/internal/server/models"
	"github.com/dmitrijs2005/filedrop/internal/server/repositories/files"
	"github.com/dmitrijs2005/filedrop/internal/server/repositories/folders"
)

// Store is the metadata the planner reads.
type Store interface {
	ListFolders(ctx context.Context, workspaceID int64) ([]*models.Folder, error)
	ListFilesInFolders(ctx context.Context, workspaceID int64, folderIDs []int64) ([]*models.File, error)
	GetFilesByExternalIDs(ctx context.Context, workspaceID int64, externalIDs []string) ([]*models.File, error)
}

type repositoryStore struct {
	folders folders.Repository
	files   files.Repository
}

// NewRepositoryStore adapts the folder and file repositories to Store.
func NewRepositoryStore(fo folders.Repository, fi files.Repository) Store {
	return &repositoryStore{folders: fo, files: fi}
}

func (s *repositoryStore) ListFolders(ctx context.Context, workspaceID int64) ([]*models.Folder, error) {
	return s.folders.ListByWorkspace(ctx, workspaceID)
}

func (s *repositoryStore) ListFilesInFolders(ctx context.Context, workspaceID int64, folderIDs []int64) ([]*models.File, error) {
	return s.files.ListInFolders(ctx, workspaceID, folderIDs)
}

func (s *repositoryStore) GetFilesByExternalIDs(ctx context.Context, workspaceID int64, externalIDs []string) ([]*models.File, error) {
	return s.files.GetByExternalIDs(ctx, workspaceID, externalIDs)
}
