package files

import (
	"context"

	"github.com/dmitrijs2005/filedrop/internal/server/models"
)

type Repository interface {
	GetByExternalID(ctx context.Context, workspaceID int64, externalID string) (*models.File, error)
	GetByExternalIDs(ctx context.Context, workspaceID int64, externalIDs []string) ([]*models.File, error)
	ListInFolders(ctx context.Context, workspaceID int64, folderIDs []int64) ([]*models.File, error)
	Delete(ctx context.Context, workspaceID, id int64) error
}
