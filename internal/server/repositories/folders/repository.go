package folders

import (
	"context"

	"github.com/dmitrijs2005/filedrop/internal/server/models"
)

type Repository interface {
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]*models.Folder, error)
}
