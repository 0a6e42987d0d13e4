package workspaces

import (
	"context"

	"github.com/dmitrijs2005/filedrop/internal/server/models"
)

type Repository interface {
	GetByExternalID(ctx context.Context, externalID string) (*models.Workspace, error)
}
