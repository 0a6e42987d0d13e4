package workspaces

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/dmitrijs2005/filedrop/internal/dbx"
	"github.com/dmitrijs2005/filedrop/internal/server/models"
)

// PostgresRepository reads workspaces over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByExternalID returns common.ErrNotFound when no workspace matches.
func (r *PostgresRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Workspace, error) {
	query := `SELECT id, external_id, name, storage_name, bucket_name FROM workspaces WHERE external_id=$1`

	ws := &models.Workspace{}
	err := r.db.QueryRowContext(ctx, query, externalID).Scan(&ws.ID, &ws.ExternalID, &ws.Name, &ws.StorageName, &ws.BucketName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workspace %s: %w", externalID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select workspace: %w", err)
	}
	return ws, nil
}
