package folders

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/filedrop/internal/dbx"
	"github.com/dmitrijs2005/filedrop/internal/server/models"
)

// PostgresRepository reads the folder tree over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByWorkspace returns every folder of the workspace ordered by id.
func (r *PostgresRepository) ListByWorkspace(ctx context.Context, workspaceID int64) ([]*models.Folder, error) {
	query := `SELECT id, external_id, workspace_id, parent_id, name FROM folders
		WHERE workspace_id=$1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to select folders: %w", err)
	}
	defer rows.Close()

	var result []*models.Folder
	for rows.Next() {
		var (
			item   models.Folder
			parent sql.NullInt64
		)
		if err := rows.Scan(&item.ID, &item.ExternalID, &item.WorkspaceID, &parent, &item.Name); err != nil {
			return nil, err
		}
		if parent.Valid {
			p := parent.Int64
			item.ParentID = &p
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
