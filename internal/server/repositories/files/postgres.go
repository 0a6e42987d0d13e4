package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/dmitrijs2005/filedrop/internal/dbx"
	"github.com/dmitrijs2005/filedrop/internal/server/models"
)

const fileColumns = `id, external_id, workspace_id, folder_id, name, size_bytes, s3_key_secret_part,
	encryption_type, segment_size, tag_size, header_size, key_reference, created_at`

// PostgresRepository reads file metadata over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner) (*models.File, error) {
	var (
		f      models.File
		folder sql.NullInt64
	)
	err := s.Scan(&f.ID, &f.ExternalID, &f.WorkspaceID, &folder, &f.Name, &f.SizeInBytes, &f.SecretPart,
		&f.Encryption.Type, &f.Encryption.SegmentSize, &f.Encryption.TagSize, &f.Encryption.HeaderSize,
		&f.Encryption.KeyReference, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	if folder.Valid {
		id := folder.Int64
		f.FolderID = &id
	}
	return &f, nil
}

// GetByExternalID returns common.ErrNotFound when the workspace has no such file.
func (r *PostgresRepository) GetByExternalID(ctx context.Context, workspaceID int64, externalID string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE workspace_id=$1 AND external_id=$2`

	f, err := scanFile(r.db.QueryRowContext(ctx, query, workspaceID, externalID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("file %s: %w", externalID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select file: %w", err)
	}
	return f, nil
}

// GetByExternalIDs returns the files that exist among externalIDs. Missing
// ids are simply absent from the result.
func (r *PostgresRepository) GetByExternalIDs(ctx context.Context, workspaceID int64, externalIDs []string) ([]*models.File, error) {
	if len(externalIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(externalIDs)+1)
	args = append(args, workspaceID)
	for _, id := range externalIDs {
		args = append(args, id)
	}
	query := `SELECT ` + fileColumns + ` FROM files WHERE workspace_id=$1 AND external_id IN (` +
		dbx.Placeholders(2, len(externalIDs)) + `) ORDER BY id`

	return r.list(ctx, query, args...)
}

// ListInFolders returns all files located directly in any of folderIDs.
func (r *PostgresRepository) ListInFolders(ctx context.Context, workspaceID int64, folderIDs []int64) ([]*models.File, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(folderIDs)+1)
	args = append(args, workspaceID)
	for _, id := range folderIDs {
		args = append(args, id)
	}
	query := `SELECT ` + fileColumns + ` FROM files WHERE workspace_id=$1 AND folder_id IN (` +
		dbx.Placeholders(2, len(folderIDs)) + `) ORDER BY id`

	return r.list(ctx, query, args...)
}

// Delete removes one file row. Exactly one row must be affected.
func (r *PostgresRepository) Delete(ctx context.Context, workspaceID, id int64) error {
	query := `DELETE FROM files WHERE workspace_id=$1 AND id=$2`
	result, err := r.db.ExecContext(ctx, query, workspaceID, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("file %d: %w", id, common.ErrNotFound)
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.File, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
