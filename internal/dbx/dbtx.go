// Package dbx holds the database plumbing shared by the workspace, folder
// and file repositories. Repositories take a DBTX, so the same code reads
// through the pool or through a transaction; the bulk planner runs all of
// its lookups inside one read-only snapshot so the folder tree and the file
// list it resolves agree with each other.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is what a repository needs to run queries. *sql.DB satisfies it for
// single lookups and *sql.Tx for reads that must share a snapshot.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ReadOnlySnapshot returns options for a read-only REPEATABLE READ
// transaction. Every query in it sees the rows as of the first one, so a
// bulk selection is resolved against one version of the folder tree even
// while files are moved or deleted.
func ReadOnlySnapshot() *sql.TxOptions {
	return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
}

// WithTx runs fn inside a transaction begun with opts. It commits when fn
// returns nil and rolls back when fn fails or panics; a panic is rethrown.
// A nil opts gives the driver's default read-write transaction, which file
// deletion uses so the metadata row survives a failed object removal.
//
// Planning a bulk download against one snapshot:
//
//	err := dbx.WithTx(ctx, db, dbx.ReadOnlySnapshot(), func(ctx context.Context, tx dbx.DBTX) error {
//		ws, err := repos.Workspaces(tx).GetByExternalID(ctx, workspaceID)
//		if err != nil {
//			return err
//		}
//		store := bulkdownload.NewRepositoryStore(repos.Folders(tx), repos.Files(tx))
//		plan, err = bulkdownload.NewPlanner(store, logger).Plan(ctx, ws, sel)
//		return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
