package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/filedrop/internal/dbx"
	"github.com/dmitrijs2005/filedrop/internal/server/repositories/files"
	"github.com/dmitrijs2005/filedrop/internal/server/repositories/folders"
	"github.com/dmitrijs2005/filedrop/internal/server/repositories/workspaces"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Workspaces(db dbx.DBTX) workspaces.Repository
	Folders(db dbx.DBTX) folders.Repository
	Files(db dbx.DBTX) files.Repository
}
