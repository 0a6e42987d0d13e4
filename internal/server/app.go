// Package server initializes and runs the download server. It opens the
// metadata database, applies migrations, registers the configured storages
// and serves the gRPC endpoint until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/filedrop/internal/cryptox"
	"github.com/dmitrijs2005/filedrop/internal/filex"
	"github.com/dmitrijs2005/filedrop/internal/logging"
	"github.com/dmitrijs2005/filedrop/internal/server/bulkdownload"
	"github.com/dmitrijs2005/filedrop/internal/server/config"
	"github.com/dmitrijs2005/filedrop/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filedrop/internal/server/services"
	"github.com/dmitrijs2005/filedrop/internal/server/storage"
	"github.com/dmitrijs2005/filedrop/internal/server/storage/localfs"
	"github.com/dmitrijs2005/filedrop/internal/server/storage/s3store"
	"github.com/dmitrijs2005/filedrop/internal/zipstream"

	gs "github.com/dmitrijs2005/filedrop/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	files    *services.DownloadService
	bulk     *bulkdownload.Service
	storages *storage.Registry
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	method, err := zipstream.ParseMethod(c.BulkCompression)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	master, err := c.MasterKeyBytes()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	keys, err := cryptox.NewKeyring(master)
	cryptox.WipeByteArray(master)
	if err != nil {
		return nil, fmt.Errorf("keyring init error: %w", err)
	}

	db, err := sqlOpen("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	registry := storage.NewRegistry()

	root, err := filex.EnsureDir(c.LocalStorageRoot)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("local storage init error: %w", err)
	}
	registry.Register(storage.NameLocal,
		storage.NewDownloader(storage.NameLocal, localfs.New(root), keys, c.StreamChunkSize, logger))

	s3c, err := s3store.NewClient(ctx, s3store.ClientConfig{
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		UsePathStyle: c.S3UsePathStyle,
		RetryMax:     c.S3RetryMax,
		RetryWaitMax: c.S3RetryWaitMax,
	}, logger.Slog().With("component", "s3"))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("s3 init error: %w", err)
	}
	registry.Register(storage.NameS3,
		storage.NewDownloader(storage.NameS3, s3store.New(s3c, logger), keys, c.StreamChunkSize, logger))

	fs := services.NewDownloadService(db, rm, registry, logger)
	fs.RegisterLinker(storage.NameS3, s3store.NewPresigner(s3c), c.DirectLinkTTL)

	bs := bulkdownload.NewService(db, rm, registry, bulkdownload.Options{
		Method:       method,
		AllowPartial: c.AllowPartialBulk,
		ChunkSize:    bulkdownload.DefaultChunkSize,
	}, logger)

	return &App{config: c, logger: logger, db: db, files: fs, bulk: bs, storages: registry}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.files, app.bulk, app.config.SecretKey, app.config.StreamChunkSize)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storages", app.storages.Names(), "address", app.config.EndpointAddrGRPC)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
