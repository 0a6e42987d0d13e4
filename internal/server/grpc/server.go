// Package grpc exposes single-file and bulk downloads as server-streaming
// gRPC calls of DownloadService. Every data message is a Chunk; the
// stream's flow control is the download's backpressure.
package grpc

import (
	"context"
	"io"
	"net"

	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/dmitrijs2005/filedrop/internal/logging"
	pb "github.com/dmitrijs2005/filedrop/internal/proto"
	"github.com/dmitrijs2005/filedrop/internal/server/bulkdownload"
	"github.com/dmitrijs2005/filedrop/internal/server/models"
	"github.com/dmitrijs2005/filedrop/internal/server/services"
	"google.golang.org/grpc"
)

// FileService is the single-file download capability.
type FileService interface {
	Open(ctx context.Context, workspaceExternalID, fileExternalID string, r *models.BytesRange) (*services.FileDownload, error)
	Stream(ctx context.Context, d *services.FileDownload, dst io.Writer) error
	DirectLink(ctx context.Context, workspaceExternalID, fileExternalID string) (string, error)
	DeleteFile(ctx context.Context, workspaceExternalID, fileExternalID string) error
}

// BulkService plans and streams archives.
type BulkService interface {
	Prepare(ctx context.Context, workspaceExternalID string, sel bulkdownload.Selection) (*bulkdownload.Plan, error)
	Stream(ctx context.Context, plan *bulkdownload.Plan, dst io.Writer) error
}

type GRPCServer struct {
	pb.UnimplementedDownloadServiceServer
	address   string
	files     FileService
	bulk      BulkService
	logger    logging.Logger
	jwtSecret []byte
	chunkSize int
}

func NewGRPCServer(a string, l logging.Logger, fs FileService, bs BulkService, secretKey string, chunkSize int) *GRPCServer {
	if chunkSize <= 0 {
		chunkSize = common.DefaultStreamChunkSize
	}
	return &GRPCServer{
		address:   a,
		logger:    logging.OrNop(l).With("module", "grpc_server"),
		files:     fs,
		bulk:      bs,
		jwtSecret: []byte(secretKey),
		chunkSize: chunkSize,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.accessTokenInterceptor),
		grpc.ChainStreamInterceptor(s.streamAccessTokenInterceptor),
	)
	pb.RegisterDownloadServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
