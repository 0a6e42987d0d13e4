package grpc

import (
	"bufio"
	"context"
	"errors"
	"mime"
	"strconv"
	"time"

	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/dmitrijs2005/filedrop/internal/logging"
	pb "github.com/dmitrijs2005/filedrop/internal/proto"
	"github.com/dmitrijs2005/filedrop/internal/server/bulkdownload"
	"github.com/dmitrijs2005/filedrop/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Response metadata keys. gRPC owns content-type and content-length on the
// wire, so those travel under x- names.
const (
	HeaderContentType        = "x-content-type"
	HeaderContentLength      = "x-content-length"
	HeaderContentRange       = "x-content-range"
	HeaderContentDisposition = "content-disposition"

	TrailerNotFoundFiles   = "x-not-found-file-ids"
	TrailerNotFoundFolders = "x-not-found-folder-ids"
)

func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

type fileRequest interface {
	GetWorkspaceId() string
	GetFileId() string
}

func validateFileRequest(req fileRequest) error {
	if req.GetWorkspaceId() == "" {
		return status.Error(codes.InvalidArgument, "workspace_id is required")
	}
	if req.GetFileId() == "" {
		return status.Error(codes.InvalidArgument, "file_id is required")
	}
	return nil
}

func bytesRange(r *pb.ByteRange) *models.BytesRange {
	if r == nil {
		return nil
	}
	return &models.BytesRange{Start: r.GetStart(), Length: r.GetLength()}
}

func selection(req *pb.BulkDownloadRequest) bulkdownload.Selection {
	return bulkdownload.Selection{
		FileIDs:           req.GetFileIds(),
		ExcludedFileIDs:   req.GetExcludedFileIds(),
		FolderIDs:         req.GetFolderIds(),
		ExcludedFolderIDs: req.GetExcludedFolderIds(),
		ScopeFolderID:     req.GetScopeFolderId(),
	}
}

func (s *GRPCServer) DownloadFile(req *pb.DownloadFileRequest, stream pb.DownloadService_DownloadFileServer) error {
	ctx := stream.Context()

	if err := validateFileRequest(req); err != nil {
		return err
	}
	if err := authorize(ctx, req.WorkspaceId); err != nil {
		return err
	}

	log := s.logger.With("workspace", req.WorkspaceId, "file", req.FileId)

	d, err := s.files.Open(ctx, req.WorkspaceId, req.FileId, bytesRange(req.Range))
	if err != nil {
		return s.fail(ctx, log, "download", err)
	}

	md := metadata.Pairs(
		HeaderContentType, "application/octet-stream",
		HeaderContentLength, strconv.FormatInt(d.ContentLength(), 10),
		HeaderContentDisposition, attachment(d.File.Name),
	)
	if cr := d.ContentRange(); cr != "" {
		md.Set(HeaderContentRange, cr)
	}
	if err := stream.SendHeader(md); err != nil {
		return s.fail(ctx, log, "download", err)
	}

	w := bufio.NewWriterSize(&chunkSender{stream: stream, max: s.chunkSize}, s.chunkSize)
	err = s.files.Stream(ctx, d, w)
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		return s.fail(ctx, log, "download", err)
	}

	log.Info(ctx, "download completed", "bytes", d.ContentLength(), "range", d.ContentRange())
	return nil
}

func (s *GRPCServer) BulkDownload(req *pb.BulkDownloadRequest, stream pb.DownloadService_BulkDownloadServer) error {
	ctx := stream.Context()
	started := time.Now()

	if req.WorkspaceId == "" {
		return status.Error(codes.InvalidArgument, "workspace_id is required")
	}
	if err := authorize(ctx, req.WorkspaceId); err != nil {
		return err
	}

	log := s.logger.With("workspace", req.WorkspaceId)

	plan, err := s.bulk.Prepare(ctx, req.WorkspaceId, selection(req))
	if plan != nil && !plan.NotFound.Empty() {
		tr := metadata.MD{}
		if ids := plan.NotFound.FileIDs; len(ids) > 0 {
			tr.Append(TrailerNotFoundFiles, ids...)
		}
		if ids := plan.NotFound.FolderIDs; len(ids) > 0 {
			tr.Append(TrailerNotFoundFolders, ids...)
		}
		stream.SetTrailer(tr)
	}
	if err != nil {
		return s.fail(ctx, log, "bulk download", err)
	}

	md := metadata.Pairs(
		HeaderContentType, "application/zip",
		HeaderContentDisposition, attachment(bulkdownload.ArchiveName(started)),
	)
	if err := stream.SendHeader(md); err != nil {
		return s.fail(ctx, log, "bulk download", err)
	}

	w := bufio.NewWriterSize(&chunkSender{stream: stream, max: s.chunkSize}, s.chunkSize)
	err = s.bulk.Stream(ctx, plan, w)
	// An aborted archive still hands over its completed members.
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		return s.fail(ctx, log, "bulk download", err)
	}
	return nil
}

func (s *GRPCServer) DeleteFile(ctx context.Context, req *pb.DeleteFileRequest) (*pb.DeleteFileResponse, error) {
	if err := validateFileRequest(req); err != nil {
		return nil, err
	}
	if err := authorize(ctx, req.WorkspaceId); err != nil {
		return nil, err
	}

	log := s.logger.With("workspace", req.WorkspaceId, "file", req.FileId)
	if err := s.files.DeleteFile(ctx, req.WorkspaceId, req.FileId); err != nil {
		return nil, s.fail(ctx, log, "delete", err)
	}

	log.Info(ctx, "file deleted")
	return &pb.DeleteFileResponse{}, nil
}

func (s *GRPCServer) DirectLink(ctx context.Context, req *pb.DirectLinkRequest) (*pb.DirectLinkResponse, error) {
	if err := validateFileRequest(req); err != nil {
		return nil, err
	}
	if err := authorize(ctx, req.WorkspaceId); err != nil {
		return nil, err
	}

	link, err := s.files.DirectLink(ctx, req.WorkspaceId, req.FileId)
	if err != nil {
		log := s.logger.With("workspace", req.WorkspaceId, "file", req.FileId)
		return nil, s.fail(ctx, log, "direct link", err)
	}
	return &pb.DirectLinkResponse{Url: link}, nil
}

// fail logs err by severity and converts it to a status. A client that went
// away is not an error of the server.
func (s *GRPCServer) fail(ctx context.Context, log logging.Logger, op string, err error) error {
	switch {
	case common.IsCancellation(err) || ctx.Err() != nil || status.Code(err) == codes.Canceled:
		log.Info(ctx, op+" cancelled by client")
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return status.Error(codes.DeadlineExceeded, "deadline exceeded")
		}
		return status.Error(codes.Canceled, "cancelled")
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrFileNotFoundInStorage),
		errors.Is(err, common.ErrInvalidRange), errors.Is(err, common.ErrLinkUnavailable):
		log.Warn(ctx, op+" rejected", "error", err)
	default:
		log.Error(ctx, op+" failed", "error", err)
	}
	return toStatus(err)
}

// chunkSender turns writes into Chunk messages of at most max bytes.
// Send blocks while the client's flow-control window is full.
type chunkSender struct {
	stream interface{ Send(*pb.Chunk) error }
	max    int
}

func (c *chunkSender) Write(p []byte) (int, error) {
	n := 0
	for len(p) > 0 {
		k := min(len(p), c.max)
		if err := c.stream.Send(&pb.Chunk{Data: p[:k]}); err != nil {
			return n, err
		}
		n += k
		p = p[k:]
	}
	return n, nil
}
