package grpc

import (
	"context"
	"errors"
	"io"

	"github.com/dmitrijs2005/filedrop/internal/common"
	pb "github.com/dmitrijs2005/filedrop/internal/proto"
	"github.com/dmitrijs2005/filedrop/internal/server/bulkdownload"
	"github.com/dmitrijs2005/filedrop/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// Client calls the download service over an existing connection.
type Client struct {
	client pb.DownloadServiceClient
	token  string
}

func NewClient(cc grpc.ClientConnInterface, accessToken string) *Client {
	return &Client{client: pb.NewDownloadServiceClient(cc), token: accessToken}
}

func (c *Client) outgoing(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, c.token)
}

// Response carries the metadata of a finished download.
type Response struct {
	Header  metadata.MD
	Trailer metadata.MD
	Bytes   int64
}

// DownloadFile copies the file, or the range r of it, into dst.
func (c *Client) DownloadFile(ctx context.Context, workspaceID, fileID string, r *models.BytesRange, dst io.Writer) (*Response, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req := &pb.DownloadFileRequest{WorkspaceId: workspaceID, FileId: fileID}
	if r != nil {
		req.Range = &pb.ByteRange{Start: r.Start, Length: r.Length}
	}

	stream, err := c.client.DownloadFile(c.outgoing(ctx), req)
	if err != nil {
		return nil, err
	}
	return receive(stream, dst)
}

// BulkDownload copies the ZIP archive of the selection into dst.
func (c *Client) BulkDownload(ctx context.Context, workspaceID string, sel bulkdownload.Selection, dst io.Writer) (*Response, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.client.BulkDownload(c.outgoing(ctx), &pb.BulkDownloadRequest{
		WorkspaceId:       workspaceID,
		FileIds:           sel.FileIDs,
		ExcludedFileIds:   sel.ExcludedFileIDs,
		FolderIds:         sel.FolderIDs,
		ExcludedFolderIds: sel.ExcludedFolderIDs,
		ScopeFolderId:     sel.ScopeFolderID,
	})
	if err != nil {
		return nil, err
	}
	return receive(stream, dst)
}

func (c *Client) DeleteFile(ctx context.Context, workspaceID, fileID string) error {
	_, err := c.client.DeleteFile(c.outgoing(ctx), &pb.DeleteFileRequest{WorkspaceId: workspaceID, FileId: fileID})
	return err
}

func (c *Client) DirectLink(ctx context.Context, workspaceID, fileID string) (string, error) {
	resp, err := c.client.DirectLink(c.outgoing(ctx), &pb.DirectLinkRequest{WorkspaceId: workspaceID, FileId: fileID})
	if err != nil {
		return "", err
	}
	return resp.GetUrl(), nil
}

// receive copies chunks into dst until the stream ends. The response is
// returned with the error too, so trailers of a failed call stay visible.
func receive(stream grpc.ServerStreamingClient[pb.Chunk], dst io.Writer) (*Response, error) {
	resp := &Response{}
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			resp.Header, _ = stream.Header()
			resp.Trailer = stream.Trailer()
			return resp, err
		}
		n, err := dst.Write(chunk.GetData())
		resp.Bytes += int64(n)
		if err != nil {
			return resp, err
		}
	}

	resp.Header, _ = stream.Header()
	resp.Trailer = stream.Trailer()
	return resp, nil
}
