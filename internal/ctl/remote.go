package ctl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filedrop/internal/netx"
	"github.com/dmitrijs2005/filedrop/internal/server/bulkdownload"
	"github.com/dmitrijs2005/filedrop/internal/server/models"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	gs "github.com/dmitrijs2005/filedrop/internal/server/grpc"
)

type remoteFlags struct {
	addr      string
	token     string
	workspace string
}

func (r *remoteFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.addr, "addr", "localhost:50051", "Server address")
	cmd.Flags().StringVar(&r.token, "token", "", "Access token")
	cmd.Flags().StringVar(&r.workspace, "workspace", "", "Workspace external id")
}

// dial is a seam for tests.
var dial = func(addr string) (grpc.ClientConnInterface, func() error, error) {
	cc, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, err
	}
	return cc, cc.Close, nil
}

func (r *remoteFlags) client() (*gs.Client, func() error, error) {
	if r.workspace == "" {
		return nil, nil, errors.New("--workspace is required")
	}
	cc, closeFn, err := dial(r.addr)
	if err != nil {
		return nil, nil, err
	}
	return gs.NewClient(cc, r.token), closeFn, nil
}

func newGetCmd() *cobra.Command {
	var rf remoteFlags
	var file, out string
	var start, length int64

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Download one file, whole or a byte range",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			c, closeFn, err := rf.client()
			if err != nil {
				return err
			}
			defer closeFn()

			var r *models.BytesRange
			if length > 0 {
				r = &models.BytesRange{Start: start, Length: length}
			}

			dst, err := openOut(cmd, out)
			if err != nil {
				return err
			}
			resp, err := c.DownloadFile(cmd.Context(), rf.workspace, file, r, dst)
			if cerr := dst.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			if out != "" && out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d bytes %s\n", out, resp.Bytes, strings.Join(resp.Header.Get(gs.HeaderContentRange), ""))
			}
			return nil
		},
	}

	rf.bind(cmd)
	cmd.Flags().StringVar(&file, "file", "", "File external id")
	cmd.Flags().StringVar(&out, "out", "-", "Output file")
	cmd.Flags().Int64Var(&start, "start", 0, "Range start")
	cmd.Flags().Int64Var(&length, "length", 0, "Range length")
	return cmd
}

func newBulkCmd() *cobra.Command {
	var rf remoteFlags
	var sel bulkdownload.Selection
	var out string

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Download a selection of files and folders as a ZIP archive",
		Long: `Download a ZIP archive of the selection. Ids not found in the workspace
are reported after the download.

Example:
  filedropctl bulk --workspace ws_1 --folder fo_1 --exclude-folder fo_2 --file fi_9 --out files.zip`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" || out == "-" {
				return errors.New("--out is required")
			}
			c, closeFn, err := rf.client()
			if err != nil {
				return err
			}
			defer closeFn()

			dst, err := openOut(cmd, out)
			if err != nil {
				return err
			}
			resp, err := c.BulkDownload(cmd.Context(), rf.workspace, sel, dst)
			if cerr := dst.Close(); err == nil {
				err = cerr
			}
			if resp != nil {
				reportNotFound(cmd, "file", resp.Trailer.Get(gs.TrailerNotFoundFiles))
				reportNotFound(cmd, "folder", resp.Trailer.Get(gs.TrailerNotFoundFolders))
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d bytes\n", out, resp.Bytes)
			return nil
		},
	}

	rf.bind(cmd)
	cmd.Flags().StringSliceVar(&sel.FileIDs, "file", nil, "File external ids")
	cmd.Flags().StringSliceVar(&sel.ExcludedFileIDs, "exclude-file", nil, "Excluded file external ids")
	cmd.Flags().StringSliceVar(&sel.FolderIDs, "folder", nil, "Folder external ids")
	cmd.Flags().StringSliceVar(&sel.ExcludedFolderIDs, "exclude-folder", nil, "Excluded folder external ids")
	cmd.Flags().StringVar(&sel.ScopeFolderID, "scope", "", "Restrict the selection to this folder's subtree")
	cmd.Flags().StringVar(&out, "out", "", "Output archive")
	return cmd
}

func reportNotFound(cmd *cobra.Command, kind string, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s ids not found: %s\n", kind, strings.Join(ids, ","))
}

func newLinkCmd() *cobra.Command {
	var rf remoteFlags
	var file, out string
	var retries int

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Print a direct download link, or fetch through it with --out",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			c, closeFn, err := rf.client()
			if err != nil {
				return err
			}
			defer closeFn()

			url, err := c.DirectLink(cmd.Context(), rf.workspace, file)
			if err != nil {
				return err
			}
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			}

			dst, err := openOut(cmd, out)
			if err != nil {
				return err
			}
			_, err = netx.FetchURL(cmd.Context(), netx.NewClient(retries), url, dst)
			if cerr := dst.Close(); err == nil {
				err = cerr
			}
			return err
		},
	}

	rf.bind(cmd)
	cmd.Flags().StringVar(&file, "file", "", "File external id")
	cmd.Flags().StringVar(&out, "out", "", "Fetch the object into this file")
	cmd.Flags().IntVar(&retries, "retries", 3, "HTTP retries for --out")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var rf remoteFlags
	var file string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a file and its stored object",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			c, closeFn, err := rf.client()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := c.DeleteFile(cmd.Context(), rf.workspace, file); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", file)
			return nil
		},
	}

	rf.bind(cmd)
	cmd.Flags().StringVar(&file, "file", "", "File external id")
	return cmd
}
