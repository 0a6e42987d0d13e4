package ctl

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/filedrop/internal/server/auth"
	"github.com/dmitrijs2005/filedrop/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filedrop/internal/server/storage/localfs"
	"github.com/spf13/cobra"
)

func newPutCmd(g *globals) *cobra.Command {
	var root, bucket, key, in, ref string
	var encrypt bool
	var segmentSize int64

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Store a file as an object of the local storage",
		Long: `Copy --in into <root>/<bucket>/<key>, optionally encrypting it on the way.

Example:
  filedropctl put --root ./data --bucket ws_1 --key fi_abc_s3cr3t --in report.pdf
  filedropctl put --root ./data --bucket ws_1 --key fi_abc_s3cr3t --in report.pdf --encrypt --ref fi_abc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if bucket == "" || key == "" || in == "" {
				return errors.New("--bucket, --key and --in are required")
			}
			src, err := os.Open(in)
			if err != nil {
				return err
			}
			defer src.Close()

			var body io.Reader = src
			if encrypt {
				if ref == "" {
					return errors.New("--ref is required with --encrypt")
				}
				codec, err := codecFor(cmd, g, ref, segmentSize)
				if err != nil {
					return err
				}
				pr, pw := io.Pipe()
				go func() {
					_, err := codec.EncryptStream(cmd.Context(), pw, src)
					pw.CloseWithError(err)
				}()
				defer pr.Close()
				body = pr
			}

			n, err := localfs.New(root).Put(cmd.Context(), bucket, key, body)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %s/%s (%d bytes)\n", bucket, key, n)
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "./data", "Local storage root")
	cmd.Flags().StringVar(&bucket, "bucket", "", "Bucket (workspace storage bucket)")
	cmd.Flags().StringVar(&key, "key", "", "Object key")
	cmd.Flags().StringVar(&in, "in", "", "Input file")
	cmd.Flags().BoolVar(&encrypt, "encrypt", false, "Store in the managed encrypted format")
	cmd.Flags().StringVar(&ref, "ref", "", "Key reference for --encrypt")
	cmd.Flags().Int64Var(&segmentSize, "segment-size", DefaultSegmentSize, "Ciphertext segment size including tag")

	return cmd
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) { return sql.Open("pgx", dsn) }

func newMigrateCmd() *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				return errors.New("--dsn is required")
			}
			db, err := openDB(dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			if err := repomanager.NewPostgresRepositoryManager().RunMigrations(ctx, db); err != nil {
				return fmt.Errorf("migration error: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}

	cmd.Flags().StringVar(&dsn, "dsn", "", "PostgreSQL DSN")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var secret, subject string
	var workspaces []string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token",
		Long: `Mint an HS256 access token for the given workspaces. Use "*" for all.

Example:
  filedropctl token --secret secretKey --subject alice --workspace ws_1 --workspace ws_2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" || subject == "" {
				return errors.New("--secret and --subject are required")
			}
			if len(workspaces) == 0 {
				return errors.New("at least one --workspace is required")
			}
			tok, err := auth.GenerateToken(subject, workspaces, []byte(secret), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "HMAC secret of the server")
	cmd.Flags().StringVar(&subject, "subject", "", "Token subject")
	cmd.Flags().StringArrayVar(&workspaces, "workspace", nil, "Workspace external id (repeatable)")
	cmd.Flags().DurationVar(&ttl, "ttl", 15*time.Minute, "Token validity")
	return cmd
}
