// Package ctl implements filedropctl, the operator tool of the download
// server: it encrypts and stages objects, runs migrations, mints access
// tokens and drives the gRPC endpoint.
package ctl

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/filedrop/internal/cryptox"
	"github.com/spf13/cobra"
)

// Default geometry of objects encrypted by filedropctl.
const (
	DefaultSegmentSize = 64 * 1024
	DefaultHeaderSize  = 16
	DefaultTagSize     = 16
)

// MasterKeyEnv is read when neither --master-key nor --passphrase is given.
const MasterKeyEnv = "FILEDROP_MASTER_KEY"

type globals struct {
	masterKey  string
	passphrase string
	salt       string
}

// keyring builds the key provider from the global key flags.
func (g *globals) keyring() (*cryptox.Keyring, error) {
	var master []byte
	switch {
	case g.passphrase != "":
		if g.salt == "" {
			return nil, errors.New("--salt is required with --passphrase")
		}
		master = cryptox.DeriveMasterKey([]byte(g.passphrase), []byte(g.salt))
	default:
		h := g.masterKey
		if h == "" {
			h = os.Getenv(MasterKeyEnv)
		}
		if h == "" {
			return nil, fmt.Errorf("--master-key, --passphrase or %s is required", MasterKeyEnv)
		}
		b, err := hex.DecodeString(h)
		if err != nil {
			return nil, fmt.Errorf("master key: %w", err)
		}
		master = b
	}
	defer cryptox.WipeByteArray(master)
	return cryptox.NewKeyring(master)
}

// NewRootCmd creates the filedropctl command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:           "filedropctl",
		Short:         "Operator tool for the filedrop download server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&g.masterKey, "master-key", "", "Master key, hex (or "+MasterKeyEnv+")")
	rootCmd.PersistentFlags().StringVar(&g.passphrase, "passphrase", "", "Derive the master key from a passphrase")
	rootCmd.PersistentFlags().StringVar(&g.salt, "salt", "", "Salt for --passphrase")

	rootCmd.AddCommand(newLayoutCmd())
	rootCmd.AddCommand(newEncryptCmd(g))
	rootCmd.AddCommand(newDecryptCmd(g))
	rootCmd.AddCommand(newPutCmd(g))
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newBulkCmd())
	rootCmd.AddCommand(newLinkCmd())
	rootCmd.AddCommand(newDeleteCmd())

	return rootCmd
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, out io.Writer) error {
	cmd := NewRootCmd(out)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func defaultLayout(segmentSize int64) (cryptox.Layout, error) {
	return cryptox.LayoutFromSegmentSize(segmentSize, DefaultHeaderSize, DefaultTagSize)
}

// openOut opens path for writing, or returns stdout of cmd for "-" or "".
func openOut(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
