package ctl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/filedrop/internal/cryptox"
	"github.com/spf13/cobra"
)

func newLayoutCmd() *cobra.Command {
	var plainSize, segmentSize, start, length int64

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print ciphertext geometry for a plaintext size",
		Long: `Print the physical size and segment count of a managed-encrypted object,
and optionally the physical range that covers a logical byte range.

Example:
  filedropctl layout --size 1000000
  filedropctl layout --size 1000000 --start 70000 --length 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := defaultLayout(segmentSize)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "plain_size=%d ciphertext_size=%d segments=%d\n",
				plainSize, l.CiphertextSize(plainSize), l.SegmentCount(plainSize))

			if length > 0 {
				pr, err := l.EncryptedRange(start, length, plainSize)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "physical_start=%d physical_length=%d first_segment=%d last_segment=%d skip=%d\n",
					pr.Start, pr.Length, pr.FirstSegment, pr.LastSegment, pr.Skip)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&plainSize, "size", 0, "Plaintext size in bytes")
	cmd.Flags().Int64Var(&segmentSize, "segment-size", DefaultSegmentSize, "Ciphertext segment size including tag")
	cmd.Flags().Int64Var(&start, "start", 0, "Logical range start")
	cmd.Flags().Int64Var(&length, "length", 0, "Logical range length")

	return cmd
}

func newEncryptCmd(g *globals) *cobra.Command {
	var in, out, ref string
	var segmentSize int64

	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a file into the managed object format",
		Long: `Encrypt --in into --out with the key derived for --ref. The metadata to
store with the file row is printed on stderr.

Example:
  filedropctl encrypt --master-key $KEY --ref fi_abc --in report.pdf --out fi_abc_s3cr3t`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" || out == "" || ref == "" {
				return errors.New("--in, --out and --ref are required")
			}
			codec, err := codecFor(cmd, g, ref, segmentSize)
			if err != nil {
				return err
			}

			src, err := os.Open(in)
			if err != nil {
				return err
			}
			defer src.Close()

			dst, err := os.Create(out)
			if err != nil {
				return err
			}
			bw := bufio.NewWriter(dst)

			n, err := codec.EncryptStream(cmd.Context(), bw, src)
			if err == nil {
				err = bw.Flush()
			}
			if cerr := dst.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			l := codec.Layout()
			fmt.Fprintf(cmd.ErrOrStderr(), "size=%d encryption=managed segment_size=%d header_size=%d tag_size=%d key_reference=%s\n",
				n, segmentSize, l.HeaderSize, l.TagSize, ref)
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "Plaintext input file")
	cmd.Flags().StringVar(&out, "out", "", "Encrypted output file")
	cmd.Flags().StringVar(&ref, "ref", "", "Key reference")
	cmd.Flags().Int64Var(&segmentSize, "segment-size", DefaultSegmentSize, "Ciphertext segment size including tag")

	return cmd
}

func newDecryptCmd(g *globals) *cobra.Command {
	var in, out, ref string
	var segmentSize, plainSize, start, length int64

	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a managed object, whole or a byte range",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" || ref == "" {
				return errors.New("--in and --ref are required")
			}
			codec, err := codecFor(cmd, g, ref, segmentSize)
			if err != nil {
				return err
			}

			src, err := os.Open(in)
			if err != nil {
				return err
			}
			defer src.Close()

			if plainSize < 0 {
				st, err := src.Stat()
				if err != nil {
					return err
				}
				plainSize = plainSizeOf(codec.Layout(), st.Size())
				if plainSize < 0 {
					return fmt.Errorf("%s: %d bytes is not a valid object size for this layout", in, st.Size())
				}
			}

			dst, err := openOut(cmd, out)
			if err != nil {
				return err
			}
			bw := bufio.NewWriter(dst)

			l := codec.Layout()
			if length > 0 {
				pr, rerr := l.EncryptedRange(start, length, plainSize)
				if rerr != nil {
					_ = dst.Close()
					return rerr
				}
				err = codec.DecryptRange(cmd.Context(), bw, io.NewSectionReader(src, pr.Start, pr.Length), start, length, plainSize)
			} else {
				err = codec.DecryptFull(cmd.Context(), bw, io.NewSectionReader(src, l.HeaderSize, l.CiphertextSize(plainSize)-l.HeaderSize), plainSize)
			}
			if err == nil {
				err = bw.Flush()
			}
			if cerr := dst.Close(); err == nil {
				err = cerr
			}
			return err
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "Encrypted input file")
	cmd.Flags().StringVar(&out, "out", "-", "Plaintext output file")
	cmd.Flags().StringVar(&ref, "ref", "", "Key reference")
	cmd.Flags().Int64Var(&segmentSize, "segment-size", DefaultSegmentSize, "Ciphertext segment size including tag")
	cmd.Flags().Int64Var(&plainSize, "size", -1, "Plaintext size (derived from the file size when omitted)")
	cmd.Flags().Int64Var(&start, "start", 0, "Logical range start")
	cmd.Flags().Int64Var(&length, "length", 0, "Logical range length")

	return cmd
}

func codecFor(cmd *cobra.Command, g *globals, ref string, segmentSize int64) (*cryptox.Codec, error) {
	l, err := defaultLayout(segmentSize)
	if err != nil {
		return nil, err
	}
	kr, err := g.keyring()
	if err != nil {
		return nil, err
	}
	key, err := kr.FileKey(cmd.Context(), ref)
	if err != nil {
		return nil, err
	}
	defer key.Wipe()
	return cryptox.NewCodec(l, key)
}

// plainSizeOf inverts Layout.CiphertextSize. It returns -1 when no plaintext
// size maps to the physical size.
func plainSizeOf(l cryptox.Layout, physical int64) int64 {
	body := physical - l.HeaderSize
	if body < l.TagSize {
		return -1
	}
	if body <= l.FirstSegmentSize+l.TagSize {
		return body - l.TagSize
	}
	rest := body - l.FirstSegmentSize - l.TagSize
	full := rest / (l.NextSegmentSize + l.TagSize)
	tail := rest % (l.NextSegmentSize + l.TagSize)
	plain := l.FirstSegmentSize + full*l.NextSegmentSize
	switch {
	case tail == 0:
	case tail > l.TagSize:
		plain += tail - l.TagSize
	default:
		return -1
	}
	if l.CiphertextSize(plain) != physical {
		return -1
	}
	return plain
}
