package cryptox

import (
	"bufio"
	"context"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/filedrop/internal/common"
	"golang.org/x/crypto/chacha20poly1305"
)

// Codec seals and opens segments of one file. It holds no per-stream state
// and is safe for concurrent use.
type Codec struct {
	layout Layout
	aead   cipher.AEAD
	prefix []byte
}

// NewCodec binds a layout to a file key. The layout tag size must match the
// AEAD overhead and the header must have room for the nonce prefix.
func NewCodec(layout Layout, key FileKey) (*Codec, error) {
	aead, err := chacha20poly1305.New(key.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnsupportedEncryptionType, err)
	}
	if layout.TagSize != int64(aead.Overhead()) {
		return nil, fmt.Errorf("%w: tag size %d, cipher needs %d", common.ErrUnsupportedEncryptionType, layout.TagSize, aead.Overhead())
	}
	if layout.HeaderSize < 1+NoncePrefixSize || layout.HeaderSize > 255 {
		return nil, fmt.Errorf("%w: header size %d", common.ErrUnsupportedEncryptionType, layout.HeaderSize)
	}
	if len(key.NoncePrefix) != NoncePrefixSize {
		return nil, fmt.Errorf("%w: nonce prefix size %d", common.ErrUnsupportedEncryptionType, len(key.NoncePrefix))
	}

	prefix := make([]byte, NoncePrefixSize)
	copy(prefix, key.NoncePrefix)
	return &Codec{layout: layout, aead: aead, prefix: prefix}, nil
}

func (c *Codec) Layout() Layout { return c.layout }

// Header returns the object header: [headerSize][nonce prefix][zero padding].
func (c *Codec) Header() []byte {
	h := make([]byte, c.layout.HeaderSize)
	h[0] = byte(c.layout.HeaderSize)
	copy(h[1:], c.prefix)
	return h
}

// SealSegment encrypts one segment and appends the result to dst.
func (c *Codec) SealSegment(dst, plain []byte, index int64, last bool) ([]byte, error) {
	nonce, err := SegmentNonce(c.prefix, index, last)
	if err != nil {
		return nil, err
	}
	return c.aead.Seal(dst, nonce, plain, nil), nil
}

// OpenSegment authenticates and decrypts one sealed segment, appending the
// plaintext to dst.
func (c *Codec) OpenSegment(dst, sealed []byte, index int64, last bool) ([]byte, error) {
	nonce, err := SegmentNonce(c.prefix, index, last)
	if err != nil {
		return nil, err
	}
	plain, err := c.aead.Open(dst, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: segment %d", common.ErrTagValidationFailed, index)
	}
	return plain, nil
}

// EncryptStream writes the header followed by every sealed segment of src
// to dst and returns the number of plaintext bytes consumed.
func (c *Codec) EncryptStream(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	if _, err := dst.Write(c.Header()); err != nil {
		return 0, err
	}

	br := bufio.NewReader(src)
	plain := make([]byte, max(c.layout.FirstSegmentSize, c.layout.NextSegmentSize))
	sealed := make([]byte, 0, len(plain)+int(c.layout.TagSize))

	var total int64
	for idx := int64(0); ; idx++ {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		n, err := io.ReadFull(br, plain[:c.layout.SegmentCapacity(idx)])
		last := false
		switch {
		case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
			last = true
		case err != nil:
			return total, err
		default:
			if _, perr := br.Peek(1); errors.Is(perr, io.EOF) {
				last = true
			} else if perr != nil {
				return total, perr
			}
		}

		sealed, err = c.SealSegment(sealed[:0], plain[:n], idx, last)
		if err != nil {
			return total, err
		}
		if _, err := dst.Write(sealed); err != nil {
			return total, err
		}
		total += int64(n)

		if last {
			return total, nil
		}
	}
}

// DecryptFull decrypts a whole object. src must be positioned at the first
// byte after the header.
func (c *Codec) DecryptFull(ctx context.Context, dst io.Writer, src io.Reader, plainSize int64) error {
	last := c.layout.SegmentCount(plainSize) - 1
	return c.decryptSegments(ctx, dst, src, 0, last, 0, plainSize, plainSize)
}

// DecryptRange writes plaintext [start, start+length). src must be
// positioned at the physical start returned by Layout.EncryptedRange.
func (c *Codec) DecryptRange(ctx context.Context, dst io.Writer, src io.Reader, start, length, plainSize int64) error {
	pr, err := c.layout.EncryptedRange(start, length, plainSize)
	if err != nil {
		return err
	}
	return c.decryptSegments(ctx, dst, src, pr.FirstSegment, pr.LastSegment, pr.Skip, length, plainSize)
}

func (c *Codec) decryptSegments(ctx context.Context, dst io.Writer, src io.Reader, first, last, skip, remaining, plainSize int64) error {
	final := c.layout.SegmentCount(plainSize) - 1
	buf := make([]byte, max(c.layout.FirstSegmentSize, c.layout.NextSegmentSize)+c.layout.TagSize)

	for idx := first; idx <= last; idx++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		segLen := min(c.layout.SegmentCapacity(idx), plainSize-c.layout.SegmentStart(idx))
		sealed := buf[:segLen+c.layout.TagSize]
		if _, err := io.ReadFull(src, sealed); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return fmt.Errorf("read segment %d: %w", idx, err)
		}

		plain, err := c.OpenSegment(sealed[:0], sealed, idx, idx == final)
		if err != nil {
			return err
		}
		if idx == first {
			plain = plain[skip:]
		}
		if int64(len(plain)) > remaining {
			plain = plain[:remaining]
		}
		if _, err := dst.Write(plain); err != nil {
			return err
		}
		remaining -= int64(len(plain))
	}
	return nil
}
