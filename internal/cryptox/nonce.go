package cryptox

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// NoncePrefixSize is the per-file part of every segment nonce.
	NoncePrefixSize = 7
	// NonceSize is the full ChaCha20-Poly1305 nonce size.
	NonceSize = NoncePrefixSize + 4 + 1
)

// SegmentNonce derives the nonce of one segment:
//
//	prefix(7) || uint32be(index) || lastSegmentFlag(1)
//
// It depends only on its arguments, so any segment can be opened on its own.
func SegmentNonce(prefix []byte, index int64, last bool) ([]byte, error) {
	if len(prefix) != NoncePrefixSize {
		return nil, fmt.Errorf("nonce prefix must be %d bytes, got %d", NoncePrefixSize, len(prefix))
	}
	if index < 0 || index > math.MaxUint32 {
		return nil, fmt.Errorf("segment index %d out of range", index)
	}

	nonce := make([]byte, NonceSize)
	copy(nonce, prefix)
	binary.BigEndian.PutUint32(nonce[NoncePrefixSize:], uint32(index))
	if last {
		nonce[NonceSize-1] = 1
	}
	return nonce, nil
}
