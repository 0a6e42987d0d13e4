// Package cryptox implements the segmented authenticated-encryption format
// used for managed-encrypted objects: offset arithmetic between plaintext and
// ciphertext, per-segment nonces, per-file keys and the streaming codec.
//
// A managed object is laid out as
//
//	[header][segment 0][tag 0][segment 1][tag 1]...
//
// where every segment except the last is full.
package cryptox

import (
	"fmt"

	"github.com/dmitrijs2005/filedrop/internal/common"
)

// Layout describes segment geometry. Segment sizes count payload bytes only,
// the tag that follows each segment is accounted for separately.
type Layout struct {
	HeaderSize       int64
	FirstSegmentSize int64
	NextSegmentSize  int64
	TagSize          int64
}

// NewLayout validates and returns a layout.
func NewLayout(headerSize, firstSegmentSize, nextSegmentSize, tagSize int64) (Layout, error) {
	if headerSize < 0 || tagSize < 0 || firstSegmentSize <= 0 || nextSegmentSize <= 0 {
		return Layout{}, fmt.Errorf("%w: header=%d first=%d next=%d tag=%d",
			common.ErrUnsupportedEncryptionType, headerSize, firstSegmentSize, nextSegmentSize, tagSize)
	}
	return Layout{
		HeaderSize:       headerSize,
		FirstSegmentSize: firstSegmentSize,
		NextSegmentSize:  nextSegmentSize,
		TagSize:          tagSize,
	}, nil
}

// LayoutFromSegmentSize builds a layout from persisted metadata, where
// segmentSize is the size of a whole ciphertext segment including its tag
// (and, for segment 0, the header).
func LayoutFromSegmentSize(segmentSize, headerSize, tagSize int64) (Layout, error) {
	return NewLayout(headerSize, segmentSize-headerSize-tagSize, segmentSize-tagSize, tagSize)
}

// SegmentIndex returns the zero-based segment holding the logical offset.
func (l Layout) SegmentIndex(logical int64) int64 {
	if logical < l.FirstSegmentSize {
		return 0
	}
	return 1 + (logical-l.FirstSegmentSize)/l.NextSegmentSize
}

// FindEncryptedIndex maps a logical (plaintext) offset to its physical
// offset: header, plus the offset itself, plus one tag per elapsed segment.
func (l Layout) FindEncryptedIndex(logical int64) int64 {
	return l.HeaderSize + logical + l.TagSize*l.SegmentIndex(logical)
}

// SegmentStart returns the logical offset of the first byte of segment idx.
func (l Layout) SegmentStart(idx int64) int64 {
	if idx == 0 {
		return 0
	}
	return l.FirstSegmentSize + (idx-1)*l.NextSegmentSize
}

// SegmentCapacity returns how many plaintext bytes segment idx holds when full.
func (l Layout) SegmentCapacity(idx int64) int64 {
	if idx == 0 {
		return l.FirstSegmentSize
	}
	return l.NextSegmentSize
}

// SegmentCount returns the number of segments of a plaintext of the given
// size. An empty plaintext still has one (empty) segment.
func (l Layout) SegmentCount(plainSize int64) int64 {
	if plainSize <= l.FirstSegmentSize {
		return 1
	}
	rest := plainSize - l.FirstSegmentSize
	return 1 + (rest+l.NextSegmentSize-1)/l.NextSegmentSize
}

// CiphertextSize returns the physical object size for a plaintext size.
func (l Layout) CiphertextSize(plainSize int64) int64 {
	return l.HeaderSize + plainSize + l.TagSize*l.SegmentCount(plainSize)
}

// PhysicalRange is the minimal run of whole segments covering a logical range.
type PhysicalRange struct {
	// Start and Length locate the run inside the object.
	Start  int64
	Length int64

	FirstSegment int64
	LastSegment  int64

	// Skip is the number of decrypted bytes to drop from the first segment.
	Skip int64
}

// EncryptedRange returns the physical range covering the logical range
// [start, start+length) of a plaintext of plainSize bytes: from the start of
// the first touched segment through the end of the last touched segment's tag.
func (l Layout) EncryptedRange(start, length, plainSize int64) (PhysicalRange, error) {
	if start < 0 || length <= 0 || start > plainSize-length {
		return PhysicalRange{}, fmt.Errorf("%w: start=%d length=%d size=%d", common.ErrInvalidRange, start, length, plainSize)
	}

	first := l.SegmentIndex(start)
	last := l.SegmentIndex(start + length - 1)

	segStart := l.SegmentStart(first)
	physStart := l.HeaderSize + segStart + l.TagSize*first

	lastEnd := min(l.SegmentStart(last)+l.SegmentCapacity(last), plainSize)
	physEnd := l.HeaderSize + lastEnd + l.TagSize*(last+1)

	return PhysicalRange{
		Start:        physStart,
		Length:       physEnd - physStart,
		FirstSegment: first,
		LastSegment:  last,
		Skip:         start - segStart,
	}, nil
}
