package models

import (
	"fmt"

	"github.com/dmitrijs2005/filedrop/internal/common"
)

// BytesRange is a half-open range in logical (plaintext) coordinates.
type BytesRange struct {
	Start  int64
	Length int64
}

// End returns the inclusive logical index of the last byte.
func (r BytesRange) End() int64 { return r.Start + r.Length - 1 }

// Validate checks start >= 0, length > 0 and start+length <= fileSize.
func (r BytesRange) Validate(fileSize int64) error {
	if r.Start < 0 || r.Length <= 0 || r.Start > fileSize-r.Length {
		return fmt.Errorf("%w: start=%d length=%d size=%d", common.ErrInvalidRange, r.Start, r.Length, fileSize)
	}
	return nil
}

// ContentRange formats the range the way an HTTP Content-Range header does.
func (r BytesRange) ContentRange(fileSize int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End(), fileSize)
}
