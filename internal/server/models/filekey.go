package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/google/uuid"
)

// FileExternalIDPrefix starts every file external id.
const FileExternalIDPrefix = "fi_"

// S3FileKey is the physical object name of a file inside a bucket,
// serialized as "<fileExternalId>_<secretPart>".
type S3FileKey struct {
	FileExternalID string
	SecretPart     string
}

// String serializes the key.
func (k S3FileKey) String() string {
	return k.FileExternalID + "_" + k.SecretPart
}

// ParseS3FileKey parses a serialized key. The external id itself contains
// an underscore, so the secret part is whatever follows the last one.
func ParseS3FileKey(s string) (S3FileKey, error) {
	i := strings.LastIndexByte(s, '_')
	if i < 0 {
		return S3FileKey{}, fmt.Errorf("%w: missing separator in %q", common.ErrInvalidFileKey, s)
	}

	k := S3FileKey{FileExternalID: s[:i], SecretPart: s[i+1:]}
	if err := k.Validate(); err != nil {
		return S3FileKey{}, err
	}
	return k, nil
}

// Validate checks both halves of the key.
func (k S3FileKey) Validate() error {
	if !IsFileExternalID(k.FileExternalID) {
		return fmt.Errorf("%w: malformed file external id %q", common.ErrInvalidFileKey, k.FileExternalID)
	}
	if !isAlnum(k.SecretPart) {
		return fmt.Errorf("%w: malformed secret part", common.ErrInvalidFileKey)
	}
	return nil
}

// IsFileExternalID reports whether s looks like "fi_<alphanumeric>".
func IsFileExternalID(s string) bool {
	body, ok := strings.CutPrefix(s, FileExternalIDPrefix)
	return ok && isAlnum(body)
}

// NewS3FileKey generates a fresh external id and secret part.
func NewS3FileKey() S3FileKey {
	return S3FileKey{
		FileExternalID: FileExternalIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", ""),
		SecretPart:     strings.ReplaceAll(uuid.NewString(), "-", ""),
	}
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return false
		}
	}
	return true
}
