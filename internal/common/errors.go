// Package common defines shared constants and sentinel errors used across
// the storage core, its transports and tools. Callers should use errors.Is
// to match these values.
package common

import (
	"context"
	"errors"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Storage-level errors.
	ErrFileNotFoundInStorage     = errors.New("file not found in storage")
	ErrInvalidRange              = errors.New("invalid bytes range")
	ErrTagValidationFailed       = errors.New("segment tag validation failed")
	ErrUnsupportedEncryptionType = errors.New("unsupported encryption type")
	ErrInvalidFileKey            = errors.New("invalid file key")
	ErrUnknownStorage            = errors.New("unknown storage")
	ErrLinkUnavailable           = errors.New("direct link unavailable")

	// Bulk download errors.
	ErrMemberSizeMismatch = errors.New("archive member size mismatch")
	ErrFolderNotInIndex   = errors.New("folder not in subtree index")
	ErrScopeNotFound      = errors.New("scope folder not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// IsCancellation reports whether err means the consumer went away or the
// operation deadline passed. Such errors are expected and are not failures
// of the storage core.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
