package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/filedrop/internal/common"
	"github.com/dmitrijs2005/filedrop/internal/server/bulkdownload"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps the error taxonomy to gRPC status codes. Internal details
// are not leaked for unknown errors.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var nf *bulkdownload.SelectionNotFoundError
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.As(err, &nf):
		return status.Error(codes.NotFound, nf.Error())
	case errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrFileNotFoundInStorage),
		errors.Is(err, common.ErrScopeNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrInvalidRange):
		return status.Error(codes.OutOfRange, err.Error())
	case errors.Is(err, common.ErrInvalidFileKey):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrTagValidationFailed),
		errors.Is(err, common.ErrMemberSizeMismatch):
		return status.Error(codes.DataLoss, "stored data failed verification")
	case errors.Is(err, common.ErrLinkUnavailable):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
