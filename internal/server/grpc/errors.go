package grpc

import (
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service sentinels onto gRPC codes. Messages are the
// sentinel texts so clients can map them back.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrDuplicateEmail):
		return status.Error(codes.AlreadyExists, common.ErrDuplicateEmail.Error())
	case errors.Is(err, common.ErrMissingRequiredField):
		return status.Error(codes.InvalidArgument, common.ErrMissingRequiredField.Error())
	case errors.Is(err, password.ErrTooLong):
		return status.Error(codes.InvalidArgument, password.ErrTooLong.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrInvalidExternalToken):
		return status.Error(codes.Unauthenticated, common.ErrInvalidExternalToken.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error())
	default:
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}
