package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"virtual-vr-console/internal/apperr"
)

// IsDuplicate - signals that the error is a duplicate key violation.
func IsDuplicate(err error) bool {
	var pgerr *pgconn.PgError
	return errors.As(err, &pgerr) && pgerr.Code == "23505"
}

// IsNotFound - signals that the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || status.Code(err) == codes.NotFound
}

// mapPgErr marks postgres data exceptions (SQLSTATE class 22, such as a
// malformed uuid) as ErrInvalid; retrying them can never succeed.
func mapPgErr(err error) error {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && strings.HasPrefix(pgerr.Code, "22") {
		return fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	return err
}

// mapErr attaches the matching apperr sentinel to Firestore status errors.
func mapErr(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %v", apperr.ErrNotFound, err)
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %v", apperr.ErrConflict, err)
	case codes.InvalidArgument, codes.FailedPrecondition:
		return fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %v", apperr.ErrForbidden, err)
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	default:
		return err
	}
}
