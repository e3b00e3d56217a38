package repository

import (
	"errors"
	"fmt"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"virtual-vr-console/internal/apperr"
)

func TestToUpdates_SortedWithServerTimestamp(t *testing.T) {
	t.Parallel()

	ups := toUpdates(map[string]any{
		"phone":     "300",
		"isActive":  false,
		"updatedAt": "client value",
	})

	require.Len(t, ups, 3)
	require.Equal(t, "isActive", ups[0].Path)
	require.Equal(t, "phone", ups[1].Path)
	require.Equal(t, "updatedAt", ups[2].Path)
	require.Equal(t, firestore.ServerTimestamp, ups[2].Value)
}

func TestMapErr(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, mapErr(status.Error(codes.NotFound, "no doc")), apperr.ErrNotFound)
	require.ErrorIs(t, mapErr(status.Error(codes.AlreadyExists, "dup")), apperr.ErrConflict)
	require.ErrorIs(t, mapErr(status.Error(codes.PermissionDenied, "rules")), apperr.ErrForbidden)

	plain := errors.New("boom")
	require.Same(t, plain, mapErr(plain))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	require.True(t, IsNotFound(status.Error(codes.NotFound, "x")))
	require.False(t, IsNotFound(errors.New("x")))
}

func TestMapPgErr(t *testing.T) {
	t.Parallel()

	badUUID := &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}
	err := mapPgErr(fmt.Errorf("exec: %w", badUUID))
	require.ErrorIs(t, err, apperr.ErrInvalid)
	require.ErrorContains(t, err, "22P02")

	unavailable := &pgconn.PgError{Code: "57P01", Message: "terminating connection"}
	require.NotErrorIs(t, mapPgErr(unavailable), apperr.ErrInvalid)
	require.Same(t, unavailable, mapPgErr(unavailable))
}
