//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/repository"
)

func TestAuditRepo_AppendIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewAuditRepo(tcPool)

	target := "courier-" + uuid.NewString()
	ev := domain.ModerationEvent{
		EventID:    uuid.NewString(),
		Action:     domain.ActionReject,
		Kind:       domain.RoleDelivery,
		TargetID:   target,
		ActorID:    "admin-1",
		OccurredAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	inserted, err := repo.Append(ctx, ev)
	require.NoError(t, err)
	require.True(t, inserted)

	inserted, err = repo.Append(ctx, ev)
	require.NoError(t, err)
	require.False(t, inserted)

	entries, err := repo.ListByTarget(ctx, domain.RoleDelivery, target, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, ev.EventID, entries[0].EventID)
	require.Equal(t, domain.ActionReject, entries[0].Action)
	require.Equal(t, domain.RoleDelivery, entries[0].Kind)
	require.Nil(t, entries[0].Fields)
}

func TestAuditRepo_ListByTargetNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewAuditRepo(tcPool)

	target := "customer-" + uuid.NewString()
	base := time.Now().UTC().Truncate(time.Millisecond)
	for i, action := range []domain.ModerationAction{domain.ActionSetActive, domain.ActionSetPreferential} {
		_, err := repo.Append(ctx, domain.ModerationEvent{
			EventID:    uuid.NewString(),
			Action:     action,
			Kind:       domain.RoleUser,
			TargetID:   target,
			ActorID:    "admin-1",
			Fields:     map[string]any{"value": i == 1},
			OccurredAt: base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	entries, err := repo.ListByTarget(ctx, domain.RoleUser, target, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, domain.ActionSetPreferential, entries[0].Action)
	require.Equal(t, true, entries[0].Fields["value"])
}

func TestAuditRepo_ListByTargetFiltersKind(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewAuditRepo(tcPool)

	target := "shared-" + uuid.NewString()
	for _, kind := range []domain.Role{domain.RoleDelivery, domain.RoleUser} {
		_, err := repo.Append(ctx, domain.ModerationEvent{
			EventID:    uuid.NewString(),
			Action:     domain.ActionSetActive,
			Kind:       kind,
			TargetID:   target,
			ActorID:    "admin-1",
			OccurredAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	entries, err := repo.ListByTarget(ctx, domain.RoleUser, target, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, domain.RoleUser, entries[0].Kind)
}
