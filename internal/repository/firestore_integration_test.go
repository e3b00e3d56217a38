//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"virtual-vr-console/internal/apperr"
	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/repository"
)

// resetFirestore drops every document in the emulator.
func resetFirestore(t *testing.T) {
	t.Helper()

	url := fmt.Sprintf("http://%s/emulator/v1/projects/%s/databases/(default)/documents", tcFirestoreHost, firestoreProject)
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func newCourier(id, first string, registered time.Time) *domain.Courier {
	return &domain.Courier{
		BaseUser: domain.BaseUser{
			ID:        id,
			Email:     id + "@example.com",
			Role:      domain.RoleDelivery,
			IsActive:  true,
			CreatedAt: registered,
			UpdatedAt: registered,
		},
		UID:          id,
		FirstName:    first,
		VehicleType:  domain.VehicleMotorcycle,
		Status:       domain.StatusOffline,
		RegisterDate: registered,
		BirthDate:    time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func courierNames(items []domain.Courier) []string {
	out := make([]string, 0, len(items))
	for _, c := range items {
		out = append(out, c.FirstName)
	}
	return out
}

func TestCourierRepo_ListNewestFirst(t *testing.T) {
	resetFirestore(t)
	ctx := context.Background()
	repo := repository.NewCourierRepo(tcFirestore)

	base := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newCourier("c-old", "Ana", base)))
	require.NoError(t, repo.Create(ctx, newCourier("c-new", "Luis", base.Add(48*time.Hour))))
	require.NoError(t, repo.Create(ctx, newCourier("c-mid", "Marta", base.Add(time.Hour))))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Luis", "Marta", "Ana"}, courierNames(got))
	require.Equal(t, "c-new", got[0].ID)
	require.Equal(t, domain.VehicleMotorcycle, got[0].VehicleType)

	err = repo.Create(ctx, newCourier("c-old", "Otra", base))
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestCourierRepo_DecodeFillsMissingFields(t *testing.T) {
	resetFirestore(t)
	ctx := context.Background()
	repo := repository.NewCourierRepo(tcFirestore)

	registered := time.Date(2024, 11, 3, 15, 0, 0, 0, time.UTC)
	_, err := tcFirestore.Collection(domain.CollectionDeliveries).Doc("legacy").Set(ctx, map[string]any{
		"email":        "legacy@example.com",
		"firstName":    "Pedro",
		"registerDate": registered,
	})
	require.NoError(t, err)

	before := time.Now()
	got, err := repo.Get(ctx, "legacy")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "legacy", got.ID)
	require.True(t, got.RegisterDate.Equal(registered))
	require.False(t, got.CreatedAt.Before(before))
	require.False(t, got.UpdatedAt.Before(before))
	require.False(t, got.BirthDate.Before(before))
	require.Nil(t, got.SoatExpiryDate)
	require.Nil(t, got.DrivingLicenseExpiry)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.False(t, list[0].CreatedAt.IsZero())
}

func TestCourierRepo_GetMissingAndUpdate(t *testing.T) {
	resetFirestore(t)
	ctx := context.Background()
	repo := repository.NewCourierRepo(tcFirestore)

	got, err := repo.Get(ctx, "ghost")
	require.NoError(t, err)
	require.Nil(t, got)

	err = repo.Update(ctx, "ghost", map[string]any{"isApproved": true})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	registered := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newCourier("c1", "Luis", registered)))
	require.NoError(t, repo.Update(ctx, "c1", map[string]any{"isApproved": true, "firstName": "Luis Alberto"}))

	got, err = repo.Get(ctx, "c1")
	require.NoError(t, err)
	require.True(t, got.IsApproved)
	require.Equal(t, "Luis Alberto", got.FirstName)
	require.True(t, got.UpdatedAt.After(registered))
}

func TestCourierRepo_SubscribeFollowsChanges(t *testing.T) {
	resetFirestore(t)
	repo := repository.NewCourierRepo(tcFirestore)

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(context.Background(), newCourier("c1", "Ana", base)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	emissions := make(chan []domain.Courier, 16)
	done := make(chan error, 1)
	go func() {
		done <- repo.Subscribe(ctx, func(items []domain.Courier) { emissions <- items })
	}()

	next := func(want func([]domain.Courier) bool) []domain.Courier {
		t.Helper()
		timeout := time.After(15 * time.Second)
		for {
			select {
			case items := <-emissions:
				if want(items) {
					return items
				}
			case <-timeout:
				t.Fatal("no matching snapshot")
				return nil
			}
		}
	}

	first := next(func(items []domain.Courier) bool { return len(items) == 1 })
	require.Equal(t, []string{"Ana"}, courierNames(first))

	require.NoError(t, repo.Create(context.Background(), newCourier("c2", "Luis", base.Add(time.Hour))))
	second := next(func(items []domain.Courier) bool { return len(items) == 2 })
	require.Equal(t, []string{"Luis", "Ana"}, courierNames(second))

	require.NoError(t, repo.Update(context.Background(), "c1", map[string]any{"isApproved": true}))
	third := next(func(items []domain.Courier) bool { return len(items) == 2 && items[1].IsApproved })
	require.Equal(t, domain.ReviewApproved, third[1].ReviewState())

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("subscribe did not return after cancel")
	}
}

func TestCustomerRepo_ListAndGet(t *testing.T) {
	resetFirestore(t)
	ctx := context.Background()
	repo := repository.NewCustomerRepo(tcFirestore)

	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"Bruno", "Carla"} {
		require.NoError(t, repo.Create(ctx, &domain.Customer{
			BaseUser:     domain.BaseUser{ID: fmt.Sprintf("u%d", i), Role: domain.RoleUser, IsActive: true},
			FirstName:    name,
			RegisterDate: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Carla", got[0].FirstName)
	require.Equal(t, "u1", got[0].ID)
	require.False(t, got[0].CreatedAt.IsZero())

	missing, err := repo.Get(ctx, "nobody")
	require.NoError(t, err)
	require.Nil(t, missing)
}
