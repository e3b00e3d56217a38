package console

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"virtual-vr-console/internal/apperr"
	"virtual-vr-console/internal/domain"
	testlog "virtual-vr-console/internal/testutil"
)

type stubCouriers struct {
	listFn      func(ctx context.Context) ([]domain.Courier, error)
	subscribeFn func(ctx context.Context, fn func([]domain.Courier)) error
}

func (s *stubCouriers) List(ctx context.Context) ([]domain.Courier, error) {
	return s.listFn(ctx)
}

func (s *stubCouriers) Subscribe(ctx context.Context, fn func([]domain.Courier)) error {
	return s.subscribeFn(ctx, fn)
}

type stubCustomers struct {
	listFn      func(ctx context.Context) ([]domain.Customer, error)
	subscribeFn func(ctx context.Context, fn func([]domain.Customer)) error
}

func (s *stubCustomers) List(ctx context.Context) ([]domain.Customer, error) {
	return s.listFn(ctx)
}

func (s *stubCustomers) Subscribe(ctx context.Context, fn func([]domain.Customer)) error {
	return s.subscribeFn(ctx, fn)
}

// feedCouriers emits every batch received on ch until ctx is done.
func feedCouriers(ch <-chan []domain.Courier) func(context.Context, func([]domain.Courier)) error {
	return func(ctx context.Context, fn func([]domain.Courier)) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case items := <-ch:
				fn(items)
			}
		}
	}
}

func feedCustomers(ch <-chan []domain.Customer) func(context.Context, func([]domain.Customer)) error {
	return func(ctx context.Context, fn func([]domain.Customer)) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case items := <-ch:
				fn(items)
			}
		}
	}
}

func waitSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for signal")
	}
}

func newMetrics() (*prometheus.CounterVec, prometheus.Gauge) {
	emissions := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "emissions_test_total"}, []string{"kind"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{Name: "sessions_test"})
	return emissions, sessions
}

func TestService_ListCouriers(t *testing.T) {
	t.Parallel()

	src := &stubCouriers{listFn: func(context.Context) ([]domain.Courier, error) {
		return []domain.Courier{
			courier("c1", "Luis", false, true, domain.VehicleMotorcycle),
			courier("c2", "Ana", true, true, domain.VehicleCar),
		}, nil
	}}
	svc := NewService(src, &stubCustomers{}, nil, nil, nil, 0)

	items, stats, err := svc.ListCouriers(context.Background(), CourierFilter{Status: "approved"})
	require.NoError(t, err)
	require.Equal(t, []string{"c2"}, courierIDs(items))
	require.Equal(t, CourierStats{Total: 2, Pending: 1, Approved: 1}, stats)
}

func TestService_ListCouriers_InvalidFilter(t *testing.T) {
	t.Parallel()

	called := false
	src := &stubCouriers{listFn: func(context.Context) ([]domain.Courier, error) {
		called = true
		return nil, nil
	}}
	svc := NewService(src, &stubCustomers{}, nil, nil, nil, time.Second)

	_, _, err := svc.ListCouriers(context.Background(), CourierFilter{Status: "banned"})
	require.ErrorIs(t, err, apperr.ErrInvalid)
	require.False(t, called)
}

func TestService_ListCustomers_SourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("unavailable")
	src := &stubCustomers{listFn: func(context.Context) ([]domain.Customer, error) {
		return nil, boom
	}}
	svc := NewService(&stubCouriers{}, src, nil, nil, nil, time.Second)

	_, _, err := svc.ListCustomers(context.Background(), CustomerFilter{})
	require.ErrorIs(t, err, boom)
}

func TestService_Open_MirrorsEmissionsAndFilters(t *testing.T) {
	t.Parallel()

	courierCh := make(chan []domain.Courier)
	customerCh := make(chan []domain.Customer)
	emissions, sessions := newMetrics()
	svc := NewService(
		&stubCouriers{subscribeFn: feedCouriers(courierCh)},
		&stubCustomers{subscribeFn: feedCustomers(customerCh)},
		nil, emissions, sessions, time.Second,
	)

	ctx, cancel := context.WithCancel(context.Background())
	sess := svc.Open(ctx, "admin-1")
	require.Equal(t, float64(1), testutil.ToFloat64(sessions))

	require.Empty(t, sess.Couriers().Items)
	require.Equal(t, CustomerStats{}, sess.Customers().Stats)

	courierCh <- []domain.Courier{
		courier("c1", "Luis", false, true, domain.VehicleMotorcycle),
		courier("c2", "Ana", true, true, domain.VehicleCar),
	}
	waitSignal(t, sess.CouriersChanged())
	require.Equal(t, []string{"c1", "c2"}, courierIDs(sess.Couriers().Items))

	require.NoError(t, sess.SetFilters(Filters{Couriers: CourierFilter{Search: "lu", Status: "pending"}}))
	waitSignal(t, sess.CouriersChanged())
	waitSignal(t, sess.CustomersChanged())
	view := sess.Couriers()
	require.Equal(t, []string{"c1"}, courierIDs(view.Items))
	require.Equal(t, CourierStats{Total: 2, Pending: 1, Approved: 1}, view.Stats)

	// a new emission replaces the previous one and keeps the filter
	courierCh <- []domain.Courier{courier("c3", "Lucía", false, true, domain.VehicleBicycle)}
	waitSignal(t, sess.CouriersChanged())
	require.Equal(t, []string{"c3"}, courierIDs(sess.Couriers().Items))

	customerCh <- []domain.Customer{{BaseUser: domain.BaseUser{ID: "u1", IsActive: true}, IsPreferential: true}}
	waitSignal(t, sess.CustomersChanged())
	require.Equal(t, CustomerStats{Total: 1, Active: 1, Preferential: 1}, sess.Customers().Stats)

	require.Equal(t, float64(2), testutil.ToFloat64(emissions.WithLabelValues(string(KindCouriers))))
	require.Equal(t, float64(1), testutil.ToFloat64(emissions.WithLabelValues(string(KindCustomers))))

	cancel()
	waitSignal(t, sess.Done())
	require.Equal(t, float64(0), testutil.ToFloat64(sessions))

	select {
	case e := <-sess.Errors():
		t.Fatalf("unexpected subscription error: %v", e.Err)
	default:
	}
}

func TestSession_SetFiltersRejectsUnknownValues(t *testing.T) {
	t.Parallel()

	sess := newSession()
	err := sess.SetFilters(Filters{Customers: CustomerFilter{Status: "sleeping"}})
	require.ErrorIs(t, err, apperr.ErrInvalid)
	require.Equal(t, Filters{}, sess.Filters())

	select {
	case <-sess.CustomersChanged():
		t.Fatal("rejected filter must not notify")
	default:
	}
}

func TestService_Open_SubscriptionErrorIsReported(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	boom := errors.New("permission denied")
	customerCh := make(chan []domain.Customer)
	svc := NewService(
		&stubCouriers{subscribeFn: func(context.Context, func([]domain.Courier)) error { return boom }},
		&stubCustomers{subscribeFn: feedCustomers(customerCh)},
		rec.Logger(), nil, nil, time.Second,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sess := svc.Open(ctx, "admin-1")

	select {
	case e := <-sess.Errors():
		require.Equal(t, KindCouriers, e.Kind)
		require.ErrorIs(t, e.Err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("expected subscription error")
	}

	// the other subscription keeps running
	customerCh <- []domain.Customer{{BaseUser: domain.BaseUser{ID: "u1"}}}
	waitSignal(t, sess.CustomersChanged())
	require.Len(t, sess.Customers().Items, 1)

	entry, ok := rec.Find("error", "live subscription failed")
	require.True(t, ok)
	kind, _ := entry.Field("kind")
	require.Equal(t, "couriers", kind)

	cancel()
	waitSignal(t, sess.Done())
}

func TestSession_NotificationsCoalesce(t *testing.T) {
	t.Parallel()

	sess := newSession()
	for i := 0; i < 5; i++ {
		sess.replaceCouriers([]domain.Courier{courier("c", "X", false, true, domain.VehicleCar)})
	}
	waitSignal(t, sess.CouriersChanged())
	select {
	case <-sess.CouriersChanged():
		t.Fatal("expected a single pending notification")
	default:
	}
}
