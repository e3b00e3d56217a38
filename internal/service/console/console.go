// Package console mirrors the courier and customer collections for admin
// dashboards and derives the filtered views and statistics shown there.
package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"virtual-vr-console/internal/apperr"
	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/logx"
)

type courierSource interface {
	List(ctx context.Context) ([]domain.Courier, error)
	Subscribe(ctx context.Context, fn func([]domain.Courier)) error
}

type customerSource interface {
	List(ctx context.Context) ([]domain.Customer, error)
	Subscribe(ctx context.Context, fn func([]domain.Customer)) error
}

// Service opens console sessions and serves one-time filtered lists.
type Service struct {
	couriers         courierSource
	customers        customerSource
	logger           logx.Logger
	emissions        *prometheus.CounterVec
	sessions         prometheus.Gauge
	operationTimeout time.Duration
}

// NewService creates a console Service. Metrics may be nil.
func NewService(
	couriers courierSource,
	customers customerSource,
	logger logx.Logger,
	emissions *prometheus.CounterVec,
	sessions prometheus.Gauge,
	timeout time.Duration,
) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		couriers:         couriers,
		customers:        customers,
		logger:           logger,
		emissions:        emissions,
		sessions:         sessions,
		operationTimeout: timeout,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// ListCouriers fetches the collection once and applies f.
func (s *Service) ListCouriers(ctx context.Context, f CourierFilter) ([]domain.Courier, CourierStats, error) {
	if err := f.Validate(); err != nil {
		return nil, CourierStats{}, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	all, err := s.couriers.List(ctx)
	if err != nil {
		return nil, CourierStats{}, fmt.Errorf("list couriers: %w", err)
	}
	return FilterCouriers(all, f), StatsOfCouriers(all), nil
}

// ListCustomers fetches the collection once and applies f.
func (s *Service) ListCustomers(ctx context.Context, f CustomerFilter) ([]domain.Customer, CustomerStats, error) {
	if err := f.Validate(); err != nil {
		return nil, CustomerStats{}, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	all, err := s.customers.List(ctx)
	if err != nil {
		return nil, CustomerStats{}, fmt.Errorf("list customers: %w", err)
	}
	return FilterCustomers(all, f), StatsOfCustomers(all), nil
}

// Open starts both live subscriptions for one dashboard. They run until ctx is
// cancelled; Done is closed once both have stopped.
func (s *Service) Open(ctx context.Context, actor string) *Session {
	sess := newSession()
	log := s.logger.With(logx.String("actor", actor))

	if s.sessions != nil {
		s.sessions.Inc()
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		err := s.couriers.Subscribe(ctx, func(items []domain.Courier) {
			s.countEmission(KindCouriers)
			sess.replaceCouriers(items)
		})
		s.watchStopped(ctx, sess, log, KindCouriers, err)
	}()
	go func() {
		defer wg.Done()
		err := s.customers.Subscribe(ctx, func(items []domain.Customer) {
			s.countEmission(KindCustomers)
			sess.replaceCustomers(items)
		})
		s.watchStopped(ctx, sess, log, KindCustomers, err)
	}()
	go func() {
		wg.Wait()
		if s.sessions != nil {
			s.sessions.Dec()
		}
		close(sess.done)
		log.Debug("console session closed")
	}()

	log.Info("console session opened")
	return sess
}

func (s *Service) watchStopped(ctx context.Context, sess *Session, log logx.Logger, kind Kind, err error) {
	if err == nil || errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return
	}
	log.Error("live subscription failed", logx.String("kind", string(kind)), logx.Err(err))
	sess.fail(kind, err)
}

func (s *Service) countEmission(kind Kind) {
	if s.emissions != nil {
		s.emissions.WithLabelValues(string(kind)).Inc()
	}
}

// Validate rejects filter values outside the known sets.
func (f CourierFilter) Validate() error {
	switch f.Status {
	case "", FilterAll, string(domain.ReviewPending), string(domain.ReviewApproved), string(domain.ReviewRejected):
	default:
		return fmt.Errorf("%w: status %q", apperr.ErrInvalid, f.Status)
	}
	if !isAll(f.VehicleType) && !domain.VehicleType(f.VehicleType).Valid() {
		return fmt.Errorf("%w: vehicleType %q", apperr.ErrInvalid, f.VehicleType)
	}
	return nil
}

// Validate rejects filter values outside the known sets.
func (f CustomerFilter) Validate() error {
	switch f.Status {
	case "", FilterAll, StatusActive, StatusInactive:
	default:
		return fmt.Errorf("%w: status %q", apperr.ErrInvalid, f.Status)
	}
	switch f.Preferential {
	case "", FilterAll, PreferentialYes, PreferentialNo:
	default:
		return fmt.Errorf("%w: preferential %q", apperr.ErrInvalid, f.Preferential)
	}
	return nil
}
