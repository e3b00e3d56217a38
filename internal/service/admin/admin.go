// Package admin implements the administrator mutations on courier and customer
// documents and the single-document detail fetch.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"virtual-vr-console/internal/apperr"
	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/logx"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

// Metrics are optional counters updated by the Service.
type Metrics struct {
	Actions         *prometheus.CounterVec
	PublishFailures prometheus.Counter
}

// Service applies administrator mutations. Every mutation is a single
// document update followed by a re-fetch; nothing is retried or rolled back.
type Service struct {
	couriers         courierStore
	customers        customerStore
	publisher        Publisher
	logger           logx.Logger
	metrics          Metrics
	now              func() time.Time
	newID            func() string
	operationTimeout time.Duration
}

// NewService creates an admin Service. A nil publisher disables events.
func NewService(
	couriers courierStore,
	customers customerStore,
	publisher Publisher,
	logger logx.Logger,
	m Metrics,
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
		publisher:        publisher,
		logger:           logger,
		metrics:          m,
		now:              time.Now,
		newID:            uuid.NewString,
		operationTimeout: timeout,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// GetCourier returns the courier or ErrNotFound.
func (s *Service) GetCourier(ctx context.Context, id string) (*domain.Courier, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.getCourier(ctx, id)
}

// GetCustomer returns the customer or ErrNotFound.
func (s *Service) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.getCustomer(ctx, id)
}

// ApproveCourier sets isApproved.
func (s *Service) ApproveCourier(ctx context.Context, actor, id string) (*domain.Courier, error) {
	return s.mutateCourier(ctx, actor, id, domain.ActionApprove, map[string]any{
		"isApproved": true,
	})
}

// RejectCourier clears both approval flags. Rejecting twice leaves the same state.
func (s *Service) RejectCourier(ctx context.Context, actor, id string) (*domain.Courier, error) {
	return s.mutateCourier(ctx, actor, id, domain.ActionReject, map[string]any{
		"isApproved": false,
		"isActive":   false,
	})
}

// SetCourierActive writes the courier's isActive flag.
func (s *Service) SetCourierActive(ctx context.Context, actor, id string, active bool) (*domain.Courier, error) {
	return s.mutateCourier(ctx, actor, id, domain.ActionSetActive, map[string]any{
		"isActive": active,
	})
}

// UpdateCourier applies an administrator edit of the courier document.
func (s *Service) UpdateCourier(ctx context.Context, actor, id string, patch map[string]any) (*domain.Courier, error) {
	fields, err := sanitize(patch, courierFields)
	if err != nil {
		s.count(domain.ActionUpdate, domain.RoleDelivery, resultError)
		return nil, err
	}
	return s.mutateCourier(ctx, actor, id, domain.ActionUpdate, fields)
}

// SetCustomerActive writes the customer's isActive flag.
func (s *Service) SetCustomerActive(ctx context.Context, actor, id string, active bool) (*domain.Customer, error) {
	return s.mutateCustomer(ctx, actor, id, domain.ActionSetActive, map[string]any{
		"isActive": active,
	})
}

// SetCustomerPreferential writes the customer's isPreferential flag.
func (s *Service) SetCustomerPreferential(ctx context.Context, actor, id string, preferential bool) (*domain.Customer, error) {
	return s.mutateCustomer(ctx, actor, id, domain.ActionSetPreferential, map[string]any{
		"isPreferential": preferential,
	})
}

// UpdateCustomer applies an administrator edit of the customer document.
func (s *Service) UpdateCustomer(ctx context.Context, actor, id string, patch map[string]any) (*domain.Customer, error) {
	fields, err := sanitize(patch, customerFields)
	if err != nil {
		s.count(domain.ActionUpdate, domain.RoleUser, resultError)
		return nil, err
	}
	return s.mutateCustomer(ctx, actor, id, domain.ActionUpdate, fields)
}

func (s *Service) mutateCourier(ctx context.Context, actor, id string, action domain.ModerationAction, fields map[string]any) (*domain.Courier, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", apperr.ErrInvalid)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log := s.logger.With(logx.String("action", string(action)), logx.String("courier_id", id), logx.String("actor", actor))
	if err := s.couriers.Update(ctx, id, fields); err != nil {
		log.Error("courier mutation failed", logx.Err(err))
		s.count(action, domain.RoleDelivery, resultError)
		return nil, fmt.Errorf("%s courier: %w", action, err)
	}
	s.count(action, domain.RoleDelivery, resultOK)
	s.publish(ctx, log, domain.RoleDelivery, action, actor, id, fields)

	c, err := s.getCourier(ctx, id)
	if err != nil {
		log.Error("courier re-fetch failed", logx.Err(err))
		return nil, err
	}
	return c, nil
}

func (s *Service) mutateCustomer(ctx context.Context, actor, id string, action domain.ModerationAction, fields map[string]any) (*domain.Customer, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", apperr.ErrInvalid)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log := s.logger.With(logx.String("action", string(action)), logx.String("customer_id", id), logx.String("actor", actor))
	if err := s.customers.Update(ctx, id, fields); err != nil {
		log.Error("customer mutation failed", logx.Err(err))
		s.count(action, domain.RoleUser, resultError)
		return nil, fmt.Errorf("%s customer: %w", action, err)
	}
	s.count(action, domain.RoleUser, resultOK)
	s.publish(ctx, log, domain.RoleUser, action, actor, id, fields)

	c, err := s.getCustomer(ctx, id)
	if err != nil {
		log.Error("customer re-fetch failed", logx.Err(err))
		return nil, err
	}
	return c, nil
}

func (s *Service) getCourier(ctx context.Context, id string) (*domain.Courier, error) {
	c, err := s.couriers.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get courier: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("courier %s: %w", id, apperr.ErrNotFound)
	}
	return c, nil
}

func (s *Service) getCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	c, err := s.customers.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("customer %s: %w", id, apperr.ErrNotFound)
	}
	return c, nil
}

// publish is best-effort; a failure is logged and counted only.
func (s *Service) publish(ctx context.Context, log logx.Logger, kind domain.Role, action domain.ModerationAction, actor, id string, fields map[string]any) {
	if s.publisher == nil {
		return
	}
	ev := domain.ModerationEvent{
		EventID:    s.newID(),
		Action:     action,
		Kind:       kind,
		TargetID:   id,
		ActorID:    actor,
		Fields:     fields,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Warn("moderation event not published", logx.String("event_id", ev.EventID), logx.Err(err))
		if s.metrics.PublishFailures != nil {
			s.metrics.PublishFailures.Inc()
		}
	}
}

func (s *Service) count(action domain.ModerationAction, kind domain.Role, result string) {
	if s.metrics.Actions != nil {
		s.metrics.Actions.WithLabelValues(string(action), string(kind), result).Inc()
	}
}
