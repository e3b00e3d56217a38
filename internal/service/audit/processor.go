// Package audit records moderation events and notifies affected couriers.
package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"virtual-vr-console/internal/apperr"
	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/gateway/mail"
	"virtual-vr-console/internal/logx"
)

// Outcome labels of audit_events_total.
const (
	ResultRecorded   = "recorded"
	ResultDuplicate  = "duplicate"
	ResultInvalid    = "invalid"
	ResultFailed     = "failed"
	ResultMailFailed = "mail_failed"
)

var knownActions = map[domain.ModerationAction]struct{}{
	domain.ActionApprove:         {},
	domain.ActionReject:          {},
	domain.ActionSetActive:       {},
	domain.ActionSetPreferential: {},
	domain.ActionUpdate:          {},
}

// Processor processes moderation events
type Processor struct {
	log      auditLog
	couriers courierLookup
	mailer   mailer
	logger   logx.Logger
	events   *prometheus.CounterVec
	factory  *notifierFactory
}

// NewProcessor creates a new Processor. events may be nil.
func NewProcessor(log auditLog, couriers courierLookup, m mailer, logger logx.Logger, events *prometheus.CounterVec) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{
		log:      log,
		couriers: couriers,
		mailer:   m,
		logger:   logger,
		events:   events,
	}
	p.factory = newNotifierFactory(p.onApprove, p.onReject)
	return p
}

// Handle appends ev to the audit log and, the first time it is seen, sends the
// matching notification. Malformed events fail with ErrInvalid; a redelivered
// event is a no-op.
func (p *Processor) Handle(ctx context.Context, ev domain.ModerationEvent) error {
	if err := validate(ev); err != nil {
		p.count(ResultInvalid)
		return err
	}

	inserted, err := p.log.Append(ctx, ev)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalid) {
			p.count(ResultInvalid)
		} else {
			p.count(ResultFailed)
		}
		return fmt.Errorf("append audit: %w", err)
	}
	if !inserted {
		p.logger.Debug("duplicate moderation event", logx.String("event_id", ev.EventID))
		p.count(ResultDuplicate)
		return nil
	}
	p.count(ResultRecorded)

	fn, ok := p.factory.get(ev)
	if !ok {
		return nil
	}
	if err := fn(ctx, ev); err != nil {
		p.logger.Error("moderation notification failed",
			logx.String("event_id", ev.EventID),
			logx.String("target_id", ev.TargetID),
			logx.Err(err),
		)
		p.count(ResultMailFailed)
	}
	return nil
}

// validate rejects events the audit table cannot store: event ids are UUIDs.
func validate(ev domain.ModerationEvent) error {
	if _, err := uuid.Parse(ev.EventID); err != nil {
		return fmt.Errorf("%w: event id %q is not a uuid", apperr.ErrInvalid, ev.EventID)
	}
	if _, ok := knownActions[ev.Action]; !ok || !ev.Kind.Valid() {
		return fmt.Errorf("%w: event %s has action %q kind %q", apperr.ErrInvalid, ev.EventID, ev.Action, ev.Kind)
	}
	return nil
}

func (p *Processor) onApprove(ctx context.Context, ev domain.ModerationEvent) error {
	return p.notifyCourier(ctx, ev, approvedMessage)
}

func (p *Processor) onReject(ctx context.Context, ev domain.ModerationEvent) error {
	return p.notifyCourier(ctx, ev, rejectedMessage)
}

func (p *Processor) notifyCourier(ctx context.Context, ev domain.ModerationEvent, build func(domain.Courier) mail.Message) error {
	c, err := p.couriers.Get(ctx, ev.TargetID)
	if err != nil {
		return fmt.Errorf("get courier: %w", err)
	}
	if c == nil || c.Email == "" {
		p.logger.Warn("courier has no address, notification skipped", logx.String("target_id", ev.TargetID))
		return nil
	}
	if err := p.mailer.Send(ctx, build(*c)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	p.logger.Info("courier notified", logx.String("target_id", ev.TargetID), logx.String("action", string(ev.Action)))
	return nil
}

func (p *Processor) count(result string) {
	if p.events != nil {
		p.events.WithLabelValues(result).Inc()
	}
}
