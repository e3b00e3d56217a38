package audit_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"virtual-vr-console/internal/apperr"
	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/gateway/mail"
	"virtual-vr-console/internal/service/audit"
	testlog "virtual-vr-console/internal/testutil"
)

type stubLog struct {
	appendFn func(ctx context.Context, ev domain.ModerationEvent) (bool, error)
}

func (s *stubLog) Append(ctx context.Context, ev domain.ModerationEvent) (bool, error) {
	return s.appendFn(ctx, ev)
}

// onceLog reports each event id as inserted only the first time.
func onceLog() *stubLog {
	seen := map[string]bool{}
	return &stubLog{appendFn: func(_ context.Context, ev domain.ModerationEvent) (bool, error) {
		if seen[ev.EventID] {
			return false, nil
		}
		seen[ev.EventID] = true
		return true, nil
	}}
}

type stubCouriers struct {
	getFn func(ctx context.Context, id string) (*domain.Courier, error)
}

func (s *stubCouriers) Get(ctx context.Context, id string) (*domain.Courier, error) {
	return s.getFn(ctx, id)
}

func luis() *stubCouriers {
	return &stubCouriers{getFn: func(_ context.Context, id string) (*domain.Courier, error) {
		return &domain.Courier{
			BaseUser:  domain.BaseUser{ID: id, Email: "luis@example.com"},
			FirstName: "Luis",
			LastName:  "Pérez",
		}, nil
	}}
}

type recordingMailer struct {
	sent  []mail.Message
	fails error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	if m.fails != nil {
		return m.fails
	}
	m.sent = append(m.sent, msg)
	return nil
}

// fixed event ids; the audit table keys events by uuid.
const (
	e1 = "0b6f3a52-5d0e-4c38-9a3f-1f2e4d5c6b71"
	e2 = "7c2d9e14-8a41-4b6f-b2d3-5e6f7a8b9c02"
	e3 = "a94e1f37-3c25-4d8a-8e6b-2f1a0c9d8e13"
)

func event(id string, action domain.ModerationAction, kind domain.Role) domain.ModerationEvent {
	return domain.ModerationEvent{
		EventID:    id,
		Action:     action,
		Kind:       kind,
		TargetID:   "c1",
		ActorID:    "admin-1",
		OccurredAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newEvents() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "audit_events_test_total"}, []string{"result"})
}

func TestProcessor_ApproveMailsCourierOnce(t *testing.T) {
	t.Parallel()

	m := &recordingMailer{}
	events := newEvents()
	p := audit.NewProcessor(onceLog(), luis(), m, nil, events)

	ev := event(e1, domain.ActionApprove, domain.RoleDelivery)
	require.NoError(t, p.Handle(context.Background(), ev))
	require.NoError(t, p.Handle(context.Background(), ev))

	require.Len(t, m.sent, 1)
	require.Equal(t, "luis@example.com", m.sent[0].ToEmail)
	require.Equal(t, "Luis Pérez", m.sent[0].ToName)
	require.Equal(t, "Tu cuenta de domiciliario fue aprobada", m.sent[0].Subject)
	require.Contains(t, m.sent[0].Text, "Hola Luis")

	require.Equal(t, float64(1), testutil.ToFloat64(events.WithLabelValues(audit.ResultRecorded)))
	require.Equal(t, float64(1), testutil.ToFloat64(events.WithLabelValues(audit.ResultDuplicate)))
}

func TestProcessor_RejectMailsCourier(t *testing.T) {
	t.Parallel()

	m := &recordingMailer{}
	p := audit.NewProcessor(onceLog(), luis(), m, nil, nil)

	require.NoError(t, p.Handle(context.Background(), event(e2, domain.ActionReject, domain.RoleDelivery)))
	require.Len(t, m.sent, 1)
	require.Equal(t, "Tu solicitud de domiciliario fue rechazada", m.sent[0].Subject)
}

func TestProcessor_OtherActionsAreOnlyRecorded(t *testing.T) {
	t.Parallel()

	m := &recordingMailer{}
	couriers := &stubCouriers{getFn: func(context.Context, string) (*domain.Courier, error) {
		t.Fatal("courier lookup must not happen")
		return nil, nil
	}}
	var appended []string
	log := &stubLog{appendFn: func(_ context.Context, ev domain.ModerationEvent) (bool, error) {
		appended = append(appended, ev.EventID)
		return true, nil
	}}
	p := audit.NewProcessor(log, couriers, m, nil, nil)

	require.NoError(t, p.Handle(context.Background(), event(e1, domain.ActionSetActive, domain.RoleDelivery)))
	require.NoError(t, p.Handle(context.Background(), event(e2, domain.ActionSetPreferential, domain.RoleUser)))
	require.NoError(t, p.Handle(context.Background(), event(e3, domain.ActionApprove, domain.RoleUser)))

	require.Equal(t, []string{e1, e2, e3}, appended)
	require.Empty(t, m.sent)
}

func TestProcessor_InvalidEvent(t *testing.T) {
	t.Parallel()

	log := &stubLog{appendFn: func(context.Context, domain.ModerationEvent) (bool, error) {
		t.Fatal("invalid events are not appended")
		return false, nil
	}}
	events := newEvents()
	p := audit.NewProcessor(log, luis(), &recordingMailer{}, nil, events)

	err := p.Handle(context.Background(), event(e1, "explode", domain.RoleDelivery))
	require.ErrorIs(t, err, apperr.ErrInvalid)

	err = p.Handle(context.Background(), event(e2, domain.ActionApprove, "robot"))
	require.ErrorIs(t, err, apperr.ErrInvalid)
	require.Equal(t, float64(2), testutil.ToFloat64(events.WithLabelValues(audit.ResultInvalid)))
}

func TestProcessor_AppendFailureIsReturned(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	log := &stubLog{appendFn: func(context.Context, domain.ModerationEvent) (bool, error) {
		return false, boom
	}}
	m := &recordingMailer{}
	p := audit.NewProcessor(log, luis(), m, nil, nil)

	err := p.Handle(context.Background(), event(e1, domain.ActionApprove, domain.RoleDelivery))
	require.ErrorIs(t, err, boom)
	require.Empty(t, m.sent)
}

func TestProcessor_MailFailureIsLoggedNotReturned(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	events := newEvents()
	m := &recordingMailer{fails: errors.New("sendgrid: 401")}
	p := audit.NewProcessor(onceLog(), luis(), m, rec.Logger(), events)

	require.NoError(t, p.Handle(context.Background(), event(e1, domain.ActionApprove, domain.RoleDelivery)))

	entry, ok := rec.Find("error", "moderation notification failed")
	require.True(t, ok)
	target, _ := entry.Field("target_id")
	require.Equal(t, "c1", target)
	require.Equal(t, float64(1), testutil.ToFloat64(events.WithLabelValues(audit.ResultMailFailed)))
}

func TestProcessor_MissingCourierSkipsMail(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	m := &recordingMailer{}
	couriers := &stubCouriers{getFn: func(context.Context, string) (*domain.Courier, error) { return nil, nil }}
	p := audit.NewProcessor(onceLog(), couriers, m, rec.Logger(), nil)

	require.NoError(t, p.Handle(context.Background(), event(e1, domain.ActionReject, domain.RoleDelivery)))
	require.Empty(t, m.sent)
	_, ok := rec.Find("warn", "courier has no address, notification skipped")
	require.True(t, ok)
}

func TestProcessor_NonUUIDEventIDIsInvalid(t *testing.T) {
	t.Parallel()

	log := &stubLog{appendFn: func(context.Context, domain.ModerationEvent) (bool, error) {
		t.Fatal("events with a malformed id are not appended")
		return false, nil
	}}
	events := newEvents()
	p := audit.NewProcessor(log, luis(), &recordingMailer{}, nil, events)

	for _, id := range []string{"evt-1", ""} {
		err := p.Handle(context.Background(), event(id, domain.ActionApprove, domain.RoleDelivery))
		require.ErrorIs(t, err, apperr.ErrInvalid, "event id %q", id)
	}
	require.Equal(t, float64(2), testutil.ToFloat64(events.WithLabelValues(audit.ResultInvalid)))
}

func TestProcessor_StoreRejectingEventIsInvalid(t *testing.T) {
	t.Parallel()

	log := &stubLog{appendFn: func(context.Context, domain.ModerationEvent) (bool, error) {
		return false, fmt.Errorf("%w: invalid input syntax for type uuid", apperr.ErrInvalid)
	}}
	events := newEvents()
	p := audit.NewProcessor(log, luis(), &recordingMailer{}, nil, events)

	err := p.Handle(context.Background(), event(e1, domain.ActionApprove, domain.RoleDelivery))
	require.ErrorIs(t, err, apperr.ErrInvalid)
	require.Equal(t, float64(1), testutil.ToFloat64(events.WithLabelValues(audit.ResultInvalid)))
	require.Zero(t, testutil.ToFloat64(events.WithLabelValues(audit.ResultFailed)))
}
