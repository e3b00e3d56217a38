package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"

	"virtual-vr-console/internal/domain"
	testlog "virtual-vr-console/internal/testutil"
)

func sampleEvent() domain.ModerationEvent {
	return domain.ModerationEvent{
		EventID:    "e1",
		Action:     domain.ActionApprove,
		Kind:       domain.RoleDelivery,
		TargetID:   "c1",
		ActorID:    "admin-1",
		Fields:     map[string]any{"isApproved": true},
		OccurredAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublisher_Publish_SendsJSON(t *testing.T) {
	t.Parallel()

	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var dto EventDTO
		if err := json.Unmarshal(val, &dto); err != nil {
			return err
		}
		if dto.EventID != "e1" || dto.Action != "approve" || dto.Kind != "delivery" || dto.TargetID != "c1" {
			return errors.New("unexpected payload")
		}
		return nil
	})

	rec := testlog.New()
	p := newPublisher(rec.Logger(), sp, "console.moderation")
	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.NoError(t, p.Close())
	require.True(t, hasMsg(rec.Entries(), "moderation event published"))
}

func TestPublisher_Publish_ReturnsBrokerError(t *testing.T) {
	t.Parallel()

	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)

	p := newPublisher(testlog.New().Logger(), sp, "console.moderation")
	err := p.Publish(context.Background(), sampleEvent())
	require.ErrorIs(t, err, sarama.ErrNotLeaderForPartition)
	require.NoError(t, p.Close())
}

func TestPublisher_Publish_CancelledContext(t *testing.T) {
	t.Parallel()

	sp := mocks.NewSyncProducer(t, nil)
	p := newPublisher(testlog.New().Logger(), sp, "console.moderation")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, p.Publish(ctx, sampleEvent()), context.Canceled)
	require.NoError(t, p.Close())
}

func TestNewPublisher(t *testing.T) {
	_, err := NewPublisher(nil, nil, "topic")
	require.Error(t, err)

	orig := newSyncProducer
	t.Cleanup(func() { newSyncProducer = orig })

	newSyncProducer = func(_ []string, cfg *sarama.Config) (sarama.SyncProducer, error) {
		require.True(t, cfg.Producer.Return.Successes)
		require.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
		return nil, errors.New("dial tcp: refused")
	}
	_, err = NewPublisher(nil, []string{"b:9092"}, "topic")
	require.ErrorContains(t, err, "refused")
}

func TestNopPublisher(t *testing.T) {
	t.Parallel()

	require.NoError(t, NopPublisher{}.Publish(context.Background(), sampleEvent()))
}

func TestDTO_RoundTripTrims(t *testing.T) {
	t.Parallel()

	ev := sampleEvent()
	dto := FromDomain(ev)
	dto.EventID = "  e1 "
	dto.Action = " approve"
	require.Equal(t, ev, ToDomain(dto))
}
