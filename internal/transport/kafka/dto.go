package kafka

import (
	"strings"
	"time"

	"virtual-vr-console/internal/domain"
)

// EventDTO is the wire form of domain.ModerationEvent.
type EventDTO struct {
	EventID    string         `json:"event_id"`
	Action     string         `json:"action"`
	Kind       string         `json:"kind"`
	TargetID   string         `json:"target_id"`
	ActorID    string         `json:"actor_id"`
	Fields     map[string]any `json:"fields,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// ToDomain converts EventDTO to domain.ModerationEvent
func ToDomain(dto EventDTO) domain.ModerationEvent {
	return domain.ModerationEvent{
		EventID:    strings.TrimSpace(dto.EventID),
		Action:     domain.ModerationAction(strings.TrimSpace(dto.Action)),
		Kind:       domain.Role(strings.TrimSpace(dto.Kind)),
		TargetID:   strings.TrimSpace(dto.TargetID),
		ActorID:    strings.TrimSpace(dto.ActorID),
		Fields:     dto.Fields,
		OccurredAt: dto.OccurredAt,
	}
}

// FromDomain converts domain.ModerationEvent to its wire form.
func FromDomain(ev domain.ModerationEvent) EventDTO {
	return EventDTO{
		EventID:    ev.EventID,
		Action:     string(ev.Action),
		Kind:       string(ev.Kind),
		TargetID:   ev.TargetID,
		ActorID:    ev.ActorID,
		Fields:     ev.Fields,
		OccurredAt: ev.OccurredAt,
	}
}
