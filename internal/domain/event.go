package domain

import "time"

// ModerationAction names an administrator mutation.
type ModerationAction string

// List of moderation actions
const (
	ActionApprove         ModerationAction = "approve"
	ActionReject          ModerationAction = "reject"
	ActionSetActive       ModerationAction = "set_active"
	ActionSetPreferential ModerationAction = "set_preferential"
	ActionUpdate          ModerationAction = "update"
)

// ModerationEvent records one successful administrator mutation.
type ModerationEvent struct {
	EventID    string           `json:"event_id"`
	Action     ModerationAction `json:"action"`
	Kind       Role             `json:"kind"`
	TargetID   string           `json:"target_id"`
	ActorID    string           `json:"actor_id"`
	Fields     map[string]any   `json:"fields,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}
