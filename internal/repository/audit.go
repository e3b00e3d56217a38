package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"virtual-vr-console/internal/domain"
)

const auditSchema = `
CREATE TABLE IF NOT EXISTS moderation_audit (
	event_id    UUID PRIMARY KEY,
	action      TEXT NOT NULL,
	kind        TEXT NOT NULL,
	target_id   TEXT NOT NULL,
	actor_id    TEXT NOT NULL,
	fields      JSONB,
	occurred_at TIMESTAMPTZ NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS moderation_audit_target_idx ON moderation_audit (target_id, occurred_at DESC);
`

// AuditEntry is one stored moderation event.
type AuditEntry struct {
	domain.ModerationEvent
	RecordedAt time.Time `json:"recorded_at"`
}

// AuditRepo stores moderation events in postgres.
type AuditRepo struct{ db *pgxpool.Pool }

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(db *pgxpool.Pool) *AuditRepo { return &AuditRepo{db: db} }

// EnsureSchema creates the audit table when missing.
func (r *AuditRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, auditSchema); err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

// Append stores ev. Redelivered events are ignored; inserted reports whether a row was written.
func (r *AuditRepo) Append(ctx context.Context, ev domain.ModerationEvent) (inserted bool, err error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO moderation_audit(event_id, action, kind, target_id, actor_id, fields, occurred_at)
		 VALUES($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (event_id) DO NOTHING`,
		ev.EventID, string(ev.Action), string(ev.Kind), ev.TargetID, ev.ActorID, ev.Fields, ev.OccurredAt,
	)
	if err != nil {
		return false, fmt.Errorf("append audit %s: %w", ev.EventID, mapPgErr(err))
	}
	return tag.RowsAffected() == 1, nil
}

// ListByTarget returns the newest entries for one document of the given kind,
// at most limit.
func (r *AuditRepo) ListByTarget(ctx context.Context, kind domain.Role, targetID string, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT event_id::text, action, kind, target_id, actor_id, fields, occurred_at, recorded_at
		 FROM moderation_audit WHERE target_id=$1 AND kind=$2 ORDER BY occurred_at DESC LIMIT $3`,
		targetID, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("list audit %s/%s: %w", kind, targetID, err)
	}
	defer rows.Close()

	out := make([]AuditEntry, 0, limit)
	for rows.Next() {
		var (
			e            AuditEntry
			action, kind string
		)
		if err := rows.Scan(&e.EventID, &action, &kind, &e.TargetID, &e.ActorID, &e.Fields, &e.OccurredAt, &e.RecordedAt); err != nil {
			return nil, err
		}
		e.Action = domain.ModerationAction(action)
		e.Kind = domain.Role(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}
