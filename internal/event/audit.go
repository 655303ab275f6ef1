package event

import (
	"context"
	"log/slog"
)

// RunAuditLog subscribes to the bus and writes every event to the
// structured log until ctx is cancelled. Security events log at warn so
// they stand apart from routine activity in the audit trail.
func RunAuditLog(ctx context.Context, bus Bus) {
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}

			attrs := []any{
				"event_id", e.ID,
				"type", string(e.Type),
				"actor_id", e.ActorID,
				"occurred_at", e.Timestamp,
				"payload", e.Payload,
			}

			switch e.Type {
			case TypeTokenReuse, TypeSessionsRevoked:
				slog.Warn("audit", attrs...)
			default:
				slog.Info("audit", attrs...)
			}
		}
	}
}
