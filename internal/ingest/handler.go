// Package ingest moves user events from an import file onto the queue and
// from the queue into the user service.
package ingest

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/BRO3886/user-search/internal/queue"
	"github.com/BRO3886/user-search/internal/service"
	"github.com/BRO3886/user-search/internal/types"
)

// Handler applies one queued UserEvent to svc. Events that cannot be decoded
// or fail validation are logged and dropped; store faults are returned so
// the message is redelivered.
func Handler(svc service.EntityService[*types.User], logger *slog.Logger) queue.MessageHandler {
	logger = logger.With("component", "ingest")
	return func(ctx context.Context, data []byte) error {
		var event types.UserEvent
		if err := json.Unmarshal(data, &event); err != nil {
			logger.WarnContext(ctx, "dropping malformed event", "error", err)
			return nil
		}
		if err := event.Validate(time.Now()); err != nil {
			logger.WarnContext(ctx, "dropping invalid event", "error", err)
			return nil
		}

		var (
			ok  bool
			err error
		)
		switch event.Op {
		case types.OpDelete:
			ok, err = svc.Delete(ctx, event.User.Id)
		default:
			ok, err = svc.AddOrUpdate(ctx, event.User)
		}
		if err != nil {
			return err
		}
		if !ok {
			logger.WarnContext(ctx, "store rejected event", "op", event.Op, "id", event.User.Id)
			return nil
		}
		logger.DebugContext(ctx, "applied event", "op", event.Op, "id", event.User.Id)
		return nil
	}
}
