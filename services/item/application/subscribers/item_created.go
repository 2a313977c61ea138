// Package subscribers holds the item context's event handlers.
package subscribers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/itemsapi/pkg/events"
	"github.com/ghuser/itemsapi/pkg/logger"
	itemEvents "github.com/ghuser/itemsapi/services/item/domain/events"
)

// Invalidator drops cached read models. *cache.RecentItemsCache satisfies it.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// ItemCreated returns a handler for item.created events. It invalidates the
// recent-items cache so readers on other instances see the new item.
// inv may be nil, in which case the event is only logged.
//
// Invalidation is idempotent, so redelivery after a Nack is harmless.
func ItemCreated(inv Invalidator, log logger.Logger) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		var evt itemEvents.ItemCreatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			// A payload that cannot be decoded will never succeed; ack it.
			log.ErrorContext(ctx, "dropping malformed item.created payload",
				"message_uuid", msg.UUID, "error", err)
			return nil
		}

		if inv != nil {
			if err := inv.Invalidate(ctx); err != nil {
				return fmt.Errorf("invalidate recent items: %w", err)
			}
		}

		log.InfoContext(ctx, "item created",
			"item_id", evt.ItemID,
			"event_id", evt.EventID,
			"occurred_at", evt.OccurredAt,
		)
		return nil
	}
}
