package service

import (
	"context"

	"github.com/Skotchmaster/docs_gateway/internal/events"
	"github.com/Skotchmaster/docs_gateway/internal/logging"
)

// emit publishes ev best effort: a broker failure is logged and swallowed.
func emit(ctx context.Context, pub events.Publisher, topic string, ev events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, topic, ev.UserID, ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed",
			"topic", topic, "type", ev.Type, "error", err)
	}
}
