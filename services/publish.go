package services

import (
	"context"
	"time"

	"ahara/pkg/events"
	"ahara/pkg/logger"

	"go.uber.org/zap"
)

// publish runs after commit; a failed publish is logged and never fails the request.
func publish(ctx context.Context, pub events.Publisher, log *zap.Logger, e events.Event) {
	if pub == nil {
		return
	}
	e.OccurredAt = time.Now()
	if err := pub.Publish(ctx, e); err != nil {
		logger.Warn(ctx, log, "publish event failed",
			zap.String("type", e.Type), zap.Uint("order_id", e.OrderID), zap.Error(err))
	}
}
