package order

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/comanda-app/comanda/internal/config"
	"github.com/comanda-app/comanda/internal/messaging"
	ordersvc "github.com/comanda-app/comanda/internal/service/order"
	"github.com/comanda-app/comanda/internal/worker"
)

var workerTracer = otel.Tracer("github.com/comanda-app/comanda/worker/order")

// Module registers order-related worker handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(
			NewOrderEventsHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewOrderEventsHandler consumes the orders topic and surfaces events to the
// kitchen log. New orders and status changes arrive on the same topic.
func NewOrderEventsHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.orders.process", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event ordersvc.OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode order event", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}

		span.SetAttributes(
			attribute.String("order.event", event.Type),
			attribute.Int64("order.id", event.OrderID),
		)

		switch event.Type {
		case ordersvc.EventOrderCreated:
			logger.Info("new order for the kitchen",
				zap.Int64("order_id", event.OrderID),
				zap.String("table", event.TableName),
				zap.Float64("total", event.Total),
			)
		case ordersvc.EventOrderStatusChanged:
			logger.Info("order status changed",
				zap.Int64("order_id", event.OrderID),
				zap.String("status", event.Status),
			)
		default:
			logger.Warn("unknown order event type", zap.String("type", event.Type))
		}

		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
