package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/comanda-app/comanda/internal/config"
	"github.com/comanda-app/comanda/internal/entity"
	"github.com/comanda-app/comanda/internal/messaging"
	orderrepo "github.com/comanda-app/comanda/internal/repository/order"
	productrepo "github.com/comanda-app/comanda/internal/repository/product"
	tablerepo "github.com/comanda-app/comanda/internal/repository/table"
	"github.com/comanda-app/comanda/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/comanda-app/comanda/service/order")

// CartItem is one requested entry of a client-side cart.
type CartItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// PendingLine is a flattened (product name, quantity) pair on a pending order.
type PendingLine struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// PendingOrder is the kitchen-view summary of an order awaiting preparation.
type PendingOrder struct {
	ID        int64         `json:"id"`
	TableID   int64         `json:"table_id"`
	TableName string        `json:"table_name"`
	Total     float64       `json:"total"`
	CreatedAt time.Time     `json:"created_at"`
	Notes     string        `json:"notes,omitempty"`
	Items     []PendingLine `json:"items"`
}

// Service is the order engine: it turns validated carts into persisted
// orders, moves orders through their lifecycle, and feeds the kitchen view.
type Service struct {
	orders    *orderrepo.Repository
	tables    *tablerepo.Repository
	products  *productrepo.Repository
	logger    *zap.Logger
	publisher messaging.Client
	messaging messagingConfig
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Orders    *orderrepo.Repository
	Tables    *tablerepo.Repository
	Products  *productrepo.Repository
	Config    config.Config
	Logger    *zap.Logger
	Publisher messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		orders:    p.Orders,
		tables:    p.Tables,
		products:  p.Products,
		logger:    p.Logger,
		publisher: p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
	}
}

// Create validates a cart against the live menu and persists the resulting
// order atomically. Requested products that are missing or unavailable are
// dropped silently; each surviving line freezes the product's current price.
// When every item is dropped nothing is persisted and the call fails.
func (s *Service) Create(ctx context.Context, tableID int64, items []CartItem, notes string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(
		attribute.Int64("table.id", tableID),
		attribute.Int("cart.items", len(items)),
	))
	defer span.End()

	if len(items) == 0 {
		return nil, errorbank.BadRequest("order has no items")
	}

	table, err := s.tables.GetActive(ctx, tableID)
	if err != nil {
		if errors.Is(err, tablerepo.ErrNotFound) {
			return nil, errorbank.NotFound("table not found or inactive")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load table", errorbank.WithCause(err))
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	available, err := s.products.AvailableByIDs(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load products", errorbank.WithCause(err))
	}

	byID := make(map[int64]*entity.Product, len(available))
	for _, p := range available {
		byID[p.ID] = p
	}

	lines := buildLines(byID, items)
	if len(lines) == 0 {
		return nil, errorbank.Unprocessable("no valid items in order")
	}

	order := &entity.Order{
		TableID:   table.ID,
		Status:    entity.StatusPending,
		Notes:     notes,
		CreatedAt: time.Now().UTC(),
		Lines:     lines,
	}
	order.RecalcTotal()

	if err := s.orders.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}
	order.Table = table

	span.SetAttributes(attribute.Int64("order.id", order.ID), attribute.Float64("order.total", order.Total))
	s.publish(ctx, EventOrderCreated, order)
	return order, nil
}

// AdvanceStatus replaces the status of one order. The status value must be
// a member of the enumeration; beyond that any transition is allowed, so the
// floor staff can correct mistakes by moving an order backwards.
func (s *Service) AdvanceStatus(ctx context.Context, orderID int64, status string) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.AdvanceStatus", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.String("order.status", status),
	))
	defer span.End()

	next := entity.Status(status)
	if !next.Valid() {
		return errorbank.BadRequest("unknown order status",
			errorbank.WithDetail("status", status),
			errorbank.WithDetail("accepted", entity.Statuses()),
		)
	}

	if err := s.orders.UpdateStatus(ctx, orderID, next); err != nil {
		if errors.Is(err, orderrepo.ErrNotFound) {
			return errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to update order status", errorbank.WithCause(err))
	}

	s.publish(ctx, EventOrderStatusChanged, &entity.Order{ID: orderID, Status: next})
	return nil
}

// ListPending returns the kitchen queue: pending orders newest first with
// table names and flattened line items.
func (s *Service) ListPending(ctx context.Context) ([]PendingOrder, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.ListPending")
	defer span.End()

	orders, err := s.orders.ListPending(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load pending orders", errorbank.WithCause(err))
	}

	pending := make([]PendingOrder, 0, len(orders))
	for _, o := range orders {
		summary := PendingOrder{
			ID:        o.ID,
			TableID:   o.TableID,
			Total:     o.Total,
			CreatedAt: o.CreatedAt,
			Notes:     o.Notes,
			Items:     make([]PendingLine, 0, len(o.Lines)),
		}
		if o.Table != nil {
			summary.TableName = o.Table.Name
		}
		for _, line := range o.Lines {
			item := PendingLine{Quantity: line.Quantity}
			if line.Product != nil {
				item.Product = line.Product.Name
			}
			summary.Items = append(summary.Items, item)
		}
		pending = append(pending, summary)
	}
	return pending, nil
}

// buildLines resolves cart items against the available products, snapshotting
// the current price into each surviving line. Items whose product is not in
// the map are dropped; non-positive quantities fall back to 1.
func buildLines(products map[int64]*entity.Product, items []CartItem) []*entity.OrderLine {
	lines := make([]*entity.OrderLine, 0, len(items))
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok {
			continue
		}
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		lines = append(lines, &entity.OrderLine{
			ProductID: p.ID,
			Quantity:  qty,
			UnitPrice: p.Price,
		})
	}
	return lines
}

func (s *Service) publish(ctx context.Context, eventType string, order *entity.Order) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	event := OrderEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		OrderID:   order.ID,
		TableID:   order.TableID,
		Status:    order.Status.String(),
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
	}
	if order.Table != nil {
		event.TableName = order.Table.Name
	}
	payload, err := json.Marshal(event)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("marshal order event", zap.Error(err))
		}
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("order-%d", order.ID)), payload); err != nil {
		if s.logger != nil {
			s.logger.Error("publish order event", zap.String("type", eventType), zap.Error(err))
		}
	}
}

// Event types emitted on the orders topic.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent is emitted when an order is created or changes status.
type OrderEvent struct {
	EventID   string    `json:"event_id"`
	Type      string    `json:"type"`
	OrderID   int64     `json:"order_id"`
	TableID   int64     `json:"table_id"`
	TableName string    `json:"table_name,omitempty"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}
