package order

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/comanda-app/comanda/internal/config"
	"github.com/comanda-app/comanda/internal/dto"
	"github.com/comanda-app/comanda/internal/entity"
	"github.com/comanda-app/comanda/internal/presentation/http/response"
	service "github.com/comanda-app/comanda/internal/service/order"
	"github.com/comanda-app/comanda/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/comanda-app/comanda/transport/http/order")

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc      *service.Service
	currency string
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service, cfg config.Config) *Handler {
	return &Handler{svc: svc, currency: cfg.Restaurant.Currency}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	e.POST("/tables/:id/orders", h.create)
	g := e.Group("/orders")
	g.GET("/pending", h.listPending)
	g.POST("/:id/status", h.advanceStatus)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	tableID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid table id", errorbank.WithCause(err))).Build()
	}

	var payload struct {
		Items []service.CartItem `json:"items"`
		Notes string             `json:"notes"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create", trace.WithAttributes(
		attribute.Int64("table.id", tableID),
		attribute.Int("cart.items", len(payload.Items)),
	))
	defer span.End()

	order, err := h.svc.Create(ctx, tableID, payload.Items, payload.Notes)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(h.toDTO(order)).Build()
}

func (h *Handler) listPending(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.listPending")
	defer span.End()

	pending, err := h.svc.ListPending(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(pending).WithMeta("count", len(pending)).Build()
}

func (h *Handler) advanceStatus(c echo.Context) error {
	b := response.New(c)

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid order id", errorbank.WithCause(err))).Build()
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.advanceStatus", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.String("order.status", payload.Status),
	))
	defer span.End()

	if err := h.svc.AdvanceStatus(ctx, orderID, payload.Status); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(map[string]any{"id": orderID, "status": payload.Status}).Build()
}

func (h *Handler) toDTO(order *entity.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:        order.ID,
		TableID:   order.TableID,
		Status:    order.Status.String(),
		Total:     order.Total,
		Currency:  h.currency,
		Notes:     order.Notes,
		CreatedAt: order.CreatedAt,
	}
	if order.Table != nil {
		resp.TableName = order.Table.Name
	}
	for _, line := range order.Lines {
		lr := dto.OrderLineResponse{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal(),
		}
		if line.Product != nil {
			lr.Product = line.Product.Name
		}
		resp.Lines = append(resp.Lines, lr)
	}
	return resp
}
