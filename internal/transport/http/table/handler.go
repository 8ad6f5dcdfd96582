package table

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/comanda-app/comanda/internal/dto"
	"github.com/comanda-app/comanda/internal/entity"
	"github.com/comanda-app/comanda/internal/presentation/http/response"
	service "github.com/comanda-app/comanda/internal/service/table"
	"github.com/comanda-app/comanda/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/comanda-app/comanda/transport/http/table")

// Handler exposes table administration endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a table Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/tables")
	g.POST("", h.create)
	g.GET("", h.list)
	g.POST("/:id/active", h.setActive)
	g.POST("/:id/qr", h.regenerateQR)
	g.DELETE("/:id", h.remove)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		Number int    `json:"number"`
		Name   string `json:"name"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "tables.create", trace.WithAttributes(attribute.Int("table.number", payload.Number)))
	defer span.End()

	t, err := h.svc.Create(ctx, payload.Number, payload.Name)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(toDTO(t)).Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "tables.list")
	defer span.End()

	tables, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.TableResponse, 0, len(tables))
	for _, t := range tables {
		out = append(out, toDTO(t))
	}
	return b.WithData(out).Build()
}

func (h *Handler) setActive(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid table id", errorbank.WithCause(err))).Build()
	}

	var payload struct {
		Active bool `json:"active"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "tables.setActive", trace.WithAttributes(attribute.Int64("table.id", id)))
	defer span.End()

	if err := h.svc.SetActive(ctx, id, payload.Active); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(map[string]any{"id": id, "active": payload.Active}).Build()
}

func (h *Handler) regenerateQR(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid table id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "tables.regenerateQR", trace.WithAttributes(attribute.Int64("table.id", id)))
	defer span.End()

	path, url, err := h.svc.RegenerateQR(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(map[string]string{"path": path, "url": url}).Build()
}

func (h *Handler) remove(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid table id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "tables.delete", trace.WithAttributes(attribute.Int64("table.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusNoContent).Build()
}

func toDTO(t *entity.Table) dto.TableResponse {
	return dto.TableResponse{
		ID:        t.ID,
		Number:    t.Number,
		Name:      t.Name,
		Active:    t.Active,
		QRPath:    t.QRPath,
		CreatedAt: t.CreatedAt,
	}
}
