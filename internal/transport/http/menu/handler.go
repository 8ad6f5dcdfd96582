package menu

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/comanda-app/comanda/internal/presentation/http/response"
	service "github.com/comanda-app/comanda/internal/service/menu"
)

var httpTracer = otel.Tracer("github.com/comanda-app/comanda/transport/http/menu")

// Handler exposes the diner-facing menu endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a menu Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	e.GET("/menu", h.query)
	e.GET("/categories", h.categories)
}

func (h *Handler) query(c echo.Context) error {
	b := response.New(c)

	category := c.QueryParam("category")
	search := c.QueryParam("search")

	ctx, span := httpTracer.Start(c.Request().Context(), "menu.query", trace.WithAttributes(
		attribute.String("menu.category", category),
		attribute.String("menu.search", search),
	))
	defer span.End()

	menu, err := h.svc.Query(ctx, category, search)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(menu).Build()
}

func (h *Handler) categories(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "menu.categories")
	defer span.End()

	categories, err := h.svc.Categories(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(categories).Build()
}
