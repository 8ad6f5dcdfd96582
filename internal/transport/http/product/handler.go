package product

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
	service "github.com/comanda-app/comanda/internal/service/product"
	"github.com/comanda-app/comanda/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/comanda-app/comanda/transport/http/product")

// Handler exposes catalog administration endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a product Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/products")
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.POST("/:id/available", h.setAvailable)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Category    string  `json:"category"`
		Image       string  `json:"image"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "products.create", trace.WithAttributes(attribute.String("product.name", payload.Name)))
	defer span.End()

	p, err := h.svc.Create(ctx, &entity.Product{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Category:    payload.Category,
		ImagePath:   payload.Image,
		Available:   true,
	})
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(toDTO(p)).Build()
}

func (h *Handler) get(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid product id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "products.get", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	p, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(p)).Build()
}

func (h *Handler) setAvailable(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid product id", errorbank.WithCause(err))).Build()
	}

	var payload struct {
		Available bool `json:"available"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "products.setAvailable", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if err := h.svc.SetAvailable(ctx, id, payload.Available); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(map[string]any{"id": id, "available": payload.Available}).Build()
}

func toDTO(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.ImagePath,
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
	}
}
