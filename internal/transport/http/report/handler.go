package report

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/comanda-app/comanda/internal/export"
	"github.com/comanda-app/comanda/internal/presentation/http/response"
	service "github.com/comanda-app/comanda/internal/service/report"
	"github.com/comanda-app/comanda/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/comanda-app/comanda/transport/http/report")

const dateParamLayout = "2006-01-02"

// Handler exposes sales reports over HTTP.
type Handler struct {
	svc   *service.Service
	excel *export.Excel
}

// NewHandler constructs a report Handler.
func NewHandler(svc *service.Service, excel *export.Excel) *Handler {
	return &Handler{svc: svc, excel: excel}
}

// Register routes with provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/reports")
	g.GET("/:period", h.build)
	g.POST("/:period/export", h.export)
}

func (h *Handler) build(c echo.Context) error {
	b := response.New(c)

	period := c.Param("period")
	start, end, err := parseRange(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "reports.build", trace.WithAttributes(attribute.String("report.period", period)))
	defer span.End()

	report, err := h.svc.Build(ctx, period, start, end)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(report).Build()
}

func (h *Handler) export(c echo.Context) error {
	b := response.New(c)

	period := c.Param("period")
	start, end, err := parseRange(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "reports.export", trace.WithAttributes(attribute.String("report.period", period)))
	defer span.End()

	report, err := h.svc.Build(ctx, period, start, end)
	if err != nil {
		return b.WithError(err).Build()
	}

	path, err := h.excel.Write(report)
	if err != nil {
		return b.WithError(errorbank.Internal("failed to export report", errorbank.WithCause(err))).Build()
	}

	return b.WithData(map[string]string{"path": path}).Build()
}

// parseRange reads the optional start/end query parameters as YYYY-MM-DD
// dates. Missing parameters stay nil so the period derives its defaults.
func parseRange(c echo.Context) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if raw := c.QueryParam("start"); raw != "" {
		t, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return nil, nil, errorbank.BadRequest("invalid start date", errorbank.WithCause(err))
		}
		start = &t
	}
	if raw := c.QueryParam("end"); raw != "" {
		t, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return nil, nil, errorbank.BadRequest("invalid end date", errorbank.WithCause(err))
		}
		end = &t
	}
	return start, end, nil
}
