package report

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/comanda-app/comanda/internal/entity"
	orderrepo "github.com/comanda-app/comanda/internal/repository/order"
	"github.com/comanda-app/comanda/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/comanda-app/comanda/service/report")

// realizedLister loads the realized orders inside a closed time window.
type realizedLister interface {
	ListRealizedBetween(ctx context.Context, from, to time.Time) ([]*entity.Order, error)
}

// Service aggregates realized sales into periodic reports. It is a strictly
// read-only consumer of the order store.
type Service struct {
	orders realizedLister
	logger *zap.Logger
	now    func() time.Time
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Orders *orderrepo.Repository
	Logger *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		orders: p.Orders,
		logger: p.Logger,
		now:    time.Now,
	}
}

// Build loads delivered and ready orders inside the window and computes the
// five report views. When start or end is nil the period derives default
// bounds from the current date. Orders still pending, preparing, or
// cancelled are not realized sales and never appear.
func (s *Service) Build(ctx context.Context, periodName string, start, end *time.Time) (*Report, error) {
	ctx, span := serviceTracer.Start(ctx, "ReportService.Build", trace.WithAttributes(attribute.String("report.period", periodName)))
	defer span.End()

	period, err := ParsePeriod(periodName)
	if err != nil {
		return nil, err
	}

	defaultStart, defaultEnd := period.Bounds(s.now())
	if start == nil {
		start = &defaultStart
	}
	if end == nil {
		end = &defaultEnd
	}

	from := dayStart(*start)
	to := dayEnd(*end)

	orders, err := s.orders.ListRealizedBetween(ctx, from, to)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load orders for report", errorbank.WithCause(err))
	}

	report := aggregate(orders, period, *start, *end)
	span.SetAttributes(attribute.Int("report.orders", len(orders)))
	if s.logger != nil {
		s.logger.Debug("report built",
			zap.String("period", period.String()),
			zap.Int("orders", len(orders)),
			zap.Float64("revenue", report.Summary.TotalRevenue),
		)
	}
	return report, nil
}
