package table

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/comanda-app/comanda/internal/entity"
	"github.com/comanda-app/comanda/internal/qr"
	tablerepo "github.com/comanda-app/comanda/internal/repository/table"
	"github.com/comanda-app/comanda/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/comanda-app/comanda/service/table")

// Service manages dining tables and their QR cards.
type Service struct {
	tables *tablerepo.Repository
	qr     *qr.Generator
	logger *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Tables *tablerepo.Repository
	QR     *qr.Generator
	Logger *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		tables: p.Tables,
		qr:     p.QR,
		logger: p.Logger,
	}
}

// Create registers a new table and renders its QR card. A failed render is
// logged but does not fail the creation; the card can be regenerated later.
func (s *Service) Create(ctx context.Context, number int, name string) (*entity.Table, error) {
	ctx, span := serviceTracer.Start(ctx, "TableService.Create", trace.WithAttributes(attribute.Int("table.number", number)))
	defer span.End()

	if number <= 0 {
		return nil, errorbank.BadRequest("table number must be positive")
	}
	if name == "" {
		name = fmt.Sprintf("Mesa %d", number)
	}

	t := &entity.Table{
		Number:    number,
		Name:      name,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tables.Create(ctx, t); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create table", errorbank.WithCause(err))
	}

	if path, _, err := s.qr.Generate(t); err != nil {
		if s.logger != nil {
			s.logger.Warn("qr render failed", zap.Int64("table_id", t.ID), zap.Error(err))
		}
	} else if err := s.tables.SetQRPath(ctx, t.ID, path); err == nil {
		t.QRPath = path
	}
	return t, nil
}

// List returns all tables ordered by number.
func (s *Service) List(ctx context.Context) ([]*entity.Table, error) {
	ctx, span := serviceTracer.Start(ctx, "TableService.List")
	defer span.End()

	tables, err := s.tables.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list tables", errorbank.WithCause(err))
	}
	return tables, nil
}

// SetActive toggles whether a table accepts new orders. Existing orders are
// untouched either way.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) error {
	ctx, span := serviceTracer.Start(ctx, "TableService.SetActive", trace.WithAttributes(
		attribute.Int64("table.id", id),
		attribute.Bool("table.active", active),
	))
	defer span.End()

	if err := s.tables.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, tablerepo.ErrNotFound) {
			return errorbank.NotFound("table not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to update table", errorbank.WithCause(err))
	}
	return nil
}

// Delete removes a table and, via the schema, its orders and lines.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "TableService.Delete", trace.WithAttributes(attribute.Int64("table.id", id)))
	defer span.End()

	if err := s.tables.Delete(ctx, id); err != nil {
		if errors.Is(err, tablerepo.ErrNotFound) {
			return errorbank.NotFound("table not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete table", errorbank.WithCause(err))
	}
	return nil
}

// RegenerateQR re-renders the QR card for one table and records its path.
func (s *Service) RegenerateQR(ctx context.Context, id int64) (string, string, error) {
	ctx, span := serviceTracer.Start(ctx, "TableService.RegenerateQR", trace.WithAttributes(attribute.Int64("table.id", id)))
	defer span.End()

	t, err := s.tables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, tablerepo.ErrNotFound) {
			return "", "", errorbank.NotFound("table not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return "", "", errorbank.Internal("failed to load table", errorbank.WithCause(err))
	}

	path, url, err := s.qr.Generate(t)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "qr render failed")
		return "", "", errorbank.Internal("failed to render qr", errorbank.WithCause(err))
	}
	if err := s.tables.SetQRPath(ctx, t.ID, path); err != nil {
		return "", "", errorbank.Internal("failed to record qr path", errorbank.WithCause(err))
	}
	return path, url, nil
}
