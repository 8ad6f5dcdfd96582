package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/comanda-app/comanda/internal/cache"
	"github.com/comanda-app/comanda/internal/entity"
	productrepo "github.com/comanda-app/comanda/internal/repository/product"
	"github.com/comanda-app/comanda/internal/service/menu"
	"github.com/comanda-app/comanda/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/comanda-app/comanda/service/product")

// Service manages the sellable catalog. Every successful write flushes the
// cached menu so diners never see a stale card.
type Service struct {
	products *productrepo.Repository
	cache    cache.Store
	logger   *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Products *productrepo.Repository
	Cache    cache.Store
	Logger   *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		products: p.Products,
		cache:    p.Cache,
		logger:   p.Logger,
	}
}

// Create adds a product to the catalog. Name and a non-negative price are
// required; an empty category falls back to the repository default.
func (s *Service) Create(ctx context.Context, p *entity.Product) (*entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "ProductService.Create")
	defer span.End()

	if p == nil {
		return nil, errorbank.BadRequest("product is required")
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, errorbank.BadRequest("product name is required")
	}
	if p.Price < 0 {
		return nil, errorbank.BadRequest("product price must not be negative")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	span.SetAttributes(attribute.String("product.name", p.Name))

	if err := s.products.Create(ctx, p); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create product", errorbank.WithCause(err))
	}

	s.flushMenuCache(ctx)
	return p, nil
}

// Get fetches a single product, available or not.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "ProductService.Get", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, productrepo.ErrNotFound) {
			return nil, errorbank.NotFound("product not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load product", errorbank.WithCause(err))
	}
	return p, nil
}

// SetAvailable puts a product on or off the menu without touching past
// orders; their lines keep the snapshotted price.
func (s *Service) SetAvailable(ctx context.Context, id int64, available bool) error {
	ctx, span := serviceTracer.Start(ctx, "ProductService.SetAvailable", trace.WithAttributes(
		attribute.Int64("product.id", id),
		attribute.Bool("product.available", available),
	))
	defer span.End()

	if err := s.products.SetAvailable(ctx, id, available); err != nil {
		if errors.Is(err, productrepo.ErrNotFound) {
			return errorbank.NotFound("product not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to update product", errorbank.WithCause(err))
	}

	s.flushMenuCache(ctx)
	return nil
}

// flushMenuCache drops every cached menu variant. A failed flush only ages
// the cache by one TTL, so it is logged and not surfaced.
func (s *Service) flushMenuCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, menu.CachePrefix); err != nil {
		if s.logger != nil {
			s.logger.Warn("menu cache flush failed", zap.Error(err))
		}
	}
}
