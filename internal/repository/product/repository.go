package product

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/comanda-app/comanda/internal/database"
	"github.com/comanda-app/comanda/internal/entity"
)

var repoTracer = otel.Tracer("github.com/comanda-app/comanda/repository/product")

// ErrNotFound is returned when a product is missing.
var ErrNotFound = errors.New("product not found")

// Repository encapsulates read/write access for menu products.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Create persists a new product. An empty category falls back to the default.
func (r *Repository) Create(ctx context.Context, p *entity.Product) error {
	if p == nil {
		return errors.New("nil product")
	}
	if p.Category == "" {
		p.Category = entity.DefaultCategory
	}
	ctx, span := repoTracer.Start(ctx, "ProductRepository.Create", trace.WithAttributes(attribute.String("product.name", p.Name)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(p).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches a product by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.GetByID", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	p := new(entity.Product)
	err := r.reader.NewSelect().Model(p).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return p, nil
}

// ListAvailable returns available products filtered by category and a
// case-insensitive name search, sorted by category then name. Empty filters
// match everything; the LIKE clause is lower-cased on both sides so it
// behaves the same across dialects.
func (r *Repository) ListAvailable(ctx context.Context, category, search string) ([]*entity.Product, error) {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.ListAvailable", trace.WithAttributes(
		attribute.String("filter.category", category),
		attribute.String("filter.search", search),
	))
	defer span.End()

	var products []*entity.Product
	q := r.reader.NewSelect().Model(&products).
		Where("available = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	err := q.OrderExpr("category ASC, name ASC").Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return products, nil
}

// AvailableByIDs resolves the subset of ids that exist and are currently
// available. Missing or unavailable ids are simply absent from the result.
func (r *Repository) AvailableByIDs(ctx context.Context, ids []int64) ([]*entity.Product, error) {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.AvailableByIDs", trace.WithAttributes(attribute.Int("ids", len(ids))))
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}

	var products []*entity.Product
	err := r.reader.NewSelect().Model(&products).
		Where("id IN (?)", bun.In(ids)).
		Where("available = ?", true).
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return products, nil
}

// Categories lists the distinct categories of available products.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.Categories")
	defer span.End()

	var categories []string
	err := r.reader.NewSelect().Model((*entity.Product)(nil)).
		ColumnExpr("DISTINCT category").
		Where("available = ?", true).
		OrderExpr("category ASC").
		Scan(ctx, &categories)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return categories, nil
}

// SetAvailable flips the availability flag of one product.
func (r *Repository) SetAvailable(ctx context.Context, id int64, available bool) error {
	ctx, span := repoTracer.Start(ctx, "ProductRepository.SetAvailable", trace.WithAttributes(
		attribute.Int64("product.id", id),
		attribute.Bool("product.available", available),
	))
	defer span.End()

	res, err := r.writer.NewUpdate().
		Model((*entity.Product)(nil)).
		Set("available = ?", available).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
