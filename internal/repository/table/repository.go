package table

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/comanda-app/comanda/internal/database"
	"github.com/comanda-app/comanda/internal/entity"
)

var repoTracer = otel.Tracer("github.com/comanda-app/comanda/repository/table")

// ErrNotFound is returned when a dining table is missing.
var ErrNotFound = errors.New("table not found")

// Repository encapsulates read/write access for dining tables.
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

// Create persists a new dining table.
func (r *Repository) Create(ctx context.Context, t *entity.Table) error {
	if t == nil {
		return errors.New("nil table")
	}
	ctx, span := repoTracer.Start(ctx, "TableRepository.Create", trace.WithAttributes(attribute.Int("table.number", t.Number)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(t).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches a table by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Table, error) {
	ctx, span := repoTracer.Start(ctx, "TableRepository.GetByID", trace.WithAttributes(attribute.Int64("table.id", id)))
	defer span.End()

	t := new(entity.Table)
	err := r.reader.NewSelect().Model(t).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return t, nil
}

// GetActive fetches a table only if it is currently accepting orders.
// Inactive or missing tables both report ErrNotFound.
func (r *Repository) GetActive(ctx context.Context, id int64) (*entity.Table, error) {
	ctx, span := repoTracer.Start(ctx, "TableRepository.GetActive", trace.WithAttributes(attribute.Int64("table.id", id)))
	defer span.End()

	t := new(entity.Table)
	err := r.reader.NewSelect().Model(t).
		Where("id = ?", id).
		Where("active = ?", true).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return t, nil
}

// List returns every table ordered by number.
func (r *Repository) List(ctx context.Context) ([]*entity.Table, error) {
	ctx, span := repoTracer.Start(ctx, "TableRepository.List")
	defer span.End()

	var tables []*entity.Table
	err := r.reader.NewSelect().Model(&tables).
		OrderExpr("number ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return tables, nil
}

// SetActive flips the active flag. Deactivating a table blocks new orders
// without touching existing ones.
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	ctx, span := repoTracer.Start(ctx, "TableRepository.SetActive", trace.WithAttributes(
		attribute.Int64("table.id", id),
		attribute.Bool("table.active", active),
	))
	defer span.End()

	res, err := r.writer.NewUpdate().
		Model((*entity.Table)(nil)).
		Set("active = ?", active).
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

// SetQRPath records where the rendered QR image for this table lives.
func (r *Repository) SetQRPath(ctx context.Context, id int64, path string) error {
	ctx, span := repoTracer.Start(ctx, "TableRepository.SetQRPath", trace.WithAttributes(attribute.Int64("table.id", id)))
	defer span.End()

	res, err := r.writer.NewUpdate().
		Model((*entity.Table)(nil)).
		Set("qr_path = ?", path).
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

// Delete removes a table; the schema cascades deletion to its orders and
// their lines.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "TableRepository.Delete", trace.WithAttributes(attribute.Int64("table.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().
		Model((*entity.Table)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
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
