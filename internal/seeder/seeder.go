package seeder

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/comanda-app/comanda/internal/database"
	"github.com/comanda-app/comanda/internal/entity"
)

// Module exposes the seeder to Fx.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// All seeds tables and products in order.
func (s *Seeder) All(ctx context.Context) error {
	if err := s.Tables(ctx); err != nil {
		return err
	}
	return s.Products(ctx)
}

// Tables seeds a starter set of dining tables if they are missing.
func (s *Seeder) Tables(ctx context.Context) error {
	now := time.Now().UTC()
	samples := []entity.Table{
		{Number: 1, Name: "Mesa 1", Active: true, CreatedAt: now},
		{Number: 2, Name: "Mesa 2", Active: true, CreatedAt: now},
		{Number: 3, Name: "Mesa 3", Active: true, CreatedAt: now},
		{Number: 4, Name: "Terraza 1", Active: true, CreatedAt: now},
	}

	for _, sample := range samples {
		table := sample
		_, err := s.db.NewInsert().Model(&table).
			On("CONFLICT (number) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded tables", zap.Int("count", len(samples)))
	}
	return nil
}

// Products seeds an example menu if it is missing.
func (s *Seeder) Products(ctx context.Context) error {
	now := time.Now().UTC()
	samples := []entity.Product{
		{Name: "Tortilla de patatas", Description: "Classic potato omelette", Price: 6.50, Category: "Starters", Available: true, CreatedAt: now},
		{Name: "Croquetas de jamon", Description: "Ham croquettes, 6 units", Price: 7.00, Category: "Starters", Available: true, CreatedAt: now},
		{Name: "Paella mixta", Description: "Rice with chicken and seafood", Price: 14.50, Category: "Mains", Available: true, CreatedAt: now},
		{Name: "Entrecot a la brasa", Description: "Grilled beef steak with fries", Price: 18.00, Category: "Mains", Available: true, CreatedAt: now},
		{Name: "Flan casero", Description: "House creme caramel", Price: 4.50, Category: "Desserts", Available: true, CreatedAt: now},
		{Name: "Agua mineral", Description: "Still water 50cl", Price: 1.80, Category: "Drinks", Available: true, CreatedAt: now},
		{Name: "Cana de cerveza", Description: "Draft beer 25cl", Price: 2.20, Category: "Drinks", Available: true, CreatedAt: now},
	}

	for _, sample := range samples {
		product := sample
		_, err := s.db.NewInsert().Model(&product).
			On("CONFLICT (name) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded products", zap.Int("count", len(samples)))
	}
	return nil
}
