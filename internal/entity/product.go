package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// DefaultCategory is assigned to products created without an explicit category.
const DefaultCategory = "General"

// Product is a sellable menu item. Order lines snapshot the price at order
// time, so editing or retiring a product never rewrites history.
type Product struct {
	bun.BaseModel `bun:"table:products"`

	ID          int64     `bun:",pk,autoincrement"`
	Name        string    `bun:"name"`
	Description string    `bun:"description,nullzero"`
	Price       float64   `bun:"price"`
	Category    string    `bun:"category"`
	ImagePath   string    `bun:"image_path,nullzero"`
	Available   bool      `bun:"available"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
