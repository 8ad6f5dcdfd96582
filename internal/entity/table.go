package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Table represents a physical dining table. Each table carries a unique
// number printed on its QR card; scanning the code opens the menu with the
// table preselected.
type Table struct {
	bun.BaseModel `bun:"table:dining_tables"`

	ID        int64     `bun:",pk,autoincrement"`
	Number    int       `bun:"number"`
	Name      string    `bun:"name"`
	Active    bool      `bun:"active"`
	QRPath    string    `bun:"qr_path,nullzero"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`

	Orders []*Order `bun:"rel:has-many,join:id=table_id"`
}
