package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Status is the lifecycle state of an order. The kitchen moves orders
// forward (pending, preparing, ready, delivered); cancelled is terminal and
// reachable from any non-terminal state. Transitions are not forced to be
// monotonic: staff may set any recognised status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every recognised status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled}
}

// Valid reports whether s is a recognised status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Realized reports whether an order in this status counts as a completed
// sale. Pending, preparing, and cancelled orders carry no revenue.
func (s Status) Realized() bool {
	return s == StatusDelivered || s == StatusReady
}

func (s Status) String() string { return string(s) }

// Order is one visit's set of requested items for a table. Total is derived
// from the lines and cached on the row; it is never edited directly.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID        int64     `bun:",pk,autoincrement"`
	TableID   int64     `bun:"table_id"`
	Status    Status    `bun:"status"`
	Total     float64   `bun:"total"`
	Notes     string    `bun:"notes,nullzero"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`

	Table *Table       `bun:"rel:belongs-to,join:table_id=id"`
	Lines []*OrderLine `bun:"rel:has-many,join:id=order_id"`
}

// RecalcTotal recomputes the cached total from the attached lines.
func (o *Order) RecalcTotal() float64 {
	var total float64
	for _, l := range o.Lines {
		total += l.Subtotal()
	}
	o.Total = total
	return total
}

// ItemCount sums the quantities across all lines.
func (o *Order) ItemCount() int {
	var n int
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

// OrderLine is one product entry within an order. UnitPrice is captured when
// the order is created and is immutable afterwards.
type OrderLine struct {
	bun.BaseModel `bun:"table:order_lines"`

	ID        int64   `bun:",pk,autoincrement"`
	OrderID   int64   `bun:"order_id"`
	ProductID int64   `bun:"product_id"`
	Quantity  int     `bun:"quantity"`
	UnitPrice float64 `bun:"unit_price"`

	Product *Product `bun:"rel:belongs-to,join:product_id=id"`
}

// Subtotal is quantity times the captured unit price.
func (l *OrderLine) Subtotal() float64 {
	return float64(l.Quantity) * l.UnitPrice
}
