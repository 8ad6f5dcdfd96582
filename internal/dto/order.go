package dto

import "time"

// OrderLineResponse is one line of a created order as exposed over HTTP.
type OrderLineResponse struct {
	ProductID int64   `json:"product_id"`
	Product   string  `json:"product,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID        int64               `json:"id"`
	TableID   int64               `json:"table_id"`
	TableName string              `json:"table_name,omitempty"`
	Status    string              `json:"status"`
	Total     float64             `json:"total"`
	Currency  string              `json:"currency,omitempty"`
	Notes     string              `json:"notes,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	Lines     []OrderLineResponse `json:"lines,omitempty"`
}
