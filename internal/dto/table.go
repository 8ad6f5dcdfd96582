package dto

import "time"

// TableResponse represents a dining table as exposed via transport layers.
type TableResponse struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	QRPath    string    `json:"qr_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
