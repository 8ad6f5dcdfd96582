// Package qr renders the per-table QR cards that diners scan to open the
// menu with their table preselected.
package qr

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/fx"

	"github.com/comanda-app/comanda/internal/config"
	"github.com/comanda-app/comanda/internal/entity"
)

const imageSize = 512

// Generator builds scannable table URLs and renders them as PNG images.
type Generator struct {
	baseURL   string
	outputDir string
}

// Module provides the QR generator to Fx.
var Module = fx.Provide(New)

// New constructs a Generator from the restaurant configuration.
func New(cfg config.Config) *Generator {
	return &Generator{
		baseURL:   cfg.Restaurant.PublicURL,
		outputDir: cfg.QR.OutputDir,
	}
}

// URL returns the address encoded into a table's QR code. Only the table id
// travels in the link; everything else is resolved server-side.
func (g *Generator) URL(tableID int64) string {
	return fmt.Sprintf("%s/?table=%d", g.baseURL, tableID)
}

// Generate renders the QR image for a table and returns the file path and
// the encoded URL.
func (g *Generator) Generate(t *entity.Table) (string, string, error) {
	if t == nil {
		return "", "", fmt.Errorf("nil table")
	}
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create qr dir: %w", err)
	}

	url := g.URL(t.ID)
	path := filepath.Join(g.outputDir, fmt.Sprintf("table_%d.png", t.ID))
	if err := qrcode.WriteFile(url, qrcode.High, imageSize, path); err != nil {
		return "", "", fmt.Errorf("render qr for table %d: %w", t.ID, err)
	}
	return path, url, nil
}
