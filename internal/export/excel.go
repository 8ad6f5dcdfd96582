// Package export writes aggregated sales reports to spreadsheet files. It
// consumes the report views as-is and performs no computation of its own.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/comanda-app/comanda/internal/config"
	"github.com/comanda-app/comanda/internal/service/report"
)

const (
	sheetSummary  = "Summary"
	sheetOrders   = "Orders"
	sheetProducts = "Products"
	sheetTables   = "Tables"
	sheetTrends   = "Trends"
)

// Excel renders a report as an .xlsx workbook, one sheet per view.
type Excel struct {
	dir      string
	currency string
	logger   *zap.Logger
}

// Module provides the Excel exporter to Fx.
var Module = fx.Provide(NewExcel)

// NewExcel constructs an exporter writing into the configured directory.
func NewExcel(cfg config.Config, logger *zap.Logger) *Excel {
	return &Excel{
		dir:      cfg.Report.ExportDir,
		currency: cfg.Restaurant.Currency,
		logger:   logger,
	}
}

// Filename derives the workbook name from the report period and start date.
func Filename(r *report.Report) string {
	return fmt.Sprintf("report_%s_%s.xlsx", r.Summary.Period, r.Summary.StartDate.Format("20060102"))
}

// Write renders the workbook and returns the path of the saved file. The
// trends sheet only exists when the report carries temporal buckets.
func (e *Excel) Write(r *report.Report) (string, error) {
	if r == nil {
		return "", fmt.Errorf("nil report")
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := e.writeSummary(f, r); err != nil {
		return "", err
	}
	if err := e.writeOrders(f, r.Orders); err != nil {
		return "", err
	}
	if err := e.writeProducts(f, r.Products); err != nil {
		return "", err
	}
	if err := e.writeTables(f, r.Tables); err != nil {
		return "", err
	}
	if len(r.Buckets) > 0 {
		if err := e.writeTrends(f, r.Buckets); err != nil {
			return "", err
		}
	}

	path := filepath.Join(e.dir, Filename(r))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	if e.logger != nil {
		e.logger.Info("report exported", zap.String("path", path))
	}
	return path, nil
}

func (e *Excel) writeSummary(f *excelize.File, r *report.Report) error {
	// The default sheet becomes the summary.
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return err
	}

	s := r.Summary
	rows := [][]any{
		{"Metric", "Value"},
		{"Period", s.Period},
		{"Start date", s.StartDate.Format("02/01/2006")},
		{"End date", s.EndDate.Format("02/01/2006")},
		{"Orders", s.OrderCount},
		{"Total revenue", e.money(s.TotalRevenue)},
		{"Average per order", e.money(s.AverageOrder)},
		{"Delivered orders", s.DeliveredCount},
		{"Best seller", s.TopProduct},
		{"Generated at", time.Now().Format("02/01/2006 15:04")},
	}
	if err := writeRows(f, sheetSummary, rows); err != nil {
		return err
	}
	_ = f.SetColWidth(sheetSummary, "A", "A", 25)
	_ = f.SetColWidth(sheetSummary, "B", "B", 30)
	return nil
}

func (e *Excel) writeOrders(f *excelize.File, orders []report.OrderRow) error {
	if _, err := f.NewSheet(sheetOrders); err != nil {
		return err
	}
	rows := [][]any{{"Order", "Date", "Time", "Table", "Status", "Total", "Items", "Notes"}}
	for _, o := range orders {
		rows = append(rows, []any{o.ID, o.Date, o.Time, o.TableName, o.Status, o.Total, o.ItemCount, o.Notes})
	}
	return writeRows(f, sheetOrders, rows)
}

func (e *Excel) writeProducts(f *excelize.File, products []report.ProductSales) error {
	if _, err := f.NewSheet(sheetProducts); err != nil {
		return err
	}
	rows := [][]any{{"Product", "Category", "Units sold", "Revenue"}}
	for _, p := range products {
		rows = append(rows, []any{p.Name, p.Category, p.Quantity, p.Revenue})
	}
	return writeRows(f, sheetProducts, rows)
}

func (e *Excel) writeTables(f *excelize.File, tables []report.TableSales) error {
	if _, err := f.NewSheet(sheetTables); err != nil {
		return err
	}
	rows := [][]any{{"Table", "Orders", "Revenue", "Average per order"}}
	for _, t := range tables {
		rows = append(rows, []any{t.Name, t.Orders, t.Revenue, t.Average})
	}
	return writeRows(f, sheetTables, rows)
}

func (e *Excel) writeTrends(f *excelize.File, buckets []report.TimeBucket) error {
	if _, err := f.NewSheet(sheetTrends); err != nil {
		return err
	}
	rows := [][]any{{"Bucket", "Orders", "Revenue", "Average"}}
	for _, b := range buckets {
		rows = append(rows, []any{b.Label, b.Orders, b.Revenue, b.Average})
	}
	return writeRows(f, sheetTrends, rows)
}

func (e *Excel) money(v float64) string {
	return fmt.Sprintf("%s%.2f", e.currency, v)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
