package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/comanda-app/comanda/internal/service/report"
)

func sampleReport() *report.Report {
	return &report.Report{
		Summary: report.Summary{
			Period:       "week",
			StartDate:    time.Date(2023, time.March, 13, 0, 0, 0, 0, time.UTC),
			EndDate:      time.Date(2023, time.March, 19, 0, 0, 0, 0, time.UTC),
			OrderCount:   2,
			TotalRevenue: 43.50,
			AverageOrder: 21.75,
			TopProduct:   "Paella",
		},
		Orders: []report.OrderRow{
			{ID: 2, Date: "14/03/2023", Time: "13:00", TableName: "Mesa 2", Status: "ready", Total: 13.00, ItemCount: 2},
			{ID: 1, Date: "13/03/2023", Time: "12:00", TableName: "Mesa 1", Status: "delivered", Total: 30.50, ItemCount: 3},
		},
		Products: []report.ProductSales{
			{Name: "Paella", Category: "Mains", Quantity: 2, Revenue: 29.00},
		},
		Tables: []report.TableSales{
			{Name: "Mesa 1", Orders: 1, Revenue: 30.50, Average: 30.50},
		},
		Buckets: []report.TimeBucket{
			{Label: "Monday", Orders: 1, Revenue: 30.50, Average: 30.50},
		},
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "report_week_20230313.xlsx", Filename(sampleReport()))
}

func TestWriteCreatesWorkbook(t *testing.T) {
	e := &Excel{dir: t.TempDir(), currency: "EUR"}

	path, err := e.Write(sampleReport())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.ElementsMatch(t, []string{"Summary", "Orders", "Products", "Tables", "Trends"}, sheets)

	best, err := f.GetCellValue("Summary", "B9")
	require.NoError(t, err)
	assert.Equal(t, "Paella", best)

	firstOrder, err := f.GetCellValue("Orders", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2", firstOrder)
}

func TestWriteSkipsTrendsWithoutBuckets(t *testing.T) {
	e := &Excel{dir: t.TempDir(), currency: "EUR"}

	r := sampleReport()
	r.Summary.Period = "day"
	r.Buckets = nil

	path, err := e.Write(r)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.NotContains(t, f.GetSheetList(), "Trends")
}

func TestWriteNilReport(t *testing.T) {
	e := &Excel{dir: t.TempDir()}
	_, err := e.Write(nil)
	assert.Error(t, err)
}
