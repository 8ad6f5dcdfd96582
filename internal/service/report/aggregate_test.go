package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comanda-app/comanda/internal/entity"
)

func mkOrder(id int64, table *entity.Table, status entity.Status, created time.Time, lines ...*entity.OrderLine) *entity.Order {
	o := &entity.Order{
		ID:        id,
		Status:    status,
		CreatedAt: created,
		Lines:     lines,
	}
	if table != nil {
		o.TableID = table.ID
		o.Table = table
	}
	o.RecalcTotal()
	return o
}

func mkLine(p *entity.Product, qty int) *entity.OrderLine {
	return &entity.OrderLine{
		ProductID: p.ID,
		Quantity:  qty,
		UnitPrice: p.Price,
		Product:   p,
	}
}

var (
	mesa1 = &entity.Table{ID: 1, Number: 1, Name: "Mesa 1"}
	mesa2 = &entity.Table{ID: 2, Number: 2, Name: "Mesa 2"}

	paella   = &entity.Product{ID: 10, Name: "Paella", Category: "Mains", Price: 14.50}
	tortilla = &entity.Product{ID: 11, Name: "Tortilla", Category: "Starters", Price: 6.50}
	flan     = &entity.Product{ID: 12, Name: "Flan", Category: "Desserts", Price: 4.50}
)

func TestBuildSummary(t *testing.T) {
	day := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)
	orders := []*entity.Order{
		mkOrder(1, mesa1, entity.StatusDelivered, day.Add(10*time.Hour), mkLine(paella, 2)),
		mkOrder(2, mesa2, entity.StatusReady, day.Add(12*time.Hour), mkLine(tortilla, 1), mkLine(flan, 1)),
		mkOrder(3, mesa1, entity.StatusDelivered, day.Add(14*time.Hour), mkLine(tortilla, 3)),
	}

	s := buildSummary(orders, PeriodDay, day, day)

	assert.Equal(t, "day", s.Period)
	assert.Equal(t, 3, s.OrderCount)
	assert.Equal(t, 2, s.DeliveredCount)
	assert.InDelta(t, 29.00+11.00+19.50, s.TotalRevenue, 1e-9)
	assert.InDelta(t, s.TotalRevenue/3, s.AverageOrder, 1e-9)
	// Tortilla sold 4 units against Paella's 2.
	assert.Equal(t, "Tortilla", s.TopProduct)
}

func TestBuildSummaryEmptyWindow(t *testing.T) {
	day := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)
	s := buildSummary(nil, PeriodDay, day, day)

	assert.Zero(t, s.OrderCount)
	assert.Zero(t, s.TotalRevenue)
	assert.Zero(t, s.AverageOrder)
	assert.Equal(t, "N/A", s.TopProduct)
}

func TestAggregateSkipsUnrealizedOrders(t *testing.T) {
	day := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)
	menuDelDia := &entity.Product{ID: 20, Name: "Menu del dia", Category: "Mains", Price: 25.00}
	gazpacho := &entity.Product{ID: 21, Name: "Gazpacho", Category: "Starters", Price: 15.00}

	orders := []*entity.Order{
		mkOrder(1, mesa1, entity.StatusDelivered, day.Add(10*time.Hour), mkLine(menuDelDia, 1)),
		mkOrder(2, mesa1, entity.StatusPending, day.Add(11*time.Hour), mkLine(menuDelDia, 1)),
		mkOrder(3, mesa2, entity.StatusReady, day.Add(12*time.Hour), mkLine(gazpacho, 1)),
		mkOrder(4, mesa2, entity.StatusCancelled, day.Add(13*time.Hour), mkLine(gazpacho, 2)),
		mkOrder(5, mesa1, entity.StatusPreparing, day.Add(14*time.Hour), mkLine(menuDelDia, 3)),
	}

	r := aggregate(orders, PeriodDay, day, day)

	assert.Equal(t, 2, r.Summary.OrderCount)
	assert.InDelta(t, 40.00, r.Summary.TotalRevenue, 1e-9)
	assert.Equal(t, 1, r.Summary.DeliveredCount)

	require.Len(t, r.Orders, 2)
	assert.Equal(t, int64(3), r.Orders[0].ID)
	assert.Equal(t, int64(1), r.Orders[1].ID)

	// Cancelled and preparing lines never reach the rankings.
	require.Len(t, r.Products, 2)
	for _, p := range r.Products {
		assert.Equal(t, 1, p.Quantity, p.Name)
	}
}

func TestBuildSummaryTopProductTieKeepsFirstSeen(t *testing.T) {
	day := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)
	orders := []*entity.Order{
		mkOrder(1, mesa1, entity.StatusDelivered, day, mkLine(paella, 2)),
		mkOrder(2, mesa1, entity.StatusDelivered, day, mkLine(tortilla, 2)),
	}

	s := buildSummary(orders, PeriodDay, day, day)
	assert.Equal(t, "Paella", s.TopProduct)
}

func TestBuildOrderRowsNewestFirst(t *testing.T) {
	day := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)
	orders := []*entity.Order{
		mkOrder(1, mesa1, entity.StatusDelivered, day.Add(9*time.Hour), mkLine(paella, 1)),
		mkOrder(2, mesa2, entity.StatusReady, day.Add(13*time.Hour), mkLine(tortilla, 2)),
		mkOrder(3, mesa1, entity.StatusDelivered, day.Add(20*time.Hour), mkLine(flan, 1)),
	}

	rows := buildOrderRows(orders)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(3), rows[0].ID)
	assert.Equal(t, int64(2), rows[1].ID)
	assert.Equal(t, int64(1), rows[2].ID)

	assert.Equal(t, "15/03/2023", rows[0].Date)
	assert.Equal(t, "20:00", rows[0].Time)
	assert.Equal(t, "Mesa 1", rows[0].TableName)
	assert.Equal(t, "delivered", rows[0].Status)
	assert.Equal(t, 1, rows[0].ItemCount)
}

func TestBuildProductRanking(t *testing.T) {
	day := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)
	orders := []*entity.Order{
		mkOrder(1, mesa1, entity.StatusDelivered, day, mkLine(paella, 5), mkLine(flan, 2)),
		mkOrder(2, mesa2, entity.StatusDelivered, day, mkLine(tortilla, 9)),
	}

	ranking := buildProductRanking(orders)
	require.Len(t, ranking, 3)

	assert.Equal(t, "Tortilla", ranking[0].Name)
	assert.Equal(t, 9, ranking[0].Quantity)
	assert.InDelta(t, 9*6.50, ranking[0].Revenue, 1e-9)

	assert.Equal(t, "Paella", ranking[1].Name)
	assert.Equal(t, "Mains", ranking[1].Category)

	assert.Equal(t, "Flan", ranking[2].Name)
	assert.Equal(t, 2, ranking[2].Quantity)
}

func TestBuildProductRankingAccumulatesAcrossOrders(t *testing.T) {
	day := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)
	orders := []*entity.Order{
		mkOrder(1, mesa1, entity.StatusDelivered, day, mkLine(paella, 1)),
		mkOrder(2, mesa1, entity.StatusDelivered, day, mkLine(paella, 3)),
	}

	ranking := buildProductRanking(orders)
	require.Len(t, ranking, 1)
	assert.Equal(t, 4, ranking[0].Quantity)
	assert.InDelta(t, 4*14.50, ranking[0].Revenue, 1e-9)
}

func TestBuildTableRanking(t *testing.T) {
	day := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)
	orders := []*entity.Order{
		mkOrder(1, mesa1, entity.StatusDelivered, day, mkLine(paella, 2)),  // 29.00
		mkOrder(2, mesa1, entity.StatusDelivered, day, mkLine(paella, 1)),  // 14.50
		mkOrder(3, mesa2, entity.StatusDelivered, day, mkLine(tortilla, 10)), // 65.00
	}

	ranking := buildTableRanking(orders)
	require.Len(t, ranking, 2)

	assert.Equal(t, "Mesa 2", ranking[0].Name)
	assert.Equal(t, 1, ranking[0].Orders)
	assert.InDelta(t, 65.00, ranking[0].Revenue, 1e-9)
	assert.InDelta(t, 65.00, ranking[0].Average, 1e-9)

	assert.Equal(t, "Mesa 1", ranking[1].Name)
	assert.Equal(t, 2, ranking[1].Orders)
	assert.InDelta(t, 43.50, ranking[1].Revenue, 1e-9)
	assert.InDelta(t, 21.75, ranking[1].Average, 1e-9)
}

func TestBuildBucketsWeekAlwaysSevenDays(t *testing.T) {
	// Monday 13 March 2023.
	monday := time.Date(2023, time.March, 13, 0, 0, 0, 0, time.UTC)
	orders := []*entity.Order{
		mkOrder(1, mesa1, entity.StatusDelivered, monday.Add(10*time.Hour), mkLine(paella, 1)),
		mkOrder(2, mesa1, entity.StatusDelivered, monday.AddDate(0, 0, 2), mkLine(paella, 2)),
		mkOrder(3, mesa1, entity.StatusDelivered, monday.AddDate(0, 0, 6), mkLine(flan, 1)),
	}

	buckets := buildBuckets(orders, PeriodWeek)
	require.Len(t, buckets, 7)

	assert.Equal(t, "Monday", buckets[0].Label)
	assert.Equal(t, 1, buckets[0].Orders)
	assert.InDelta(t, 14.50, buckets[0].Revenue, 1e-9)

	assert.Equal(t, "Tuesday", buckets[1].Label)
	assert.Zero(t, buckets[1].Orders)
	assert.Zero(t, buckets[1].Average)

	assert.Equal(t, "Wednesday", buckets[2].Label)
	assert.Equal(t, 1, buckets[2].Orders)

	assert.Equal(t, "Sunday", buckets[6].Label)
	assert.Equal(t, 1, buckets[6].Orders)
	assert.InDelta(t, 4.50, buckets[6].Revenue, 1e-9)
}

func TestBuildBucketsMonthSkipsEmptyWeeks(t *testing.T) {
	march := time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)
	orders := []*entity.Order{
		mkOrder(1, mesa1, entity.StatusDelivered, march.AddDate(0, 0, 2), mkLine(paella, 1)),  // day 3, week 1
		mkOrder(2, mesa1, entity.StatusDelivered, march.AddDate(0, 0, 3), mkLine(paella, 1)),  // day 4, week 1
		mkOrder(3, mesa1, entity.StatusDelivered, march.AddDate(0, 0, 20), mkLine(flan, 2)), // day 21, week 3
	}

	buckets := buildBuckets(orders, PeriodMonth)
	require.Len(t, buckets, 2)

	assert.Equal(t, "Week 1", buckets[0].Label)
	assert.Equal(t, 2, buckets[0].Orders)
	assert.InDelta(t, 14.50, buckets[0].Average, 1e-9)

	assert.Equal(t, "Week 3", buckets[1].Label)
	assert.Equal(t, 1, buckets[1].Orders)
}

func TestBuildBucketsYearSkipsEmptyMonths(t *testing.T) {
	orders := []*entity.Order{
		mkOrder(1, mesa1, entity.StatusDelivered, time.Date(2023, time.January, 5, 0, 0, 0, 0, time.UTC), mkLine(paella, 1)),
		mkOrder(2, mesa1, entity.StatusDelivered, time.Date(2023, time.June, 5, 0, 0, 0, 0, time.UTC), mkLine(flan, 1)),
		mkOrder(3, mesa1, entity.StatusDelivered, time.Date(2023, time.June, 20, 0, 0, 0, 0, time.UTC), mkLine(tortilla, 1)),
	}

	buckets := buildBuckets(orders, PeriodYear)
	require.Len(t, buckets, 2)

	assert.Equal(t, "January", buckets[0].Label)
	assert.Equal(t, 1, buckets[0].Orders)

	assert.Equal(t, "June", buckets[1].Label)
	assert.Equal(t, 2, buckets[1].Orders)
	assert.InDelta(t, 11.00, buckets[1].Revenue, 1e-9)
}

func TestBuildBucketsDayHasNone(t *testing.T) {
	day := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)
	orders := []*entity.Order{
		mkOrder(1, mesa1, entity.StatusDelivered, day, mkLine(paella, 1)),
	}
	assert.Nil(t, buildBuckets(orders, PeriodDay))
}

func TestAggregateProducesAllViews(t *testing.T) {
	monday := time.Date(2023, time.March, 13, 0, 0, 0, 0, time.UTC)
	orders := []*entity.Order{
		mkOrder(1, mesa1, entity.StatusDelivered, monday.Add(12*time.Hour), mkLine(paella, 1)),
		mkOrder(2, mesa2, entity.StatusReady, monday.AddDate(0, 0, 1), mkLine(tortilla, 2)),
	}

	r := aggregate(orders, PeriodWeek, monday, monday.AddDate(0, 0, 6))
	require.NotNil(t, r)

	assert.Equal(t, 2, r.Summary.OrderCount)
	assert.Len(t, r.Orders, 2)
	assert.Len(t, r.Products, 2)
	assert.Len(t, r.Tables, 2)
	assert.Len(t, r.Buckets, 7)
}

func TestLineProductNameFallback(t *testing.T) {
	line := &entity.OrderLine{ProductID: 42}
	assert.Equal(t, "product #42", lineProductName(line))
}
