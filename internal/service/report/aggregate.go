package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/comanda-app/comanda/internal/entity"
)

// Summary is the executive view over the loaded window.
type Summary struct {
	Period         string    `json:"period"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	OrderCount     int       `json:"order_count"`
	TotalRevenue   float64   `json:"total_revenue"`
	AverageOrder   float64   `json:"average_order"`
	DeliveredCount int       `json:"delivered_count"`
	TopProduct     string    `json:"top_product"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// OrderRow is one order in the report listing.
type OrderRow struct {
	ID        int64   `json:"id"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	TableName string  `json:"table_name"`
	Status    string  `json:"status"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
	Notes     string  `json:"notes,omitempty"`
}

// ProductSales ranks one product by units sold within the window.
type ProductSales struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// TableSales ranks one dining table by revenue within the window.
type TableSales struct {
	Name    string  `json:"name"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
	Average float64 `json:"average"`
}

// TimeBucket is one row of the temporal breakdown (weekday, week of month,
// or calendar month depending on the period).
type TimeBucket struct {
	Label   string  `json:"label"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
	Average float64 `json:"average"`
}

// Report bundles the five independent views computed from one immutable
// snapshot of realized orders.
type Report struct {
	Summary  Summary        `json:"summary"`
	Orders   []OrderRow     `json:"orders"`
	Products []ProductSales `json:"products"`
	Tables   []TableSales   `json:"tables"`
	Buckets  []TimeBucket   `json:"buckets,omitempty"`
}

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04"
)

var weekdayLabels = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// aggregate folds the order snapshot into the five report views. Orders are
// expected pre-sorted by creation time so map-iteration tie-breaks stay
// reproducible. Only realized orders (delivered, ready) contribute; anything
// else in the snapshot is skipped regardless of how it was loaded.
func aggregate(orders []*entity.Order, period Period, start, end time.Time) *Report {
	orders = realizedOnly(orders)
	return &Report{
		Summary:  buildSummary(orders, period, start, end),
		Orders:   buildOrderRows(orders),
		Products: buildProductRanking(orders),
		Tables:   buildTableRanking(orders),
		Buckets:  buildBuckets(orders, period),
	}
}

func buildSummary(orders []*entity.Order, period Period, start, end time.Time) Summary {
	s := Summary{
		Period:      period.String(),
		StartDate:   start,
		EndDate:     end,
		OrderCount:  len(orders),
		TopProduct:  "N/A",
		GeneratedAt: time.Now(),
	}

	qtyByProduct := make(map[string]int)
	var firstSeen []string
	for _, o := range orders {
		s.TotalRevenue += o.Total
		if o.Status == entity.StatusDelivered {
			s.DeliveredCount++
		}
		for _, line := range o.Lines {
			name := lineProductName(line)
			if _, ok := qtyByProduct[name]; !ok {
				firstSeen = append(firstSeen, name)
			}
			qtyByProduct[name] += line.Quantity
		}
	}

	if s.OrderCount > 0 {
		s.AverageOrder = s.TotalRevenue / float64(s.OrderCount)
	}

	// Strict comparison keeps the first-seen product on ties.
	best := 0
	for _, name := range firstSeen {
		if qtyByProduct[name] > best {
			best = qtyByProduct[name]
			s.TopProduct = name
		}
	}
	return s
}

func buildOrderRows(orders []*entity.Order) []OrderRow {
	rows := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		row := OrderRow{
			ID:        o.ID,
			Date:      o.CreatedAt.Format(dateLayout),
			Time:      o.CreatedAt.Format(timeLayout),
			Status:    o.Status.String(),
			Total:     o.Total,
			ItemCount: o.ItemCount(),
			Notes:     o.Notes,
		}
		if o.Table != nil {
			row.TableName = o.Table.Name
		}
		rows = append(rows, row)
	}
	// Input arrives oldest first; the listing wants newest first.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows
}

func buildProductRanking(orders []*entity.Order) []ProductSales {
	type acc struct {
		sales ProductSales
	}
	byProduct := make(map[int64]*acc)
	var order []int64
	for _, o := range orders {
		for _, line := range o.Lines {
			a, ok := byProduct[line.ProductID]
			if !ok {
				a = &acc{sales: ProductSales{Name: lineProductName(line)}}
				if line.Product != nil {
					a.sales.Category = line.Product.Category
				}
				byProduct[line.ProductID] = a
				order = append(order, line.ProductID)
			}
			a.sales.Quantity += line.Quantity
			a.sales.Revenue += line.Subtotal()
		}
	}

	ranking := make([]ProductSales, 0, len(order))
	for _, id := range order {
		ranking = append(ranking, byProduct[id].sales)
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Quantity > ranking[j].Quantity
	})
	return ranking
}

func buildTableRanking(orders []*entity.Order) []TableSales {
	byTable := make(map[int64]*TableSales)
	var order []int64
	for _, o := range orders {
		t, ok := byTable[o.TableID]
		if !ok {
			t = &TableSales{}
			if o.Table != nil {
				t.Name = o.Table.Name
			}
			byTable[o.TableID] = t
			order = append(order, o.TableID)
		}
		t.Orders++
		t.Revenue += o.Total
	}

	ranking := make([]TableSales, 0, len(order))
	for _, id := range order {
		t := byTable[id]
		if t.Orders > 0 {
			t.Average = t.Revenue / float64(t.Orders)
		}
		ranking = append(ranking, *t)
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Revenue > ranking[j].Revenue
	})
	return ranking
}

// buildBuckets produces the temporal breakdown. Day reports have none.
// Weekly reports always show all seven weekdays; monthly and yearly reports
// only show buckets that received at least one order.
func buildBuckets(orders []*entity.Order, period Period) []TimeBucket {
	switch period {
	case PeriodWeek:
		buckets := make([]TimeBucket, 7)
		for i, label := range weekdayLabels {
			buckets[i].Label = label
		}
		for _, o := range orders {
			idx := (int(o.CreatedAt.Weekday()) + 6) % 7
			buckets[idx].Orders++
			buckets[idx].Revenue += o.Total
		}
		finishBuckets(buckets)
		return buckets

	case PeriodMonth:
		byWeek := make(map[int]*TimeBucket)
		for _, o := range orders {
			week := (o.CreatedAt.Day()-1)/7 + 1
			b, ok := byWeek[week]
			if !ok {
				b = &TimeBucket{Label: fmt.Sprintf("Week %d", week)}
				byWeek[week] = b
			}
			b.Orders++
			b.Revenue += o.Total
		}
		weeks := make([]int, 0, len(byWeek))
		for week := range byWeek {
			weeks = append(weeks, week)
		}
		sort.Ints(weeks)
		buckets := make([]TimeBucket, 0, len(weeks))
		for _, week := range weeks {
			buckets = append(buckets, *byWeek[week])
		}
		finishBuckets(buckets)
		return buckets

	case PeriodYear:
		var byMonth [12]TimeBucket
		for _, o := range orders {
			idx := int(o.CreatedAt.Month()) - 1
			byMonth[idx].Orders++
			byMonth[idx].Revenue += o.Total
		}
		buckets := make([]TimeBucket, 0, 12)
		for i := range byMonth {
			if byMonth[i].Orders == 0 {
				continue
			}
			byMonth[i].Label = time.Month(i + 1).String()
			buckets = append(buckets, byMonth[i])
		}
		finishBuckets(buckets)
		return buckets
	}
	return nil
}

func finishBuckets(buckets []TimeBucket) {
	for i := range buckets {
		if buckets[i].Orders > 0 {
			buckets[i].Average = buckets[i].Revenue / float64(buckets[i].Orders)
		}
	}
}

func realizedOnly(orders []*entity.Order) []*entity.Order {
	kept := orders[:0:0]
	for _, o := range orders {
		if o.Status.Realized() {
			kept = append(kept, o)
		}
	}
	return kept
}

func lineProductName(line *entity.OrderLine) string {
	if line.Product != nil {
		return line.Product.Name
	}
	return fmt.Sprintf("product #%d", line.ProductID)
}
