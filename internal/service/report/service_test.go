package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comanda-app/comanda/internal/entity"
	"github.com/comanda-app/comanda/pkg/errorbank"
)

type stubOrderLister struct {
	orders []*entity.Order
	err    error
}

func (s *stubOrderLister) ListRealizedBetween(context.Context, time.Time, time.Time) ([]*entity.Order, error) {
	return s.orders, s.err
}

func TestBuildRejectsUnknownPeriod(t *testing.T) {
	s := &Service{now: time.Now}

	_, err := s.Build(context.Background(), "quarter", nil, nil)
	assert.Error(t, err)

	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindBadRequest, appErr.Kind())
}

func TestBuildCountsOnlyRealizedSales(t *testing.T) {
	day := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)
	orders := []*entity.Order{
		mkOrder(1, mesa1, entity.StatusDelivered, day.Add(13*time.Hour),
			&entity.OrderLine{ProductID: 10, Quantity: 1, UnitPrice: 25.00}),
		mkOrder(2, mesa1, entity.StatusPending, day.Add(14*time.Hour),
			&entity.OrderLine{ProductID: 10, Quantity: 1, UnitPrice: 25.00}),
		mkOrder(3, mesa2, entity.StatusReady, day.Add(15*time.Hour),
			&entity.OrderLine{ProductID: 11, Quantity: 1, UnitPrice: 15.00}),
		mkOrder(4, mesa2, entity.StatusCancelled, day.Add(16*time.Hour),
			&entity.OrderLine{ProductID: 11, Quantity: 2, UnitPrice: 15.00}),
	}

	s := &Service{
		orders: &stubOrderLister{orders: orders},
		now:    func() time.Time { return day },
	}

	r, err := s.Build(context.Background(), "day", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, r.Summary.OrderCount)
	assert.InDelta(t, 40.00, r.Summary.TotalRevenue, 1e-9)
	require.Len(t, r.Orders, 2)
}

func TestBuildWrapsStoreFailure(t *testing.T) {
	s := &Service{
		orders: &stubOrderLister{err: assert.AnError},
		now:    time.Now,
	}

	_, err := s.Build(context.Background(), "day", nil, nil)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindInternal, errorbank.From(err).Kind())
}
