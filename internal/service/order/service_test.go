package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comanda-app/comanda/internal/entity"
	"github.com/comanda-app/comanda/pkg/errorbank"
)

func TestBuildLines(t *testing.T) {
	products := map[int64]*entity.Product{
		1: {ID: 1, Name: "Paella", Price: 14.50},
		2: {ID: 2, Name: "Flan", Price: 4.50},
	}

	t.Run("snapshots the current price", func(t *testing.T) {
		lines := buildLines(products, []CartItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		})
		require.Len(t, lines, 2)

		assert.Equal(t, int64(1), lines[0].ProductID)
		assert.Equal(t, 2, lines[0].Quantity)
		assert.InDelta(t, 14.50, lines[0].UnitPrice, 1e-9)

		assert.Equal(t, int64(2), lines[1].ProductID)
		assert.InDelta(t, 4.50, lines[1].UnitPrice, 1e-9)
	})

	t.Run("drops items whose product is unavailable", func(t *testing.T) {
		lines := buildLines(products, []CartItem{
			{ProductID: 99, Quantity: 2},
			{ProductID: 1, Quantity: 1},
		})
		require.Len(t, lines, 1)
		assert.Equal(t, int64(1), lines[0].ProductID)
	})

	t.Run("non positive quantities fall back to one", func(t *testing.T) {
		lines := buildLines(products, []CartItem{
			{ProductID: 1, Quantity: 0},
			{ProductID: 2, Quantity: -3},
		})
		require.Len(t, lines, 2)
		assert.Equal(t, 1, lines[0].Quantity)
		assert.Equal(t, 1, lines[1].Quantity)
	})

	t.Run("every item dropped yields no lines", func(t *testing.T) {
		lines := buildLines(products, []CartItem{{ProductID: 77, Quantity: 1}})
		assert.Empty(t, lines)
	})
}

// An unrecognised status is rejected before the store is consulted; a zero
// Service has no repository, so touching it would panic the test.
func TestAdvanceStatusRejectsUnknownStatus(t *testing.T) {
	svc := &Service{}

	err := svc.AdvanceStatus(context.Background(), 1, "bogus")
	require.Error(t, err)

	appErr := errorbank.From(err)
	assert.Equal(t, errorbank.KindBadRequest, appErr.Kind())
	assert.Equal(t, "bogus", appErr.Details()["status"])
	assert.Equal(t, entity.Statuses(), appErr.Details()["accepted"])
}

func TestOrderTotalFromBuiltLines(t *testing.T) {
	products := map[int64]*entity.Product{
		1: {ID: 1, Name: "Paella", Price: 14.50},
		2: {ID: 2, Name: "Flan", Price: 4.50},
	}

	o := &entity.Order{
		Lines: buildLines(products, []CartItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 2},
		}),
	}
	assert.InDelta(t, 38.00, o.RecalcTotal(), 1e-9)
}
