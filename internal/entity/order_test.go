package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	cases := []struct {
		status Status
		valid  bool
	}{
		{StatusPending, true},
		{StatusPreparing, true},
		{StatusReady, true},
		{StatusDelivered, true},
		{StatusCancelled, true},
		{Status(""), false},
		{Status("Pending"), false},
		{Status("done"), false},
		{Status("in_progress"), false},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.status.Valid())
		})
	}
}

func TestStatusesCoversAllConstants(t *testing.T) {
	all := Statuses()
	assert.Len(t, all, 5)
	for _, s := range all {
		assert.True(t, s.Valid())
	}
}

func TestStatusRealized(t *testing.T) {
	realized := map[Status]bool{
		StatusDelivered: true,
		StatusReady:     true,
	}
	for _, s := range Statuses() {
		assert.Equal(t, realized[s], s.Realized(), string(s))
	}
}

func TestOrderLineSubtotal(t *testing.T) {
	line := &OrderLine{Quantity: 3, UnitPrice: 2.50}
	assert.InDelta(t, 7.50, line.Subtotal(), 1e-9)
}

func TestOrderRecalcTotal(t *testing.T) {
	o := &Order{
		Lines: []*OrderLine{
			{Quantity: 2, UnitPrice: 6.50},
			{Quantity: 1, UnitPrice: 14.50},
			{Quantity: 3, UnitPrice: 1.80},
		},
	}

	total := o.RecalcTotal()
	assert.InDelta(t, 32.90, total, 1e-9)
	assert.InDelta(t, 32.90, o.Total, 1e-9)
	assert.Equal(t, 6, o.ItemCount())
}

func TestOrderRecalcTotalEmpty(t *testing.T) {
	o := &Order{Total: 99}
	assert.Zero(t, o.RecalcTotal())
	assert.Zero(t, o.Total)
	assert.Zero(t, o.ItemCount())
}
