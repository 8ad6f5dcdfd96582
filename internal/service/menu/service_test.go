package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comanda-app/comanda/internal/entity"
)

func TestGroupProducts(t *testing.T) {
	products := []*entity.Product{
		{ID: 1, Name: "Agua", Price: 1.80, Category: "Drinks"},
		{ID: 2, Name: "Cerveza", Price: 2.20, Category: "Drinks"},
		{ID: 3, Name: "Paella", Price: 14.50, Category: "Mains"},
		{ID: 4, Name: "Tortilla", Price: 6.50, Category: "Starters"},
	}

	menu := groupProducts(products, "EUR")
	require.NotNil(t, menu)

	assert.Equal(t, []string{"Drinks", "Mains", "Starters"}, menu.Categories)
	require.Len(t, menu.Groups["Drinks"], 2)
	assert.Equal(t, "Agua", menu.Groups["Drinks"][0].Name)
	assert.Equal(t, "Cerveza", menu.Groups["Drinks"][1].Name)
	assert.Equal(t, "EUR", menu.Groups["Drinks"][0].Currency)

	require.Len(t, menu.Groups["Mains"], 1)
	assert.InDelta(t, 14.50, menu.Groups["Mains"][0].Price, 1e-9)
}

func TestGroupProductsDefaultsEmptyCategory(t *testing.T) {
	products := []*entity.Product{
		{ID: 1, Name: "Mystery dish", Price: 9.99},
	}

	menu := groupProducts(products, "EUR")
	require.Len(t, menu.Groups[entity.DefaultCategory], 1)
	assert.Equal(t, []string{entity.DefaultCategory}, menu.Categories)
	assert.Equal(t, entity.DefaultCategory, menu.Groups[entity.DefaultCategory][0].Category)
}

func TestGroupProductsEmpty(t *testing.T) {
	menu := groupProducts(nil, "EUR")
	require.NotNil(t, menu)
	assert.Empty(t, menu.Groups)
	assert.Empty(t, menu.Categories)
}
