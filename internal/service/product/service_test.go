package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comanda-app/comanda/internal/entity"
	"github.com/comanda-app/comanda/pkg/errorbank"
)

func TestCreateValidation(t *testing.T) {
	svc := &Service{}
	ctx := context.Background()

	tests := []struct {
		name  string
		input *entity.Product
	}{
		{name: "nil product", input: nil},
		{name: "empty name", input: &entity.Product{Name: "   ", Price: 5}},
		{name: "negative price", input: &entity.Product{Name: "Paella", Price: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input)
			require.Error(t, err)
			assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
		})
	}
}
