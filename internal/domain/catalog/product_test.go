package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	p, err := NewProduct("PROD-001", "Widget", "unit")
	require.NoError(t, err)

	assert.Equal(t, "PROD-001", p.Code)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, "unit", p.Unit)
	assert.False(t, p.IsCombo)
	assert.Equal(t, ProductStatusActive, p.Status)

	events := p.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeProductCreated, events[0].EventType())
}

func TestNewProduct_Validation(t *testing.T) {
	tests := []struct {
		name string
		code string
		pname string
		unit string
	}{
		{"empty code", "", "Widget", "unit"},
		{"empty name", "PROD-001", "", "unit"},
		{"empty unit", "PROD-001", "Widget", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.code, tt.pname, tt.unit)
			assert.Error(t, err)
		})
	}
}

func TestNewComboProduct(t *testing.T) {
	p, err := NewComboProduct("COMBO-001", "Breakfast Set", "unit")
	require.NoError(t, err)
	assert.True(t, p.IsCombo)
}

func TestProduct_SetSellingPrice(t *testing.T) {
	p, err := NewProduct("PROD-001", "Widget", "unit")
	require.NoError(t, err)

	require.NoError(t, p.SetSellingPrice(decimal.RequireFromString("19.99")))
	assert.True(t, p.SellingPrice.Equal(decimal.RequireFromString("19.99")))

	assert.Error(t, p.SetSellingPrice(decimal.NewFromInt(-1)))
}

func TestProduct_StatusTransitions(t *testing.T) {
	p, err := NewProduct("PROD-001", "Widget", "unit")
	require.NoError(t, err)
	assert.True(t, p.IsSellable())

	p.Deactivate()
	assert.Equal(t, ProductStatusInactive, p.Status)
	assert.False(t, p.IsSellable())

	p.Activate()
	assert.True(t, p.IsSellable())

	p.Discontinue()
	assert.Equal(t, ProductStatusDiscontinued, p.Status)
	assert.False(t, p.IsSellable())
}
