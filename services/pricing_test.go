package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPrice(t *testing.T) {
	tests := []struct {
		name                 string
		lines                []PriceLine
		subtotal, tax, total string
	}{
		{"worked example", []PriceLine{{dec("100.00"), 2}, {dec("150.00"), 2}}, "500.00", "25.00", "565.00"},
		{"single line", []PriceLine{{dec("99.99"), 1}}, "99.99", "5.00", "144.99"},
		{"tax rounds half up", []PriceLine{{dec("0.10"), 1}}, "0.10", "0.01", "40.11"},
		{"many units", []PriceLine{{dec("12.35"), 7}}, "86.45", "4.32", "130.77"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Price(tt.lines).Rounded()
			assert.Equal(t, tt.subtotal, money(b.Subtotal))
			assert.Equal(t, "40.00", money(b.DeliveryFee))
			assert.Equal(t, tt.tax, money(b.Tax))
			assert.Equal(t, tt.total, money(b.Total))
			assert.True(t, b.Total.Equal(b.Subtotal.Add(b.DeliveryFee).Add(b.Tax)))
		})
	}
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(56500), MinorUnits(dec("565.00")))
	assert.Equal(t, int64(14499), MinorUnits(dec("144.99")))
	assert.Equal(t, int64(4011), MinorUnits(dec("40.11")))
}
