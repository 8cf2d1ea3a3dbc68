package services

import (
	"github.com/shopspring/decimal"
)

var (
	DeliveryFee = decimal.RequireFromString("40.00")
	TaxRate     = decimal.RequireFromString("0.05")
)

const Currency = "INR"

type PriceLine struct {
	Price    decimal.Decimal
	Quantity int
}

// Breakdown is computed once at order creation and frozen into the order row.
type Breakdown struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
}

func Price(lines []PriceLine) Breakdown {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	tax := subtotal.Mul(TaxRate)
	return Breakdown{
		Subtotal:    subtotal,
		DeliveryFee: DeliveryFee,
		Tax:         tax,
		Total:       subtotal.Add(DeliveryFee).Add(tax),
	}
}

// Rounded returns the breakdown at storage precision. Total is rebuilt from the rounded parts
// so the stored row always satisfies total = subtotal + fee + tax.
func (b Breakdown) Rounded() Breakdown {
	out := Breakdown{
		Subtotal:    b.Subtotal.Round(2),
		DeliveryFee: b.DeliveryFee.Round(2),
		Tax:         b.Tax.Round(2),
	}
	out.Total = out.Subtotal.Add(out.DeliveryFee).Add(out.Tax)
	return out
}

// MinorUnits converts an amount to the smallest currency unit (paise).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func decimalFromInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
