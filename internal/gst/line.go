package gst

import (
	"github.com/shopspring/decimal"

	"tradedocs/internal/models"
)

// LineAmounts holds the computed money fields of one invoice line, each
// individually quantized to two decimal places.
type LineAmounts struct {
	Gross    decimal.Decimal
	Discount decimal.Decimal
	Taxable  decimal.Decimal
	Tax      decimal.Decimal
}

// ComputeLine calculates gross, discount, taxable value and tax amount for
// one line from its snapshotted price and rate. Pure function; safe to call
// repeatedly. Over-large discounts clamp the taxable value to zero rather
// than producing a negative amount.
func ComputeLine(item *models.InvoiceItem) LineAmounts {
	gross := Quantize(decimal.NewFromInt(int64(item.QuantityBilled)).Mul(item.Price))

	var discount decimal.Decimal
	if item.DiscountType == models.DiscountPercentage {
		discount = Quantize(gross.Mul(item.DiscountValue.Div(hundred)))
	} else {
		discount = Quantize(item.DiscountValue)
	}

	taxable := Quantize(gross.Sub(discount))
	if taxable.IsNegative() {
		taxable = decimal.Zero.Round(2)
	}

	tax := Quantize(taxable.Mul(item.GSTRate))

	return LineAmounts{Gross: gross, Discount: discount, Taxable: taxable, Tax: tax}
}
