// Package gst implements the tax computation core: fixed-point money
// arithmetic, per-line tax amounts and invoice-level GST aggregation.
//
// All money values are decimal with exactly two fractional digits, rounded
// half-up at every quantization point. Intermediate tax and discount amounts
// are quantized individually before summation so printed totals reconcile
// line-by-line with the tax matrix.
package gst

import "github.com/shopspring/decimal"

var (
	two     = decimal.NewFromInt(2)
	hundred = decimal.NewFromInt(100)
)

// Quantize rounds d to two decimal places, half-up.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Half returns one half of d, quantized to two decimal places. The two
// halves of a tax amount are each quantized independently, so their sum may
// differ from the unsplit amount by up to 0.01.
func Half(d decimal.Decimal) decimal.Decimal {
	return Quantize(d.Div(two))
}
