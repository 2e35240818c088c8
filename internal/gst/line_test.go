package gst

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"tradedocs/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(price, rate string, qty int, discountType, discountValue string) *models.InvoiceItem {
	return &models.InvoiceItem{
		Price:          dec(price),
		GSTRate:        dec(rate),
		QuantityBilled: qty,
		DiscountType:   discountType,
		DiscountValue:  dec(discountValue),
	}
}

func TestComputeLine_NoDiscount(t *testing.T) {
	amounts := ComputeLine(line("1000.00", "0.18", 2, models.DiscountPercentage, "0"))

	assert.True(t, amounts.Gross.Equal(dec("2000.00")), "gross = %s", amounts.Gross)
	assert.True(t, amounts.Discount.IsZero())
	assert.True(t, amounts.Taxable.Equal(dec("2000.00")), "taxable = %s", amounts.Taxable)
	assert.True(t, amounts.Tax.Equal(dec("360.00")), "tax = %s", amounts.Tax)
}

func TestComputeLine_PercentageDiscount(t *testing.T) {
	amounts := ComputeLine(line("1000.00", "0.18", 2, models.DiscountPercentage, "10"))

	assert.True(t, amounts.Discount.Equal(dec("200.00")), "discount = %s", amounts.Discount)
	assert.True(t, amounts.Taxable.Equal(dec("1800.00")))
	assert.True(t, amounts.Tax.Equal(dec("324.00")))
}

func TestComputeLine_FixedDiscount(t *testing.T) {
	amounts := ComputeLine(line("500.00", "0.12", 3, models.DiscountAmount, "100.00"))

	assert.True(t, amounts.Gross.Equal(dec("1500.00")))
	assert.True(t, amounts.Discount.Equal(dec("100.00")))
	assert.True(t, amounts.Taxable.Equal(dec("1400.00")))
	assert.True(t, amounts.Tax.Equal(dec("168.00")))
}

func TestComputeLine_OversizedDiscountClampsToZero(t *testing.T) {
	cases := []struct {
		name string
		item *models.InvoiceItem
	}{
		{"fixed discount larger than gross", line("100.00", "0.18", 1, models.DiscountAmount, "250.00")},
		{"percentage discount above 100", line("100.00", "0.18", 1, models.DiscountPercentage, "150")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amounts := ComputeLine(tc.item)
			assert.False(t, amounts.Taxable.IsNegative(), "taxable must never go negative")
			assert.True(t, amounts.Taxable.IsZero())
			assert.True(t, amounts.Tax.IsZero())
		})
	}
}

func TestComputeLine_QuantizesEachStep(t *testing.T) {
	// 3 * 33.33 = 99.99; 5% discount = 4.9995 -> 5.00 after quantization.
	amounts := ComputeLine(line("33.33", "0.05", 3, models.DiscountPercentage, "5"))

	assert.True(t, amounts.Gross.Equal(dec("99.99")))
	assert.True(t, amounts.Discount.Equal(dec("5.00")), "discount = %s", amounts.Discount)
	assert.True(t, amounts.Taxable.Equal(dec("94.99")))
	// 94.99 * 0.05 = 4.7495 -> 4.75 half-up.
	assert.True(t, amounts.Tax.Equal(dec("4.75")), "tax = %s", amounts.Tax)
}

func TestComputeLine_Idempotent(t *testing.T) {
	it := line("750.50", "0.28", 4, models.DiscountPercentage, "2.5")
	first := ComputeLine(it)
	second := ComputeLine(it)
	assert.Equal(t, first, second)
}
