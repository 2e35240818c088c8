package gst

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedocs/internal/models"
)

func strPtr(s string) *string { return &s }

func twoStandardLines() []*models.InvoiceItem {
	return []*models.InvoiceItem{
		line("1000.00", "0.18", 1, models.DiscountPercentage, "0"),
		line("1000.00", "0.18", 1, models.DiscountPercentage, "0"),
	}
}

func TestComputeTotals_IntraState(t *testing.T) {
	inv := &models.SalesInvoice{PlaceOfSupply: strPtr("29")}
	totals := ComputeTotals(inv, twoStandardLines(), "29")

	assert.True(t, totals.CGST.Equal(dec("180.00")), "cgst = %s", totals.CGST)
	assert.True(t, totals.SGST.Equal(dec("180.00")), "sgst = %s", totals.SGST)
	assert.True(t, totals.IGST.IsZero())
	assert.True(t, totals.TotalTax.Equal(dec("360.00")))
	assert.True(t, totals.Grand.Equal(dec("2360.00")), "grand = %s", totals.Grand)

	assert.True(t, inv.CGSTTotal.Equal(dec("180.00")))
	assert.True(t, inv.SGSTTotal.Equal(dec("180.00")))
	assert.True(t, inv.Total.Equal(dec("2360.00")))
}

func TestComputeTotals_InterState(t *testing.T) {
	inv := &models.SalesInvoice{PlaceOfSupply: strPtr("27")}
	totals := ComputeTotals(inv, twoStandardLines(), "29")

	assert.True(t, totals.IGST.Equal(dec("360.00")), "igst = %s", totals.IGST)
	assert.True(t, totals.CGST.IsZero())
	assert.True(t, totals.SGST.IsZero())
	assert.True(t, totals.Grand.Equal(dec("2360.00")))
}

func TestComputeTotals_HalvesQuantizedIndependently(t *testing.T) {
	// Taxable 100.30 at 5% gives tax 5.02 (5.015 rounds up); each half is
	// 2.51, so CGST+SGST overshoots the line tax by exactly 0.01.
	items := []*models.InvoiceItem{
		line("100.30", "0.05", 1, models.DiscountPercentage, "0"),
	}
	inv := &models.SalesInvoice{PlaceOfSupply: strPtr("29")}
	totals := ComputeTotals(inv, items, "29")

	assert.True(t, totals.CGST.Equal(dec("2.51")), "cgst = %s", totals.CGST)
	assert.True(t, totals.SGST.Equal(dec("2.51")), "sgst = %s", totals.SGST)
	assert.True(t, totals.TotalTax.Equal(dec("5.02")))

	drift := totals.CGST.Add(totals.SGST).Sub(totals.TotalTax).Abs()
	assert.True(t, drift.LessThanOrEqual(dec("0.01")), "split drift = %s", drift)
}

func TestComputeTotals_PlaceOfSupplyFallback(t *testing.T) {
	t.Run("explicit value kept", func(t *testing.T) {
		inv := &models.SalesInvoice{
			PlaceOfSupply: strPtr("33"),
			Location:      &models.StoreLocation{StateCode: "27"},
		}
		ComputeTotals(inv, nil, "29")
		require.NotNil(t, inv.PlaceOfSupply)
		assert.Equal(t, "33", *inv.PlaceOfSupply)
	})

	t.Run("falls back to location state code", func(t *testing.T) {
		inv := &models.SalesInvoice{Location: &models.StoreLocation{StateCode: "27"}}
		ComputeTotals(inv, nil, "29")
		require.NotNil(t, inv.PlaceOfSupply)
		assert.Equal(t, "27", *inv.PlaceOfSupply)
	})

	t.Run("falls back to default state", func(t *testing.T) {
		inv := &models.SalesInvoice{}
		ComputeTotals(inv, nil, "29")
		require.NotNil(t, inv.PlaceOfSupply)
		assert.Equal(t, models.DefaultStateCode, *inv.PlaceOfSupply)
	})
}

func TestComputeTotals_GSTINBackfill(t *testing.T) {
	buyerGSTIN := "29ABCDE1234F1Z5"
	locationGSTIN := "27FGHIJ5678K1Z9"

	t.Run("buyer wins over location", func(t *testing.T) {
		inv := &models.SalesInvoice{
			Buyer:    &models.Buyer{GSTIN: &buyerGSTIN},
			Location: &models.StoreLocation{GSTIN: &locationGSTIN},
		}
		ComputeTotals(inv, nil, "29")
		require.NotNil(t, inv.CustomerGSTIN)
		assert.Equal(t, buyerGSTIN, *inv.CustomerGSTIN)
	})

	t.Run("location used when buyer has none", func(t *testing.T) {
		inv := &models.SalesInvoice{
			Buyer:    &models.Buyer{},
			Location: &models.StoreLocation{GSTIN: &locationGSTIN},
		}
		ComputeTotals(inv, nil, "29")
		require.NotNil(t, inv.CustomerGSTIN)
		assert.Equal(t, locationGSTIN, *inv.CustomerGSTIN)
	})

	t.Run("explicit GSTIN never overwritten", func(t *testing.T) {
		explicit := "29ZZZZZ9999Z1Z1"
		inv := &models.SalesInvoice{
			CustomerGSTIN: &explicit,
			Buyer:         &models.Buyer{GSTIN: &buyerGSTIN},
		}
		ComputeTotals(inv, nil, "29")
		assert.Equal(t, explicit, *inv.CustomerGSTIN)
	})
}

func TestComputeTotals_WordsPopulated(t *testing.T) {
	inv := &models.SalesInvoice{PlaceOfSupply: strPtr("29")}
	ComputeTotals(inv, twoStandardLines(), "29")

	require.NotNil(t, inv.AmountInWords)
	require.NotNil(t, inv.TaxAmountInWords)
	assert.Equal(t, "INR Two Thousand Three Hundred Sixty Only", *inv.AmountInWords)
	assert.Equal(t, "INR Three Hundred Sixty Only", *inv.TaxAmountInWords)
}

func TestComputeTotals_EmptyInvoice(t *testing.T) {
	inv := &models.SalesInvoice{PlaceOfSupply: strPtr("29")}
	totals := ComputeTotals(inv, nil, "29")

	assert.True(t, totals.Grand.IsZero())
	assert.True(t, totals.TotalTax.IsZero())
	require.NotNil(t, inv.AmountInWords)
	assert.Equal(t, "INR Zero Only", *inv.AmountInWords)
}

func TestInterState(t *testing.T) {
	assert.False(t, InterState(&models.SalesInvoice{PlaceOfSupply: strPtr("29")}, "29"))
	assert.True(t, InterState(&models.SalesInvoice{PlaceOfSupply: strPtr("27")}, "29"))
	assert.False(t, InterState(&models.SalesInvoice{}, "29"), "unresolved place of supply treated as home state")
}

func TestComputeTotals_MixedRates(t *testing.T) {
	items := []*models.InvoiceItem{
		line("200.00", "0.05", 2, models.DiscountPercentage, "0"),  // taxable 400.00, tax 20.00
		line("150.00", "0.28", 1, models.DiscountAmount, "50.00"),  // taxable 100.00, tax 28.00
		line("999.99", "0.00", 1, models.DiscountPercentage, "0"),  // taxable 999.99, tax 0
	}
	inv := &models.SalesInvoice{PlaceOfSupply: strPtr("29")}
	totals := ComputeTotals(inv, items, "29")

	assert.True(t, totals.TotalTax.Equal(dec("48.00")), "tax = %s", totals.TotalTax)
	assert.True(t, totals.CGST.Equal(dec("24.00")))
	assert.True(t, totals.SGST.Equal(dec("24.00")))
	assert.True(t, totals.Grand.Equal(dec("1547.99")), "grand = %s", totals.Grand)
}

func TestComputeTotals_ZeroDecimalsRemainComparable(t *testing.T) {
	inv := &models.SalesInvoice{PlaceOfSupply: strPtr("29")}
	totals := ComputeTotals(inv, nil, "29")
	assert.Equal(t, "0.00", totals.Grand.StringFixed(2))
	assert.True(t, totals.Grand.Equal(decimal.Zero))
}
