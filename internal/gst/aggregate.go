package gst

import (
	"github.com/shopspring/decimal"

	"tradedocs/internal/models"
)

// Totals is the invoice-level result of aggregating all line items.
type Totals struct {
	CGST     decimal.Decimal
	SGST     decimal.Decimal
	IGST     decimal.Decimal
	TotalTax decimal.Decimal
	Grand    decimal.Decimal
}

// ComputeTotals resolves the invoice's place of supply and customer GSTIN,
// classifies the supply as intra- or inter-state against the company state
// code, and aggregates per-line tax into CGST/SGST or IGST totals. It
// mutates the derived header fields on inv (place of supply, GSTIN, totals,
// words) and returns the totals; the caller persists inv afterwards.
//
// Intra-state tax is split into two halves quantized independently, so
// CGST+SGST may differ from the unsplit line tax by at most 0.01 per line.
func ComputeTotals(inv *models.SalesInvoice, items []*models.InvoiceItem, companyStateCode string) Totals {
	if companyStateCode == "" {
		companyStateCode = models.DefaultStateCode
	}

	if inv.PlaceOfSupply == nil || *inv.PlaceOfSupply == "" {
		pos := models.DefaultStateCode
		if inv.Location != nil && inv.Location.StateCode != "" {
			pos = inv.Location.StateCode
		}
		inv.PlaceOfSupply = &pos
	}

	// Backfill the customer GSTIN from buyer, then location. An explicitly
	// set GSTIN is never overwritten.
	if inv.CustomerGSTIN == nil || *inv.CustomerGSTIN == "" {
		if inv.Buyer != nil && inv.Buyer.GSTIN != nil && *inv.Buyer.GSTIN != "" {
			inv.CustomerGSTIN = inv.Buyer.GSTIN
		} else if inv.Location != nil && inv.Location.GSTIN != nil && *inv.Location.GSTIN != "" {
			inv.CustomerGSTIN = inv.Location.GSTIN
		}
	}

	interState := *inv.PlaceOfSupply != companyStateCode

	var t Totals
	t.CGST = decimal.Zero.Round(2)
	t.SGST = decimal.Zero.Round(2)
	t.IGST = decimal.Zero.Round(2)
	t.TotalTax = decimal.Zero.Round(2)
	t.Grand = decimal.Zero.Round(2)

	for _, item := range items {
		line := ComputeLine(item)
		if interState {
			t.IGST = t.IGST.Add(line.Tax)
		} else {
			half := Half(line.Tax)
			t.CGST = t.CGST.Add(half)
			t.SGST = t.SGST.Add(half)
		}
		t.TotalTax = t.TotalTax.Add(line.Tax)
		t.Grand = t.Grand.Add(line.Taxable).Add(line.Tax)
	}

	inv.CGSTTotal = t.CGST
	inv.SGSTTotal = t.SGST
	inv.IGSTTotal = t.IGST
	inv.Total = t.Grand

	amountWords := AmountInWords(t.Grand)
	taxWords := AmountInWords(t.TotalTax)
	inv.AmountInWords = &amountWords
	inv.TaxAmountInWords = &taxWords

	return t
}

// InterState reports whether the invoice's resolved place of supply differs
// from the company's home state code.
func InterState(inv *models.SalesInvoice, companyStateCode string) bool {
	if companyStateCode == "" {
		companyStateCode = models.DefaultStateCode
	}
	if inv.PlaceOfSupply == nil || *inv.PlaceOfSupply == "" {
		return false
	}
	return *inv.PlaceOfSupply != companyStateCode
}
