package pdf

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"tradedocs/internal/gst"
	"tradedocs/internal/models"
)

// taxGroup is one row of the tax analysis matrix: lines aggregated by
// HSN/SAC and GST rate.
type taxGroup struct {
	hsn     string
	rate    decimal.Decimal
	taxable decimal.Decimal
	tax     decimal.Decimal
}

// RenderInvoice produces the TAX INVOICE page for an invoice with its line
// items. Buyer and Location must be joined onto inv; company may be a blank
// profile when none is configured. signature is the optional signatory
// image, nil when the company has none.
func RenderInvoice(inv *models.SalesInvoice, items []*models.InvoiceItem, company *models.CompanyProfile, signature []byte) ([]byte, error) {
	doc := newDocument()
	writeTitle(doc, "TAX INVOICE")

	interState := gst.InterState(inv, company.StateCode)

	renderInvoiceHeader(doc, inv, company)
	renderItemTable(doc, inv, items, interState)

	doc.SetFont("Arial", "", 9)
	doc.CellFormat(contentW, 5, "Amount Chargeable (in words)", "", 1, "L", false, 0, "")
	doc.SetFont("Arial", "B", 9)
	doc.MultiCell(contentW, 5, safeWords(inv.AmountInWords), "", "L", false)
	doc.Ln(2)

	renderTaxMatrix(doc, items, interState)

	doc.SetFont("Arial", "", 9)
	doc.CellFormat(contentW, 5, "Tax Amount (in words) : "+safeWords(inv.TaxAmountInWords), "", 1, "L", false, 0, "")
	doc.Ln(3)

	var notes string
	if inv.DeliveryNote != nil {
		notes = *inv.DeliveryNote
	}
	footerWithSignature(doc, company, notes, signature)

	doc.Ln(3)
	doc.SetFont("Arial", "I", 8)
	doc.CellFormat(contentW, 5, "This is a Computer Generated Invoice", "", 1, "C", false, 0, "")

	return output(doc)
}

func safeWords(w *string) string {
	if w == nil {
		return ""
	}
	return *w
}

// renderInvoiceHeader draws the side-by-side seller/party block and the
// invoice metadata grid.
func renderInvoiceHeader(doc *gofpdf.Fpdf, inv *models.SalesInvoice, company *models.CompanyProfile) {
	top := doc.GetY()

	sellerBlock(doc, company, true, true)
	if inv.Location != nil {
		partyBlock(doc, "Consignee (Ship to)", inv.Location.Name, inv.Location.Address,
			inv.Location.GSTIN, inv.Location.State, inv.Location.StateCode)
	}
	// The buyer falls back to the consignee when none is set.
	if inv.Buyer != nil {
		partyBlock(doc, "Buyer (Bill to)", inv.Buyer.Name, inv.Buyer.Address,
			inv.Buyer.GSTIN, inv.Buyer.State, inv.Buyer.StateCode)
	} else if inv.Location != nil {
		partyBlock(doc, "Buyer (Bill to)", inv.Location.Name, inv.Location.Address,
			inv.Location.GSTIN, inv.Location.State, inv.Location.StateCode)
	}
	leftBottom := doc.GetY()

	x := pageMarginX + 95
	doc.SetXY(x, top)
	date := inv.Date
	rows := [][2]string{
		{"Invoice No.", inv.Number()},
		{"Dated", dashDate(&date)},
		{"Delivery Note", dash(inv.DeliveryNote)},
		{"Mode/Terms of Payment", inv.PaymentTerms},
		{"Reference No. & Date.", dash(inv.ReferenceNoDate)},
		{"Other References", orDash(inv.OtherReferences)},
		{"Buyer's Order No.", dash(inv.BuyersOrderNo)},
		{"Buyer's Order Date", dashDate(&inv.BuyersOrderDate)},
		{"Dispatch Doc No.", dash(inv.DispatchDocNo)},
		{"Delivery Note Date", dashDate(&inv.DeliveryNoteDate)},
		{"Dispatched through", dash(inv.DispatchedThrough)},
		{"Destination", dash(inv.Destination)},
		{"Terms of Delivery", dash(inv.TermsOfDelivery)},
		{"Place of Supply", dash(inv.PlaceOfSupply)},
		{"Customer GSTIN", dash(inv.CustomerGSTIN)},
	}
	for _, row := range rows {
		metaRow(doc, x, row[0], row[1], 40, 55)
	}

	if doc.GetY() < leftBottom {
		doc.SetY(leftBottom)
	}
	doc.Ln(3)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// renderItemTable draws the goods table with the tax summary rows and the
// grand total, and returns the billed quantity across all lines.
func renderItemTable(doc *gofpdf.Fpdf, inv *models.SalesInvoice, items []*models.InvoiceItem, interState bool) int {
	widths := []float64{10, 70, 20, 20, 25, 15, 30}
	headers := []string{"Sl No.", "Description of Goods", "HSN/SAC", "Quantity", "Rate", "per", "Amount"}

	doc.SetFont("Arial", "B", 8)
	doc.SetFillColor(240, 240, 240)
	for i, h := range headers {
		doc.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	doc.Ln(7)

	doc.SetFont("Arial", "", 8)
	totalQty := 0
	for idx, item := range items {
		line := gst.ComputeLine(item)
		totalQty += item.QuantityBilled

		name, hsn, unit := "", "", "Nos"
		if item.Item != nil {
			name = item.Item.Name
			hsn = item.Item.HSNSAC
			if item.Item.Unit != "" {
				unit = item.Item.Unit
			}
		}

		doc.CellFormat(widths[0], 7, fmt.Sprintf("%d", idx+1), "1", 0, "C", false, 0, "")
		doc.CellFormat(widths[1], 7, name, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[2], 7, hsn, "1", 0, "C", false, 0, "")
		doc.CellFormat(widths[3], 7, fmt.Sprintf("%d %s", item.QuantityBilled, unit), "1", 0, "C", false, 0, "")
		doc.CellFormat(widths[4], 7, money(item.Price), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[5], 7, unit, "1", 0, "C", false, 0, "")
		doc.CellFormat(widths[6], 7, money(line.Taxable), "1", 1, "R", false, 0, "")
	}

	summaryRow := func(label string, amount decimal.Decimal) {
		doc.SetFont("Arial", "B", 8)
		doc.CellFormat(widths[0], 6, "", "1", 0, "C", false, 0, "")
		doc.CellFormat(widths[1]+widths[2]+widths[3]+widths[4]+widths[5], 6, label, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[6], 6, money(amount), "1", 1, "R", false, 0, "")
	}
	if interState {
		summaryRow("Output IGST (Total)", inv.IGSTTotal)
	} else {
		summaryRow("Output CGST (Total)", inv.CGSTTotal)
		summaryRow("Output SGST (Total)", inv.SGSTTotal)
	}

	doc.SetFont("Arial", "B", 9)
	doc.CellFormat(widths[0], 7, "", "1", 0, "C", false, 0, "")
	doc.CellFormat(widths[1]+widths[2], 7, "Total", "1", 0, "L", false, 0, "")
	doc.CellFormat(widths[3], 7, fmt.Sprintf("%d Nos", totalQty), "1", 0, "C", false, 0, "")
	doc.CellFormat(widths[4]+widths[5], 7, "", "1", 0, "C", false, 0, "")
	doc.CellFormat(widths[6], 7, money(inv.Total), "1", 1, "R", false, 0, "")
	doc.Ln(2)

	return totalQty
}

// groupByHSNRate aggregates line taxables and taxes keyed by HSN and rate,
// preserving first-seen order.
func groupByHSNRate(items []*models.InvoiceItem) []taxGroup {
	var groups []taxGroup
	index := map[string]int{}
	for _, item := range items {
		line := gst.ComputeLine(item)
		hsn := ""
		if item.Item != nil {
			hsn = item.Item.HSNSAC
		}
		key := hsn + "|" + item.GSTRate.String()
		if i, ok := index[key]; ok {
			groups[i].taxable = groups[i].taxable.Add(line.Taxable)
			groups[i].tax = groups[i].tax.Add(line.Tax)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, taxGroup{hsn: hsn, rate: item.GSTRate, taxable: line.Taxable, tax: line.Tax})
	}
	return groups
}

// renderTaxMatrix draws the per-HSN tax analysis. Intra-state supplies get
// split CGST/SGST columns; inter-state supplies a single IGST pair.
func renderTaxMatrix(doc *gofpdf.Fpdf, items []*models.InvoiceItem, interState bool) {
	groups := groupByHSNRate(items)

	ratePct := func(r decimal.Decimal) string {
		return r.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
	}
	halfRatePct := func(r decimal.Decimal) string {
		return r.Mul(decimal.NewFromInt(50)).StringFixed(1) + "%"
	}

	doc.SetFont("Arial", "B", 8)
	doc.SetFillColor(240, 240, 240)
	if interState {
		widths := []float64{35, 45, 25, 45, 40}
		for i, h := range []string{"HSN/SAC", "Taxable Value", "IGST Rate", "IGST Amount", "Total Tax Amount"} {
			doc.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		doc.Ln(7)

		doc.SetFont("Arial", "", 8)
		totalTaxable, totalTax := decimal.Zero, decimal.Zero
		for _, g := range groups {
			totalTaxable = totalTaxable.Add(g.taxable)
			totalTax = totalTax.Add(g.tax)
			doc.CellFormat(widths[0], 6, g.hsn, "1", 0, "L", false, 0, "")
			doc.CellFormat(widths[1], 6, money(g.taxable), "1", 0, "R", false, 0, "")
			doc.CellFormat(widths[2], 6, ratePct(g.rate), "1", 0, "R", false, 0, "")
			doc.CellFormat(widths[3], 6, money(g.tax), "1", 0, "R", false, 0, "")
			doc.CellFormat(widths[4], 6, money(g.tax), "1", 1, "R", false, 0, "")
		}
		doc.SetFont("Arial", "B", 8)
		doc.CellFormat(widths[0], 6, "Total", "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 6, money(totalTaxable), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[2], 6, "", "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[3], 6, money(totalTax), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[4], 6, money(totalTax), "1", 1, "R", false, 0, "")
		doc.Ln(2)
		return
	}

	widths := []float64{25, 35, 16, 29, 16, 29, 40}
	for i, h := range []string{"HSN/SAC", "Taxable Value", "CGST %", "CGST Amt", "SGST %", "SGST Amt", "Total Tax Amount"} {
		doc.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	doc.Ln(7)

	doc.SetFont("Arial", "", 8)
	totalTaxable, totalCGST, totalSGST, totalTax := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, g := range groups {
		half := gst.Half(g.tax)
		totalTaxable = totalTaxable.Add(g.taxable)
		totalCGST = totalCGST.Add(half)
		totalSGST = totalSGST.Add(half)
		totalTax = totalTax.Add(g.tax)
		doc.CellFormat(widths[0], 6, g.hsn, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 6, money(g.taxable), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[2], 6, halfRatePct(g.rate), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[3], 6, money(half), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[4], 6, halfRatePct(g.rate), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[5], 6, money(half), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[6], 6, money(g.tax), "1", 1, "R", false, 0, "")
	}
	doc.SetFont("Arial", "B", 8)
	doc.CellFormat(widths[0], 6, "Total", "1", 0, "L", false, 0, "")
	doc.CellFormat(widths[1], 6, money(totalTaxable), "1", 0, "R", false, 0, "")
	doc.CellFormat(widths[2], 6, "", "1", 0, "R", false, 0, "")
	doc.CellFormat(widths[3], 6, money(totalCGST), "1", 0, "R", false, 0, "")
	doc.CellFormat(widths[4], 6, "", "1", 0, "R", false, 0, "")
	doc.CellFormat(widths[5], 6, money(totalSGST), "1", 0, "R", false, 0, "")
	doc.CellFormat(widths[6], 6, money(totalTax), "1", 1, "R", false, 0, "")
	doc.Ln(2)
}
