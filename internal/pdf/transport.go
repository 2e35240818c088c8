package pdf

import (
	"tradedocs/internal/models"
)

// hsnTransportServices is the SAC for goods transport support services,
// printed on every transport bill line.
const hsnTransportServices = "996719"

// RenderTransport produces the TRANSPORT BILL page for an invoice's
// transport charges record.
func RenderTransport(inv *models.SalesInvoice, transport *models.TransportCharges, company *models.CompanyProfile, signature []byte) ([]byte, error) {
	doc := newDocument()
	writeTitle(doc, "TRANSPORT BILL")

	top := doc.GetY()
	sellerBlock(doc, company, false, false)
	if inv.Location != nil {
		partyBlock(doc, "Billed To", inv.Location.Name, inv.Location.Address,
			inv.Location.GSTIN, "", "")
	}
	leftBottom := doc.GetY()

	x := pageMarginX + 95
	doc.SetXY(x, top)
	date := transport.Date
	rows := [][2]string{
		{"Bill No.", "TRP-" + inv.Number()},
		{"Date", dashDate(&date)},
		{"Ref Invoice No.", inv.Number()},
		{"Vehicle/Ref", dash(transport.Description)},
	}
	for _, row := range rows {
		metaRow(doc, x, row[0], row[1], 38, 57)
	}
	if doc.GetY() < leftBottom {
		doc.SetY(leftBottom)
	}
	doc.Ln(4)

	widths := []float64{120, 30, 40}
	doc.SetFont("Arial", "B", 9)
	doc.SetFillColor(240, 240, 240)
	for i, h := range []string{"Description", "HSN", "Amount"} {
		doc.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	doc.Ln(8)

	doc.SetFont("Arial", "", 9)
	description := "Transport Charges"
	if transport.Description != nil && *transport.Description != "" {
		description += " - " + *transport.Description
	}
	doc.CellFormat(widths[0], 8, description, "1", 0, "L", false, 0, "")
	doc.CellFormat(widths[1], 8, hsnTransportServices, "1", 0, "C", false, 0, "")
	doc.CellFormat(widths[2], 8, money(transport.Charges), "1", 1, "R", false, 0, "")

	doc.SetFont("Arial", "B", 9)
	doc.CellFormat(widths[0]+widths[1], 8, "Total", "1", 0, "L", false, 0, "")
	doc.CellFormat(widths[2], 8, money(transport.Charges), "1", 1, "R", false, 0, "")
	doc.Ln(8)

	footerWithSignature(doc, company, "Transport Charges", signature)

	return output(doc)
}
