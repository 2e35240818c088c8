package pdf

import (
	"fmt"

	"tradedocs/internal/models"
)

// RenderChallan produces the DELIVERY CHALLAN page. The challan reuses the
// invoice's line items and party details; dc contributes the date and the
// vehicle/notes field.
func RenderChallan(inv *models.SalesInvoice, dc *models.DeliveryChallan, items []*models.InvoiceItem, company *models.CompanyProfile, signature []byte) ([]byte, error) {
	doc := newDocument()
	writeTitle(doc, "DELIVERY CHALLAN")

	top := doc.GetY()
	sellerBlock(doc, company, true, false)
	if inv.Location != nil {
		partyBlock(doc, "Consignee (Ship to)", inv.Location.Name, inv.Location.Address,
			inv.Location.GSTIN, "", "")
	}
	leftBottom := doc.GetY()

	x := pageMarginX + 95
	doc.SetXY(x, top)
	date := dc.Date
	rows := [][2]string{
		{"DC No.", "DC-" + inv.Number()},
		{"Date", dashDate(&date)},
		{"Ref Invoice No.", inv.Number()},
		{"Vehicle No.", dash(dc.Notes)},
		{"Dispatched through", dash(inv.DispatchedThrough)},
		{"Destination", dash(inv.Destination)},
	}
	for _, row := range rows {
		metaRow(doc, x, row[0], row[1], 38, 57)
	}
	if doc.GetY() < leftBottom {
		doc.SetY(leftBottom)
	}
	doc.Ln(4)

	widths := []float64{15, 85, 30, 30, 30}
	doc.SetFont("Arial", "B", 8)
	doc.SetFillColor(240, 240, 240)
	for i, h := range []string{"Sl No", "Description of Goods", "HSN/SAC", "Quantity", "Remarks"} {
		doc.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	doc.Ln(7)

	doc.SetFont("Arial", "", 8)
	totalQty := 0
	for idx, item := range items {
		// The challan documents what physically left the warehouse, so it
		// prints the shipped quantity, not the billed one.
		totalQty += item.QuantityShipped
		name, hsn := "", ""
		if item.Item != nil {
			name = item.Item.Name
			hsn = item.Item.HSNSAC
		}
		doc.CellFormat(widths[0], 7, fmt.Sprintf("%d", idx+1), "1", 0, "C", false, 0, "")
		doc.CellFormat(widths[1], 7, name, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[2], 7, hsn, "1", 0, "C", false, 0, "")
		doc.CellFormat(widths[3], 7, fmt.Sprintf("%d Nos", item.QuantityShipped), "1", 0, "C", false, 0, "")
		doc.CellFormat(widths[4], 7, "", "1", 1, "C", false, 0, "")
	}

	doc.SetFont("Arial", "B", 8)
	doc.CellFormat(widths[0], 7, "", "1", 0, "C", false, 0, "")
	doc.CellFormat(widths[1]+widths[2], 7, "Total", "1", 0, "L", false, 0, "")
	doc.CellFormat(widths[3], 7, fmt.Sprintf("%d Nos", totalQty), "1", 0, "C", false, 0, "")
	doc.CellFormat(widths[4], 7, "", "1", 1, "C", false, 0, "")
	doc.Ln(12)

	y := doc.GetY()
	doc.SetFont("Arial", "", 9)
	doc.SetXY(pageMarginX, y)
	doc.MultiCell(95, 5, "Received the above goods in good condition.\n\n\nReceiver's Signature", "", "L", false)

	doc.SetXY(pageMarginX+95, y)
	doc.SetFont("Arial", "B", 9)
	doc.CellFormat(95, 5, "for "+company.Name, "", 1, "C", false, 0, "")
	drawSignature(doc, signature, pageMarginX+125, doc.GetY(), 35)
	doc.SetXY(pageMarginX+95, doc.GetY()+16)
	doc.SetFont("Arial", "", 9)
	doc.CellFormat(95, 5, "Authorised Signatory", "", 1, "C", false, 0, "")

	return output(doc)
}
