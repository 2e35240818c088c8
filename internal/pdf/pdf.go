// Package pdf renders the printable documents of the invoice workflow:
// tax invoice, delivery challan, transport bill and the packed-goods image
// appendix, plus the merge step that binds them with uploaded files into
// the final confirmation bundle.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"tradedocs/internal/models"
)

const (
	pageMarginX = 10.0
	pageMarginY = 10.0
	contentW    = 190.0
)

// dash substitutes "-" for empty optional fields so the printed forms never
// show blank cells.
func dash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func dashDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("02-Jan-06")
}

func money(d decimal.Decimal) string {
	return "Rs. " + d.StringFixed(2)
}

func newDocument() *gofpdf.Fpdf {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMarginX, pageMarginY, pageMarginX)
	doc.SetAutoPageBreak(true, pageMarginY)
	doc.AddPage()
	return doc
}

func writeTitle(doc *gofpdf.Fpdf, title string) {
	doc.SetFont("Arial", "B", 14)
	doc.CellFormat(contentW, 8, title, "", 1, "C", false, 0, "")
	doc.Ln(3)
}

// sellerBlock renders the company identity lines used at the top left of
// every document. withState and withEmail vary per document type.
func sellerBlock(doc *gofpdf.Fpdf, company *models.CompanyProfile, withState, withEmail bool) {
	doc.SetFont("Arial", "B", 9)
	doc.MultiCell(95, 4.5, company.Name, "", "L", false)
	doc.SetFont("Arial", "", 9)
	doc.MultiCell(95, 4.5, company.Address, "", "L", false)
	doc.MultiCell(95, 4.5, "GSTIN/UIN: "+company.GSTIN, "", "L", false)
	if withState {
		doc.MultiCell(95, 4.5, fmt.Sprintf("State Name: %s, Code: %s", company.State, company.StateCode), "", "L", false)
	}
	doc.MultiCell(95, 4.5, "Contact: "+company.ContactNumber, "", "L", false)
	if withEmail {
		doc.MultiCell(95, 4.5, "E-Mail: "+company.Email, "", "L", false)
	}
}

// partyBlock renders a consignee or buyer section under the seller block.
func partyBlock(doc *gofpdf.Fpdf, heading, name, address string, gstin *string, state, stateCode string) {
	doc.Ln(2)
	doc.SetFont("Arial", "B", 9)
	doc.MultiCell(95, 4.5, heading, "", "L", false)
	doc.MultiCell(95, 4.5, name, "", "L", false)
	doc.SetFont("Arial", "", 9)
	doc.MultiCell(95, 4.5, address, "", "L", false)
	doc.MultiCell(95, 4.5, "GSTIN/UIN: "+dash(gstin), "", "L", false)
	if state != "" {
		doc.MultiCell(95, 4.5, fmt.Sprintf("State Name: %s, Code: %s", state, stateCode), "", "L", false)
	}
}

// metaRow renders one label/value pair of the right-hand detail grid.
func metaRow(doc *gofpdf.Fpdf, x float64, label, value string, labelW, valueW float64) {
	doc.SetX(x)
	doc.SetFont("Arial", "B", 8)
	doc.CellFormat(labelW, 6, label, "1", 0, "L", false, 0, "")
	doc.SetFont("Arial", "", 8)
	doc.CellFormat(valueW, 6, value, "1", 1, "L", false, 0, "")
}

// footerWithSignature renders the declaration, bank details and signatory
// block shared by the invoice and the transport bill. signature is an
// optional PNG or JPEG image placed above "Authorised Signatory".
func footerWithSignature(doc *gofpdf.Fpdf, company *models.CompanyProfile, notes string, signature []byte) {
	if notes == "" {
		notes = "-"
	}

	y := doc.GetY()
	doc.SetFont("Arial", "", 8)
	doc.SetXY(pageMarginX, y)
	left := "Remarks/Notes:\n" + notes + "\n\n" +
		"Declaration\n" +
		"We declare that this document shows the actual details described and that all particulars are true and correct."
	doc.MultiCell(95, 4, left, "1", "L", false)
	leftBottom := doc.GetY()

	doc.SetXY(pageMarginX+95, y)
	right := "Company's Bank Details\n" +
		"A/c Holder's Name: " + company.AccountHolderName + "\n" +
		"Bank Name: " + company.BankName + "\n" +
		"A/c No.: " + company.AccountNumber + "\n" +
		"Branch & IFS Code: " + company.BranchName + " & " + company.IFSCCode + "\n\n" +
		"for " + company.Name
	doc.MultiCell(95, 4, right, "LTR", "L", false)

	sigY := doc.GetY()
	drawSignature(doc, signature, pageMarginX+150, sigY, 35)
	doc.SetXY(pageMarginX+95, sigY+16)
	doc.SetFont("Arial", "", 8)
	doc.CellFormat(95, 5, "Authorised Signatory", "LBR", 1, "R", false, 0, "")

	if doc.GetY() < leftBottom {
		doc.SetY(leftBottom)
	}
}

// drawSignature places the signature image at (x, y) if one was provided
// and it decodes; a bad image is skipped rather than failing the document.
func drawSignature(doc *gofpdf.Fpdf, signature []byte, x, y, w float64) {
	if len(signature) == 0 {
		return
	}
	kind := imageKind(signature)
	if kind == "" {
		return
	}
	name := fmt.Sprintf("signature-%d", len(signature))
	opts := gofpdf.ImageOptions{ImageType: kind, ReadDpi: true}
	doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(signature))
	if doc.Err() {
		doc.ClearError()
		return
	}
	doc.ImageOptions(name, x, y, w, 0, false, opts, 0, "")
}

// imageKind sniffs PNG and JPEG magic bytes; other formats are unsupported.
func imageKind(data []byte) string {
	if len(data) > 8 && bytes.HasPrefix(data, []byte("\x89PNG")) {
		return "PNG"
	}
	if len(data) > 3 && bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}) {
		return "JPG"
	}
	return ""
}

func output(doc *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
