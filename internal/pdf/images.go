package pdf

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
)

// PackedPhoto is one decoded-ready photo for the appendix, paired with its
// operator note.
type PackedPhoto struct {
	Data  []byte
	Notes string
}

const (
	photoMaxW   = 170.0 // mm, fits inside the content width with a border
	photoMaxH   = 110.0 // mm
	photoPixels = 1200  // longest side after normalization
)

// RenderImageAppendix produces the packed-goods photo pages appended to the
// confirmation bundle. Photos flow top to bottom with a page break when the
// next one does not fit. Corrupt or undecodable photos are skipped; the
// appendix is only as complete as its inputs. Returns nil bytes when no
// photo survives decoding.
func RenderImageAppendix(invoiceNumber string, photos []PackedPhoto) ([]byte, error) {
	doc := newDocument()
	doc.SetAutoPageBreak(false, pageMarginY)

	writeTitle(doc, "PACKED GOODS - "+invoiceNumber)

	rendered := 0
	for i, photo := range photos {
		jpeg, w, h, err := normalizePhoto(photo.Data)
		if err != nil {
			continue
		}

		// Scale to fit the photo box preserving aspect ratio.
		drawW, drawH := photoMaxW, photoMaxW*float64(h)/float64(w)
		if drawH > photoMaxH {
			drawH = photoMaxH
			drawW = photoMaxH * float64(w) / float64(h)
		}

		needed := drawH + 14
		if doc.GetY()+needed > 297-pageMarginY {
			doc.AddPage()
		}

		name := fmt.Sprintf("packed-%d", i)
		opts := gofpdf.ImageOptions{ImageType: "JPG"}
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(jpeg))
		if doc.Err() {
			doc.ClearError()
			continue
		}
		x := pageMarginX + (contentW-drawW)/2
		doc.ImageOptions(name, x, doc.GetY(), drawW, drawH, false, opts, 0, "")
		doc.SetY(doc.GetY() + drawH + 2)

		doc.SetFont("Arial", "", 9)
		notes := photo.Notes
		if notes == "" {
			notes = "-"
		}
		doc.MultiCell(contentW, 5, "Notes: "+notes, "", "L", false)
		doc.Ln(5)
		rendered++
	}

	if rendered == 0 {
		return nil, nil
	}
	return output(doc)
}

// normalizePhoto decodes an uploaded photo honoring EXIF orientation,
// shrinks it to a bounded pixel size and re-encodes it as JPEG so gofpdf
// only ever sees one well-formed format.
func normalizePhoto(data []byte) ([]byte, int, int, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > photoPixels || bounds.Dy() > photoPixels {
		img = imaging.Fit(img, photoPixels, photoPixels, imaging.Lanczos)
		bounds = img.Bounds()
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), bounds.Dx(), bounds.Dy(), nil
}
