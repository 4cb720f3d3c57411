// Package pdf renders invoice documents. Layout mirrors the billing slip the
// business already uses: seller header, invoice meta, bill-to block, one
// package line.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// InvoiceDocument carries everything the renderer needs; callers assemble it
// from the invoice, package, and the two parties.
type InvoiceDocument struct {
	InvoiceNumber  string
	IssuedAt       time.Time
	Paid           bool
	Amount         float64
	OwnerName      string
	OwnerCompany   string
	OwnerEmail     string
	OwnerPhone     string
	BillToName     string
	BillToEmail    string
	BillToPhone    string
	PackageTitle   string
	PickupLocation string
	DropLocation   string
	WeightKG       float64
}

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the invoice PDF as an in-memory buffer.
func (r *Renderer) Render(doc *InvoiceDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	seller := doc.OwnerCompany
	if seller == "" {
		seller = doc.OwnerName
	}

	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(120, 12, seller, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, "INVOICE", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(120, 6, "Owner: "+doc.OwnerName, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Invoice #: "+doc.InvoiceNumber, "", 1, "R", false, 0, "")
	pdf.CellFormat(120, 6, "Email: "+doc.OwnerEmail, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Issue Date: "+doc.IssuedAt.Format("2006-01-02"), "", 1, "R", false, 0, "")
	pdf.CellFormat(120, 6, "Phone: "+orNA(doc.OwnerPhone), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Status: "+paidLabel(doc.Paid), "", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 7, "Bill To:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Name: "+doc.BillToName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Email: "+doc.BillToEmail, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Phone: "+orNA(doc.BillToPhone), "", 1, "L", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 7, "Package Details:", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(50, 7, "Title", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Pickup", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Drop", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Weight", "1", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Price", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(50, 7, orNA(doc.PackageTitle), "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, orNA(doc.PickupLocation), "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, orNA(doc.DropLocation), "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, fmt.Sprintf("%.1f kg", doc.WeightKG), "1", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("%.2f", doc.Amount), "1", 1, "L", false, 0, "")

	pdf.SetY(-30)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 6, "Thank you for shipping with CargoLink.", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func paidLabel(paid bool) string {
	if paid {
		return "Paid"
	}
	return "Unpaid"
}
