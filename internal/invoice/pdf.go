package invoice

import (
	"bytes"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF lays out an invoice on a single A4 page.
func RenderPDF(inv *Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TAX INVOICE")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(95, 6, "Invoice no: "+inv.Number)
	pdf.Cell(0, 6, "Date: "+inv.IssuedAt.Format("02 Jan 2006 15:04"))
	pdf.Ln(10)

	writeParty(pdf, "Sold by", inv.Seller)
	writeParty(pdf, "Billed to", inv.Buyer)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(100, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Unit", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range inv.Lines {
		pdf.CellFormat(100, 8, line.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, strconv.Itoa(line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, line.UnitPrice, "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, line.Total, "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(155, 8, "Total (INR)", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, inv.Total, "1", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(90, 90, 90)
	reference := "Payment reference: txn " + inv.TransactionID
	if inv.UTR != "" {
		reference += ", UTR " + inv.UTR
	}
	if inv.Buyer.VPA != "" {
		reference += ", paid from " + inv.Buyer.VPA
	}
	pdf.Cell(0, 5, reference)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeParty(pdf *gofpdf.Fpdf, label string, p Party) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, label)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 10)
	name := p.Name
	if name == "" {
		name = "-"
	}
	pdf.Cell(0, 5, name)
	pdf.Ln(5)
	if p.Address != "" {
		pdf.Cell(0, 5, p.Address)
		pdf.Ln(5)
	}
	if p.GSTIN != "" {
		pdf.Cell(0, 5, "GSTIN: "+p.GSTIN)
		pdf.Ln(5)
	}
	if p.VPA != "" {
		pdf.Cell(0, 5, "UPI: "+p.VPA)
		pdf.Ln(5)
	}
	pdf.Ln(3)
}
