package billing

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"tableside/internal/domain"
)

// renderBillPDF produces a one-page A4 bill: header, order details, an
// itemized table and the totals block.
func renderBillPDF(b domain.Bill, o domain.Order, waiterName string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Restaurant Bill", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	line := func(label, value string) {
		pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}
	line("Bill No:", fmt.Sprintf("%d", b.ID))
	line("Table:", b.TableNumber)
	line("Order No:", fmt.Sprintf("%d", b.OrderID))
	line("Waiter:", waiterName)
	line("Generated:", b.GeneratedAt.Format("2006-01-02 15:04"))
	line("Status:", string(b.Status))
	if b.PaidAt != nil {
		line("Paid:", b.PaidAt.Format("2006-01-02 15:04"))
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(90, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Subtotal", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range o.Items {
		pdf.CellFormat(90, 8, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, item.PriceAtOrder.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, item.Subtotal().StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	total := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(150, 7, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, value, "", 1, "R", false, 0, "")
	}
	total("Subtotal:", b.Subtotal.StringFixed(2), false)
	total(fmt.Sprintf("Tax (%s%%):", b.TaxPercentage.StringFixed(2)), b.TaxAmount.StringFixed(2), false)
	total("Total:", b.Total.StringFixed(2), true)

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 7, "Thank you for dining with us!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
