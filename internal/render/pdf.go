// Package render lays out canonical invoice records as printable
// documents. The PDF layout keeps its labels extractable: the text
// layer of a rendered faktura parses back through the rule cascade.
package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/fakturnia/ksef-processor/internal/model"
)

const (
	pageMargin = 15.0
	lineHeight = 5.0
)

// Renderer produces A4 faktura PDFs
type Renderer struct{}

// NewRenderer creates a PDF renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render lays out the invoice and returns the PDF bytes
func (r *Renderer) Render(inv *model.Invoice) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.AddPage()

	// Core fonts carry no Polish diacritics; everything written to the
	// page goes through the cp1250 translator.
	tr := doc.UnicodeTranslatorFromDescriptor("cp1250")

	r.writeSummary(doc, tr, inv)
	r.writeTitle(doc, tr, inv)
	r.writeParties(doc, tr, inv)
	r.writePositions(doc, tr, inv)
	r.writeTotals(doc, tr, inv)
	r.writePayment(doc, tr, inv)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice %s: %w", inv.Number, err)
	}
	return buf.Bytes(), nil
}

// writeSummary puts the three monetary totals at the top right, one per
// line, each on its own text row so the extractor sees them unbroken.
func (r *Renderer) writeSummary(doc *gofpdf.Fpdf, tr func(string) string, inv *model.Invoice) {
	doc.SetFont("Helvetica", "", 9)

	rows := []string{
		fmt.Sprintf("Wartość netto %s %s", inv.PriceNet.StringFixed(2), inv.Currency),
		fmt.Sprintf("Wartość VAT %s %s", inv.PriceTax.StringFixed(2), inv.Currency),
		fmt.Sprintf("Wartość brutto %s %s", inv.PriceGross.StringFixed(2), inv.Currency),
	}
	for _, row := range rows {
		doc.CellFormat(0, lineHeight, tr(row), "", 1, "R", false, 0, "")
	}
	doc.Ln(4)
}

func (r *Renderer) writeTitle(doc *gofpdf.Fpdf, tr func(string) string, inv *model.Invoice) {
	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 8, tr(fmt.Sprintf("Faktura numer %s", inv.Number)), "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, lineHeight, tr(fmt.Sprintf("Data wystawienia: %s", inv.IssueDate)), "", 1, "L", false, 0, "")
	if inv.SellDate != "" {
		doc.CellFormat(0, lineHeight, tr(fmt.Sprintf("Data sprzedaży: %s", inv.SellDate)), "", 1, "L", false, 0, "")
	}
	if inv.PaymentDue != "" {
		doc.CellFormat(0, lineHeight, tr(fmt.Sprintf("Termin płatności: %s", inv.PaymentDue)), "", 1, "L", false, 0, "")
	}
	doc.Ln(4)
}

// writeParties renders the Sprzedawca and Nabywca blocks side by side
func (r *Renderer) writeParties(doc *gofpdf.Fpdf, tr func(string) string, inv *model.Invoice) {
	pageWidth, _ := doc.GetPageSize()
	colWidth := (pageWidth - 2*pageMargin) / 2

	top := doc.GetY()
	r.writeParty(doc, tr, "Sprzedawca:", inv.Seller, pageMargin, colWidth, top)
	bottom := doc.GetY()

	r.writeParty(doc, tr, "Nabywca:", inv.Buyer, pageMargin+colWidth, colWidth, top)
	if doc.GetY() < bottom {
		doc.SetY(bottom)
	}
	doc.Ln(6)
}

func (r *Renderer) writeParty(doc *gofpdf.Fpdf, tr func(string) string, label string, p model.Party, x, width, y float64) {
	doc.SetXY(x, y)
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(width, lineHeight, tr(label), "", 2, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	lines := []string{
		p.Name,
		p.Street,
		fmt.Sprintf("%s %s", p.PostCode, p.City),
		fmt.Sprintf("NIP %s", p.TaxID),
	}
	if p.Email != "" {
		lines = append(lines, p.Email)
	}
	if p.Phone != "" {
		lines = append(lines, p.Phone)
	}
	for _, line := range lines {
		doc.SetX(x)
		doc.CellFormat(width, lineHeight, tr(line), "", 2, "L", false, 0, "")
	}
}

func (r *Renderer) writePositions(doc *gofpdf.Fpdf, tr func(string) string, inv *model.Invoice) {
	if len(inv.Positions) == 0 {
		return
	}

	widths := []float64{10, 60, 20, 25, 15, 25, 25}
	headers := []string{"Lp", "Nazwa", "Ilość", "Cena netto", "VAT", "Wartość netto", "Wartość brutto"}

	doc.SetFont("Helvetica", "B", 8)
	doc.SetFillColor(230, 230, 230)
	for i, h := range headers {
		doc.CellFormat(widths[i], 6, tr(h), "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 8)
	for i, pos := range inv.Positions {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			pos.Name,
			fmt.Sprintf("%s %s", pos.Quantity.String(), pos.QuantityUnit),
			pos.UnitNet.StringFixed(2),
			fmt.Sprintf("%d%%", pos.TaxRate),
			pos.TotalNet.StringFixed(2),
			pos.TotalGross.StringFixed(2),
		}
		aligns := []string{"C", "L", "C", "R", "C", "R", "R"}
		for j, cell := range cells {
			doc.CellFormat(widths[j], 6, tr(cell), "1", 0, aligns[j], false, 0, "")
		}
		doc.Ln(-1)
	}
	doc.Ln(4)
}

func (r *Renderer) writeTotals(doc *gofpdf.Fpdf, tr func(string) string, inv *model.Invoice) {
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 6, tr(fmt.Sprintf("Do zapłaty: %s %s", inv.PriceGross.StringFixed(2), inv.Currency)), "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "I", 9)
	doc.CellFormat(0, lineHeight, tr(fmt.Sprintf("Słownie: %s", AmountInWords(inv.PriceGross))), "", 1, "L", false, 0, "")
	doc.Ln(4)
}

func (r *Renderer) writePayment(doc *gofpdf.Fpdf, tr func(string) string, inv *model.Invoice) {
	doc.SetFont("Helvetica", "", 9)

	if inv.PaymentType != "" {
		doc.CellFormat(0, lineHeight, tr(fmt.Sprintf("Forma płatności: %s", paymentLabel(inv.PaymentType))), "", 1, "L", false, 0, "")
	}
	if inv.Seller.BankName != "" {
		doc.CellFormat(0, lineHeight, tr(fmt.Sprintf("Bank: %s", inv.Seller.BankName)), "", 1, "L", false, 0, "")
	}
	if inv.Seller.BankAccount != "" {
		doc.CellFormat(0, lineHeight, tr(fmt.Sprintf("Nr konta: %s", inv.Seller.BankAccount)), "", 1, "L", false, 0, "")
	}
}

func paymentLabel(t model.PaymentType) string {
	switch t {
	case model.PaymentCash:
		return "gotówka"
	case model.PaymentCard:
		return "karta"
	default:
		return "przelew"
	}
}
