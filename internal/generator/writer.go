package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/fakturnia/ksef-processor/internal/model"
)

// Renderer turns a canonical record into document bytes. The PDF layout
// engine satisfies this; the writer itself knows nothing about layout.
type Renderer interface {
	Render(inv *model.Invoice) ([]byte, error)
}

// Writer persists generated invoices, keyed by output format
type Writer struct {
	dir      string
	format   string
	renderer Renderer
}

// NewWriter creates a writer for the given output directory and format
func NewWriter(dir, format string, renderer Renderer) *Writer {
	return &Writer{dir: dir, format: format, renderer: renderer}
}

// WriteAll persists every invoice and returns the written paths. The
// xml format is not supported for generated batches and falls back to
// json, matching the original tool.
func (w *Writer) WriteAll(ctx context.Context, invoices []*model.Invoice) ([]string, error) {
	log := zerolog.Ctx(ctx)

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	format := w.format
	if format == "xml" {
		log.Warn().Str("format", w.format).Msg("xml output not supported for generated batches, saving as json")
		format = "json"
	}

	paths := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		path := filepath.Join(w.dir, inv.FileName(format))

		var err error
		switch format {
		case "pdf":
			err = w.writePDF(inv, path)
		default:
			err = w.writeJSON(inv, path)
		}
		if err != nil {
			return paths, err
		}

		log.Info().
			Str("path", path).
			Str("invoice_number", inv.Number).
			Msg("invoice generated")
		paths = append(paths, path)
	}

	return paths, nil
}

func (w *Writer) writeJSON(inv *model.Invoice, path string) error {
	data, err := json.MarshalIndent(flatten(inv), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal invoice %s: %w", inv.Number, err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (w *Writer) writePDF(inv *model.Invoice, path string) error {
	if w.renderer == nil {
		return fmt.Errorf("pdf output requested but no renderer configured")
	}
	data, err := w.renderer.Render(inv)
	if err != nil {
		return fmt.Errorf("failed to render invoice %s: %w", inv.Number, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// flatten produces the flat keyed interchange form of the record:
// string-typed monetary fields, ISO dates as strings.
func flatten(inv *model.Invoice) map[string]any {
	positions := make([]map[string]any, 0, len(inv.Positions))
	for _, p := range inv.Positions {
		positions = append(positions, map[string]any{
			"name":              p.Name,
			"quantity":          p.Quantity.String(),
			"quantity_unit":     p.QuantityUnit,
			"tax":               fmt.Sprintf("%d", p.TaxRate),
			"price_net":         p.UnitNet.StringFixed(2),
			"price_tax":         p.UnitTax.StringFixed(2),
			"price_gross":       p.UnitGross.StringFixed(2),
			"total_price_net":   p.TotalNet.StringFixed(2),
			"total_price_tax":   p.TotalTax.StringFixed(2),
			"total_price_gross": p.TotalGross.StringFixed(2),
		})
	}

	return map[string]any{
		"number":              inv.Number,
		"issue_date":          inv.IssueDate,
		"sell_date":           inv.SellDate,
		"payment_to":          inv.PaymentDue,
		"payment_type":        string(inv.PaymentType),
		"currency":            inv.Currency,
		"kind":                "vat",
		"lang":                inv.Lang,
		"price_net":           inv.PriceNet.StringFixed(2),
		"price_tax":           inv.PriceTax.StringFixed(2),
		"price_gross":         inv.PriceGross.StringFixed(2),
		"seller_name":         inv.Seller.Name,
		"seller_tax_no":       inv.Seller.TaxID,
		"seller_street":       inv.Seller.Street,
		"seller_post_code":    inv.Seller.PostCode,
		"seller_city":         inv.Seller.City,
		"seller_country":      inv.Seller.Country,
		"seller_email":        inv.Seller.Email,
		"seller_phone":        inv.Seller.Phone,
		"seller_person":       inv.Seller.Person,
		"seller_bank":         inv.Seller.BankName,
		"seller_bank_account": inv.Seller.BankAccount,
		"buyer_name":          inv.Buyer.Name,
		"buyer_tax_no":        inv.Buyer.TaxID,
		"buyer_street":        inv.Buyer.Street,
		"buyer_post_code":     inv.Buyer.PostCode,
		"buyer_city":          inv.Buyer.City,
		"buyer_country":       inv.Buyer.Country,
		"positions":           positions,
	}
}
