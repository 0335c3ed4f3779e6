package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fakturnia/ksef-processor/internal/money"
)

// SchemaVariant selects the KSeF schema dialect
type SchemaVariant string

const (
	SchemaFA2 SchemaVariant = "FA2"
	SchemaFA3 SchemaVariant = "FA3"
)

// Number returns the single numeral that distinguishes the variants
// ("2" or "3")
func (v SchemaVariant) Number() string {
	if v == SchemaFA3 {
		return "3"
	}
	return "2"
}

// PaymentType represents how an invoice is settled
type PaymentType string

const (
	PaymentTransfer PaymentType = "transfer"
	PaymentCash     PaymentType = "cash"
	PaymentCard     PaymentType = "card"
)

// Party represents a seller or buyer. Parties are embedded by value;
// invoices do not share party records.
type Party struct {
	Name     string `json:"name"`
	TaxID    string `json:"tax_no"` // NIP, 10 digits
	Street   string `json:"street"`
	PostCode string `json:"post_code"`
	City     string `json:"city"`
	Country  string `json:"country"` // ISO 3166-1 alpha-2, default "PL"
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Person   string `json:"person,omitempty"`

	BankName    string `json:"bank,omitempty"`
	BankAccount string `json:"bank_account,omitempty"`
}

// Position represents an invoice line item. Positions exist only inside
// their parent invoice and their order is the display and XML order.
type Position struct {
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	QuantityUnit string          `json:"quantity_unit"`
	TaxRate      int             `json:"tax"` // percentage

	// Unit amounts, 2 fraction digits
	UnitNet   decimal.Decimal `json:"price_net"`
	UnitTax   decimal.Decimal `json:"price_tax"`
	UnitGross decimal.Decimal `json:"price_gross"`

	// Line totals, derived from the rounded unit amounts
	TotalNet   decimal.Decimal `json:"total_price_net"`
	TotalTax   decimal.Decimal `json:"total_price_tax"`
	TotalGross decimal.Decimal `json:"total_price_gross"`
}

// Invoice is the canonical record. It is built in one shot by the
// generator or an extractor and is not mutated once encoding begins.
type Invoice struct {
	Number      string      `json:"number"` // "<n>/<month>/<year>"
	IssueDate   string      `json:"issue_date"` // YYYY-MM-DD
	SellDate    string      `json:"sell_date"`
	PaymentDue  string      `json:"payment_to"`
	PaymentType PaymentType `json:"payment_type"`
	Currency    string      `json:"currency"`
	Lang        string      `json:"lang,omitempty"`

	Seller Party `json:"seller"`
	Buyer  Party `json:"buyer"`

	Positions []Position `json:"positions"`

	// Invoice-level aggregates, each the sum of the line-level totals
	PriceNet   decimal.Decimal `json:"price_net"`
	PriceTax   decimal.Decimal `json:"price_tax"`
	PriceGross decimal.Decimal `json:"price_gross"`

	// Source metadata
	SourceFile string `json:"source_file,omitempty"`
}

// DeriveLine builds a Position from unit net price, quantity and tax
// rate. Pure and deterministic. The unit tax is rounded before any
// multiplication by quantity; that ordering is load-bearing.
func DeriveLine(name string, unitNet, quantity decimal.Decimal, taxRate int, unit string) (Position, error) {
	if unitNet.IsNegative() {
		return Position{}, NewInvalidAmountError("price_net", unitNet.String(), "must not be negative")
	}
	if !quantity.IsPositive() {
		return Position{}, NewInvalidAmountError("quantity", quantity.String(), "must be greater than zero")
	}
	if taxRate < 0 || taxRate > 100 {
		return Position{}, NewInvalidAmountError("tax", fmt.Sprintf("%d", taxRate), "must be in [0, 100]")
	}

	unitNet = money.Round(unitNet)
	unitTax := money.Tax(unitNet, taxRate)
	unitGross := money.Round(unitNet.Add(unitTax))

	return Position{
		Name:         name,
		Quantity:     quantity,
		QuantityUnit: unit,
		TaxRate:      taxRate,
		UnitNet:      unitNet,
		UnitTax:      unitTax,
		UnitGross:    unitGross,
		TotalNet:     money.Times(unitNet, quantity),
		TotalTax:     money.Times(unitTax, quantity),
		TotalGross:   money.Times(unitGross, quantity),
	}, nil
}

// CalculateTotals recomputes the invoice-level aggregates from the
// line-level totals
func (inv *Invoice) CalculateTotals() {
	net := make([]decimal.Decimal, 0, len(inv.Positions))
	tax := make([]decimal.Decimal, 0, len(inv.Positions))
	gross := make([]decimal.Decimal, 0, len(inv.Positions))

	for i := range inv.Positions {
		net = append(net, inv.Positions[i].TotalNet)
		tax = append(tax, inv.Positions[i].TotalTax)
		gross = append(gross, inv.Positions[i].TotalGross)
	}

	inv.PriceNet = money.Sum(net)
	inv.PriceTax = money.Sum(tax)
	inv.PriceGross = money.Sum(gross)
}

// FormatNumber renders a sequential invoice number as "<n>/<month>/<year>"
func FormatNumber(sequence int, date time.Time) string {
	return fmt.Sprintf("%d/%d/%d", sequence, int(date.Month()), date.Year())
}

// FileName returns the output file name for the invoice:
// faktura-<number with slashes replaced by dashes>.<ext>
func (inv *Invoice) FileName(ext string) string {
	number := inv.Number
	out := make([]byte, 0, len(number))
	for i := 0; i < len(number); i++ {
		if number[i] == '/' {
			out = append(out, '-')
		} else {
			out = append(out, number[i])
		}
	}
	return fmt.Sprintf("faktura-%s.%s", out, ext)
}

// IsValidTaxID reports whether s looks like a NIP: exactly 10 digits.
// No checksum is enforced.
func IsValidTaxID(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
