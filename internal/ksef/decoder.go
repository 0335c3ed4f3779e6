package ksef

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/fakturnia/ksef-processor/internal/model"
	"github.com/fakturnia/ksef-processor/internal/money"
)

// Decoder reads KSeF XML back into the canonical record. The decoder is
// tolerant: it takes what the document provides and leaves the rest
// zero, so callers can inspect partially filled invoices.
type Decoder struct{}

// NewDecoder creates a decoder
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses a KSeF document
func (d *Decoder) Decode(xmlText string) (*model.Invoice, model.SchemaVariant, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlText); err != nil {
		return nil, "", fmt.Errorf("failed to parse XML: %w", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "Faktura" {
		return nil, "", fmt.Errorf("not a KSeF invoice document")
	}

	variant := model.SchemaFA2
	if text(root, "Naglowek", "WariantFormularza") == "3" {
		variant = model.SchemaFA3
	}

	inv := &model.Invoice{
		Seller: decodeParty(child(root, "Podmiot1")),
		Buyer:  decodeParty(child(root, "Podmiot2")),
	}

	// The buyer address line folds street, post code and city together;
	// split it back apart where the layout allows.
	splitBuyerAddress(&inv.Buyer)

	fa := child(root, "Fa")
	if fa != nil {
		inv.Currency = text(fa, "KodWaluty")
		inv.IssueDate = text(fa, "P_1")
		inv.Number = text(fa, "P_2")
		inv.PriceNet = parseAmount(text(fa, "P_13_1"))
		inv.PriceTax = parseAmount(text(fa, "P_14_1"))
		inv.PriceGross = parseAmount(text(fa, "P_15"))
	}

	return inv, variant, nil
}

func decodeParty(el *etree.Element) model.Party {
	if el == nil {
		return model.Party{}
	}
	return model.Party{
		TaxID:   text(el, "DaneIdentyfikacyjne", "NIP"),
		Name:    text(el, "DaneIdentyfikacyjne", "Nazwa"),
		Country: text(el, "Adres", "KodKraju"),
		Street:  text(el, "Adres", "AdresL1"),
	}
}

func splitBuyerAddress(p *model.Party) {
	line := p.Street
	comma := strings.LastIndex(line, ", ")
	if comma < 0 {
		return
	}
	rest := line[comma+2:]
	fields := strings.SplitN(rest, " ", 2)
	if len(fields) != 2 || !strings.Contains(fields[0], "-") {
		return
	}
	p.Street = line[:comma]
	p.PostCode = fields[0]
	p.City = fields[1]
}

func parseAmount(s string) decimal.Decimal {
	if s == "" {
		return money.Zero
	}
	v, err := money.FromString(s)
	if err != nil {
		return money.Zero
	}
	return v
}

// child returns the first child element with the given local tag,
// ignoring namespace prefixes.
func child(el *etree.Element, tag string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, ch := range el.ChildElements() {
		if ch.Tag == tag {
			return ch
		}
	}
	return nil
}

// text walks a chain of child tags and returns the trimmed text of the
// final element, or "" when any link is missing.
func text(el *etree.Element, tags ...string) string {
	cur := el
	for _, tag := range tags {
		cur = child(cur, tag)
		if cur == nil {
			return ""
		}
	}
	return strings.TrimSpace(cur.Text())
}
