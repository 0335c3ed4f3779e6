// Package ksef encodes canonical invoices into the Polish KSeF XML
// dialect (FA(2) and FA(3)) and validates the output against the
// official XSD resources.
package ksef

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/jonboulle/clockwork"

	"github.com/fakturnia/ksef-processor/internal/model"
)

const (
	// Namespace is the KSeF invoice namespace shared by both variants
	Namespace    = "http://crd.gov.pl/wzor/2023/06/29/12648/"
	namespaceXSI = "http://www.w3.org/2001/XMLSchema-instance"
	namespaceXSD = "http://www.w3.org/2001/XMLSchema"

	schemaLocation = Namespace + " http://crd.gov.pl/wzor/2023/06/29/12648/schemat.xsd"

	timestampLayout = "2006-01-02T15:04:05"
)

// Encoder serializes invoices to KSeF XML. Element order is
// schema-mandated and reproduced exactly; the only non-deterministic
// field is the document creation timestamp, which comes from the
// injected clock.
type Encoder struct {
	variant model.SchemaVariant
	clock   clockwork.Clock
}

// EncoderOption configures the encoder
type EncoderOption func(*Encoder)

// WithClock sets the clock used for DataWytworzeniaFa. Tests freeze it.
func WithClock(c clockwork.Clock) EncoderOption {
	return func(e *Encoder) {
		e.clock = c
	}
}

// NewEncoder creates an encoder for the given schema variant
func NewEncoder(variant model.SchemaVariant, opts ...EncoderOption) *Encoder {
	e := &Encoder{
		variant: variant,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Variant returns the schema variant the encoder targets
func (e *Encoder) Variant() model.SchemaVariant {
	return e.variant
}

// Encode serializes the invoice. Pure given the invoice and the clock.
// Fails with MissingFieldError when a required source field is absent.
func (e *Encoder) Encode(inv *model.Invoice) (string, error) {
	if err := checkRequired(inv); err != nil {
		return "", err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	root := doc.CreateElement("Faktura")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("xmlns:xsi", namespaceXSI)
	root.CreateAttr("xmlns:xsd", namespaceXSD)
	root.CreateAttr("xsi:schemaLocation", schemaLocation)

	e.writeHeader(root)
	writeParty(root, "Podmiot1", inv.Seller, sellerAddressLine(inv.Seller))
	writeParty(root, "Podmiot2", inv.Buyer, buyerAddressLine(inv.Buyer))
	e.writeFa(root, inv)

	doc.Indent(4)
	return doc.WriteToString()
}

func (e *Encoder) writeHeader(root *etree.Element) {
	naglowek := root.CreateElement("Naglowek")

	kod := naglowek.CreateElement("KodFormularza")
	kod.CreateAttr("kodSystemowy", fmt.Sprintf("FA (%s)", e.variant.Number()))
	kod.CreateAttr("wersjaSchemy", "1-0E")
	kod.SetText("FA")

	naglowek.CreateElement("WariantFormularza").SetText(e.variant.Number())
	naglowek.CreateElement("DataWytworzeniaFa").SetText(e.clock.Now().Format(timestampLayout))
}

func writeParty(root *etree.Element, tag string, p model.Party, addressLine string) {
	podmiot := root.CreateElement(tag)

	ident := podmiot.CreateElement("DaneIdentyfikacyjne")
	ident.CreateElement("NIP").SetText(p.TaxID)
	ident.CreateElement("Nazwa").SetText(p.Name)

	adres := podmiot.CreateElement("Adres")
	country := p.Country
	if country == "" {
		country = "PL"
	}
	adres.CreateElement("KodKraju").SetText(country)
	adres.CreateElement("AdresL1").SetText(addressLine)
}

// The schema's address model is asymmetric: the seller line carries the
// street only, the buyer line is "street, post_code city".
func sellerAddressLine(p model.Party) string {
	return p.Street
}

func buyerAddressLine(p model.Party) string {
	return fmt.Sprintf("%s, %s %s", p.Street, p.PostCode, p.City)
}

func (e *Encoder) writeFa(root *etree.Element, inv *model.Invoice) {
	fa := root.CreateElement("Fa")

	fa.CreateElement("KodWaluty").SetText(inv.Currency)
	fa.CreateElement("P_1").SetText(inv.IssueDate)
	fa.CreateElement("P_2").SetText(inv.Number)
	fa.CreateElement("P_13_1").SetText(inv.PriceNet.StringFixed(2))
	fa.CreateElement("P_14_1").SetText(inv.PriceTax.StringFixed(2))
	fa.CreateElement("P_15").SetText(inv.PriceGross.StringFixed(2))

	// Fixed annotation block. These flags are constant placeholders,
	// not derived from invoice content.
	adnotacje := fa.CreateElement("Adnotacje")
	adnotacje.CreateElement("P_16").SetText("2")
	adnotacje.CreateElement("P_17").SetText("2")
	adnotacje.CreateElement("P_18").SetText("2")
	adnotacje.CreateElement("P_18A").SetText("2")
	adnotacje.CreateElement("Zwolnienie").CreateElement("P_19N").SetText("1")
	adnotacje.CreateElement("NoweSrodkiTransportu").CreateElement("P_22N").SetText("1")
	adnotacje.CreateElement("P_23").SetText("2")
	adnotacje.CreateElement("PMarzy").CreateElement("P_PMarzyN").SetText("1")

	fa.CreateElement("RodzajFaktury").SetText("VAT")
}

func checkRequired(inv *model.Invoice) error {
	checks := []struct {
		field string
		empty bool
	}{
		{"seller_tax_no", inv.Seller.TaxID == ""},
		{"seller_name", inv.Seller.Name == ""},
		{"seller_street", inv.Seller.Street == ""},
		{"buyer_tax_no", inv.Buyer.TaxID == ""},
		{"buyer_name", inv.Buyer.Name == ""},
		{"buyer_street", inv.Buyer.Street == ""},
		{"currency", inv.Currency == ""},
		{"issue_date", inv.IssueDate == ""},
		{"number", inv.Number == ""},
		// A tax total of zero is legitimate (0% rate); net and gross
		// are not.
		{"price_net", inv.PriceNet.IsZero()},
		{"price_gross", inv.PriceGross.IsZero()},
	}

	for _, c := range checks {
		if c.empty {
			return model.NewMissingFieldError(c.field)
		}
	}
	return nil
}
