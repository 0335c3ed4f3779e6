package ksef_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturnia/ksef-processor/internal/ksef"
	"github.com/fakturnia/ksef-processor/internal/model"
	"github.com/fakturnia/ksef-processor/internal/money"
)

func frozenClock() clockwork.Clock {
	return clockwork.NewFakeClockAt(time.Date(2025, time.April, 15, 10, 30, 0, 0, time.UTC))
}

func sampleInvoice() *model.Invoice {
	return &model.Invoice{
		Number:    "1/4/2025",
		IssueDate: "2025-04-02",
		Currency:  "PLN",
		Seller: model.Party{
			Name:     "ACME Sp. z o.o.",
			TaxID:    "5213017228",
			Street:   "ul. Prosta 51",
			PostCode: "00-838",
			City:     "Warszawa",
		},
		Buyer: model.Party{
			Name:     "GENERAL MOTORS",
			TaxID:    "7861033755",
			Street:   "ul. Wielka 42",
			PostCode: "31-147",
			City:     "Krakow",
		},
		PriceNet:   money.MustFromString("1000.00"),
		PriceTax:   money.MustFromString("230.00"),
		PriceGross: money.MustFromString("1230.00"),
	}
}

func TestEncode_FA2(t *testing.T) {
	enc := ksef.NewEncoder(model.SchemaFA2, ksef.WithClock(frozenClock()))

	xml, err := enc.Encode(sampleInvoice())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(xml, `<?xml version="1.0" encoding="utf-8"?>`))
	assert.Contains(t, xml, `<Faktura xmlns="http://crd.gov.pl/wzor/2023/06/29/12648/"`)
	assert.Contains(t, xml, `kodSystemowy="FA (2)"`)
	assert.Contains(t, xml, `wersjaSchemy="1-0E"`)
	assert.Contains(t, xml, `<WariantFormularza>2</WariantFormularza>`)
	assert.Contains(t, xml, `<DataWytworzeniaFa>2025-04-15T10:30:00</DataWytworzeniaFa>`)
	assert.Contains(t, xml, `<P_1>2025-04-02</P_1>`)
	assert.Contains(t, xml, `<P_2>1/4/2025</P_2>`)
	assert.Contains(t, xml, `<P_13_1>1000.00</P_13_1>`)
	assert.Contains(t, xml, `<P_14_1>230.00</P_14_1>`)
	assert.Contains(t, xml, `<P_15>1230.00</P_15>`)
	assert.Contains(t, xml, `<RodzajFaktury>VAT</RodzajFaktury>`)
}

func TestEncode_FA3Variant(t *testing.T) {
	enc := ksef.NewEncoder(model.SchemaFA3, ksef.WithClock(frozenClock()))

	xml, err := enc.Encode(sampleInvoice())
	require.NoError(t, err)

	assert.Contains(t, xml, `kodSystemowy="FA (3)"`)
	assert.Contains(t, xml, `<WariantFormularza>3</WariantFormularza>`)
}

func TestEncode_AddressLines(t *testing.T) {
	enc := ksef.NewEncoder(model.SchemaFA2, ksef.WithClock(frozenClock()))

	xml, err := enc.Encode(sampleInvoice())
	require.NoError(t, err)

	// Seller carries the street alone, buyer folds the full address
	assert.Contains(t, xml, `<AdresL1>ul. Prosta 51</AdresL1>`)
	assert.Contains(t, xml, `<AdresL1>ul. Wielka 42, 31-147 Krakow</AdresL1>`)
}

func TestEncode_Deterministic(t *testing.T) {
	enc := ksef.NewEncoder(model.SchemaFA2, ksef.WithClock(frozenClock()))
	inv := sampleInvoice()

	first, err := enc.Encode(inv)
	require.NoError(t, err)
	second, err := enc.Encode(inv)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEncode_AnnotationConstants(t *testing.T) {
	enc := ksef.NewEncoder(model.SchemaFA2, ksef.WithClock(frozenClock()))

	xml, err := enc.Encode(sampleInvoice())
	require.NoError(t, err)

	assert.Contains(t, xml, `<P_16>2</P_16>`)
	assert.Contains(t, xml, `<P_19N>1</P_19N>`)
	assert.Contains(t, xml, `<P_22N>1</P_22N>`)
	assert.Contains(t, xml, `<P_23>2</P_23>`)
	assert.Contains(t, xml, `<P_PMarzyN>1</P_PMarzyN>`)
}

func TestEncode_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Invoice)
		field  string
	}{
		{"no seller tax id", func(i *model.Invoice) { i.Seller.TaxID = "" }, "seller_tax_no"},
		{"no seller name", func(i *model.Invoice) { i.Seller.Name = "" }, "seller_name"},
		{"no buyer street", func(i *model.Invoice) { i.Buyer.Street = "" }, "buyer_street"},
		{"no currency", func(i *model.Invoice) { i.Currency = "" }, "currency"},
		{"no issue date", func(i *model.Invoice) { i.IssueDate = "" }, "issue_date"},
		{"no number", func(i *model.Invoice) { i.Number = "" }, "number"},
		{"zero gross", func(i *model.Invoice) { i.PriceGross = money.Zero }, "price_gross"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := sampleInvoice()
			tt.mutate(inv)

			enc := ksef.NewEncoder(model.SchemaFA2, ksef.WithClock(frozenClock()))
			_, err := enc.Encode(inv)
			require.Error(t, err)

			var missing *model.MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.field, missing.Field)
		})
	}
}

func TestEncode_ZeroTaxAllowed(t *testing.T) {
	inv := sampleInvoice()
	inv.PriceTax = money.Zero
	inv.PriceGross = inv.PriceNet

	enc := ksef.NewEncoder(model.SchemaFA2, ksef.WithClock(frozenClock()))
	xml, err := enc.Encode(inv)
	require.NoError(t, err)
	assert.Contains(t, xml, `<P_14_1>0.00</P_14_1>`)
}

func TestDecode_RoundTrip(t *testing.T) {
	enc := ksef.NewEncoder(model.SchemaFA3, ksef.WithClock(frozenClock()))
	original := sampleInvoice()

	xml, err := enc.Encode(original)
	require.NoError(t, err)

	decoded, variant, err := ksef.NewDecoder().Decode(xml)
	require.NoError(t, err)

	assert.Equal(t, model.SchemaFA3, variant)
	assert.Equal(t, original.Number, decoded.Number)
	assert.Equal(t, original.IssueDate, decoded.IssueDate)
	assert.Equal(t, original.Currency, decoded.Currency)
	assert.Equal(t, original.Seller.Name, decoded.Seller.Name)
	assert.Equal(t, original.Seller.TaxID, decoded.Seller.TaxID)
	assert.Equal(t, original.Buyer.Name, decoded.Buyer.Name)
	assert.Equal(t, original.Buyer.TaxID, decoded.Buyer.TaxID)
	assert.Equal(t, original.Buyer.Street, decoded.Buyer.Street)
	assert.Equal(t, original.Buyer.PostCode, decoded.Buyer.PostCode)
	assert.Equal(t, original.Buyer.City, decoded.Buyer.City)
	assert.True(t, original.PriceNet.Equal(decoded.PriceNet))
	assert.True(t, original.PriceTax.Equal(decoded.PriceTax))
	assert.True(t, original.PriceGross.Equal(decoded.PriceGross))
}

func TestDecode_NotAnInvoice(t *testing.T) {
	_, _, err := ksef.NewDecoder().Decode(`<?xml version="1.0"?><Other/>`)
	require.Error(t, err)
}
