package kseflib_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturnia/ksef-processor/internal/money"
	"github.com/fakturnia/ksef-processor/pkg/kseflib"
)

const invoiceText = `Faktura numer 1/4/2025
Data wystawienia: 2025-04-02

Sprzedawca:
ACME Sp. z o.o.
ul. Prosta 51
00-838, Warszawa
NIP 5213017228

Nabywca:
GENERAL MOTORS
ul. Wielka 42
31-147, Krakow
NIP 7861033755

Wartość netto 1000.00 PLN
Wartość VAT 230.00 PLN
Wartość brutto 1230.00 PLN`

func sampleInvoice() *kseflib.Invoice {
	return &kseflib.Invoice{
		Number:    "1/4/2025",
		IssueDate: "2025-04-02",
		Currency:  "PLN",
		Seller: kseflib.Party{
			Name: "ACME Sp. z o.o.", TaxID: "5213017228",
			Street: "ul. Prosta 51", PostCode: "00-838", City: "Warszawa", Country: "PL",
		},
		Buyer: kseflib.Party{
			Name: "GENERAL MOTORS", TaxID: "7861033755",
			Street: "ul. Wielka 42", PostCode: "31-147", City: "Krakow", Country: "PL",
		},
		PriceNet:   money.MustFromString("1000.00"),
		PriceTax:   money.MustFromString("230.00"),
		PriceGross: money.MustFromString("1230.00"),
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := kseflib.DefaultOptions()

	assert.True(t, opts.EnableLLM)
	assert.Equal(t, "https://openrouter.ai/api/v1", opts.LLMBaseURL)
	assert.Equal(t, "anthropic/claude-3.5-sonnet", opts.LLMModel)
	assert.Equal(t, kseflib.SchemaFA2, opts.Variant)
	assert.Equal(t, "schemas", opts.SchemaDir)
}

func TestNewConverter(t *testing.T) {
	require.NotNil(t, kseflib.NewConverter(kseflib.DefaultOptions()))
	require.NotNil(t, kseflib.NewDefaultConverter())
}

func TestConverterExtract(t *testing.T) {
	conv := kseflib.NewDefaultConverter()

	result, err := conv.Extract(context.Background(), invoiceText)
	require.NoError(t, err)

	assert.Equal(t, "rules", result.Method)
	assert.Equal(t, "1/4/2025", result.Invoice.Number)
	assert.Equal(t, "5213017228", result.Invoice.Seller.TaxID)
	assert.True(t, result.Invoice.PriceGross.Equal(money.MustFromString("1230.00")))
}

func TestConverterExtract_Incomplete(t *testing.T) {
	conv := kseflib.NewDefaultConverter() // no API key, so no AI tier

	_, err := conv.Extract(context.Background(), "Faktura numer 1/1/2025")
	require.Error(t, err)

	var exErr *kseflib.ExtractionError
	assert.ErrorAs(t, err, &exErr)
}

func TestEncodeAndValidate(t *testing.T) {
	xmlText, err := kseflib.EncodeInvoice(sampleInvoice(), kseflib.SchemaFA3)
	require.NoError(t, err)
	assert.Contains(t, xmlText, "<WariantFormularza>3</WariantFormularza>")

	violations, err := kseflib.ValidateXML(xmlText, kseflib.SchemaFA3, "../../schemas")
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestGenerate(t *testing.T) {
	// A nonexistent config path falls back to the built-in defaults
	configPath := filepath.Join(t.TempDir(), "missing.yaml")

	invoices, err := kseflib.GenerateSeeded(configPath, 3, 42)
	require.NoError(t, err)
	require.Len(t, invoices, 3)

	for _, inv := range invoices {
		assert.NotEmpty(t, inv.Number)
		assert.NotEmpty(t, inv.Seller.TaxID)
		assert.NotEmpty(t, inv.Positions)
		assert.True(t, inv.PriceGross.GreaterThan(inv.PriceNet))
	}
}

func TestReExportedTypes(t *testing.T) {
	var inv kseflib.Invoice
	inv.Number = "12/4/2025"
	assert.Equal(t, "12/4/2025", inv.Number)

	var party kseflib.Party
	party.TaxID = "5213017228"
	assert.Equal(t, "5213017228", party.TaxID)

	assert.Equal(t, kseflib.SchemaVariant("FA2"), kseflib.SchemaFA2)
	assert.Equal(t, kseflib.SchemaVariant("FA3"), kseflib.SchemaFA3)
	assert.Equal(t, kseflib.PaymentType("transfer"), kseflib.PaymentTransfer)
}
