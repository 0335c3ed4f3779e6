package processor_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturnia/ksef-processor/internal/ksef"
	"github.com/fakturnia/ksef-processor/internal/model"
	"github.com/fakturnia/ksef-processor/internal/money"
	"github.com/fakturnia/ksef-processor/internal/processor"
)

const completeInvoiceText = `Faktura numer 1/4/2025
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

const incompleteInvoiceText = `Faktura numer 2/4/2025
Data wystawienia: 2025-04-03
NIP 5213017228`

// fakeAI counts calls and returns a canned invoice
type fakeAI struct {
	calls   int
	invoice *model.Invoice
	err     error
}

func (f *fakeAI) ExtractFromText(ctx context.Context, docText string) (*model.Invoice, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.invoice, nil
}

// stubSource returns fixed text instead of reading a PDF
type stubSource struct {
	text string
}

func (s *stubSource) ExtractText(path string) (string, error) {
	if s.text == "" {
		return "", &model.FileNotFoundError{Path: path}
	}
	return s.text, nil
}

func aiInvoice() *model.Invoice {
	return &model.Invoice{
		Number:    "9/4/2025",
		IssueDate: "2025-04-05",
		Currency:  "PLN",
		Seller: model.Party{
			Name: "AI SELLER", TaxID: "1111111111", Street: "ul. Modelowa 1",
		},
		Buyer: model.Party{
			Name: "AI BUYER", TaxID: "2222222222", Street: "ul. Odbiorcy 2",
			PostCode: "00-001", City: "Warszawa",
		},
		PriceNet:   money.MustFromString("500.00"),
		PriceTax:   money.MustFromString("115.00"),
		PriceGross: money.MustFromString("615.00"),
	}
}

func frozenEncoder(variant model.SchemaVariant) *ksef.Encoder {
	clock := clockwork.NewFakeClockAt(time.Date(2025, time.April, 15, 10, 0, 0, 0, time.UTC))
	return ksef.NewEncoder(variant, ksef.WithClock(clock))
}

func TestProcessText_RulesSucceed(t *testing.T) {
	ai := &fakeAI{invoice: aiInvoice()}
	p := processor.NewPipeline(processor.WithLLMExtractor(ai))

	res := p.ProcessText(context.Background(), completeInvoiceText)
	require.NoError(t, res.Error)

	assert.Equal(t, processor.MethodRules, res.Method)
	assert.Equal(t, "1/4/2025", res.Invoice.Number)
	assert.Equal(t, "ACME Sp. z o.o.", res.Invoice.Seller.Name)

	// The AI tier must not run when the rules produce a complete record
	assert.Zero(t, ai.calls)
}

func TestProcessText_FallsBackToAI(t *testing.T) {
	ai := &fakeAI{invoice: aiInvoice()}
	p := processor.NewPipeline(processor.WithLLMExtractor(ai))

	res := p.ProcessText(context.Background(), incompleteInvoiceText)
	require.NoError(t, res.Error)

	assert.Equal(t, processor.MethodLLM, res.Method)
	assert.Equal(t, "9/4/2025", res.Invoice.Number)
	assert.Equal(t, 1, ai.calls)
	assert.NotEmpty(t, res.Warnings)
}

func TestProcessText_NoAIConfigured(t *testing.T) {
	p := processor.NewPipeline()

	res := p.ProcessText(context.Background(), incompleteInvoiceText)
	require.Error(t, res.Error)

	var exErr *model.ExtractionError
	require.ErrorAs(t, res.Error, &exErr)
	assert.Equal(t, "rules", exErr.Method)
}

func TestProcessText_ForceAI(t *testing.T) {
	ai := &fakeAI{invoice: aiInvoice()}
	p := processor.NewPipeline(
		processor.WithLLMExtractor(ai),
		processor.WithForceAI(true),
	)

	// Rules would succeed here, but force-AI skips them
	res := p.ProcessText(context.Background(), completeInvoiceText)
	require.NoError(t, res.Error)
	assert.Equal(t, processor.MethodLLM, res.Method)
	assert.Equal(t, 1, ai.calls)
}

func TestProcessText_AIFailurePropagates(t *testing.T) {
	ai := &fakeAI{err: model.NewExtractionError("llm", "boom", nil)}
	p := processor.NewPipeline(processor.WithLLMExtractor(ai))

	res := p.ProcessText(context.Background(), incompleteInvoiceText)
	require.Error(t, res.Error)
	assert.Equal(t, 1, ai.calls)
}

func TestProcessPDF_MissingFile(t *testing.T) {
	p := processor.NewPipeline(processor.WithTextSource(&stubSource{}))

	res := p.ProcessPDF(context.Background(), "nope.pdf")
	require.Error(t, res.Error)

	var notFound *model.FileNotFoundError
	require.ErrorAs(t, res.Error, &notFound)
}

func TestConvert_EndToEnd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out", "faktura.xml")

	p := processor.NewPipeline(
		processor.WithTextSource(&stubSource{text: completeInvoiceText}),
		processor.WithSchemaDir("../../schemas"),
		processor.WithEncoder(frozenEncoder(model.SchemaFA2)),
	)

	res := p.Convert(context.Background(), "faktura.pdf", out)
	require.NoError(t, res.Error)

	assert.Equal(t, processor.MethodRules, res.Method)
	assert.Contains(t, res.XML, "<Faktura")
	assert.Contains(t, res.XML, "<P_2>1/4/2025</P_2>")
	assert.Equal(t, out, res.Output)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, res.XML, string(data))
}

func TestConvert_NoOutputPath(t *testing.T) {
	p := processor.NewPipeline(
		processor.WithTextSource(&stubSource{text: completeInvoiceText}),
		processor.WithSchemaDir("../../schemas"),
		processor.WithEncoder(frozenEncoder(model.SchemaFA3)),
	)

	res := p.Convert(context.Background(), "faktura.pdf", "")
	require.NoError(t, res.Error)
	assert.Contains(t, res.XML, "<WariantFormularza>3</WariantFormularza>")
	assert.Empty(t, res.Output)
}

func TestConvert_MissingFieldFromAI(t *testing.T) {
	broken := aiInvoice()
	broken.Number = ""

	p := processor.NewPipeline(
		processor.WithTextSource(&stubSource{text: incompleteInvoiceText}),
		processor.WithLLMExtractor(&fakeAI{invoice: broken}),
		processor.WithSchemaDir("../../schemas"),
		processor.WithEncoder(frozenEncoder(model.SchemaFA2)),
	)

	res := p.Convert(context.Background(), "faktura.pdf", "")
	require.Error(t, res.Error)

	var missing *model.MissingFieldError
	require.ErrorAs(t, res.Error, &missing)
	assert.Equal(t, "number", missing.Field)
}

func TestConvert_SchemaNotFound(t *testing.T) {
	p := processor.NewPipeline(
		processor.WithTextSource(&stubSource{text: completeInvoiceText}),
		processor.WithSchemaDir(t.TempDir()),
		processor.WithEncoder(frozenEncoder(model.SchemaFA2)),
	)

	res := p.Convert(context.Background(), "faktura.pdf", "")
	require.Error(t, res.Error)

	var notFound *model.SchemaNotFoundError
	require.ErrorAs(t, res.Error, &notFound)
}
