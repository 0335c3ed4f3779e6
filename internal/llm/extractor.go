package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fakturnia/ksef-processor/internal/model"
)

// Method identifies this extraction tier in results and logs
const Method = "llm"

// Extractor uses an LLM to extract invoice records from document text
type Extractor struct {
	client    *Client
	textModel string
}

// ExtractorOption configures the extractor
type ExtractorOption func(*Extractor)

// WithModel sets the model to use for text extraction
func WithModel(model string) ExtractorOption {
	return func(e *Extractor) {
		e.textModel = model
	}
}

// NewExtractor creates a new LLM-based extractor
func NewExtractor(client *Client, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		client:    client,
		textModel: ModelClaude35Sonnet,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ExtractFromText extracts an invoice record from document text. Unlike
// the rule tier there is no completeness gate here: the model's record
// is trusted and encoder preconditions catch anything it left empty.
func (e *Extractor) ExtractFromText(ctx context.Context, docText string) (*model.Invoice, error) {
	prompt := fmt.Sprintf(UserPromptTextExtraction, docText)

	response, err := e.client.ChatText(ctx, e.textModel, SystemPromptInvoiceExtractor, prompt)
	if err != nil {
		return nil, model.NewExtractionError(Method, "LLM request failed", err)
	}

	return e.parseResponse(response)
}

func (e *Extractor) parseResponse(response string) (*model.Invoice, error) {
	jsonStr := ExtractJSON(response)

	rec := model.NewRecord()
	if err := json.Unmarshal([]byte(jsonStr), rec); err != nil {
		return nil, model.NewExtractionError(Method, "failed to parse LLM response", err)
	}

	// The model sometimes leaves defaults blank even when instructed
	if rec.Currency == "" {
		rec.Currency = "PLN"
	}
	if rec.SellerCountry == "" {
		rec.SellerCountry = "PL"
	}
	if rec.BuyerCountry == "" {
		rec.BuyerCountry = "PL"
	}

	return rec.Invoice(), nil
}
