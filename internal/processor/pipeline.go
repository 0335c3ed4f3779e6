// Package processor orchestrates the PDF to KSeF XML conversion: text
// extraction, the two-tier record extraction, encoding and schema
// validation.
package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/fakturnia/ksef-processor/internal/ksef"
	"github.com/fakturnia/ksef-processor/internal/llm"
	"github.com/fakturnia/ksef-processor/internal/model"
	"github.com/fakturnia/ksef-processor/internal/parser/pdf"
	"github.com/fakturnia/ksef-processor/internal/parser/text"
)

// DefaultSchemaDir is where the XSD resources live relative to the
// working directory
const DefaultSchemaDir = "schemas"

// Method indicates which tier produced the record
type Method string

const (
	MethodRules Method = "rules"
	MethodLLM   Method = "llm"
)

// Result carries the outcome of a conversion with its metadata
type Result struct {
	Invoice  *model.Invoice `json:"invoice,omitempty"`
	Method   Method         `json:"method,omitempty"`
	XML      string         `json:"-"`
	Output   string         `json:"output,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Error    error          `json:"-"`
}

// TextSource extracts raw text from a document file
type TextSource interface {
	ExtractText(path string) (string, error)
}

// RecordExtractor is the AI tier interface; satisfied by llm.Extractor
type RecordExtractor interface {
	ExtractFromText(ctx context.Context, docText string) (*model.Invoice, error)
}

// Pipeline orchestrates the hybrid extraction and conversion process
type Pipeline struct {
	textSource    TextSource
	ruleExtractor *text.Extractor
	llmExtractor  RecordExtractor

	encoder   *ksef.Encoder
	validator *ksef.Validator

	variant   model.SchemaVariant
	schemaDir string
	forceAI   bool
}

// PipelineOption configures the pipeline
type PipelineOption func(*Pipeline)

// WithLLMExtractor sets the AI tier used when the rule cascade fails
func WithLLMExtractor(extractor RecordExtractor) PipelineOption {
	return func(p *Pipeline) {
		p.llmExtractor = extractor
	}
}

// WithTextSource overrides the PDF text extractor
func WithTextSource(src TextSource) PipelineOption {
	return func(p *Pipeline) {
		p.textSource = src
	}
}

// WithVariant selects the target schema variant
func WithVariant(variant model.SchemaVariant) PipelineOption {
	return func(p *Pipeline) {
		p.variant = variant
	}
}

// WithSchemaDir points the validator at a custom XSD directory
func WithSchemaDir(dir string) PipelineOption {
	return func(p *Pipeline) {
		p.schemaDir = dir
	}
}

// WithForceAI skips the rule tier entirely
func WithForceAI(force bool) PipelineOption {
	return func(p *Pipeline) {
		p.forceAI = force
	}
}

// WithEncoder overrides the encoder, mainly to freeze its clock
func WithEncoder(enc *ksef.Encoder) PipelineOption {
	return func(p *Pipeline) {
		p.encoder = enc
	}
}

// NewPipeline creates a conversion pipeline
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		textSource:    pdf.NewExtractor(),
		ruleExtractor: text.NewExtractor(),
		variant:       model.SchemaFA2,
		schemaDir:     DefaultSchemaDir,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.encoder == nil {
		p.encoder = ksef.NewEncoder(p.variant)
	}
	if p.validator == nil {
		p.validator = ksef.NewValidator(p.schemaDir)
	}

	return p
}

// ProcessText extracts an invoice record from document text. The rule
// tier runs first; the AI tier only runs when the rules leave the
// record incomplete (or when forced), and tiers never blend: a failed
// rule pass contributes nothing to the AI result.
func (p *Pipeline) ProcessText(ctx context.Context, docText string) *Result {
	log := zerolog.Ctx(ctx)

	var warnings []string

	if !p.forceAI {
		rec, ok := p.ruleExtractor.Extract(docText)
		if ok {
			log.Info().Str("method", string(MethodRules)).Msg("rule-based parsing successful")
			return &Result{Invoice: rec.Invoice(), Method: MethodRules}
		}

		missing := rec.MissingFields()
		log.Warn().
			Strs("missing_fields", missing).
			Msg("rule-based parsing incomplete, falling back to AI")
		warnings = append(warnings, fmt.Sprintf("rule-based parsing incomplete, missing: %v", missing))
	}

	if p.llmExtractor == nil {
		return &Result{
			Warnings: warnings,
			Error: model.NewExtractionError(string(MethodRules),
				"rule-based parsing failed and AI extractor is not configured", nil),
		}
	}

	log.Info().Str("method", string(MethodLLM)).Msg("using AI extraction")
	inv, err := p.llmExtractor.ExtractFromText(ctx, docText)
	if err != nil {
		return &Result{Warnings: warnings, Error: err}
	}

	return &Result{Invoice: inv, Method: MethodLLM, Warnings: warnings}
}

// ProcessPDF extracts text from the file and runs ProcessText
func (p *Pipeline) ProcessPDF(ctx context.Context, path string) *Result {
	docText, err := p.textSource.ExtractText(path)
	if err != nil {
		return &Result{Error: err}
	}
	if docText == "" {
		return &Result{Error: model.NewExtractionError(string(MethodRules),
			fmt.Sprintf("no text extracted from %s", path), nil)}
	}
	return p.ProcessText(ctx, docText)
}

// Convert runs the full path: PDF text, record extraction, KSeF
// encoding, schema validation, and (when outputPath is non-empty) the
// file write. Nothing is written unless the document validates.
func (p *Pipeline) Convert(ctx context.Context, pdfPath, outputPath string) *Result {
	log := zerolog.Ctx(ctx)
	log.Info().
		Str("pdf_path", pdfPath).
		Str("output_path", outputPath).
		Bool("force_ai", p.forceAI).
		Msg("starting PDF to KSeF XML conversion")

	res := p.ProcessPDF(ctx, pdfPath)
	if res.Error != nil {
		return res
	}

	xmlText, err := p.encoder.Encode(res.Invoice)
	if err != nil {
		res.Error = err
		return res
	}

	violations, err := p.validator.Validate(xmlText, p.encoder.Variant())
	if err != nil {
		res.Error = err
		return res
	}
	if len(violations) > 0 {
		res.Error = &model.ValidationError{Variant: p.encoder.Variant(), Violations: violations}
		return res
	}

	res.XML = xmlText

	if outputPath != "" {
		if dir := filepath.Dir(outputPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				res.Error = fmt.Errorf("failed to create output dir: %w", err)
				return res
			}
		}
		if err := os.WriteFile(outputPath, []byte(xmlText), 0o644); err != nil {
			res.Error = fmt.Errorf("failed to write %s: %w", outputPath, err)
			return res
		}
		res.Output = outputPath
	}

	log.Info().
		Str("method", string(res.Method)).
		Str("invoice_number", res.Invoice.Number).
		Msg("conversion completed")

	return res
}

// ensure llm.Extractor keeps satisfying the AI tier interface
var _ RecordExtractor = (*llm.Extractor)(nil)
