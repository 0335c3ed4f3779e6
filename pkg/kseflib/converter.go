package kseflib

import (
	"context"

	"github.com/fakturnia/ksef-processor/internal/ksef"
	"github.com/fakturnia/ksef-processor/internal/llm"
	"github.com/fakturnia/ksef-processor/internal/processor"
)

// Options configures the converter
type Options struct {
	// LLM configuration; the AI tier stays disabled without an API key
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
	EnableLLM  bool

	// ForceAI skips the rule cascade entirely
	ForceAI bool

	// Target schema
	Variant   SchemaVariant
	SchemaDir string
}

// DefaultOptions returns the default converter options
func DefaultOptions() Options {
	return Options{
		EnableLLM:  true,
		LLMBaseURL: llm.DefaultBaseURL,
		LLMModel:   llm.ModelClaude35Sonnet,
		Variant:    SchemaFA2,
		SchemaDir:  processor.DefaultSchemaDir,
	}
}

// ConversionResult is the outcome of a conversion
type ConversionResult struct {
	Invoice  *Invoice
	Method   string
	XML      string
	Output   string
	Warnings []string
}

// Converter turns invoice PDFs into validated KSeF XML
type Converter struct {
	pipeline *processor.Pipeline
	options  Options
}

// NewConverter creates a converter with the given options
func NewConverter(opts Options) *Converter {
	var llmExtractor *llm.Extractor
	if opts.EnableLLM && opts.LLMAPIKey != "" {
		var clientOpts []llm.ClientOption
		if opts.LLMBaseURL != "" {
			clientOpts = append(clientOpts, llm.WithBaseURL(opts.LLMBaseURL))
		}
		client := llm.NewClient(opts.LLMAPIKey, clientOpts...)

		var extractorOpts []llm.ExtractorOption
		if opts.LLMModel != "" {
			extractorOpts = append(extractorOpts, llm.WithModel(opts.LLMModel))
		}
		llmExtractor = llm.NewExtractor(client, extractorOpts...)
	}

	pipelineOpts := []processor.PipelineOption{
		processor.WithVariant(opts.Variant),
		processor.WithSchemaDir(opts.SchemaDir),
		processor.WithForceAI(opts.ForceAI),
	}
	if llmExtractor != nil {
		pipelineOpts = append(pipelineOpts, processor.WithLLMExtractor(llmExtractor))
	}

	return &Converter{
		pipeline: processor.NewPipeline(pipelineOpts...),
		options:  opts,
	}
}

// NewDefaultConverter creates a converter with default options
func NewDefaultConverter() *Converter {
	return NewConverter(DefaultOptions())
}

// ConvertFile converts a PDF file to validated KSeF XML. When outputPath
// is non-empty the XML is also written to disk.
func (c *Converter) ConvertFile(ctx context.Context, pdfPath, outputPath string) (*ConversionResult, error) {
	res := c.pipeline.Convert(ctx, pdfPath, outputPath)
	if res.Error != nil {
		return nil, res.Error
	}

	return &ConversionResult{
		Invoice:  res.Invoice,
		Method:   string(res.Method),
		XML:      res.XML,
		Output:   res.Output,
		Warnings: res.Warnings,
	}, nil
}

// Extract runs only the extraction tiers on already extracted document
// text, without encoding or validation
func (c *Converter) Extract(ctx context.Context, docText string) (*ConversionResult, error) {
	res := c.pipeline.ProcessText(ctx, docText)
	if res.Error != nil {
		return nil, res.Error
	}

	return &ConversionResult{
		Invoice:  res.Invoice,
		Method:   string(res.Method),
		Warnings: res.Warnings,
	}, nil
}

// EncodeInvoice encodes a canonical invoice as KSeF XML in the given
// variant without validating it
func EncodeInvoice(inv *Invoice, variant SchemaVariant) (string, error) {
	return ksef.NewEncoder(variant).Encode(inv)
}

// ValidateXML checks an XML document against the reduced KSeF schema
// from schemaDir. An empty slice means the document conforms.
func ValidateXML(xmlText string, variant SchemaVariant, schemaDir string) ([]Violation, error) {
	if schemaDir == "" {
		schemaDir = processor.DefaultSchemaDir
	}
	return ksef.NewValidator(schemaDir).Validate(xmlText, variant)
}
