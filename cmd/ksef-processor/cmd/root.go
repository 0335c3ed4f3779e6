package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fakturnia/ksef-processor/internal/logging"
	"github.com/fakturnia/ksef-processor/internal/model"
	"github.com/fakturnia/ksef-processor/internal/processor"
)

var (
	version = "1.0.0"

	// Global flags
	logLevel   string
	logPretty  bool
	apiKey     string
	llmBaseURL string
	llmModel   string
	schemaDir  string
	variantStr string
)

var rootCmd = &cobra.Command{
	Use:   "ksef-processor",
	Short: "Generate Polish invoices and convert invoice PDFs to KSeF XML",
	Long: `KSeF Processor generates synthetic Polish invoices and converts
invoice PDFs into KSeF FA(2)/FA(3) XML.

The PDF conversion flow:
  1. Text extraction from the PDF
  2. Rule-based field parsing (fast, no API key needed)
  3. AI fallback when the rules leave the record incomplete (requires API key)
  4. KSeF XML encoding and schema validation

Examples:
  # Generate 5 random invoices
  ksef-processor generate -n 5

  # Convert a PDF to KSeF XML
  ksef-processor convert faktura.pdf -o faktura.xml

  # Convert with the AI fallback enabled
  ksef-processor convert faktura.pdf --api-key <openrouter-key>

  # Validate an XML document against the FA(3) schema
  ksef-processor validate faktura.xml --variant FA3`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "log-pretty", false, "Human readable log output")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for the AI fallback (env: OPENROUTER_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&llmBaseURL, "llm-base-url", "", "LLM API base URL (env: LLM_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&llmModel, "llm-model", "", "LLM model for text extraction (env: LLM_MODEL)")
	rootCmd.PersistentFlags().StringVar(&schemaDir, "schema-dir", processor.DefaultSchemaDir, "Directory with the KSeF XSD schemas")
	rootCmd.PersistentFlags().StringVar(&variantStr, "variant", "FA2", "Target KSeF schema variant (FA2 or FA3)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if apiKey == "" {
		apiKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("LLM_API_KEY")
	}
	if llmBaseURL == "" {
		llmBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if llmModel == "" {
		llmModel = os.Getenv("LLM_MODEL")
	}
}

func schemaVariant() (model.SchemaVariant, error) {
	switch variantStr {
	case "FA2", "fa2", "2":
		return model.SchemaFA2, nil
	case "FA3", "fa3", "3":
		return model.SchemaFA3, nil
	default:
		return "", fmt.Errorf("unknown variant %q, expected FA2 or FA3", variantStr)
	}
}

func newLogger() zerolog.Logger {
	return logging.Setup(logLevel, logPretty)
}
