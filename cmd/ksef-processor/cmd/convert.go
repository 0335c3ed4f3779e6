package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakturnia/ksef-processor/internal/llm"
	"github.com/fakturnia/ksef-processor/internal/logging"
	"github.com/fakturnia/ksef-processor/internal/processor"
)

var (
	convertOutput  string
	convertForceAI bool
	convertTimeout time.Duration
	convertJSON    bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <faktura.pdf>",
	Short: "Convert an invoice PDF to KSeF XML",
	Long: `Convert a Polish invoice PDF into validated KSeF XML.

Rule-based parsing runs first. When it cannot produce a complete
record and an API key is configured, the AI fallback extracts the
fields instead. The XML is validated against the reduced KSeF schema
before anything is written.

Examples:
  ksef-processor convert faktura.pdf
  ksef-processor convert faktura.pdf -o out/faktura.xml
  ksef-processor convert faktura.pdf --api-key <key> --force-ai
  ksef-processor convert faktura.pdf --variant FA3`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output XML path (default: input with .xml extension)")
	convertCmd.Flags().BoolVar(&convertForceAI, "force-ai", false, "Skip rule-based parsing and go straight to AI")
	convertCmd.Flags().DurationVar(&convertTimeout, "timeout", 2*time.Minute, "Conversion timeout")
	convertCmd.Flags().BoolVar(&convertJSON, "json", false, "Print the extracted record as JSON")
}

func runConvert(cmd *cobra.Command, args []string) error {
	pdfPath := args[0]

	variant, err := schemaVariant()
	if err != nil {
		return err
	}

	if convertForceAI && apiKey == "" {
		return fmt.Errorf("--force-ai requires an API key")
	}

	outputPath := convertOutput
	if outputPath == "" {
		outputPath = strings.TrimSuffix(pdfPath, ".pdf") + ".xml"
	}

	log := newLogger()
	ctx, _ := logging.WithCorrelationID(cmd.Context(), log)

	ctx, cancel := context.WithTimeout(ctx, convertTimeout)
	defer cancel()

	pipelineOpts := []processor.PipelineOption{
		processor.WithVariant(variant),
		processor.WithSchemaDir(schemaDir),
		processor.WithForceAI(convertForceAI),
	}
	if apiKey != "" {
		var clientOpts []llm.ClientOption
		if llmBaseURL != "" {
			clientOpts = append(clientOpts, llm.WithBaseURL(llmBaseURL))
		}
		client := llm.NewClient(apiKey, clientOpts...)

		var extractorOpts []llm.ExtractorOption
		if llmModel != "" {
			extractorOpts = append(extractorOpts, llm.WithModel(llmModel))
		}
		pipelineOpts = append(pipelineOpts, processor.WithLLMExtractor(llm.NewExtractor(client, extractorOpts...)))
	}

	res := processor.NewPipeline(pipelineOpts...).Convert(ctx, pdfPath, outputPath)
	if res.Error != nil {
		return res.Error
	}

	for _, warning := range res.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}

	if convertJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(res); err != nil {
			return err
		}
	}

	fmt.Printf("Converted %s (%s) -> %s\n", pdfPath, res.Method, res.Output)
	return nil
}
