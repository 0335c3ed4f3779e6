package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakturnia/ksef-processor/internal/ksef"
)

var validateCmd = &cobra.Command{
	Use:   "validate <faktura.xml>",
	Short: "Validate a KSeF XML document",
	Long: `Check an XML document against the reduced KSeF schema.

Violations are reported with the source line they occur on. The
command exits non-zero when the document does not conform.

Examples:
  ksef-processor validate faktura.xml
  ksef-processor validate faktura.xml --variant FA3`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	variant, err := schemaVariant()
	if err != nil {
		return err
	}

	violations, err := ksef.NewValidator(schemaDir).ValidateFile(path, variant)
	if err != nil {
		return err
	}

	if len(violations) == 0 {
		fmt.Printf("%s conforms to the FA(%s) schema\n", path, variant.Number())
		return nil
	}

	for _, v := range violations {
		fmt.Printf("%s:%d: %s\n", path, v.Line, v.Message)
	}
	return fmt.Errorf("%d schema violations", len(violations))
}
