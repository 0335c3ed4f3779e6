package ksef

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fakturnia/ksef-processor/internal/model"
)

// Save encodes the invoice and writes it to path. When validator is
// non-nil the output is validated first and nothing is written on
// failure; a ValidationError carries the violation list.
func Save(inv *model.Invoice, path string, enc *Encoder, validator *Validator) error {
	xmlText, err := enc.Encode(inv)
	if err != nil {
		return err
	}

	if validator != nil {
		violations, err := validator.Validate(xmlText, enc.Variant())
		if err != nil {
			return err
		}
		if len(violations) > 0 {
			return &model.ValidationError{Variant: enc.Variant(), Violations: violations}
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(xmlText), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
