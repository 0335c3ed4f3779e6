package model

import (
	"fmt"
	"strings"
)

// InvalidAmountError reports bad generation input. It never leaves the
// generation layer.
type InvalidAmountError struct {
	Field   string
	Value   string
	Message string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount for %s: %s (value=%s)", e.Field, e.Message, e.Value)
}

// NewInvalidAmountError creates a new invalid amount error
func NewInvalidAmountError(field, value, message string) *InvalidAmountError {
	return &InvalidAmountError{Field: field, Value: value, Message: message}
}

// MissingFieldError reports an encoder precondition violation: a
// required source field is absent. Fatal for the encode.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// NewMissingFieldError creates a new missing field error
func NewMissingFieldError(field string) *MissingFieldError {
	return &MissingFieldError{Field: field}
}

// SchemaNotFoundError reports a missing XSD resource
type SchemaNotFoundError struct {
	Variant SchemaVariant
	Path    string
}

func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("XSD schema for %s not found: %s", e.Variant, e.Path)
}

// Violation is a single schema validation failure with its originating
// line in the XML document
type Violation struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("Line %d: %s", v.Line, v.Message)
}

// ValidationError carries every schema violation found in a document
type ValidationError struct {
	Variant    SchemaVariant
	Violations []Violation
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lines = append(lines, v.String())
	}
	return fmt.Sprintf("XML does not conform to %s schema:\n%s", e.Variant, strings.Join(lines, "\n"))
}

// ExtractionError reports that an extraction tier (or the whole
// cascade) failed
type ExtractionError struct {
	Method  string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed [%s]: %s (%v)", e.Method, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed [%s]: %s", e.Method, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// NewExtractionError creates a new extraction error
func NewExtractionError(method, message string, cause error) *ExtractionError {
	return &ExtractionError{Method: method, Message: message, Cause: cause}
}

// FileNotFoundError reports a missing input document
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}
