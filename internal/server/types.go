package server

import (
	"github.com/fakturnia/ksef-processor/internal/model"
)

// ConvertResponse is the response for the convert endpoint
type ConvertResponse struct {
	Invoice  *model.Invoice `json:"invoice"`
	Method   string         `json:"method"`
	XML      string         `json:"xml"`
	Variant  string         `json:"variant"`
	Warnings []string       `json:"warnings,omitempty"`
}

// ValidateResponse is the response for the validate endpoint
type ValidateResponse struct {
	Valid      bool              `json:"valid"`
	Variant    string            `json:"variant"`
	Violations []ViolationOutput `json:"violations,omitempty"`
}

// ViolationOutput is a single schema violation with its source line
type ViolationOutput struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// GenerateRequest is the request body for the generate endpoint
type GenerateRequest struct {
	Count int   `json:"count"`
	Seed  int64 `json:"seed,omitempty"`
}

// GenerateResponse is the response for the generate endpoint
type GenerateResponse struct {
	Count    int              `json:"count"`
	Invoices []*model.Invoice `json:"invoices"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error    string   `json:"error"`
	Warnings []string `json:"warnings,omitempty"`
}
