// Package kseflib provides a public API for generating Polish invoices
// and converting invoice PDFs to KSeF FA(2)/FA(3) XML.
//
// Example usage:
//
//	conv := kseflib.NewDefaultConverter()
//	result, err := conv.ConvertFile(ctx, "faktura.pdf", "faktura.xml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Method)
package kseflib

import "github.com/fakturnia/ksef-processor/internal/model"

// Re-export core types for public API
type (
	Invoice       = model.Invoice
	Party         = model.Party
	Position      = model.Position
	Record        = model.Record
	SchemaVariant = model.SchemaVariant
	PaymentType   = model.PaymentType
	Violation     = model.Violation
)

// Re-export schema variants
const (
	SchemaFA2 = model.SchemaFA2
	SchemaFA3 = model.SchemaFA3
)

// Re-export payment types
const (
	PaymentTransfer = model.PaymentTransfer
	PaymentCash     = model.PaymentCash
	PaymentCard     = model.PaymentCard
)

// Re-export error types
type (
	ValidationError     = model.ValidationError
	ExtractionError     = model.ExtractionError
	MissingFieldError   = model.MissingFieldError
	InvalidAmountError  = model.InvalidAmountError
	SchemaNotFoundError = model.SchemaNotFoundError
	FileNotFoundError   = model.FileNotFoundError
)
