// Package text extracts invoice records from raw document text with an
// ordered rule cascade. It is the fast tier of the extraction pipeline;
// the AI tier only runs when this one reports an incomplete record.
package text

import (
	"fmt"
	"strings"

	"github.com/fakturnia/ksef-processor/internal/model"
)

// Method identifies this extraction tier in results and logs
const Method = "rules"

// Extractor runs the rule cascade
type Extractor struct{}

// NewExtractor creates a rule-based extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract applies the cascade to the text and returns the record it
// assembled together with whether the record is complete. A partial
// record is returned either way so callers can log what was found.
func (e *Extractor) Extract(docText string) (*model.Record, bool) {
	rec := model.NewRecord()

	extractTaxIDs(docText, rec)
	extractNumber(docText, rec)
	extractDate(docText, rec)
	extractAmounts(docText, rec)
	extractNames(docText, rec)
	extractStreets(docText, rec)
	extractPostal(docText, rec)

	return rec, len(rec.MissingFields()) == 0
}

// ExtractInvoice is Extract plus the completeness gate: an incomplete
// record is discarded whole and reported as an ExtractionError.
func (e *Extractor) ExtractInvoice(docText string) (*model.Invoice, error) {
	rec, ok := e.Extract(docText)
	if !ok {
		return nil, model.NewExtractionError(Method,
			fmt.Sprintf("incomplete record, missing: %s", strings.Join(rec.MissingFields(), ", ")), nil)
	}
	return rec.Invoice(), nil
}

// extractTaxIDs takes the first NIP as the seller's and the second as
// the buyer's, stripping separator characters.
func extractTaxIDs(docText string, rec *model.Record) {
	matches := nipPattern.FindAllStringSubmatch(docText, -1)
	if len(matches) >= 2 {
		rec.SellerTaxNo = nipSeparators.ReplaceAllString(matches[0][1], "")
		rec.BuyerTaxNo = nipSeparators.ReplaceAllString(matches[1][1], "")
	} else if len(matches) == 1 {
		rec.SellerTaxNo = nipSeparators.ReplaceAllString(matches[0][1], "")
	}
}

func extractNumber(docText string, rec *model.Record) {
	for _, re := range invoiceNumberPatterns {
		if m := re.FindStringSubmatch(docText); m != nil {
			rec.Number = m[1]
			return
		}
	}
}

func extractDate(docText string, rec *model.Record) {
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(docText)
		if m == nil {
			continue
		}
		if p.worded {
			rec.IssueDate = wordedDate(m[1], m[2], m[3])
		} else {
			rec.IssueDate = normalizeDate(m[1])
		}
		return
	}
}

// wordedDate converts "02 April 2025" style captures to ISO
func wordedDate(day, monthName, year string) string {
	month, ok := monthNames[strings.ToLower(monthName)]
	if !ok {
		month = "01"
	}
	if len(day) == 1 {
		day = "0" + day
	}
	return fmt.Sprintf("%s-%s-%s", year, month, day)
}

// normalizeDate flips DD.MM.YYYY (or -/ separated) to YYYY-MM-DD and
// passes ISO dates through untouched.
func normalizeDate(s string) string {
	if !numericDatePattern.MatchString(s) {
		return s
	}
	parts := dateSeparators.Split(s, -1)
	if len(parts) != 3 {
		return s
	}
	return fmt.Sprintf("%s-%s-%s", parts[2], parts[1], parts[0])
}

// extractAmounts fills the three totals. Each pattern keeps its last
// match: summary rows repeat per-line figures and the final occurrence
// is the document total.
func extractAmounts(docText string, rec *model.Record) {
	for _, p := range amountPatterns {
		matches := p.re.FindAllStringSubmatch(docText, -1)
		if len(matches) == 0 {
			continue
		}
		amount := normalizeAmount(matches[len(matches)-1][1])
		switch p.field {
		case "price_net":
			rec.PriceNet = amount
		case "price_tax":
			rec.PriceTax = amount
		case "price_gross":
			rec.PriceGross = amount
		}
	}
}

// normalizeAmount strips grouping characters and settles the decimal
// point: "22,344.00" becomes "22344.00", "22.344" is treated as a
// thousands-grouped integer and becomes "22344.00".
func normalizeAmount(s string) string {
	amount := strings.NewReplacer(" ", "", ",", "", "\n", "").Replace(s)
	if i := strings.Index(amount, "."); i >= 0 {
		if len(amount)-i-1 == 2 && strings.Count(amount, ".") == 1 {
			return amount
		}
		return strings.ReplaceAll(amount, ".", "") + ".00"
	}
	return amount + ".00"
}

func extractNames(docText string, rec *model.Record) {
	if m := sellerSectionPattern.FindStringSubmatch(docText); m != nil {
		rec.SellerName = strings.TrimSpace(m[1])
	}
	if rec.SellerName == "" {
		if m := sellerEnglishPattern.FindStringSubmatch(docText); m != nil {
			rec.SellerName = strings.TrimSpace(m[1])
			rec.SellerStreet = strings.TrimSpace(m[2])
		}
	}

	if m := buyerSectionPattern.FindStringSubmatch(docText); m != nil {
		rec.BuyerName = strings.TrimSpace(m[1])
	}
	if rec.BuyerName == "" {
		if m := buyerEnglishPattern.FindStringSubmatch(docText); m != nil {
			rec.BuyerName = strings.TrimSpace(m[1])
		}
	}
}

// extractStreets assigns the first Polish street line to the seller and
// the second to the buyer, then falls back to English layouts.
func extractStreets(docText string, rec *model.Record) {
	matches := streetPattern.FindAllStringSubmatch(docText, -1)
	if len(matches) >= 2 {
		rec.SellerStreet = strings.TrimSpace(matches[0][1])
		rec.BuyerStreet = strings.TrimSpace(matches[1][1])
	} else if len(matches) == 1 && rec.SellerStreet == "" {
		rec.SellerStreet = strings.TrimSpace(matches[0][1])
	}

	if rec.SellerStreet == "" {
		if m := sellerStreetEngPattern.FindStringSubmatch(docText); m != nil {
			rec.SellerStreet = strings.TrimSpace(m[1])
		}
	}
	if rec.BuyerStreet == "" {
		if m := buyerStreetEngPattern.FindStringSubmatch(docText); m != nil {
			rec.BuyerStreet = strings.TrimSpace(m[1])
		}
	}
}

// extractPostal takes the second postal-code match as the buyer's when
// two are present (the first belongs to the seller's address block).
func extractPostal(docText string, rec *model.Record) {
	matches := postalPattern.FindAllStringSubmatch(docText, -1)
	if len(matches) >= 2 {
		rec.BuyerPostCode = matches[1][1]
		rec.BuyerCity = strings.TrimRight(strings.TrimSpace(matches[1][2]), ",")
	} else if len(matches) == 1 {
		if strings.Contains(docText, "Bill To") || rec.BuyerPostCode == "" {
			rec.BuyerPostCode = matches[0][1]
			rec.BuyerCity = strings.TrimRight(strings.TrimSpace(matches[0][2]), ",")
		}
	}
}
