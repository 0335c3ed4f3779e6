package text

import "regexp"

// The rule tier is an ordered cascade of anchored patterns covering the
// Polish and English layouts seen in the wild. Order matters twice:
// within a pattern group the first match wins (except amounts, where
// the last wins), and across groups later rules only fill fields the
// earlier ones left empty.

var nipPattern = regexp.MustCompile(`(?i)NIP[:\s]*(\d{3}[-\s]?\d{3}[-\s]?\d{2}[-\s]?\d{2}|\d{10})`)

var nipSeparators = regexp.MustCompile(`[-\s]`)

var invoiceNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)INVOICE\s*#\s*(\d+)`),
	regexp.MustCompile(`(?i)Invoice\s+(?:Number|No\.?)[:\s]*(\d+)`),
	regexp.MustCompile(`(?i)Faktura\s+(?:Nr\.?|numer|VAT)?\s*[:\s]*([A-Z0-9/\-]+)`),
	regexp.MustCompile(`(?i)(?:FA|FV)[/\-](\d+[/\-]\d+[/\-]\d+)`),
	regexp.MustCompile(`(?i)Numer\s+faktury[:\s]*([A-Z0-9/\-]+)`),
}

// datePattern pairs a regexp with whether it captures an English
// "day month-name year" triple or a single numeric date.
type datePattern struct {
	re      *regexp.Regexp
	worded  bool
}

var datePatterns = []datePattern{
	{regexp.MustCompile(`(?i)DATE[:\s]*(\d{1,2})\s+([A-Za-z]+)[,\s]+(\d{4})`), true},
	{regexp.MustCompile(`(?i)(?:Invoice\s+)?Date[:\s]*(\d{1,2})\s+([A-Za-z]+)[,\s]+(\d{4})`), true},
	{regexp.MustCompile(`(?i)Data\s+wystawienia[:\s]*(\d{4}-\d{2}-\d{2})`), false},
	{regexp.MustCompile(`(?i)Data\s+wystawienia[:\s]*(\d{2}[-/.]\d{2}[-/.]\d{4})`), false},
	{regexp.MustCompile(`(?i)Data\s+sprzedaży[:\s]*(\d{4}-\d{2}-\d{2})`), false},
	{regexp.MustCompile(`(?i)Data\s+sprzedaży[:\s]*(\d{2}[-/.]\d{2}[-/.]\d{4})`), false},
}

var monthNames = map[string]string{
	"january": "01", "february": "02", "march": "03", "april": "04",
	"may": "05", "june": "06", "july": "07", "august": "08",
	"september": "09", "october": "10", "november": "11", "december": "12",
}

var numericDatePattern = regexp.MustCompile(`\d{2}[-/.]\d{2}[-/.]\d{4}`)
var dateSeparators = regexp.MustCompile(`[-/.]`)

// amountPattern maps a regexp to the record field it fills. Bare Polish
// labels come first; the English patterns carry an explicit currency
// suffix and run last, so on mixed-language documents the suffixed
// amount wins over a loose label match (the bare VAT pattern would
// otherwise capture the "23" out of "VAT 23% ... zł").
type amountPattern struct {
	re    *regexp.Regexp
	field string
}

var amountPatterns = []amountPattern{
	{regexp.MustCompile(`(?i)(?:Wartość\s+)?[Nn]etto[:\s]*([\d,\s]+(?:\.\d{2})?)`), "price_net"},
	{regexp.MustCompile(`(?i)(?:Wartość\s+)?VAT[:\s]*([\d,\s]+(?:\.\d{2})?)`), "price_tax"},
	{regexp.MustCompile(`(?i)(?:Wartość\s+)?[Bb]rutto[:\s]*([\d,\s]+(?:\.\d{2})?)`), "price_gross"},
	{regexp.MustCompile(`(?i)Razem[:\s]*([\d,\s]+(?:\.\d{2})?)`), "price_gross"},
	{regexp.MustCompile(`(?i)Do\s+zapłaty[:\s]*([\d,\s]+(?:\.\d{2})?)`), "price_gross"},
	{regexp.MustCompile(`(?i)SUBTOTAL[:\s]*([\d,\s]+(?:\.\d{2})?)\s*zł`), "price_net"},
	{regexp.MustCompile(`(?i)VAT\s+\d+%[:\s]*(?:EUR\s+)?([\d,\s]+(?:\.\d{2})?)\s*zł`), "price_tax"},
	{regexp.MustCompile(`(?i)TOTAL[:\s]*([\d,\s]+(?:\.\d{2})?)\s*zł`), "price_gross"},
}

var (
	sellerSectionPattern = regexp.MustCompile(`(?i)Sprzedawca[:\s]*\n([^\n]+)`)
	sellerEnglishPattern = regexp.MustCompile(`(?i)INVOICE\s*\n([^\n]+)\s*\n([^\n]+street[^\n]*)`)
	buyerSectionPattern  = regexp.MustCompile(`(?i)Nabywca[:\s]*\n([^\n]+)`)
	buyerEnglishPattern  = regexp.MustCompile(`(?i)Bill\s+To[:\s]*([^\n]+)`)
)

var (
	streetPattern          = regexp.MustCompile(`(?i)(?:ul\.|al\.|pl\.)\s+([^\n,]+)`)
	sellerStreetEngPattern = regexp.MustCompile(`(?i)([A-ZĄĆĘŁŃÓŚŹŻa-ząćęłńóśźż]+\s+street[^,\n]+)`)
	buyerStreetEngPattern  = regexp.MustCompile(`(?i)Bill\s+To[^\n]*\n[^\n]+\n([^\n]+)`)
)

// The city capture stays on one line: crossing the newline would
// swallow whatever label starts the next line.
var postalPattern = regexp.MustCompile(`(\d{2}-\d{3})[,\s]+([A-ZĄĆĘŁŃÓŚŹŻa-ząćęłńóśźż ]+)`)
