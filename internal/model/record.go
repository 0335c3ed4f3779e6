package model

import "github.com/fakturnia/ksef-processor/internal/money"

// Record is the flat interchange form both extraction tiers produce:
// every value a string, monetary fields formatted with two decimals.
// It mirrors the JSON contract of the AI tier.
type Record struct {
	SellerName    string `json:"seller_name"`
	SellerTaxNo   string `json:"seller_tax_no"`
	SellerStreet  string `json:"seller_street"`
	SellerCountry string `json:"seller_country"`
	BuyerName     string `json:"buyer_name"`
	BuyerTaxNo    string `json:"buyer_tax_no"`
	BuyerStreet   string `json:"buyer_street"`
	BuyerPostCode string `json:"buyer_post_code"`
	BuyerCity     string `json:"buyer_city"`
	BuyerCountry  string `json:"buyer_country"`
	Currency      string `json:"currency"`
	IssueDate     string `json:"issue_date"`
	Number        string `json:"number"`
	PriceNet      string `json:"price_net"`
	PriceTax      string `json:"price_tax"`
	PriceGross    string `json:"price_gross"`
}

// NewRecord returns a record with the defaults extraction starts from
func NewRecord() *Record {
	return &Record{
		SellerCountry: "PL",
		BuyerCountry:  "PL",
		Currency:      "PLN",
		PriceNet:      "0.00",
		PriceTax:      "0.00",
		PriceGross:    "0.00",
	}
}

// requiredRecordFields gates extraction completeness. Street and city
// fields are not required: the schema tolerates empty address lines
// better than empty identifiers.
var requiredRecordFields = []struct {
	name  string
	value func(*Record) string
}{
	{"seller_name", func(r *Record) string { return r.SellerName }},
	{"seller_tax_no", func(r *Record) string { return r.SellerTaxNo }},
	{"buyer_name", func(r *Record) string { return r.BuyerName }},
	{"buyer_tax_no", func(r *Record) string { return r.BuyerTaxNo }},
	{"number", func(r *Record) string { return r.Number }},
	{"issue_date", func(r *Record) string { return r.IssueDate }},
	{"price_net", func(r *Record) string { return r.PriceNet }},
	{"price_tax", func(r *Record) string { return r.PriceTax }},
	{"price_gross", func(r *Record) string { return r.PriceGross }},
}

// MissingFields lists every required field that is empty. Monetary
// fields still at "0.00" count as missing: an extraction that found no
// amount found nothing.
func (r *Record) MissingFields() []string {
	var missing []string
	for _, f := range requiredRecordFields {
		v := f.value(r)
		if v == "" || v == "0.00" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Invoice converts the record to the canonical model. Unparsable
// monetary strings come through as zero.
func (r *Record) Invoice() *Invoice {
	inv := &Invoice{
		Number:    r.Number,
		IssueDate: r.IssueDate,
		Currency:  r.Currency,
		Seller: Party{
			Name:    r.SellerName,
			TaxID:   r.SellerTaxNo,
			Street:  r.SellerStreet,
			Country: r.SellerCountry,
		},
		Buyer: Party{
			Name:     r.BuyerName,
			TaxID:    r.BuyerTaxNo,
			Street:   r.BuyerStreet,
			PostCode: r.BuyerPostCode,
			City:     r.BuyerCity,
			Country:  r.BuyerCountry,
		},
	}

	if v, err := money.FromString(r.PriceNet); err == nil {
		inv.PriceNet = v
	}
	if v, err := money.FromString(r.PriceTax); err == nil {
		inv.PriceTax = v
	}
	if v, err := money.FromString(r.PriceGross); err == nil {
		inv.PriceGross = v
	}
	return inv
}
