// Package generator produces synthetic Polish invoices from a
// configuration.
package generator

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fakturnia/ksef-processor/internal/config"
	"github.com/fakturnia/ksef-processor/internal/model"
	"github.com/fakturnia/ksef-processor/internal/money"
)

// Pools used when the configuration omits a buyer
var (
	buyerCompanies = []string{
		"GENERAL MOTORS", "ABC CORPORATION", "XYZ TRADING",
		"TECH SOLUTIONS", "MEGA CORP", "GLOBAL SERVICES",
		"INNOVATION HUB", "FUTURE SYSTEMS", "DYNAMIC GROUP",
		"PREMIUM TRADE",
	}
	buyerStreets = []string{"Wielka", "Mala", "Nowa", "Stara"}
	buyerCities  = []string{"Warszawa", "Krakow", "Wroclaw", "Poznan", "Gdansk"}
)

// Generator builds random invoices
type Generator struct {
	cfg *config.Config
	rng *rand.Rand
	now func() time.Time
}

// Option configures the generator
type Option func(*Generator)

// WithSeed fixes the random source, for reproducible output
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithNow overrides the reference date
func WithNow(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a generator for the given configuration
func New(cfg *config.Config, opts ...Option) *Generator {
	g := &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateTaxID returns a random 10-digit NIP. No checksum: downstream
// validation is format-only, matching the converter.
func (g *Generator) GenerateTaxID() string {
	return g.digits(10)
}

// GenerateBankAccount returns a random 26-digit Polish account number
func (g *Generator) GenerateBankAccount() string {
	return g.digits(26)
}

func (g *Generator) digits(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + g.rng.Intn(10)))
	}
	return b.String()
}

// Generate produces count invoices numbered sequentially from 1. Each
// invoice date is the reference date minus a random 0-30 day offset, so
// numbers are not guaranteed to be in chronological order.
func (g *Generator) Generate(count int) ([]*model.Invoice, error) {
	start := g.now()
	invoices := make([]*model.Invoice, 0, count)

	for i := 1; i <= count; i++ {
		date := start.AddDate(0, 0, -g.rng.Intn(31))
		inv, err := g.generateOne(i, date)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}

	return invoices, nil
}

func (g *Generator) generateOne(sequence int, date time.Time) (*model.Invoice, error) {
	invCfg := g.cfg.Invoice

	positions, err := g.generatePositions()
	if err != nil {
		return nil, err
	}

	inv := &model.Invoice{
		Number:      model.FormatNumber(sequence, date),
		IssueDate:   date.Format("2006-01-02"),
		SellDate:    date.Format("2006-01-02"),
		PaymentDue:  date.AddDate(0, 0, invCfg.PaymentDays).Format("2006-01-02"),
		PaymentType: model.PaymentType(invCfg.PaymentType),
		Currency:    invCfg.Currency,
		Lang:        invCfg.Lang,
		Seller:      g.seller(),
		Buyer:       g.buyer(),
		Positions:   positions,
	}
	inv.CalculateTotals()

	return inv, nil
}

func (g *Generator) generatePositions() ([]model.Position, error) {
	gen := g.cfg.Generation
	invCfg := g.cfg.Invoice

	count := gen.MinPositions + g.rng.Intn(gen.MaxPositions-gen.MinPositions+1)
	positions := make([]model.Position, 0, count)

	for i := 0; i < count; i++ {
		product := g.cfg.Products[g.rng.Intn(len(g.cfg.Products))]
		quantity := gen.MinQuantity + g.rng.Intn(gen.MaxQuantity-gen.MinQuantity+1)

		unitNet := money.FromFloat(product.PriceNetMin +
			g.rng.Float64()*(product.PriceNetMax-product.PriceNetMin))

		pos, err := model.DeriveLine(product.Name, unitNet,
			decimal.NewFromInt(int64(quantity)), invCfg.TaxRate, invCfg.QuantityUnit)
		if err != nil {
			return nil, err
		}
		positions = append(positions, pos)
	}

	return positions, nil
}

func (g *Generator) seller() model.Party {
	s := g.cfg.Seller
	p := model.Party{
		Name:        s.Name,
		TaxID:       s.TaxNo,
		Street:      s.Street,
		PostCode:    s.PostCode,
		City:        s.City,
		Country:     s.Country,
		Email:       s.Email,
		Phone:       s.Phone,
		Person:      s.Person,
		BankName:    s.Bank,
		BankAccount: s.BankAccount,
	}
	if p.Country == "" {
		p.Country = "PL"
	}
	if p.TaxID == "" {
		p.TaxID = g.GenerateTaxID()
	}
	if p.BankAccount == "" {
		p.BankAccount = g.GenerateBankAccount()
	}
	return p
}

func (g *Generator) buyer() model.Party {
	b := g.cfg.Buyer
	if b.Name != "" {
		p := model.Party{
			Name:     b.Name,
			TaxID:    b.TaxNo,
			Street:   b.Street,
			PostCode: b.PostCode,
			City:     b.City,
			Country:  b.Country,
			Email:    b.Email,
			Phone:    b.Phone,
		}
		if p.TaxID == "" {
			p.TaxID = g.GenerateTaxID()
		}
		if p.Street == "" {
			p.Street = "ul. Kupujacego 10"
		}
		if p.PostCode == "" {
			p.PostCode = "00-001"
		}
		if p.City == "" {
			p.City = "Warszawa"
		}
		if p.Country == "" {
			p.Country = "PL"
		}
		return p
	}

	return model.Party{
		Name:     buyerCompanies[g.rng.Intn(len(buyerCompanies))],
		TaxID:    g.GenerateTaxID(),
		Street:   "ul. " + buyerStreets[g.rng.Intn(len(buyerStreets))] + " " + strconv.Itoa(1+g.rng.Intn(100)),
		PostCode: strconv.Itoa(10+g.rng.Intn(90)) + "-" + strconv.Itoa(100+g.rng.Intn(900)),
		City:     buyerCities[g.rng.Intn(len(buyerCities))],
		Country:  "PL",
	}
}
