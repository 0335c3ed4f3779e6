// Package config loads the generator configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SellerConfig describes the fixed seller profile
type SellerConfig struct {
	Name        string `yaml:"name"`
	TaxNo       string `yaml:"tax_no"`
	Street      string `yaml:"street"`
	PostCode    string `yaml:"post_code"`
	City        string `yaml:"city"`
	Country     string `yaml:"country"`
	Email       string `yaml:"email"`
	Phone       string `yaml:"phone"`
	Person      string `yaml:"person"`
	Bank        string `yaml:"bank"`
	BankAccount string `yaml:"bank_account"`
}

// BuyerConfig describes an optional fixed buyer. When Name is empty the
// generator synthesizes a random buyer per invoice.
type BuyerConfig struct {
	Name     string `yaml:"name"`
	TaxNo    string `yaml:"tax_no"`
	Street   string `yaml:"street"`
	PostCode string `yaml:"post_code"`
	City     string `yaml:"city"`
	Country  string `yaml:"country"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
}

// InvoiceConfig holds invoice-level generation settings
type InvoiceConfig struct {
	Currency     string `yaml:"currency"`
	PaymentType  string `yaml:"payment_type"`
	PaymentDays  int    `yaml:"payment_days"`
	TaxRate      int    `yaml:"tax_rate"`
	Lang         string `yaml:"lang"`
	QuantityUnit string `yaml:"quantity_unit"`
}

// ProductConfig is a catalog entry with a net price range
type ProductConfig struct {
	Name        string  `yaml:"name"`
	PriceNetMin float64 `yaml:"price_net_min"`
	PriceNetMax float64 `yaml:"price_net_max"`
}

// GenerationConfig holds the generation bounds and output target
type GenerationConfig struct {
	MinPositions int    `yaml:"min_positions"`
	MaxPositions int    `yaml:"max_positions"`
	MinQuantity  int    `yaml:"min_quantity"`
	MaxQuantity  int    `yaml:"max_quantity"`
	OutputFormat string `yaml:"output_format"` // json, pdf, xml
	OutputDir    string `yaml:"output_dir"`
}

// Config is the full generator configuration
type Config struct {
	Seller     SellerConfig     `yaml:"seller"`
	Buyer      BuyerConfig      `yaml:"buyer"`
	Invoice    InvoiceConfig    `yaml:"invoice"`
	Products   []ProductConfig  `yaml:"products"`
	Generation GenerationConfig `yaml:"generation"`
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	return &Config{
		Seller: SellerConfig{
			Name:     "DEFAULT SELLER",
			Street:   "ul. Testowa 1",
			PostCode: "00-000",
			City:     "Warszawa",
			Country:  "PL",
			Email:    "seller@example.com",
			Phone:    "+48123456789",
			Person:   "Jan Kowalski",
			Bank:     "PKO BP",
		},
		Invoice: InvoiceConfig{
			Currency:     "PLN",
			PaymentType:  "transfer",
			PaymentDays:  7,
			TaxRate:      23,
			Lang:         "pl",
			QuantityUnit: "szt",
		},
		Products: []ProductConfig{
			{Name: "PRODUCT A", PriceNetMin: 100, PriceNetMax: 500},
			{Name: "PRODUCT B", PriceNetMin: 200, PriceNetMax: 1000},
			{Name: "PRODUCT C", PriceNetMin: 50, PriceNetMax: 300},
		},
		Generation: GenerationConfig{
			MinPositions: 1,
			MaxPositions: 5,
			MinQuantity:  1,
			MaxQuantity:  10,
			OutputFormat: "json",
			OutputDir:    "./generated",
		},
	}
}

// Load reads the configuration from path. A missing file is not an
// error: the defaults are returned so the generator stays usable out of
// the box.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the generation bounds and product catalog
func (c *Config) Validate() error {
	g := c.Generation
	if g.MinPositions < 1 {
		return fmt.Errorf("generation.min_positions must be at least 1, got %d", g.MinPositions)
	}
	if g.MaxPositions < g.MinPositions {
		return fmt.Errorf("generation.max_positions (%d) below min_positions (%d)", g.MaxPositions, g.MinPositions)
	}
	if g.MinQuantity < 1 {
		return fmt.Errorf("generation.min_quantity must be at least 1, got %d", g.MinQuantity)
	}
	if g.MaxQuantity < g.MinQuantity {
		return fmt.Errorf("generation.max_quantity (%d) below min_quantity (%d)", g.MaxQuantity, g.MinQuantity)
	}
	switch g.OutputFormat {
	case "json", "pdf", "xml":
	default:
		return fmt.Errorf("generation.output_format must be json, pdf or xml, got %q", g.OutputFormat)
	}

	if c.Invoice.TaxRate < 0 || c.Invoice.TaxRate > 100 {
		return fmt.Errorf("invoice.tax_rate must be in [0, 100], got %d", c.Invoice.TaxRate)
	}
	if c.Invoice.PaymentDays < 0 {
		return fmt.Errorf("invoice.payment_days must not be negative, got %d", c.Invoice.PaymentDays)
	}

	if len(c.Products) == 0 {
		return fmt.Errorf("at least one product is required")
	}
	for i, p := range c.Products {
		if p.Name == "" {
			return fmt.Errorf("products[%d]: name is required", i)
		}
		if p.PriceNetMin < 0 || p.PriceNetMax < p.PriceNetMin {
			return fmt.Errorf("products[%d]: invalid price range [%v, %v]", i, p.PriceNetMin, p.PriceNetMax)
		}
	}

	return nil
}
