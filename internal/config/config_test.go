package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturnia/ksef-processor/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "PLN", cfg.Invoice.Currency)
	assert.Equal(t, 23, cfg.Invoice.TaxRate)
	assert.Equal(t, 7, cfg.Invoice.PaymentDays)
	assert.Equal(t, "szt", cfg.Invoice.QuantityUnit)
	assert.Len(t, cfg.Products, 3)
	assert.Equal(t, 1, cfg.Generation.MinPositions)
	assert.Equal(t, 5, cfg.Generation.MaxPositions)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "DEFAULT SELLER", cfg.Seller.Name)
}

func TestLoad_File(t *testing.T) {
	yml := `
seller:
  name: ACME Sp. z o.o.
  tax_no: "5213017228"
  street: ul. Prosta 51
  post_code: 00-838
  city: Warszawa
invoice:
  currency: PLN
  payment_type: transfer
  payment_days: 14
  tax_rate: 23
  quantity_unit: szt
products:
  - name: Widget
    price_net_min: 10
    price_net_max: 20
generation:
  min_positions: 2
  max_positions: 4
  min_quantity: 1
  max_quantity: 3
  output_format: pdf
  output_dir: ./out
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ACME Sp. z o.o.", cfg.Seller.Name)
	assert.Equal(t, "5213017228", cfg.Seller.TaxNo)
	assert.Equal(t, 14, cfg.Invoice.PaymentDays)
	assert.Equal(t, "pdf", cfg.Generation.OutputFormat)
	require.Len(t, cfg.Products, 1)
	assert.Equal(t, "Widget", cfg.Products[0].Name)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seller: [broken"), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"min positions zero", func(c *config.Config) { c.Generation.MinPositions = 0 }},
		{"max below min positions", func(c *config.Config) { c.Generation.MaxPositions = 0 }},
		{"min quantity zero", func(c *config.Config) { c.Generation.MinQuantity = 0 }},
		{"max below min quantity", func(c *config.Config) { c.Generation.MaxQuantity = 0 }},
		{"bad output format", func(c *config.Config) { c.Generation.OutputFormat = "docx" }},
		{"tax rate out of range", func(c *config.Config) { c.Invoice.TaxRate = 150 }},
		{"negative payment days", func(c *config.Config) { c.Invoice.PaymentDays = -1 }},
		{"no products", func(c *config.Config) { c.Products = nil }},
		{"unnamed product", func(c *config.Config) { c.Products[0].Name = "" }},
		{"inverted price range", func(c *config.Config) { c.Products[0].PriceNetMax = c.Products[0].PriceNetMin - 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
