package kseflib

import (
	"github.com/fakturnia/ksef-processor/internal/config"
	"github.com/fakturnia/ksef-processor/internal/generator"
)

// Generate produces count synthetic invoices using the configuration at
// configPath. A missing config file falls back to the built-in defaults.
func Generate(configPath string, count int) ([]*Invoice, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return generator.New(cfg).Generate(count)
}

// GenerateSeeded is Generate with a fixed random seed, for reproducible
// batches
func GenerateSeeded(configPath string, count int, seed int64) ([]*Invoice, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return generator.New(cfg, generator.WithSeed(seed)).Generate(count)
}
