// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package matching

import (
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default is valid", func(*Config) {}, false},
		{"zero default_k", func(c *Config) { c.Limits.DefaultK = 0 }, true},
		{"max_k below default_k", func(c *Config) { c.Limits.MaxK = 1; c.Limits.DefaultK = 3 }, true},
		{"negative rate", func(c *Config) { c.Limits.RequestsPerSecond = -1 }, true},
		{"throttling without burst", func(c *Config) { c.Limits.RequestsPerSecond = 5; c.Limits.Burst = 0 }, true},
		{"inverted date tiers", func(c *Config) { c.Thresholds.DateVeryCloseDays = 5; c.Thresholds.DateCloseDays = 3 }, true},
		{"inverted margin tiers", func(c *Config) { c.Thresholds.MarginGood = 0.9 }, true},
		{"inverted rating tiers", func(c *Config) { c.Thresholds.RatingGood = 4.9 }, true},
		{"inverted price tiers", func(c *Config) { c.Thresholds.PriceVeryGood = 0.95 }, true},
		{"price tier above budget", func(c *Config) { c.Thresholds.PriceGood = 1.2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigCloneIsIndependent(t *testing.T) {
	orig := DefaultConfig()
	cp := orig.Clone()
	cp.Weights.CityMatch = 1

	if orig.Weights.CityMatch == cp.Weights.CityMatch {
		t.Error("mutating the clone must not affect the original")
	}
}
