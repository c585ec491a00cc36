// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package matching

import (
	"fmt"
)

// Config contains all configuration for the matching engine.
type Config struct {
	// Weights defines the points awarded per matching signal.
	Weights Weights `json:"weights" koanf:"weights"`

	// Thresholds defines the cutoffs that select between signal tiers.
	Thresholds Thresholds `json:"thresholds" koanf:"thresholds"`

	// Limits contains operational limits.
	Limits Limits `json:"limits" koanf:"limits"`
}

// Weights defines the points awarded per matching signal. Signals are
// additive; date, margin, rating and price tiers are mutually exclusive
// within their group.
type Weights struct {
	// CityMatch is awarded once for every surviving candidate, since route
	// compatibility is also a hard filter.
	CityMatch int `json:"city_match" koanf:"city_match"`

	// HeavyVehicle is awarded when the expedition requires a heavy vehicle
	// and the course provides one.
	HeavyVehicle int `json:"heavy_vehicle" koanf:"heavy_vehicle"`

	// Capacity is awarded once for every surviving candidate, since
	// sufficient max weight is also a hard filter.
	Capacity int `json:"capacity" koanf:"capacity"`

	// DateExact through DateAcceptable are the date proximity tiers,
	// keyed on whole days between the desired and scheduled departure.
	DateExact      int `json:"date_exact" koanf:"date_exact"`
	DateVeryClose  int `json:"date_very_close" koanf:"date_very_close"`
	DateClose      int `json:"date_close" koanf:"date_close"`
	DateAcceptable int `json:"date_acceptable" koanf:"date_acceptable"`

	// MarginLarge and MarginGood reward spare weight capacity relative to
	// the expedition weight.
	MarginLarge int `json:"margin_large" koanf:"margin_large"`
	MarginGood  int `json:"margin_good" koanf:"margin_good"`

	// Slots is awarded when the course has more than one free space.
	Slots int `json:"slots" koanf:"slots"`

	// RatingTop and RatingGood reward highly rated transporters.
	RatingTop  int `json:"rating_top" koanf:"rating_top"`
	RatingGood int `json:"rating_good" koanf:"rating_good"`

	// PriceVeryGood through PriceWithin reward estimated prices that sit
	// comfortably inside the expedition's declared budget.
	PriceVeryGood int `json:"price_very_good" koanf:"price_very_good"`
	PriceGood     int `json:"price_good" koanf:"price_good"`
	PriceWithin   int `json:"price_within" koanf:"price_within"`
}

// Thresholds defines the cutoffs selecting between signal tiers.
type Thresholds struct {
	// DateVeryCloseDays, DateCloseDays and DateAcceptableDays bound the
	// date proximity tiers in whole days (exact match is always day zero).
	DateVeryCloseDays  int `json:"date_very_close_days" koanf:"date_very_close_days"`
	DateCloseDays      int `json:"date_close_days" koanf:"date_close_days"`
	DateAcceptableDays int `json:"date_acceptable_days" koanf:"date_acceptable_days"`

	// MarginLarge and MarginGood are (maxWeight-weight)/weight ratios.
	MarginLarge float64 `json:"margin_large" koanf:"margin_large"`
	MarginGood  float64 `json:"margin_good" koanf:"margin_good"`

	// RatingTop and RatingGood are transporter rating floors (0-5 scale).
	RatingTop  float64 `json:"rating_top" koanf:"rating_top"`
	RatingGood float64 `json:"rating_good" koanf:"rating_good"`

	// PriceVeryGood and PriceGood are estimatedPrice/maxBudget ratios; a
	// ratio of 1.0 or below always counts as within budget.
	PriceVeryGood float64 `json:"price_very_good" koanf:"price_very_good"`
	PriceGood     float64 `json:"price_good" koanf:"price_good"`
}

// Limits contains operational limits for the engine.
type Limits struct {
	// DefaultK is the number of recommendations returned when the caller
	// does not specify one. Default: 3.
	DefaultK int `json:"default_k" koanf:"default_k"`

	// MaxK caps the number of recommendations a caller may request.
	// Default: 50.
	MaxK int `json:"max_k" koanf:"max_k"`

	// RequestsPerSecond bounds recommendation request throughput.
	// Zero disables throttling.
	RequestsPerSecond float64 `json:"requests_per_second" koanf:"requests_per_second"`

	// Burst is the token bucket burst size when throttling is enabled.
	Burst int `json:"burst" koanf:"burst"`
}

// DefaultConfig returns a Config with the production scoring table.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			CityMatch:      100,
			HeavyVehicle:   50,
			Capacity:       30,
			DateExact:      50,
			DateVeryClose:  40,
			DateClose:      30,
			DateAcceptable: 15,
			MarginLarge:    20,
			MarginGood:     10,
			Slots:          10,
			RatingTop:      20,
			RatingGood:     10,
			PriceVeryGood:  25,
			PriceGood:      15,
			PriceWithin:    5,
		},
		Thresholds: Thresholds{
			DateVeryCloseDays:  1,
			DateCloseDays:      3,
			DateAcceptableDays: 7,
			MarginLarge:        0.5,
			MarginGood:         0.2,
			RatingTop:          4.5,
			RatingGood:         4.0,
			PriceVeryGood:      0.7,
			PriceGood:          0.9,
		},
		Limits: Limits{
			DefaultK:          3,
			MaxK:              50,
			RequestsPerSecond: 0,
			Burst:             1,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Limits.RequestsPerSecond < 0 {
		return fmt.Errorf("limits.requests_per_second must be non-negative, got %f", c.Limits.RequestsPerSecond)
	}
	if c.Limits.RequestsPerSecond > 0 && c.Limits.Burst < 1 {
		return fmt.Errorf("limits.burst must be positive when throttling is enabled, got %d", c.Limits.Burst)
	}
	if c.Thresholds.DateVeryCloseDays > c.Thresholds.DateCloseDays {
		return fmt.Errorf("thresholds.date_very_close_days must be <= date_close_days, got %d > %d",
			c.Thresholds.DateVeryCloseDays, c.Thresholds.DateCloseDays)
	}
	if c.Thresholds.DateCloseDays > c.Thresholds.DateAcceptableDays {
		return fmt.Errorf("thresholds.date_close_days must be <= date_acceptable_days, got %d > %d",
			c.Thresholds.DateCloseDays, c.Thresholds.DateAcceptableDays)
	}
	if c.Thresholds.MarginGood > c.Thresholds.MarginLarge {
		return fmt.Errorf("thresholds.margin_good must be <= margin_large, got %f > %f",
			c.Thresholds.MarginGood, c.Thresholds.MarginLarge)
	}
	if c.Thresholds.RatingGood > c.Thresholds.RatingTop {
		return fmt.Errorf("thresholds.rating_good must be <= rating_top, got %f > %f",
			c.Thresholds.RatingGood, c.Thresholds.RatingTop)
	}
	if c.Thresholds.PriceVeryGood > c.Thresholds.PriceGood {
		return fmt.Errorf("thresholds.price_very_good must be <= price_good, got %f > %f",
			c.Thresholds.PriceVeryGood, c.Thresholds.PriceGood)
	}
	if c.Thresholds.PriceGood > 1.0 {
		return fmt.Errorf("thresholds.price_good must be <= 1.0, got %f", c.Thresholds.PriceGood)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - all nested structs contain only value types
	cp := *c
	return &cp
}
