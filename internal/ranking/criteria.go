// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package ranking

import (
	"github.com/margoul1Malin/sendup/internal/models"
)

// Criterion names exposed to clients. Each entity type accepts its own
// closed set; anything else in an active set is silently ignored.
const (
	// CriterionEarliest sorts by departure date, soonest first.
	// Valid for both expeditions and courses.
	CriterionEarliest = "earliest"

	// CriterionBudgetHigh sorts expeditions by maximum budget, highest
	// first. Expeditions without a budget rank as zero.
	CriterionBudgetHigh = "budget_high"

	// CriterionWeightHigh sorts expeditions by weight, heaviest first.
	CriterionWeightHigh = "weight_high"

	// CriterionPriceLow sorts courses by price per kg, cheapest first.
	CriterionPriceLow = "price_low"

	// CriterionRating sorts courses by transporter rating, best first.
	CriterionRating = "rating"

	// CriterionCapacityHigh sorts courses by available spaces, most first.
	CriterionCapacityHigh = "capacity_high"

	// CriterionWeightCapacityHigh sorts courses by max carriable weight,
	// largest first.
	CriterionWeightCapacityHigh = "weight_capacity_high"
)

// ExpeditionCriteria returns the criterion table for expedition listings.
func ExpeditionCriteria() []Criterion[models.Expedition] {
	return []Criterion[models.Expedition]{
		{
			Name:      CriterionEarliest,
			Direction: PreferMin,
			Extract: func(e models.Expedition) float64 {
				return float64(e.DepartureDate.Unix())
			},
		},
		{
			Name:      CriterionBudgetHigh,
			Direction: PreferMax,
			Extract: func(e models.Expedition) float64 {
				if e.MaxBudget == nil {
					return 0
				}
				return *e.MaxBudget
			},
		},
		{
			Name:      CriterionWeightHigh,
			Direction: PreferMax,
			Extract: func(e models.Expedition) float64 {
				return e.Weight
			},
		},
	}
}

// CourseCriteria returns the criterion table for course listings.
func CourseCriteria() []Criterion[models.Course] {
	return []Criterion[models.Course]{
		{
			Name:      CriterionEarliest,
			Direction: PreferMin,
			Extract: func(c models.Course) float64 {
				return float64(c.DepartureDate.Unix())
			},
		},
		{
			Name:      CriterionPriceLow,
			Direction: PreferMin,
			Extract: func(c models.Course) float64 {
				return c.PricePerKg
			},
		},
		{
			Name:      CriterionRating,
			Direction: PreferMax,
			Extract: func(c models.Course) float64 {
				return c.Transporter.Rating
			},
		},
		{
			Name:      CriterionCapacityHigh,
			Direction: PreferMax,
			Extract: func(c models.Course) float64 {
				return float64(c.AvailableSpaces)
			},
		},
		{
			Name:      CriterionWeightCapacityHigh,
			Direction: PreferMax,
			Extract: func(c models.Course) float64 {
				return c.MaxWeight
			},
		},
	}
}
