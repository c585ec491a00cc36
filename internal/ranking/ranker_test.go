// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margoul1Malin/sendup/internal/models"
)

var baseDate = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

func course(id string, dayOffset int, pricePerKg, rating float64, spaces int, maxWeight float64) models.Course {
	return models.Course{
		ID:              id,
		DepartureDate:   baseDate.AddDate(0, 0, dayOffset),
		PricePerKg:      pricePerKg,
		AvailableSpaces: spaces,
		MaxWeight:       maxWeight,
		Transporter:     models.TransporterSummary{Rating: rating},
	}
}

func courseIDs(cs []models.Course) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}

func TestRankEmptyInput(t *testing.T) {
	got := Rank(nil, CourseCriteria(), ActiveSet([]string{CriterionPriceLow}))
	assert.Empty(t, got)

	got = Rank([]models.Course{}, CourseCriteria(), nil)
	assert.Empty(t, got)
}

func TestRankNoActiveCriteriaPreservesOrder(t *testing.T) {
	in := []models.Course{
		course("c", 2, 3, 4.0, 1, 100),
		course("a", 0, 1, 5.0, 3, 300),
		course("b", 1, 2, 3.0, 2, 200),
	}

	got := Rank(in, CourseCriteria(), nil)
	assert.Equal(t, []string{"c", "a", "b"}, courseIDs(got))

	got = Rank(in, CourseCriteria(), map[string]bool{})
	assert.Equal(t, []string{"c", "a", "b"}, courseIDs(got))
}

func TestRankSingleCriterionIsPlainSort(t *testing.T) {
	in := []models.Course{
		course("expensive", 0, 3.0, 0, 1, 100),
		course("cheap", 0, 1.0, 0, 1, 100),
		course("middle", 0, 2.0, 0, 1, 100),
	}

	got := Rank(in, CourseCriteria(), ActiveSet([]string{CriterionPriceLow}))
	assert.Equal(t, []string{"cheap", "middle", "expensive"}, courseIDs(got))
}

func TestRankSingleCriterionStableOnTies(t *testing.T) {
	in := []models.Course{
		course("first", 0, 2.0, 0, 1, 100),
		course("second", 0, 2.0, 0, 1, 100),
		course("cheapest", 0, 1.0, 0, 1, 100),
	}

	got := Rank(in, CourseCriteria(), ActiveSet([]string{CriterionPriceLow}))
	assert.Equal(t, []string{"cheapest", "first", "second"}, courseIDs(got))
}

func TestRankUnknownCriterionIgnored(t *testing.T) {
	in := []models.Course{
		course("b", 1, 2, 0, 1, 100),
		course("a", 0, 1, 0, 1, 100),
	}

	// Only the unknown name is active: behaves like no criteria at all.
	got := Rank(in, CourseCriteria(), ActiveSet([]string{"nonsense"}))
	assert.Equal(t, []string{"b", "a"}, courseIDs(got))

	// Unknown name next to a real one: the real one alone applies.
	got = Rank(in, CourseCriteria(), ActiveSet([]string{"nonsense", CriterionEarliest}))
	assert.Equal(t, []string{"a", "b"}, courseIDs(got))
}

func TestRankPairwiseWins(t *testing.T) {
	// dominant is best on both price and rating; the others split the
	// remaining criteria.
	in := []models.Course{
		course("slow-cheap", 5, 1.0, 3.0, 1, 100),
		course("dominant", 3, 1.0, 5.0, 1, 100),
		course("early", 0, 4.0, 2.0, 1, 100),
	}

	got := Rank(in, CourseCriteria(), ActiveSet([]string{CriterionEarliest, CriterionPriceLow, CriterionRating}))

	// Wins: dominant 2 (price tie counts for both, rating), slow-cheap 1
	// (price tie), early 1 (earliest). slow-cheap ranks: earliest 2 +
	// price 0 + rating 1 = 3; early: 0 + 2 + 2 = 4.
	assert.Equal(t, []string{"dominant", "slow-cheap", "early"}, courseIDs(got))
}

func TestRankTieBreakBySummedRank(t *testing.T) {
	// A and B each win exactly one of {earliest, rating}; the summed rank
	// decides: B(rank 1+0=1) before A(rank 0+2=2), C last with zero wins.
	a := course("A", 0, 1, 3.0, 1, 100)
	b := course("B", 1, 1, 5.0, 1, 100)
	c := course("C", 2, 1, 4.0, 1, 100)

	got := Rank([]models.Course{a, b, c}, CourseCriteria(), ActiveSet([]string{CriterionEarliest, CriterionRating}))
	assert.Equal(t, []string{"B", "A", "C"}, courseIDs(got))
}

func TestRankSharedBestCountsForAll(t *testing.T) {
	// Both tie the best price so both score that win; the earliest
	// criterion then separates them.
	in := []models.Course{
		course("late", 3, 1.0, 0, 1, 100),
		course("early", 0, 1.0, 0, 1, 100),
		course("pricey", 1, 9.0, 0, 1, 100),
	}

	got := Rank(in, CourseCriteria(), ActiveSet([]string{CriterionEarliest, CriterionPriceLow}))
	assert.Equal(t, []string{"early", "late", "pricey"}, courseIDs(got))
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := []models.Course{
		course("z", 2, 3, 1, 1, 100),
		course("a", 0, 1, 5, 3, 300),
	}

	_ = Rank(in, CourseCriteria(), ActiveSet([]string{CriterionPriceLow}))
	assert.Equal(t, []string{"z", "a"}, courseIDs(in), "input order must be preserved")
}

func TestRankDeterministic(t *testing.T) {
	in := []models.Course{
		course("a", 0, 2, 4.2, 2, 200),
		course("b", 1, 1, 4.8, 1, 500),
		course("c", 2, 3, 3.9, 4, 100),
	}
	active := ActiveSet([]string{CriterionEarliest, CriterionPriceLow, CriterionRating})

	first := Rank(in, CourseCriteria(), active)
	second := Rank(in, CourseCriteria(), active)
	assert.Equal(t, courseIDs(first), courseIDs(second))
}

func TestRankExpeditionCriteria(t *testing.T) {
	bigBudget := 500.0
	smallBudget := 100.0
	in := []models.Expedition{
		{ID: "light", DepartureDate: baseDate.AddDate(0, 0, 2), Weight: 10, MaxBudget: &smallBudget},
		{ID: "heavy", DepartureDate: baseDate.AddDate(0, 0, 1), Weight: 800, MaxBudget: &bigBudget},
		{ID: "nobudget", DepartureDate: baseDate, Weight: 50},
	}

	got := Rank(in, ExpeditionCriteria(), ActiveSet([]string{CriterionBudgetHigh}))
	require.Len(t, got, 3)
	assert.Equal(t, "heavy", got[0].ID)
	assert.Equal(t, "light", got[1].ID)
	assert.Equal(t, "nobudget", got[2].ID, "missing budget ranks as zero")

	// heavy wins both budget_high and weight_high outright.
	got = Rank(in, ExpeditionCriteria(), ActiveSet([]string{CriterionBudgetHigh, CriterionWeightHigh}))
	assert.Equal(t, "heavy", got[0].ID)
}

func TestActiveSet(t *testing.T) {
	set := ActiveSet([]string{"earliest", "", "rating", "earliest"})
	assert.Equal(t, map[string]bool{"earliest": true, "rating": true}, set)
}

func TestDirectionString(t *testing.T) {
	tests := []struct {
		name     string
		dir      Direction
		expected string
	}{
		{"min", PreferMin, "min"},
		{"max", PreferMax, "max"},
		{"unknown value", Direction(9), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dir.String(); got != tt.expected {
				t.Errorf("Direction(%d).String() = %q, want %q", tt.dir, got, tt.expected)
			}
		})
	}
}
