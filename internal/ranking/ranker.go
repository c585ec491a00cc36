// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package ranking

import (
	"sort"
)

// Direction is the fixed preference direction of a criterion.
type Direction int

const (
	// PreferMin treats the smallest extracted value as best.
	PreferMin Direction = iota
	// PreferMax treats the largest extracted value as best.
	PreferMax
)

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case PreferMin:
		return "min"
	case PreferMax:
		return "max"
	default:
		return "unknown"
	}
}

// Criterion pairs a named numeric extractor with its preference direction.
// The direction is part of the criterion definition, never user-selectable.
type Criterion[T any] struct {
	// Name is the identifier users toggle (e.g. "price_low").
	Name string

	// Direction is the fixed preference direction.
	Direction Direction

	// Extract returns the comparable value for an entity. Must be pure.
	Extract func(T) float64
}

// ActiveSet builds the active-criteria set from a list of names.
func ActiveSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		if n != "" {
			set[n] = true
		}
	}
	return set
}

// Rank orders entities by the active criteria and returns a new slice; the
// input is never mutated.
//
// Degenerate cases: with no active criteria the original order is preserved;
// with exactly one, the result is a stable sort by that criterion. Active
// names that match no criterion are ignored.
//
// With two or more active criteria, every entity gets one "win" per criterion
// on which it ties the best value over the whole set. Entities are ordered by
// wins descending; equal wins are broken by the sum of per-criterion ranks
// (rank = number of entities strictly better under that criterion), lower
// sum first. Both stages are stable with respect to input order.
func Rank[T any](entities []T, criteria []Criterion[T], active map[string]bool) []T {
	out := make([]T, len(entities))
	copy(out, entities)
	if len(out) == 0 {
		return out
	}

	selected := make([]Criterion[T], 0, len(criteria))
	for _, c := range criteria {
		if active[c.Name] {
			selected = append(selected, c)
		}
	}

	switch len(selected) {
	case 0:
		return out
	case 1:
		c := selected[0]
		sort.SliceStable(out, func(i, j int) bool {
			return better(c.Extract(out[i]), c.Extract(out[j]), c.Direction)
		})
		return out
	}

	n, k := len(out), len(selected)

	// Extract once; the per-criterion best is computed a single time per
	// call rather than rescanned per entity.
	values := make([][]float64, k)
	best := make([]float64, k)
	for ci, c := range selected {
		values[ci] = make([]float64, n)
		for i := range out {
			values[ci][i] = c.Extract(out[i])
		}
		best[ci] = values[ci][0]
		for _, v := range values[ci][1:] {
			if better(v, best[ci], c.Direction) {
				best[ci] = v
			}
		}
	}

	// wins counts the criteria on which an entity ties the global best;
	// several entities can win the same criterion.
	wins := make([]int, n)
	rankSum := make([]int, n)
	for ci, c := range selected {
		for i := 0; i < n; i++ {
			if values[ci][i] == best[ci] {
				wins[i]++
			}
			for j := 0; j < n; j++ {
				if better(values[ci][j], values[ci][i], c.Direction) {
					rankSum[i]++
				}
			}
		}
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if wins[idx[a]] != wins[idx[b]] {
			return wins[idx[a]] > wins[idx[b]]
		}
		return rankSum[idx[a]] < rankSum[idx[b]]
	})

	ranked := make([]T, n)
	for i, j := range idx {
		ranked[i] = out[j]
	}
	return ranked
}

// better reports whether a beats b under the given direction.
func better(a, b float64, d Direction) bool {
	if d == PreferMin {
		return a < b
	}
	return a > b
}
