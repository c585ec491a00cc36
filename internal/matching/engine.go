// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package matching

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/margoul1Malin/sendup/internal/models"
)

// ErrThrottled is returned when the engine's request rate limit is exceeded.
var ErrThrottled = errors.New("recommendation request rate limit exceeded")

// Engine scores candidate courses against expeditions.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	// limiter bounds recommendation throughput; nil when disabled.
	limiter *rate.Limiter

	requestCount atomic.Int64
	throttled    atomic.Int64
}

// NewEngine creates a new matching engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "matching").Logger(),
	}
	if cfg.Limits.RequestsPerSecond > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(cfg.Limits.RequestsPerSecond), cfg.Limits.Burst)
	}
	return e, nil
}

// Recommend filters and scores candidateCourses against the expedition and
// returns the topN candidates ordered by score descending, plus the total
// number of survivors before truncation.
//
// The candidate list is expected to be pre-filtered for availability and
// departure window by the caller; Recommend applies only the per-course hard
// filters and scoring. The input slice is never mutated. Business-level
// mismatches are not errors: they simply produce fewer (or zero) candidates.
func (e *Engine) Recommend(ctx context.Context, exp models.Expedition, candidateCourses []models.Course, topN int) ([]MatchCandidate, int, error) {
	e.requestCount.Add(1)

	if e.limiter != nil && !e.limiter.Allow() {
		e.throttled.Add(1)
		return nil, 0, ErrThrottled
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	if topN <= 0 {
		topN = e.config.Limits.DefaultK
	}
	if topN > e.config.Limits.MaxK {
		topN = e.config.Limits.MaxK
	}

	survivors := make([]MatchCandidate, 0, len(candidateCourses))
	for _, course := range candidateCourses {
		if cand, ok := e.score(exp, course); ok {
			survivors = append(survivors, cand)
		}
	}

	// Stable sort keeps input order on equal scores.
	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].Score > survivors[j].Score
	})

	total := len(survivors)
	if len(survivors) > topN {
		survivors = survivors[:topN]
	}

	e.logger.Debug().
		Str("expedition_id", exp.ID).
		Int("candidates", len(candidateCourses)).
		Int("survivors", total).
		Int("returned", len(survivors)).
		Msg("recommendation computed")

	return survivors, total, nil
}

// score applies the hard filters and, for survivors, accumulates the weighted
// signals. The second return value is false when the course is filtered out.
func (e *Engine) score(exp models.Expedition, course models.Course) (MatchCandidate, bool) {
	w, th := &e.config.Weights, &e.config.Thresholds

	// Hard filters. Order matters only for short-circuiting.
	if !citiesCompatible(exp.DepartureCity, course.DepartureCity) ||
		!citiesCompatible(exp.ArrivalCity, course.ArrivalCity) {
		return MatchCandidate{}, false
	}
	if exp.RequiresHeavy && course.VehicleClass != models.VehicleHeavy {
		return MatchCandidate{}, false
	}
	if course.MaxWeight < exp.Weight {
		return MatchCandidate{}, false
	}

	score := w.CityMatch
	reasons := []string{ReasonCityMatch}

	if exp.RequiresHeavy {
		score += w.HeavyVehicle
		reasons = append(reasons, ReasonHeavyVehicle)
	}

	score += w.Capacity
	reasons = append(reasons, ReasonCapacity)

	// Date proximity: first matching tier wins, tiers never stack.
	switch days := wholeDaysBetween(exp.DepartureDate, course.DepartureDate); {
	case days == 0:
		score += w.DateExact
		reasons = append(reasons, ReasonDateExact)
	case days <= th.DateVeryCloseDays:
		score += w.DateVeryClose
		reasons = append(reasons, ReasonDateVeryClose)
	case days <= th.DateCloseDays:
		score += w.DateClose
		reasons = append(reasons, ReasonDateClose)
	case days <= th.DateAcceptableDays:
		score += w.DateAcceptable
		reasons = append(reasons, ReasonDateAcceptable)
	}

	// Spare capacity relative to the expedition weight.
	switch margin := (course.MaxWeight - exp.Weight) / exp.Weight; {
	case margin > th.MarginLarge:
		score += w.MarginLarge
		reasons = append(reasons, ReasonMarginLarge)
	case margin > th.MarginGood:
		score += w.MarginGood
		reasons = append(reasons, ReasonMarginGood)
	}

	if course.AvailableSpaces > 1 {
		score += w.Slots
		reasons = append(reasons, ReasonSlots)
	}

	switch rating := course.Transporter.Rating; {
	case rating >= th.RatingTop:
		score += w.RatingTop
		reasons = append(reasons, ReasonRatingTop)
	case rating >= th.RatingGood:
		score += w.RatingGood
		reasons = append(reasons, ReasonRatingGood)
	}

	estimatedPrice := exp.Weight * course.PricePerKg
	if exp.MaxBudget != nil && *exp.MaxBudget > 0 {
		switch ratio := estimatedPrice / *exp.MaxBudget; {
		case ratio <= th.PriceVeryGood:
			score += w.PriceVeryGood
			reasons = append(reasons, ReasonPriceVeryGood)
		case ratio <= th.PriceGood:
			score += w.PriceGood
			reasons = append(reasons, ReasonPriceGood)
		case ratio <= 1.0:
			score += w.PriceWithin
			reasons = append(reasons, ReasonPriceWithin)
		}
	}

	return MatchCandidate{
		Course:         course,
		Transporter:    course.Transporter,
		Score:          score,
		EstimatedPrice: estimatedPrice,
		Reasons:        reasons,
	}, true
}

// RequestCount returns the total number of Recommend calls served.
func (e *Engine) RequestCount() int64 {
	return e.requestCount.Load()
}

// ThrottledCount returns the number of Recommend calls rejected by the limiter.
func (e *Engine) ThrottledCount() int64 {
	return e.throttled.Load()
}

// citiesCompatible reports whether two city names refer to a compatible stop.
// The comparison is a bidirectional case-insensitive substring match, which
// deliberately tolerates partial names: "Paris" matches "Paris 15e" and vice
// versa.
func citiesCompatible(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// wholeDaysBetween returns the absolute difference between two instants in
// whole days, truncating partial days.
func wholeDaysBetween(a, b time.Time) int {
	return int(math.Abs(a.Sub(b).Hours()) / 24)
}
