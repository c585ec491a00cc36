// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package matching

import (
	"github.com/margoul1Malin/sendup/internal/models"
)

// Reason strings attached to match candidates. They are part of the API
// contract: clients display them verbatim, so treat changes as breaking.
const (
	// ReasonCityMatch is attached to every surviving candidate.
	ReasonCityMatch = "route compatible with your cities"

	// ReasonHeavyVehicle is attached when a required heavy vehicle is provided.
	ReasonHeavyVehicle = "heavy vehicle available"

	// ReasonCapacity is attached to every surviving candidate.
	ReasonCapacity = "sufficient weight capacity"

	// Date proximity tiers, mutually exclusive.
	ReasonDateExact      = "exact date"
	ReasonDateVeryClose  = "very close date"
	ReasonDateClose      = "close date"
	ReasonDateAcceptable = "acceptable date"

	// Spare capacity tiers, mutually exclusive.
	ReasonMarginLarge = "large capacity available"
	ReasonMarginGood  = "good capacity available"

	// ReasonSlots is attached when more than one space remains.
	ReasonSlots = "several slots available"

	// Transporter rating tiers, mutually exclusive.
	ReasonRatingTop  = "highly rated transporter"
	ReasonRatingGood = "well-rated transporter"

	// Price attractiveness tiers, mutually exclusive; only evaluated when
	// the expedition declares a maximum budget.
	ReasonPriceVeryGood = "very advantageous price"
	ReasonPriceGood     = "attractive price"
	ReasonPriceWithin   = "within your budget"
)

// MatchCandidate is one course that survived hard filtering against an
// expedition, with its accumulated score and the reasons it was awarded.
// Candidates are built fresh per request and never persisted.
type MatchCandidate struct {
	// Course is the matched route offer.
	Course models.Course `json:"course"`

	// Transporter is the course's denormalized transporter summary.
	Transporter models.TransporterSummary `json:"transporter"`

	// Score is the sum of weighted signals. Unbounded above, practically
	// capped around 300 with the default weights.
	Score int `json:"score"`

	// EstimatedPrice is expedition weight times the course price per kg.
	EstimatedPrice float64 `json:"estimated_price"`

	// Reasons explains the score, in evaluation order.
	Reasons []string `json:"reasons"`
}
