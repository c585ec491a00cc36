// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

// Package matching scores transporter courses against a client expedition and
// produces the top-N recommendations with human-readable reasons.
//
// The engine applies hard filters first (route compatibility, vehicle class,
// weight capacity); a course failing any filter contributes nothing to the
// output. Surviving courses accumulate weighted signals (date proximity,
// spare capacity, transporter rating, price attractiveness) and are returned
// ordered by score.
//
// Scoring is a pure computation over candidates the caller has already
// loaded; the package performs no I/O and keeps no state between calls apart
// from an optional request rate limiter.
package matching
