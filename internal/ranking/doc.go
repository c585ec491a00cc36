// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

// Package ranking orders marketplace listings by a user-selected set of sort
// criteria.
//
// Each criterion pairs a numeric extractor with a fixed preference direction
// (earliest departure prefers the minimum, transporter rating the maximum).
// With a single active criterion the result is a plain stable sort. With two
// or more, entities are ordered by how many criteria they are best-in-class
// on, ties broken by their summed per-criterion rank. This vote-counting
// scheme deliberately favors listings that dominate several dimensions at
// once over weighted averages; it is neither a linear scalarization nor a
// Pareto front.
//
// Ranking never fails: empty inputs yield empty outputs and unknown criterion
// names are ignored.
package ranking
