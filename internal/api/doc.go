// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

// Package api provides the HTTP surface of the marketplace on the Chi
// router.
//
// Route groups and their middleware:
//   - /api/v1/health: permissive rate limit, no authentication
//   - /api/v1/auth: strict rate limit against credential stuffing
//   - /api/v1: authenticated API with the default rate limit; mutating
//     expedition/course routes additionally carry role guards
//   - /metrics: Prometheus scrape endpoint
//
// Every response uses the models.APIResponse envelope.
package api
