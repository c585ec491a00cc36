// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

// Package auth implements account authentication for the marketplace.
//
// Access tokens are short-lived JWTs signed with HMAC-SHA256; refresh
// sessions are server-side records in a pluggable SessionStore (BadgerDB for
// persistence across restarts, in-memory for tests). Passwords are hashed
// with bcrypt.
//
// The HTTP middleware accepts the access token either as an
// "Authorization: Bearer" header or as the "sendup_token" cookie, and places
// the verified claims on the request context for handlers and the role
// guard.
package auth
