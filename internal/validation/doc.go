// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a thread-safe
// singleton validator instance with custom validators and user-friendly error
// messages. It integrates with the application's API error format for consistent
// error responses.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - A custom "city" validator rejecting blank or whitespace-only city names
//   - Comprehensive error translation to human-readable messages
//   - APIError conversion matching the application's error format
//
// # Quick Start
//
//	type CreateExpeditionRequest struct {
//	    DepartureCity string  `validate:"required,city"`
//	    ArrivalCity   string  `validate:"required,city"`
//	    Weight        float64 `validate:"gt=0"`
//	    Urgency       string  `validate:"omitempty,oneof=low normal high"`
//	}
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    var req CreateExpeditionRequest
//	    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
//	        // handle decode error
//	    }
//
//	    if verr := validation.ValidateStruct(&req); verr != nil {
//	        apiErr := verr.ToAPIError()
//	        respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	        return
//	    }
//	}
package validation
