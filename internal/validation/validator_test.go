// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// shipmentRequest mirrors the shape of the expedition create payload.
type shipmentRequest struct {
	DepartureCity string  `validate:"required,city"`
	ArrivalCity   string  `validate:"required,city"`
	Weight        float64 `validate:"gt=0"`
	Volume        float64 `validate:"gt=0"`
	Urgency       string  `validate:"omitempty,oneof=low normal high"`
	ContactEmail  string  `validate:"omitempty,email"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input shipmentRequest
	}{
		{
			name: "all fields set",
			input: shipmentRequest{
				DepartureCity: "Paris",
				ArrivalCity:   "Lyon",
				Weight:        120,
				Volume:        0.8,
				Urgency:       "high",
				ContactEmail:  "client@example.com",
			},
		},
		{
			name: "optional fields omitted",
			input: shipmentRequest{
				DepartureCity: "Marseille",
				ArrivalCity:   "Lille",
				Weight:        1,
				Volume:        0.01,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(&tt.input); err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     shipmentRequest
		wantField string
		wantTag   string
	}{
		{
			name: "missing departure city",
			input: shipmentRequest{
				ArrivalCity: "Lyon",
				Weight:      10,
				Volume:      1,
			},
			wantField: "DepartureCity",
			wantTag:   "required",
		},
		{
			name: "whitespace-only city",
			input: shipmentRequest{
				DepartureCity: "   ",
				ArrivalCity:   "Lyon",
				Weight:        10,
				Volume:        1,
			},
			wantField: "DepartureCity",
			wantTag:   "city",
		},
		{
			name: "zero weight",
			input: shipmentRequest{
				DepartureCity: "Paris",
				ArrivalCity:   "Lyon",
				Weight:        0,
				Volume:        1,
			},
			wantField: "Weight",
			wantTag:   "gt",
		},
		{
			name: "unknown urgency",
			input: shipmentRequest{
				DepartureCity: "Paris",
				ArrivalCity:   "Lyon",
				Weight:        10,
				Volume:        1,
				Urgency:       "extreme",
			},
			wantField: "Urgency",
			wantTag:   "oneof",
		},
		{
			name: "bad email",
			input: shipmentRequest{
				DepartureCity: "Paris",
				ArrivalCity:   "Lyon",
				Weight:        10,
				Volume:        1,
				ContactEmail:  "not-an-email",
			},
			wantField: "ContactEmail",
			wantTag:   "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() expected error, got nil")
			}

			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("expected 1 validation error, got %d: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	input := shipmentRequest{Urgency: "extreme"}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("expected validation errors, got nil")
	}

	if len(err.Errors()) < 3 {
		t.Errorf("expected at least 3 errors, got %d", len(err.Errors()))
	}

	// Combined message lists each failing field.
	msg := err.Error()
	for _, field := range []string{"DepartureCity", "ArrivalCity", "Weight"} {
		if !strings.Contains(msg, field) {
			t.Errorf("Error() = %q, missing field %s", msg, field)
		}
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	input := shipmentRequest{
		DepartureCity: "Paris",
		ArrivalCity:   "Lyon",
		Weight:        -5,
		Volume:        1,
	}

	verr := ValidateStruct(&input)
	if verr == nil {
		t.Fatal("expected validation error")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Details["field"] != "Weight" {
		t.Errorf("Details[field] = %v, want Weight", apiErr.Details["field"])
	}
	if !strings.Contains(apiErr.Message, "greater than") {
		t.Errorf("Message = %q, expected gt translation", apiErr.Message)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	input := shipmentRequest{}

	verr := ValidateStruct(&input)
	if verr == nil {
		t.Fatal("expected validation error")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}

	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details[fields] has unexpected type %T", apiErr.Details["fields"])
	}
	if len(fields) != len(verr.Errors()) {
		t.Errorf("fields length = %d, want %d", len(fields), len(verr.Errors()))
	}
}

func TestTranslateError_Messages(t *testing.T) {
	type tagged struct {
		Email string `validate:"required,email"`
		Role  string `validate:"required,oneof=client transporter admin"`
		Name  string `validate:"required,min=3,max=50"`
	}

	tests := []struct {
		name     string
		input    tagged
		contains string
	}{
		{"required", tagged{}, "Email is required"},
		{"email format", tagged{Email: "x", Role: "client", Name: "abc"}, "valid email address"},
		{"oneof", tagged{Email: "a@b.co", Role: "pilot", Name: "abc"}, "must be one of"},
		{"string min", tagged{Email: "a@b.co", Role: "client", Name: "ab"}, "at least 3 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Error() = %q, want substring %q", err.Error(), tt.contains)
			}
		})
	}
}
