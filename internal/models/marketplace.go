// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

// Package models defines the SendUp domain entities shared between the
// database, matching, ranking and HTTP layers.
package models

import (
	"time"
)

// VehicleClass identifies the transporter's vehicle category.
// The wire values follow the French licence categories used throughout
// the marketplace: "VL" (vehicule leger) and "PL" (poids lourd).
type VehicleClass string

const (
	// VehicleLight is a light vehicle (van, car).
	VehicleLight VehicleClass = "VL"
	// VehicleHeavy is a heavy goods vehicle (truck).
	VehicleHeavy VehicleClass = "PL"
)

// Valid reports whether the vehicle class is a known enumeration value.
func (v VehicleClass) Valid() bool {
	return v == VehicleLight || v == VehicleHeavy
}

// UrgencyLevel expresses how quickly a shipment needs to move.
type UrgencyLevel string

const (
	// UrgencyLow tolerates flexible pickup dates.
	UrgencyLow UrgencyLevel = "low"
	// UrgencyNormal is the default urgency.
	UrgencyNormal UrgencyLevel = "normal"
	// UrgencyHigh needs pickup as close to the stated date as possible.
	UrgencyHigh UrgencyLevel = "high"
)

// ExpeditionStatus tracks the lifecycle of a shipment request.
type ExpeditionStatus string

const (
	// ExpeditionPending is a freshly posted expedition awaiting a match.
	ExpeditionPending ExpeditionStatus = "pending"
	// ExpeditionMatched has an accepted offer.
	ExpeditionMatched ExpeditionStatus = "matched"
	// ExpeditionInTransit is being carried.
	ExpeditionInTransit ExpeditionStatus = "in_transit"
	// ExpeditionDelivered reached its destination.
	ExpeditionDelivered ExpeditionStatus = "delivered"
	// ExpeditionCancelled was withdrawn by its owner.
	ExpeditionCancelled ExpeditionStatus = "cancelled"
)

// CourseStatus tracks the lifecycle of a transporter's scheduled route.
type CourseStatus string

const (
	// CourseAvailable accepts new packages.
	CourseAvailable CourseStatus = "available"
	// CourseFull has no remaining capacity.
	CourseFull CourseStatus = "full"
	// CourseCancelled was withdrawn by its transporter.
	CourseCancelled CourseStatus = "cancelled"
	// CourseCompleted has finished its run.
	CourseCompleted CourseStatus = "completed"
)

// OfferStatus tracks the manual offer/booking workflow.
type OfferStatus string

const (
	// OfferPending awaits a response from the counterparty.
	OfferPending OfferStatus = "pending"
	// OfferAccepted was accepted; expedition and course are booked together.
	OfferAccepted OfferStatus = "accepted"
	// OfferRejected was declined by the counterparty.
	OfferRejected OfferStatus = "rejected"
	// OfferWithdrawn was retracted by its sender before a response.
	OfferWithdrawn OfferStatus = "withdrawn"
)

// Role identifies what a user account can do in the marketplace.
type Role string

const (
	// RoleClient posts expeditions and books courses.
	RoleClient Role = "client"
	// RoleTransporter posts courses and carries expeditions.
	RoleTransporter Role = "transporter"
	// RoleAdmin has full access.
	RoleAdmin Role = "admin"
)

// User is a marketplace account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email" validate:"required,email"`
	Username     string    `json:"username" validate:"required,min=3,max=64"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role" validate:"required,oneof=client transporter admin"`
	Rating       float64   `json:"rating"`
	ReviewCount  int       `json:"review_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Expedition is a client's shipment request.
//
// Weight and Volume are validated at creation time (weight strictly positive,
// volume above the 0.00001 m3 floor); downstream consumers such as the
// matching engine assume those invariants hold.
type Expedition struct {
	ID            string           `json:"id"`
	ClientID      string           `json:"client_id"`
	DepartureCity string           `json:"departure_city" validate:"required,min=1,max=128"`
	ArrivalCity   string           `json:"arrival_city" validate:"required,min=1,max=128"`
	DepartureDate time.Time        `json:"departure_date" validate:"required"`
	Weight        float64          `json:"weight" validate:"required,gt=0"`
	Volume        float64          `json:"volume" validate:"required,gt=0.00001"`
	DeclaredValue *float64         `json:"declared_value,omitempty" validate:"omitempty,gte=0"`
	Fragile       bool             `json:"fragile"`
	RequiresHeavy bool             `json:"requires_heavy_vehicle"`
	MaxBudget     *float64         `json:"max_budget,omitempty" validate:"omitempty,gt=0"`
	Urgency       UrgencyLevel     `json:"urgency" validate:"required,oneof=low normal high"`
	Status        ExpeditionStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// TransporterSummary is the denormalized transporter info carried on a course
// so that scoring and display never need a second lookup.
type TransporterSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}

// Course is a transporter's scheduled route offer.
//
// Stops is the ordered sequence of intermediate city names; order matters for
// display only and plays no role in matching.
type Course struct {
	ID               string             `json:"id"`
	TransporterID    string             `json:"transporter_id"`
	DepartureCity    string             `json:"departure_city" validate:"required,min=1,max=128"`
	ArrivalCity      string             `json:"arrival_city" validate:"required,min=1,max=128"`
	Stops            []string           `json:"stops,omitempty" validate:"max=20,dive,min=1,max=128"`
	DepartureDate    time.Time          `json:"departure_date" validate:"required"`
	EstimatedArrival *time.Time         `json:"estimated_arrival,omitempty"`
	MaxWeight        float64            `json:"max_weight" validate:"required,gt=0"`
	PricePerKg       float64            `json:"price_per_kg" validate:"required,gt=0"`
	MinPackageWeight float64            `json:"min_package_weight" validate:"gte=0"`
	MaxPackageWeight *float64           `json:"max_package_weight,omitempty" validate:"omitempty,gt=0"`
	VehicleClass     VehicleClass       `json:"vehicle_class" validate:"required,oneof=VL PL"`
	AvailableSpaces  int                `json:"available_spaces" validate:"gte=0"`
	Status           CourseStatus       `json:"status"`
	IsActive         bool               `json:"is_active"`
	Transporter      TransporterSummary `json:"transporter"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// Offer is one step of the manual booking workflow: a client proposes to put
// an expedition on a course, or a transporter proposes to carry an expedition.
type Offer struct {
	ID           string      `json:"id"`
	ExpeditionID string      `json:"expedition_id" validate:"required"`
	CourseID     string      `json:"course_id" validate:"required"`
	SenderID     string      `json:"sender_id"`
	Price        float64     `json:"price" validate:"required,gt=0"`
	Message      string      `json:"message,omitempty" validate:"max=2000"`
	Status       OfferStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
