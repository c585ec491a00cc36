// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/margoul1Malin/sendup/internal/config"
	"github.com/margoul1Malin/sendup/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Path:      filepath.Join(t.TempDir(), "test.duckdb"),
		MaxMemory: "256MB",
		Threads:   2,
	}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return db
}

func newTestUser(t *testing.T, db *DB, email string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		Username:     "user-" + email,
		PasswordHash: "$2a$12$notarealhashnotarealhashnotarealhash",
		Role:         role,
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func newTestExpedition(t *testing.T, db *DB, clientID string) *models.Expedition {
	t.Helper()

	exp := &models.Expedition{
		ClientID:      clientID,
		DepartureCity: "Paris",
		ArrivalCity:   "Lyon",
		DepartureDate: time.Now().Add(48 * time.Hour).UTC(),
		Weight:        100,
		Volume:        1.5,
		Urgency:       models.UrgencyNormal,
	}
	if err := db.CreateExpedition(context.Background(), exp); err != nil {
		t.Fatalf("failed to create test expedition: %v", err)
	}
	return exp
}

func newTestCourse(t *testing.T, db *DB, transporterID string, spaces int) *models.Course {
	t.Helper()

	course := &models.Course{
		TransporterID:   transporterID,
		DepartureCity:   "Paris",
		ArrivalCity:     "Lyon",
		Stops:           []string{"Dijon"},
		DepartureDate:   time.Now().Add(48 * time.Hour).UTC(),
		MaxWeight:       500,
		PricePerKg:      1.2,
		VehicleClass:    models.VehicleLight,
		AvailableSpaces: spaces,
		IsActive:        true,
	}
	if err := db.CreateCourse(context.Background(), course); err != nil {
		t.Fatalf("failed to create test course: %v", err)
	}
	return course
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestCreateUserAndLookup(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := newTestUser(t, db, "alice@example.com", models.RoleClient)
	if user.ID == "" {
		t.Fatal("CreateUser must assign an ID")
	}

	byID, err := db.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error: %v", err)
	}
	if byID.Email != "alice@example.com" {
		t.Errorf("Email = %q, want alice@example.com", byID.Email)
	}

	byEmail, err := db.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("lookup by email returned different user: %s != %s", byEmail.ID, user.ID)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := newTestDB(t)

	newTestUser(t, db, "dup@example.com", models.RoleClient)

	err := db.CreateUser(context.Background(), &models.User{
		Email:        "dup@example.com",
		Username:     "other",
		PasswordHash: "x",
		Role:         models.RoleTransporter,
	})
	if !errors.Is(err, ErrEmailConflict) {
		t.Errorf("CreateUser duplicate = %v, want ErrEmailConflict", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "missing")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUserByID(missing) = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateUserRating(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := newTestUser(t, db, "rated@example.com", models.RoleTransporter)

	if err := db.UpdateUserRating(ctx, user.ID, 5); err != nil {
		t.Fatalf("UpdateUserRating() error: %v", err)
	}
	if err := db.UpdateUserRating(ctx, user.ID, 3); err != nil {
		t.Fatalf("UpdateUserRating() error: %v", err)
	}

	got, err := db.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ReviewCount != 2 {
		t.Errorf("ReviewCount = %d, want 2", got.ReviewCount)
	}
	if got.Rating != 4 {
		t.Errorf("Rating = %v, want running average 4", got.Rating)
	}
}

func TestExpeditionLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	client := newTestUser(t, db, "client@example.com", models.RoleClient)
	exp := newTestExpedition(t, db, client.ID)

	if exp.Status != models.ExpeditionPending {
		t.Fatalf("new expedition status = %s, want pending", exp.Status)
	}

	// pending -> delivered skips states and must fail.
	err := db.UpdateExpeditionStatus(ctx, exp.ID, client.ID, models.ExpeditionDelivered)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("pending->delivered = %v, want ErrInvalidTransition", err)
	}

	// Another user cannot transition it.
	err = db.UpdateExpeditionStatus(ctx, exp.ID, "someone-else", models.ExpeditionCancelled)
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("foreign update = %v, want ErrNotOwner", err)
	}

	for _, status := range []models.ExpeditionStatus{
		models.ExpeditionMatched, models.ExpeditionInTransit, models.ExpeditionDelivered,
	} {
		if err := db.UpdateExpeditionStatus(ctx, exp.ID, client.ID, status); err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
	}

	got, err := db.GetExpedition(ctx, exp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.ExpeditionDelivered {
		t.Errorf("final status = %s, want delivered", got.Status)
	}
}

func TestListExpeditionsFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := newTestUser(t, db, "alice@example.com", models.RoleClient)
	bob := newTestUser(t, db, "bob@example.com", models.RoleClient)
	newTestExpedition(t, db, alice.ID)
	newTestExpedition(t, db, alice.ID)
	newTestExpedition(t, db, bob.ID)

	mine, err := db.ListExpeditions(ctx, ExpeditionFilter{ClientID: alice.ID})
	if err != nil {
		t.Fatalf("ListExpeditions() error: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("client filter returned %d expeditions, want 2", len(mine))
	}

	limited, err := db.ListExpeditions(ctx, ExpeditionFilter{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d expeditions", len(limited))
	}
}

func TestDeleteExpeditionOwnership(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	client := newTestUser(t, db, "client@example.com", models.RoleClient)
	exp := newTestExpedition(t, db, client.ID)

	if err := db.DeleteExpedition(ctx, exp.ID, "intruder"); !errors.Is(err, ErrNotOwner) {
		t.Errorf("foreign delete = %v, want ErrNotOwner", err)
	}

	if err := db.DeleteExpedition(ctx, exp.ID, client.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}

	if _, err := db.GetExpedition(ctx, exp.ID); !errors.Is(err, ErrExpeditionNotFound) {
		t.Errorf("after delete = %v, want ErrExpeditionNotFound", err)
	}
}

func TestCourseRoundTripWithTransporter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	transporter := newTestUser(t, db, "trans@example.com", models.RoleTransporter)
	if err := db.UpdateUserRating(ctx, transporter.ID, 4.6); err != nil {
		t.Fatal(err)
	}
	course := newTestCourse(t, db, transporter.ID, 2)

	got, err := db.GetCourse(ctx, course.ID)
	if err != nil {
		t.Fatalf("GetCourse() error: %v", err)
	}
	if got.Transporter.ID != transporter.ID {
		t.Errorf("Transporter.ID = %q, want %q", got.Transporter.ID, transporter.ID)
	}
	if got.Transporter.Rating != 4.6 {
		t.Errorf("Transporter.Rating = %v, want 4.6", got.Transporter.Rating)
	}
	if len(got.Stops) != 1 || got.Stops[0] != "Dijon" {
		t.Errorf("Stops = %v, want [Dijon]", got.Stops)
	}
}

func TestCandidateCoursesWindow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	transporter := newTestUser(t, db, "trans@example.com", models.RoleTransporter)
	wanted := time.Now().Add(72 * time.Hour).UTC()

	inWindow := newTestCourse(t, db, transporter.ID, 2)

	tooEarly := &models.Course{
		TransporterID:   transporter.ID,
		DepartureCity:   "Paris",
		ArrivalCity:     "Lyon",
		DepartureDate:   wanted.Add(-10 * 24 * time.Hour),
		MaxWeight:       500,
		PricePerKg:      1,
		VehicleClass:    models.VehicleLight,
		AvailableSpaces: 1,
		IsActive:        true,
	}
	if err := db.CreateCourse(ctx, tooEarly); err != nil {
		t.Fatal(err)
	}

	inactive := newTestCourse(t, db, transporter.ID, 2)
	if err := db.SetCourseActive(ctx, inactive.ID, transporter.ID, false); err != nil {
		t.Fatal(err)
	}

	candidates, err := db.CandidateCourses(ctx, wanted)
	if err != nil {
		t.Fatalf("CandidateCourses() error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("CandidateCourses returned %d courses, want 1", len(candidates))
	}
	if candidates[0].ID != inWindow.ID {
		t.Errorf("candidate = %s, want %s", candidates[0].ID, inWindow.ID)
	}
}

func TestAcceptOfferFlow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	client := newTestUser(t, db, "client@example.com", models.RoleClient)
	transporter := newTestUser(t, db, "trans@example.com", models.RoleTransporter)
	exp := newTestExpedition(t, db, client.ID)
	course := newTestCourse(t, db, transporter.ID, 1)

	offer := &models.Offer{
		ExpeditionID: exp.ID,
		CourseID:     course.ID,
		SenderID:     client.ID,
		Price:        120,
		Message:      "fragile boxes",
	}
	if err := db.CreateOffer(ctx, offer); err != nil {
		t.Fatalf("CreateOffer() error: %v", err)
	}

	competing := &models.Offer{
		ExpeditionID: exp.ID,
		CourseID:     course.ID,
		SenderID:     transporter.ID,
		Price:        140,
	}
	if err := db.CreateOffer(ctx, competing); err != nil {
		t.Fatal(err)
	}

	if err := db.AcceptOffer(ctx, offer.ID); err != nil {
		t.Fatalf("AcceptOffer() error: %v", err)
	}

	gotOffer, err := db.GetOffer(ctx, offer.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotOffer.Status != models.OfferAccepted {
		t.Errorf("offer status = %s, want accepted", gotOffer.Status)
	}

	gotCompeting, err := db.GetOffer(ctx, competing.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotCompeting.Status != models.OfferRejected {
		t.Errorf("competing offer status = %s, want rejected", gotCompeting.Status)
	}

	gotCourse, err := db.GetCourse(ctx, course.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotCourse.AvailableSpaces != 0 {
		t.Errorf("AvailableSpaces = %d, want 0", gotCourse.AvailableSpaces)
	}
	if gotCourse.Status != models.CourseFull {
		t.Errorf("course status = %s, want full", gotCourse.Status)
	}

	gotExp, err := db.GetExpedition(ctx, exp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotExp.Status != models.ExpeditionMatched {
		t.Errorf("expedition status = %s, want matched", gotExp.Status)
	}

	// A second acceptance must fail: the offer is no longer pending.
	if err := db.AcceptOffer(ctx, offer.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("double accept = %v, want ErrInvalidTransition", err)
	}
}

func TestAcceptOfferNoCapacity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	client := newTestUser(t, db, "client@example.com", models.RoleClient)
	transporter := newTestUser(t, db, "trans@example.com", models.RoleTransporter)
	course := newTestCourse(t, db, transporter.ID, 1)

	first := newTestExpedition(t, db, client.ID)
	second := newTestExpedition(t, db, client.ID)

	offerA := &models.Offer{ExpeditionID: first.ID, CourseID: course.ID, SenderID: client.ID, Price: 100}
	offerB := &models.Offer{ExpeditionID: second.ID, CourseID: course.ID, SenderID: client.ID, Price: 100}
	if err := db.CreateOffer(ctx, offerA); err != nil {
		t.Fatal(err)
	}
	if err := db.CreateOffer(ctx, offerB); err != nil {
		t.Fatal(err)
	}

	if err := db.AcceptOffer(ctx, offerA.ID); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}
	if err := db.AcceptOffer(ctx, offerB.ID); !errors.Is(err, ErrNoCapacity) {
		t.Errorf("accept on full course = %v, want ErrNoCapacity", err)
	}
}

func TestWithdrawOffer(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	client := newTestUser(t, db, "client@example.com", models.RoleClient)
	transporter := newTestUser(t, db, "trans@example.com", models.RoleTransporter)
	exp := newTestExpedition(t, db, client.ID)
	course := newTestCourse(t, db, transporter.ID, 1)

	offer := &models.Offer{ExpeditionID: exp.ID, CourseID: course.ID, SenderID: client.ID, Price: 100}
	if err := db.CreateOffer(ctx, offer); err != nil {
		t.Fatal(err)
	}

	if err := db.WithdrawOffer(ctx, offer.ID, transporter.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("foreign withdraw = %v, want ErrNotOwner", err)
	}

	if err := db.WithdrawOffer(ctx, offer.ID, client.ID); err != nil {
		t.Fatalf("WithdrawOffer() error: %v", err)
	}

	got, err := db.GetOffer(ctx, offer.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.OfferWithdrawn {
		t.Errorf("status = %s, want withdrawn", got.Status)
	}
}
