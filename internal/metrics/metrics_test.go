// SendUp - Peer-to-Peer Freight Marketplace
// Copyright 2026 margoul1Malin
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/margoul1Malin/sendup

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQuery(t *testing.T) {
	RecordDBQuery("select", "expeditions", 5*time.Millisecond, nil)

	if got := testutil.CollectAndCount(DBQueryDuration); got < 1 {
		t.Errorf("DBQueryDuration series count = %d, want >= 1", got)
	}
}

func TestRecordDBQueryError(t *testing.T) {
	RecordDBQuery("insert", "offers", time.Millisecond, errors.New("boom"))

	got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("insert", "offers"))
	if got < 1 {
		t.Errorf("DBQueryErrors = %v, want >= 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	RecordAPIRequest("GET", "/api/v1/courses", "200", 10*time.Millisecond)

	got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/courses", "200"))
	if got < 1 {
		t.Errorf("APIRequestsTotal = %v, want >= 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != start+1 {
		t.Errorf("APIActiveRequests after inc = %v, want %v", got, start+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("APIActiveRequests after dec = %v, want %v", got, start)
	}
}

func TestRecordAuthAttempt(t *testing.T) {
	RecordAuthAttempt("login", true)
	RecordAuthAttempt("login", false)

	if got := testutil.ToFloat64(AuthAttempts.WithLabelValues("login", "success")); got < 1 {
		t.Errorf("AuthAttempts success = %v, want >= 1", got)
	}
	if got := testutil.ToFloat64(AuthAttempts.WithLabelValues("login", "failure")); got < 1 {
		t.Errorf("AuthAttempts failure = %v, want >= 1", got)
	}
}

func TestRecordOfferTransition(t *testing.T) {
	before := testutil.ToFloat64(OfferTransitions.WithLabelValues("accepted"))
	RecordOfferTransition("accepted")
	after := testutil.ToFloat64(OfferTransitions.WithLabelValues("accepted"))

	if after != before+1 {
		t.Errorf("OfferTransitions accepted: before=%v after=%v", before, after)
	}
}
