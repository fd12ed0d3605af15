// Filmgraph - Film Catalog and Graph Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmgraph

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

func getGaugeValue(gauge prometheus.Gauge) float64 {
	var m io_prometheus_client.Metric
	if err := gauge.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/films", "200"))

	RecordAPIRequest("GET", "/api/v1/films", "200", 12*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/films", "200"))
	if after != before+1 {
		t.Errorf("api_requests_total = %v, want %v", after, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := getGaugeValue(APIActiveRequests)

	TrackActiveRequest(true)
	if got := getGaugeValue(APIActiveRequests); got != before+1 {
		t.Errorf("after inc gauge = %v, want %v", got, before+1)
	}

	TrackActiveRequest(false)
	if got := getGaugeValue(APIActiveRequests); got != before {
		t.Errorf("after dec gauge = %v, want %v", got, before)
	}
}

func TestRecordSPARQLQuery(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		err     error
		outcome string
	}{
		{"success", "catalog", nil, "success"},
		{"failure", "relation_actor", errors.New("connection refused"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := SPARQLQueriesTotal.WithLabelValues(tt.kind, tt.outcome)
			before := testutil.ToFloat64(c)

			RecordSPARQLQuery(tt.kind, 30*time.Millisecond, 7, tt.err)

			if got := testutil.ToFloat64(c); got != before+1 {
				t.Errorf("sparql_queries_total{%s,%s} = %v, want %v", tt.kind, tt.outcome, got, before+1)
			}
		})
	}
}

func TestRecordRecommendation(t *testing.T) {
	success := RecommendationRequests.WithLabelValues("success")
	failed := RecommendationRequests.WithLabelValues("failed")
	beforeOK := testutil.ToFloat64(success)
	beforeFail := testutil.ToFloat64(failed)

	RecordRecommendation(3, nil)
	RecordRecommendation(0, errors.New("fan-out failed"))

	if got := testutil.ToFloat64(success); got != beforeOK+1 {
		t.Errorf("success counter = %v, want %v", got, beforeOK+1)
	}
	if got := testutil.ToFloat64(failed); got != beforeFail+1 {
		t.Errorf("failed counter = %v, want %v", got, beforeFail+1)
	}
}

func TestRecordPosterLookup(t *testing.T) {
	c := PosterLookups.WithLabelValues("absent")
	before := testutil.ToFloat64(c)

	RecordPosterLookup("absent")

	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("poster_lookups_total{absent} = %v, want %v", got, before+1)
	}
}
