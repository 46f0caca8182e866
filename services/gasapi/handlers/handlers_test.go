// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/gasline/services/gasapi/capacity"
	"github.com/AleutianAI/gasline/services/gasapi/config"
	"github.com/AleutianAI/gasline/services/gasapi/graphdb"
	"github.com/AleutianAI/gasline/services/gasapi/store"
	"github.com/AleutianAI/gasline/services/gasapi/traversal"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeExec replays scripted responses in call order.
type fakeExec struct {
	responses [][]graphdb.Record
	errs      []error
	queries   []string
	params    []map[string]any
}

func (f *fakeExec) Read(_ context.Context, query string, params map[string]any) ([]graphdb.Record, error) {
	f.queries = append(f.queries, query)
	f.params = append(f.params, params)
	i := len(f.queries) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return nil, nil
}

func (f *fakeExec) Write(ctx context.Context, query string, params map[string]any) ([]graphdb.Record, error) {
	return f.Read(ctx, query, params)
}

func testConfig() *config.Config {
	cfg := config.Default()
	return cfg
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	r := gin.New()
	r.GET("/health", HealthCheck)

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestListLocations_Envelope(t *testing.T) {
	exec := &fakeExec{responses: [][]graphdb.Record{{
		{"locationId": int64(9001), "pipelineCode": "ANR", "name": "WOODSTOCK", "direction": "D"},
	}}}
	r := gin.New()
	r.GET("/v1/locations", ListLocations(store.NewStore(exec, nil), testConfig()))

	w := do(r, http.MethodGet, "/v1/locations?pipeline=ANR", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count     int              `json:"count"`
		Locations []map[string]any `json:"locations"`
		Page      struct {
			Skip  int `json:"skip"`
			Limit int `json:"limit"`
		} `json:"page"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Locations, 1)
	assert.Equal(t, "WOODSTOCK", body.Locations[0]["name"])
	assert.Equal(t, 100, body.Page.Limit)
}

func TestListLocations_BadAsOf(t *testing.T) {
	r := gin.New()
	r.GET("/v1/locations", ListLocations(store.NewStore(&fakeExec{}, nil), testConfig()))

	w := do(r, http.MethodGet, "/v1/locations?asOf=notadate", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLocationCapacity_Validation(t *testing.T) {
	r := gin.New()
	agg := capacity.NewAggregator(&fakeExec{}, nil)
	r.GET("/v1/locations/:locationId/capacity/:flowDate", LocationCapacity(agg, testConfig()))

	w := do(r, http.MethodGet, "/v1/locations/abc/capacity/2025-11-01", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/v1/locations/9001/capacity/November", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/v1/locations/9001/capacity/2025-11-01?locQTI=XXX", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPath_RequiresEndpoints(t *testing.T) {
	r := gin.New()
	resolver := traversal.NewResolver(&fakeExec{}, 100, nil)
	r.GET("/v1/paths", GetPath(resolver, testConfig()))

	w := do(r, http.MethodGet, "/v1/paths?from=1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPath_NoPathIsEmptyList(t *testing.T) {
	// Endpoint lookups succeed, the path query returns nothing.
	exec := &fakeExec{responses: [][]graphdb.Record{
		{{"locationId": int64(1), "pipelineCode": "ANR", "name": "A", "direction": "R"}},
		{{"locationId": int64(2), "pipelineCode": "ANR", "name": "B", "direction": "D"}},
		{},
	}}
	r := gin.New()
	resolver := traversal.NewResolver(exec, 100, nil)
	r.GET("/v1/paths", GetPath(resolver, testConfig()))

	w := do(r, http.MethodGet, "/v1/paths?from=1&to=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)
}

func TestGetNotice_NotFound(t *testing.T) {
	exec := &fakeExec{responses: [][]graphdb.Record{{}}}
	r := gin.New()
	r.GET("/v1/notices/:noticeId", GetNotice(store.NewStore(exec, nil)))

	w := do(r, http.MethodGet, "/v1/notices/unknown?pipeline=ANR", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetNotice_PipelineRequired(t *testing.T) {
	exec := &fakeExec{}
	r := gin.New()
	r.GET("/v1/notices/:noticeId", GetNotice(store.NewStore(exec, nil)))

	w := do(r, http.MethodGet, "/v1/notices/N-100", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, exec.queries)
}

func TestRawQuery_WriteIntentRejected(t *testing.T) {
	exec := &fakeExec{}
	r := gin.New()
	r.POST("/v1/query", RawQuery(exec))

	w := do(r, http.MethodPost, "/v1/query", `{"query":"MATCH (n) DETACH DELETE n"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, exec.queries)
}

func TestRawQuery_ReadPassesThrough(t *testing.T) {
	exec := &fakeExec{responses: [][]graphdb.Record{{
		{"name": "WOODSTOCK"},
	}}}
	r := gin.New()
	r.POST("/v1/query", RawQuery(exec))

	w := do(r, http.MethodPost, "/v1/query", `{"query":"MATCH (l:Location) RETURN l.name AS name LIMIT 1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
	assert.Contains(t, w.Body.String(), "WOODSTOCK")
}

func TestIngestLocations_PerRowValidation(t *testing.T) {
	// Row 0 is missing its name; row 1 is valid and applies. The
	// invalid row never reaches the store, and the store's reply for
	// the surviving row maps back to index 1.
	exec := &fakeExec{responses: [][]graphdb.Record{{
		{"i": int64(0), "applied": true},
	}}}
	r := gin.New()
	r.POST("/v1/ingest/locations", IngestLocations(store.NewStore(exec, nil)))

	body := `[
	  {"pipeline_code":"ANR","location_id":1,"direction":"R","effective_date":"2024-01-01"},
	  {"pipeline_code":"ANR","location_id":2,"name":"WOODSTOCK","direction":"D","effective_date":"2024-01-01"}
	]`
	w := do(r, http.MethodPost, "/v1/ingest/locations", body)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Received  int `json:"received"`
		Applied   int `json:"applied"`
		Ignored   int `json:"ignored"`
		RowErrors []struct {
			Index   int    `json:"index"`
			Message string `json:"message"`
		} `json:"row_errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Received)
	assert.Equal(t, 1, result.Applied)
	require.Len(t, result.RowErrors, 1)
	assert.Equal(t, 0, result.RowErrors[0].Index)
	assert.Contains(t, result.RowErrors[0].Message, "Name")

	// Only the valid row was sent to the graph
	batch := exec.params[0]["rows"].([]map[string]any)
	require.Len(t, batch, 1)
	assert.Equal(t, int64(2), batch[0]["locationId"])
}

func TestIngestLocations_MalformedBody(t *testing.T) {
	r := gin.New()
	r.POST("/v1/ingest/locations", IngestLocations(store.NewStore(&fakeExec{}, nil)))

	w := do(r, http.MethodPost, "/v1/ingest/locations", `{"not":"an array"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateNominations_PerRowValidation(t *testing.T) {
	// Row 0 carries an unknown cycle and is reported by index; row 1
	// survives to the store and applies.
	exec := &fakeExec{responses: [][]graphdb.Record{{
		{"i": int64(0), "applied": true},
	}}}
	r := gin.New()
	r.POST("/v1/nominations", CreateNominations(store.NewStore(exec, nil)))

	body := `[
	  {"nom_id":"NOM-1","pipeline_code":"ANR","contract_id":"K-1","receipt_location_id":1,"delivery_location_id":2,"flow_date":"2025-11-01","cycle":"OVERNIGHT"},
	  {"nom_id":"NOM-2","pipeline_code":"ANR","contract_id":"K-1","receipt_location_id":1,"delivery_location_id":2,"flow_date":"2025-11-01","cycle":"TIMELY"}
	]`
	w := do(r, http.MethodPost, "/v1/nominations", body)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Received  int `json:"received"`
		Applied   int `json:"applied"`
		RowErrors []struct {
			Index   int    `json:"index"`
			Message string `json:"message"`
		} `json:"row_errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Received)
	assert.Equal(t, 1, result.Applied)
	require.Len(t, result.RowErrors, 1)
	assert.Equal(t, 0, result.RowErrors[0].Index)
	assert.Contains(t, result.RowErrors[0].Message, "Cycle")

	batch := exec.params[0]["rows"].([]map[string]any)
	require.Len(t, batch, 1)
	assert.Equal(t, "NOM-2", batch[0]["nomId"])
}

func TestIngestNotices_BroadcastsApplied(t *testing.T) {
	exec := &fakeExec{responses: [][]graphdb.Record{{
		{"i": int64(0), "applied": true},
		{"i": int64(1), "applied": false},
	}}}
	hub := NewNoticeHub()
	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	r := gin.New()
	r.POST("/v1/ingest/notices", IngestNotices(store.NewStore(exec, nil), hub))

	body := `[
	  {"pipeline_code":"ANR","notice_id":"N-1","subject":"Fresh","posting_datetime":"2025-11-01T08:00:00Z","effective_datetime":"2025-11-02T09:00:00Z","last_modified_datetime":"2025-11-01T08:00:00Z"},
	  {"pipeline_code":"ANR","notice_id":"N-1","subject":"Stale","posting_datetime":"2025-10-01T08:00:00Z","effective_datetime":"2025-11-02T09:00:00Z","last_modified_datetime":"2025-10-01T08:00:00Z"}
	]`
	w := do(r, http.MethodPost, "/v1/ingest/notices", body)
	require.Equal(t, http.StatusOK, w.Code)

	select {
	case n := <-ch:
		assert.Equal(t, "Fresh", n.Subject)
	default:
		t.Fatal("expected an applied notice on the stream")
	}
	select {
	case n := <-ch:
		t.Fatalf("stale notice should not stream, got %q", n.Subject)
	default:
	}
}
