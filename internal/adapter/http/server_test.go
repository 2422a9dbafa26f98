package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "github.com/couchcryptid/agri-data-etl/internal/adapter/http"
	"github.com/couchcryptid/agri-data-etl/internal/analysis"
	"github.com/couchcryptid/agri-data-etl/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockExecutor struct {
	result analysis.Result
	err    error
	plan   analysis.QueryPlan
}

func (m *mockExecutor) Execute(_ context.Context, plan analysis.QueryPlan) (analysis.Result, error) {
	m.plan = plan
	if m.err != nil {
		return analysis.Result{}, m.err
	}
	return m.result, nil
}

func newTestServer(readyErr error, exec *mockExecutor) *httpadapter.Server {
	if exec == nil {
		exec = &mockExecutor{}
	}
	return httpadapter.NewServer(":0", &mockReadiness{err: readyErr}, exec, observability.NewMetricsForTesting(), slog.Default())
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(fmt.Errorf("not ready yet"), nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestQueryReturnsResult(t *testing.T) {
	exec := &mockExecutor{result: analysis.Result{
		Answer:     "Karnataka had higher Rice production in 2015.",
		Confidence: 0.82,
		Citations:  []analysis.Citation{{Name: "crop production", ResourceID: "res-prod"}},
	}}
	srv := newTestServer(nil, exec)

	body := `{"intent":"comparison","metric":"production","states":["Karnataka","Tamil Nadu"],"crops":["Rice"],"year_start":2015}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(body))

	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, analysis.IntentComparison, exec.plan.Intent)
	assert.Equal(t, []string{"Karnataka", "Tamil Nadu"}, exec.plan.States)

	var result analysis.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 0.82, result.Confidence)
	require.Len(t, result.Citations, 1)
	assert.Equal(t, "res-prod", result.Citations[0].ResourceID)
}

func TestQueryRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader("{not json"))

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryRejectsInvalidPlan(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"intent":"guess","metric":"production","states":["Kerala"]}`))

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown intent")
}

func TestQueryExecutionFailure(t *testing.T) {
	exec := &mockExecutor{err: errors.New("upstream api down")}
	srv := newTestServer(nil, exec)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"intent":"trends","metric":"rainfall","states":["Kerala"]}`))

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	// Upstream detail stays in logs, not the response.
	assert.NotContains(t, rec.Body.String(), "upstream api down")
}
