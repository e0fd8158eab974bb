package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ak-9647/financial-MAS-Project/api"
	"github.com/Ak-9647/financial-MAS-Project/domain"
	"github.com/Ak-9647/financial-MAS-Project/history"
	"github.com/Ak-9647/financial-MAS-Project/policy"
)

type stubSubmitter struct {
	result   *domain.AnalysisResult
	err      error
	gotQuery string
}

func (s *stubSubmitter) Submit(ctx context.Context, query string) (*domain.AnalysisResult, error) {
	s.gotQuery = query
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubProber struct {
	snapshot domain.Snapshot
}

func (s stubProber) PollAll(ctx context.Context) domain.Snapshot {
	return s.snapshot
}

type stubSource struct {
	snapshot domain.Snapshot
}

func (s stubSource) Latest() domain.Snapshot {
	return s.snapshot
}

type testDeps struct {
	handler *api.Handler
	ledger  *history.Ledger
	gateway *stubSubmitter
}

func newTestDeps(t *testing.T, source api.SnapshotSource, prober stubProber) testDeps {
	t.Helper()
	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	ledger := history.NewLedger(history.NewMemoryKV(), 50)
	gw := &stubSubmitter{result: &domain.AnalysisResult{Summary: "done"}}
	return testDeps{
		handler: api.NewHandler(prober, source, gw, ledger, engine, nil),
		ledger:  ledger,
		gateway: gw,
	}
}

func TestHealth(t *testing.T) {
	e := echo.New()
	deps := newTestDeps(t, nil, stubProber{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, deps.handler.Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAgentStatusUsesLatestSnapshot(t *testing.T) {
	e := echo.New()
	snapshot := domain.Snapshot{
		"orchestrator":  {Online: true, LastCheck: time.Now()},
		"dataGathering": {Online: false, LastCheck: time.Now(), Error: "connection refused"},
	}
	deps := newTestDeps(t, stubSource{snapshot: snapshot}, stubProber{})

	req := httptest.NewRequest(http.MethodGet, "/api/agents/status", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, deps.handler.AgentStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.True(t, got["orchestrator"].Online)
	assert.Equal(t, "connection refused", got["dataGathering"].Error)
}

func TestAgentStatusPollsOnDemand(t *testing.T) {
	e := echo.New()
	prober := stubProber{snapshot: domain.Snapshot{
		"orchestrator": {Online: true, LastCheck: time.Now()},
	}}
	// No completed cycle yet: Latest returns nil.
	deps := newTestDeps(t, stubSource{}, prober)

	req := httptest.NewRequest(http.MethodGet, "/api/agents/status", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, deps.handler.AgentStatus(c))

	var got domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.True(t, got["orchestrator"].Online)
}

func TestSubmitAnalysis(t *testing.T) {
	e := echo.New()
	deps := newTestDeps(t, nil, stubProber{})

	req := httptest.NewRequest(http.MethodPost, "/api/analysis", strings.NewReader(`{"query":"analyze NVDA"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, deps.handler.SubmitAnalysis(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "analyze NVDA", deps.gateway.gotQuery)

	var resp struct {
		Result domain.AnalysisResult `json:"result"`
		Record domain.AnalysisRecord `json:"record"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "done", resp.Result.Summary)
	assert.NotEmpty(t, resp.Record.ID)

	records := deps.ledger.List()
	require.Len(t, records, 1)
	assert.Equal(t, "analyze NVDA", records[0].Query)
}

func TestSubmitAnalysisBlockedByPolicy(t *testing.T) {
	e := echo.New()
	deps := newTestDeps(t, nil, stubProber{})

	req := httptest.NewRequest(http.MethodPost, "/api/analysis", strings.NewReader(`{"query":"   "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, deps.handler.SubmitAnalysis(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, deps.ledger.List())
}

func TestSubmitAnalysisGatewayFailure(t *testing.T) {
	e := echo.New()
	deps := newTestDeps(t, nil, stubProber{})
	deps.gateway.err = &domain.RequestError{
		StatusCode: http.StatusInternalServerError,
		Message:    "coordinator unavailable",
	}

	req := httptest.NewRequest(http.MethodPost, "/api/analysis", strings.NewReader(`{"query":"q"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, deps.handler.SubmitAnalysis(c))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "coordinator unavailable", resp["error"])
	assert.Empty(t, deps.ledger.List())
}

func TestGetHistory(t *testing.T) {
	e := echo.New()
	deps := newTestDeps(t, nil, stubProber{})

	_, err := deps.ledger.Append("first", nil, "1.0s")
	require.NoError(t, err)
	_, err = deps.ledger.Append("second", nil, "2.0s")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, deps.handler.GetHistory(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		History []domain.AnalysisRecord `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.History, 2)
}

func TestDeleteHistory(t *testing.T) {
	e := echo.New()
	deps := newTestDeps(t, nil, stubProber{})

	record, err := deps.ledger.Append("q", nil, "1.0s")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/history/"+record.ID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(record.ID)

	require.NoError(t, deps.handler.DeleteHistory(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, deps.ledger.List())
}

func TestDeleteHistoryUnknownID(t *testing.T) {
	e := echo.New()
	deps := newTestDeps(t, nil, stubProber{})

	_, err := deps.ledger.Append("q", nil, "1.0s")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/history/nope", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("nope")

	require.NoError(t, deps.handler.DeleteHistory(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, deps.ledger.List(), 1)
}

func TestGetMetrics(t *testing.T) {
	e := echo.New()
	source := stubSource{snapshot: domain.Snapshot{
		"orchestrator":  {Online: true},
		"dataGathering": {Online: false, Error: "down"},
	}}
	deps := newTestDeps(t, source, stubProber{})

	_, err := deps.ledger.Append("a", nil, "2.0s")
	require.NoError(t, err)
	_, err = deps.ledger.Append("b", nil, "4.0s")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, deps.handler.GetMetrics(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var m api.Metrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, 2, m.TotalAnalyses)
	assert.Equal(t, "3.0s", m.AvgResponseTime)
	assert.Equal(t, 1, m.ActiveAgents)
	assert.False(t, m.LastUpdate.IsZero())
}
