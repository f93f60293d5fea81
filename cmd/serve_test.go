package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/debtlab/loan-cli/internal/config"
	"github.com/debtlab/loan-cli/internal/engine"
	"github.com/debtlab/loan-cli/internal/model"
	"github.com/debtlab/loan-cli/internal/store"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// testConfig loads pure defaults (no config file, empty temp dir).
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	c, err := config.Load()
	require.NoError(t, err)
	c.Server.AllowedOrigins = []string{"*"}
	return c
}

func newTestRouter(t *testing.T) (http.Handler, store.Store) {
	t.Helper()
	c := testConfig(t)

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	return newRouter(st, c), st
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestEvaluateEndpoint_Defaults(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := postJSON(t, h, "/v1/evaluate", evaluateRequest{})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var report engine.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))

	assert.Equal(t, 500000.0, report.Inputs.Principal)
	assert.Equal(t, 60, report.EMI.Periods)
	assert.InDelta(t, 10623.52, report.EMI.Installment, 0.5)
	assert.NotNil(t, report.Prepayment)
	assert.Len(t, report.RateSweep.Rates, 25)
	assert.Nil(t, report.Grid)
}

func TestEvaluateEndpoint_WithGrid(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := postJSON(t, h, "/v1/evaluate", evaluateRequest{Grid: true})
	require.Equal(t, http.StatusOK, rr.Code)

	var report engine.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	require.NotNil(t, report.Grid)
	assert.Len(t, report.Grid.Rates, 12)
	assert.Len(t, report.Grid.Growths, 12)
	assert.Len(t, report.Grid.Cells, 12)
}

func TestEvaluateEndpoint_InputOverrides(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := postJSON(t, h, "/v1/evaluate", evaluateRequest{
		Inputs: json.RawMessage(`{"principal": 1000000, "tenure_years": 10}`),
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var report engine.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 1000000.0, report.Inputs.Principal)
	assert.Equal(t, 120, report.EMI.Periods)
	// Unlisted fields keep the configured defaults.
	assert.Equal(t, 10.0, report.Inputs.AnnualRatePercent)
	assert.Equal(t, 80000.0, report.Inputs.MonthlySalary)
}

func TestEvaluateEndpoint_Preset(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := postJSON(t, h, "/v1/evaluate", evaluateRequest{Preset: "mba-student"})
	require.Equal(t, http.StatusOK, rr.Code)

	var report engine.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 1500000.0, report.Inputs.Principal)
	assert.Equal(t, 9.0, report.Inputs.AnnualRatePercent)
	assert.Equal(t, 120, report.EMI.Periods)
}

func TestEvaluateEndpoint_UnknownPreset(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := postJSON(t, h, "/v1/evaluate", evaluateRequest{Preset: "no-such"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown preset")
}

func TestEvaluateEndpoint_Shock(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := postJSON(t, h, "/v1/evaluate", evaluateRequest{Shock: true})
	require.Equal(t, http.StatusOK, rr.Code)

	var report engine.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 5.0, report.Inputs.ExpectedReturnPercent)
}

func TestEvaluateEndpoint_InvalidInput(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := postJSON(t, h, "/v1/evaluate", evaluateRequest{
		Inputs: json.RawMessage(`{"monthly_salary": -1}`),
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "salary")
}

func TestEvaluateEndpoint_InvalidJSON(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/evaluate", bytes.NewReader([]byte("not json")))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid request body")
}

func TestEvaluateEndpoint_SavePersistsRun(t *testing.T) {
	h, st := newTestRouter(t)

	rr := postJSON(t, h, "/v1/evaluate", evaluateRequest{Save: true, Preset: "mba-student"})
	require.Equal(t, http.StatusOK, rr.Code)

	runID := rr.Header().Get("X-Run-ID")
	require.NotEmpty(t, runID)

	run, err := st.GetRun(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, "mba-student", run.Preset)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	require.NotNil(t, run.Report)
}

func TestEvaluateEndpoint_SaveRecordsFailure(t *testing.T) {
	h, st := newTestRouter(t)

	rr := postJSON(t, h, "/v1/evaluate", evaluateRequest{
		Save:   true,
		Inputs: json.RawMessage(`{"monthly_salary": -1}`),
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	runID := rr.Header().Get("X-Run-ID")
	require.NotEmpty(t, runID)

	run, err := st.GetRun(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, run.Status)
	assert.Nil(t, run.Report)
	assert.Contains(t, run.Error, "salary")
}

func TestSweepEndpoint_RateLine(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := postJSON(t, h, "/v1/sweep", evaluateRequest{})
	require.Equal(t, http.StatusOK, rr.Code)

	var sweep engine.RateSweep
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sweep))
	require.Len(t, sweep.Rates, 25)
	require.Len(t, sweep.Differentials, 25)
	assert.InDelta(t, 2.0, sweep.Rates[0], 1e-9)
	assert.InDelta(t, 15.0, sweep.Rates[24], 1e-9)
	// Higher rates make buying costlier.
	assert.Greater(t, sweep.Differentials[24], sweep.Differentials[0])
}

func TestSweepEndpoint_Grid(t *testing.T) {
	h, _ := newTestRouter(t)

	rr := postJSON(t, h, "/v1/sweep", evaluateRequest{Grid: true})
	require.Equal(t, http.StatusOK, rr.Code)

	var grid engine.SensitivityGrid
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &grid))
	require.Len(t, grid.Growths, 12)
	require.Len(t, grid.Cells, 12)
	for _, row := range grid.Cells {
		assert.Len(t, row, 12)
	}
}

func TestRunsEndpoints(t *testing.T) {
	h, st := newTestRouter(t)
	ctx := context.Background()

	in := testConfigInputs()
	report, err := engine.Evaluate(in, engine.Options{
		RateSweep: engine.SweepSpec{Start: 2, Stop: 15, Steps: 3},
	})
	require.NoError(t, err)

	created, err := st.CreateRun(ctx, "mba-student", in, report, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/runs", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var runs []model.Run
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, created.ID, runs[0].ID)

	req = httptest.NewRequest(http.MethodGet, "/v1/runs?preset=other", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null\n", rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/v1/runs/"+created.ID, nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var run model.Run
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &run))
	assert.Equal(t, created.ID, run.ID)

	req = httptest.NewRequest(http.MethodGet, "/v1/runs/missing", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRateLimiting(t *testing.T) {
	c := testConfig(t)
	c.Server.RatePerSecond = 1
	c.Server.RateBurst = 1

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	h := newRouter(st, c)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

// testConfigInputs mirrors the configured defaults without going through viper.
func testConfigInputs() engine.Inputs {
	return engine.Inputs{
		Principal:             500000,
		AnnualRatePercent:     10,
		TenureYears:           5,
		MonthlySalary:         80000,
		PrepayAfterYears:      2,
		PrepayAmount:          50000,
		ExtraMonthlyPayment:   5000,
		ExpectedReturnPercent: 12,
		MonthlyRent:           8000,
		DiscountRatePercent:   8,
		PriceGrowthPercent:    3,
	}
}
