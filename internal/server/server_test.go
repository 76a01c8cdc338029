package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/copyleftdev/BOREAL/internal/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	srv := New(cfg, zap.NewNop())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postOptimize(t *testing.T, ts *httptest.Server, req RunRequest) *http.Response {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+"/api/v1/optimize", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestOptimizeSphere(t *testing.T) {
	ts := newTestServer(t)

	resp := postOptimize(t, ts, RunRequest{
		Problem:        "sphere",
		Dimension:      2,
		PopulationSize: 10,
		Seed:           42,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result RunResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "sphere", result.Problem)
	assert.Len(t, result.BestX, 2)
	require.Len(t, result.BestF, 1)
	// The native capability drives the best individual close to the optimum.
	assert.Less(t, result.BestF[0], 1e-2)
}

func TestGetRunRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	resp := postOptimize(t, ts, RunRequest{Problem: "sphere", PopulationSize: 5, Seed: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created RunResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	getResp, err := http.Get(ts.URL + "/api/v1/runs/" + created.ID)
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var fetched RunResult
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.BestF, fetched.BestF)
}

func TestGetRunNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/runs/no-such-run")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOptimizeRejectsUnknownProblem(t *testing.T) {
	ts := newTestServer(t)

	resp := postOptimize(t, ts, RunRequest{Problem: "rosenbrock"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "unknown benchmark problem")
}

func TestOptimizeRejectsMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/optimize", "application/json",
		bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	// Run one optimization so the counters exist with nonzero samples.
	resp := postOptimize(t, ts, RunRequest{Problem: "sphere", PopulationSize: 5, Seed: 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	mResp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer mResp.Body.Close()
	require.Equal(t, http.StatusOK, mResp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(mResp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "boreal_evolve_total")
	assert.Contains(t, buf.String(), "boreal_objective_evaluations_total")
}
