package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"godag/adapters/extract"
	"godag/adapters/solver/ccd"
	"godag/adapters/solver/discretecd"
	"godag/app"
	"godag/domain/core"
	"godag/domain/run"
	"godag/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRunRepo struct {
	saved []*run.Record
}

func (r *memoryRunRepo) SaveRun(_ context.Context, record *run.Record) error {
	r.saved = append(r.saved, record)
	return nil
}

func (r *memoryRunRepo) GetRun(_ context.Context, id core.RunID) (*run.Record, error) {
	for _, rec := range r.saved {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, core.ErrRunNotFound
}

func (r *memoryRunRepo) ListRuns(context.Context, int, int) ([]*run.Record, error) {
	return r.saved, nil
}

func newTestServer(repo *memoryRunRepo) *httptest.Server {
	var service *app.EstimationService
	if repo == nil {
		service = app.NewEstimationService(ccd.NewSolver(), discretecd.NewSolver(), extract.NewExtractor(), nil)
		return httptest.NewServer(NewServer(service, nil).Handler())
	}
	service = app.NewEstimationService(ccd.NewSolver(), discretecd.NewSolver(), extract.NewExtractor(), repo)
	return httptest.NewServer(NewServer(service, repo).Handler())
}

func chainBody(t *testing.T) []byte {
	t.Helper()
	data, _ := testkit.LinearChainDataset(60, 23)
	body, err := json.Marshal(map[string]interface{}{
		"columns": data.Columns,
		"rows":    data.Rows,
		"type":    string(data.Type),
	})
	require.NoError(t, err)
	return body
}

func postJSON(t *testing.T, url string, body []byte) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEstimateEndpoint(t *testing.T) {
	repo := &memoryRunRepo{}
	ts := newTestServer(repo)
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/estimate", chainBody(t))
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)

	var payload estimateResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "gaussian", payload.Family)
	assert.NotEmpty(t, payload.RunID)
	assert.NotEmpty(t, payload.Path)
	assert.Empty(t, payload.Matrices)

	require.Len(t, repo.saved, 1)
	assert.Equal(t, payload.RunID, repo.saved[0].ID.String())
}

func TestEstimateEndpointMissingValues(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	body := []byte(`{"columns":["A","B"],"rows":[[1.0,null],[2.0,3.0],[3.0,4.5]],"type":"continuous"}`)
	resp, out := postJSON(t, ts.URL+"/api/estimate", body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(out), "missing")
}

func TestEstimateEndpointMalformedBody(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	resp, _ := postJSON(t, ts.URL+"/api/estimate", []byte(`{"columns":`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCovarianceEndpointRejectsDiscrete(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	data, _ := testkit.BinaryChainDataset(40, 0.9, 2)
	body, err := json.Marshal(map[string]interface{}{
		"columns": data.Columns,
		"rows":    data.Rows,
		"type":    string(data.Type),
		"levels":  data.Levels,
	})
	require.NoError(t, err)

	resp, out := postJSON(t, ts.URL+"/api/estimate/covariance", body)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(out), "continuous")
}

func TestCovarianceEndpointReturnsMatrices(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	resp, body := postJSON(t, ts.URL+"/api/estimate/covariance", chainBody(t))
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", body)

	var payload estimateResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NotEmpty(t, payload.Matrices)
	assert.Len(t, payload.Matrices, len(payload.Path))
	assert.Len(t, payload.Matrices[0], 3)
}

func TestRunEndpoints(t *testing.T) {
	repo := &memoryRunRepo{}
	ts := newTestServer(repo)
	defer ts.Close()

	_, _ = postJSON(t, ts.URL+"/api/estimate", chainBody(t))
	require.Len(t, repo.saved, 1)
	id := repo.saved[0].ID.String()

	t.Run("list", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/runs")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("get", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("%s/api/runs/%s", ts.URL, id))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var record run.Record
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&record))
		assert.Equal(t, "estimate_dag", record.Operation)
	})

	t.Run("unknown id", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/runs/no-such-run")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("report", func(t *testing.T) {
		resp, err := http.Get(fmt.Sprintf("%s/api/runs/%s/report", ts.URL, id))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	})
}

func TestRunEndpointsWithoutRepository(t *testing.T) {
	ts := newTestServer(nil)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
