package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"godag/app"
	"godag/domain/core"
	"godag/domain/dataset"
	"godag/domain/hyper"
	"godag/domain/run"
	"godag/internal/report"

	"github.com/go-chi/chi/v5"
	"gonum.org/v1/gonum/mat"
)

// estimateRequest is the wire form of an estimation call. Row entries may
// be null; nulls become NaN so the integrity gate reports them.
type estimateRequest struct {
	Columns       []string                   `json:"columns"`
	Rows          [][]*float64               `json:"rows"`
	Type          string                     `json:"type"`
	Levels        []int                      `json:"levels,omitempty"`
	Interventions []dataset.InterventionSpec `json:"interventions,omitempty"`
	Whitelist     []app.EdgePair             `json:"whitelist,omitempty"`
	Blacklist     []app.EdgePair             `json:"blacklist,omitempty"`
	Lambdas       []float64                  `json:"lambdas,omitempty"`
	LambdaLength  int                        `json:"lambda_length,omitempty"`
	LambdaRatio   float64                    `json:"lambda_ratio,omitempty"`
	Hyper         hyper.Request              `json:"hyper,omitempty"`
}

func (r estimateRequest) toApp() app.EstimateRequest {
	rows := make([][]float64, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = make([]float64, len(row))
		for j, cell := range row {
			if cell == nil {
				rows[i][j] = math.NaN()
			} else {
				rows[i][j] = *cell
			}
		}
	}

	return app.EstimateRequest{
		Data: &dataset.Dataset{
			Rows:    rows,
			Columns: r.Columns,
			Type:    dataset.DataType(r.Type),
			Levels:  r.Levels,
		},
		Lambdas:       r.Lambdas,
		LambdaLength:  r.LambdaLength,
		LambdaRatio:   r.LambdaRatio,
		Interventions: r.Interventions,
		Whitelist:     r.Whitelist,
		Blacklist:     r.Blacklist,
		Hyper:         r.Hyper,
	}
}

type pathEntryResponse struct {
	Lambda float64      `json:"lambda"`
	NEdges int          `json:"n_edges"`
	Edges  []edgeDetail `json:"edges"`
}

type edgeDetail struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

type estimateResponse struct {
	RunID    string              `json:"run_id"`
	Family   string              `json:"family"`
	Path     []pathEntryResponse `json:"path"`
	Matrices [][][]float64       `json:"matrices,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEstimateDAG(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := s.service.EstimateDAG(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(result, nil))
}

func (s *Server) handleEstimateCovariance(w http.ResponseWriter, r *http.Request) {
	s.handleMatrices(w, r, s.service.EstimateCovariance)
}

func (s *Server) handleEstimatePrecision(w http.ResponseWriter, r *http.Request) {
	s.handleMatrices(w, r, s.service.EstimatePrecision)
}

func (s *Server) handleMatrices(w http.ResponseWriter, r *http.Request, estimate func(ctx context.Context, req app.EstimateRequest) (*app.MatrixResult, error)) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := estimate(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(&result.DAGResult, result.Matrices))
}

func (s *Server) lookupRun(w http.ResponseWriter, r *http.Request) (*run.Record, bool) {
	if s.runs == nil {
		http.NotFound(w, r)
		return nil, false
	}
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return nil, false
	}

	record, err := s.runs.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrRunNotFound) {
			http.NotFound(w, r)
			return nil, false
		}
		s.writeError(w, err)
		return nil, false
	}
	return record, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (app.EstimateRequest, bool) {
	var wire estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return app.EstimateRequest{}, false
	}
	return wire.toApp(), true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsValidationError(err):
		status = http.StatusBadRequest
	case core.IsUnsupportedError(err):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("estimation failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func toResponse(result *app.DAGResult, matrices []*mat.Dense) estimateResponse {
	resp := estimateResponse{
		RunID:  result.RunID.String(),
		Family: result.Family.String(),
		Path:   make([]pathEntryResponse, len(result.Path)),
	}
	for i, entry := range result.Path {
		edges := make([]edgeDetail, len(entry.Graph.Edges))
		for j, e := range entry.Graph.Edges {
			edges[j] = edgeDetail{
				From:   entry.Graph.Nodes[e.From],
				To:     entry.Graph.Nodes[e.To],
				Weight: e.Weight,
			}
		}
		resp.Path[i] = pathEntryResponse{Lambda: entry.Lambda, NEdges: entry.NEdges, Edges: edges}
	}

	for _, m := range matrices {
		rows, cols := m.Dims()
		grid := make([][]float64, rows)
		for i := 0; i < rows; i++ {
			grid[i] = make([]float64, cols)
			for j := 0; j < cols; j++ {
				grid[i][j] = m.At(i, j)
			}
		}
		resp.Matrices = append(resp.Matrices, grid)
	}
	return resp
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		http.NotFound(w, r)
		return
	}
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	records, err := s.runs.ListRuns(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	record, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleRunReport(w http.ResponseWriter, r *http.Request) {
	record, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(report.HTML(report.RecordMarkdown(record)))
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}
