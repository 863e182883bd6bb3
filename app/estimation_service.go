package app

import (
	"context"
	"fmt"
	"time"

	"godag/domain/core"
	"godag/domain/dataset"
	"godag/domain/graph"
	"godag/domain/hyper"
	"godag/domain/run"
	"godag/internal"
	"godag/ports"

	"gonum.org/v1/gonum/mat"
)

// EstimationService is the dispatch layer over the structure-learning
// solvers: it validates input data, resolves hyperparameters and
// interventions, classifies the data family, and routes to exactly one
// solver.
type EstimationService struct {
	continuous ports.ContinuousSolver
	discrete   ports.DiscreteSolver
	extractor  ports.MatrixExtractor
	runs       ports.RunRepository // optional
	logger     *internal.Logger
}

// NewEstimationService creates the dispatch service. The run repository may
// be nil; manifests are then not persisted.
func NewEstimationService(continuous ports.ContinuousSolver, discrete ports.DiscreteSolver, extractor ports.MatrixExtractor, runs ports.RunRepository) *EstimationService {
	return &EstimationService{
		continuous: continuous,
		discrete:   discrete,
		extractor:  extractor,
		runs:       runs,
		logger:     internal.DefaultLogger.Named("dispatch"),
	}
}

// EdgePair names one directed edge constraint by column name
type EdgePair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// EstimateRequest defines the inputs for one DAG estimation
type EstimateRequest struct {
	Data *dataset.Dataset `json:"data"`

	// Lambdas is an explicit strictly decreasing grid. When empty a
	// log-spaced grid is generated from the data.
	Lambdas      []float64 `json:"lambdas,omitempty"`
	LambdaLength int       `json:"lambda_length,omitempty"`
	LambdaRatio  float64   `json:"lambda_ratio,omitempty"`

	// Interventions by name or index; overrides any annotation already
	// on the dataset.
	Interventions []dataset.InterventionSpec `json:"interventions,omitempty"`

	// Edge constraints by column name; Constraints carries pre-resolved
	// index pairs and is merged with the named lists.
	Whitelist   []EdgePair        `json:"whitelist,omitempty"`
	Blacklist   []EdgePair        `json:"blacklist,omitempty"`
	Constraints graph.Constraints `json:"constraints,omitempty"`

	Hyper   hyper.Request `json:"hyper,omitempty"`
	Verbose bool          `json:"verbose,omitempty"`
}

// DAGResult is the outcome of one dispatched estimation
type DAGResult struct {
	RunID  core.RunID         `json:"run_id"`
	Family dataset.Family     `json:"family"`
	Hyper  hyper.Bundle       `json:"hyper"`
	Path   graph.SolutionPath `json:"path"`
}

// MatrixResult pairs a DAG estimation with per-entry matrix estimates
type MatrixResult struct {
	DAGResult
	Matrices []*mat.Dense `json:"-"`
}

// EstimateDAG validates the dataset, resolves defaults, classifies the data
// family and dispatches to exactly one solver, returning its solution path
// unchanged.
func (s *EstimationService) EstimateDAG(ctx context.Context, req EstimateRequest) (*DAGResult, error) {
	start := time.Now()

	data, bundle, family, lambdas, constraints, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	solveReq := ports.SolveRequest{
		Data:        data,
		Lambdas:     lambdas,
		Constraints: constraints,
		Hyper:       bundle,
		Verbose:     req.Verbose,
	}

	var path graph.SolutionPath
	switch family {
	case dataset.FamilyGaussian:
		path, err = s.continuous.EstimatePath(ctx, solveReq)
	case dataset.FamilyBinomial, dataset.FamilyMultinomial:
		path, err = s.discrete.EstimatePath(ctx, solveReq)
	default:
		// Family() already rejects unknown tags; this guards against a
		// new enum member without a dispatch arm.
		return nil, core.NewUnsupportedFamilyError(family.String())
	}
	if err != nil {
		return nil, fmt.Errorf("solver failed: %w", err)
	}

	result := &DAGResult{
		Family: family,
		Hyper:  bundle,
		Path:   path,
	}
	result.RunID = s.recordRun(ctx, "estimate_dag", family, data, bundle, path, time.Since(start))
	return result, nil
}

// EstimateCovariance estimates the DAG on continuous data and transforms
// the path into covariance matrix estimates.
func (s *EstimationService) EstimateCovariance(ctx context.Context, req EstimateRequest) (*MatrixResult, error) {
	return s.estimateMatrices(ctx, req, "covariance estimation", s.extractor.ExtractCovariance)
}

// EstimatePrecision estimates the DAG on continuous data and transforms
// the path into precision (inverse covariance) matrix estimates.
func (s *EstimationService) EstimatePrecision(ctx context.Context, req EstimateRequest) (*MatrixResult, error) {
	return s.estimateMatrices(ctx, req, "precision estimation", s.extractor.ExtractPrecision)
}

type extractFunc func(ctx context.Context, path graph.SolutionPath, data *dataset.Dataset) ([]*mat.Dense, error)

func (s *EstimationService) estimateMatrices(ctx context.Context, req EstimateRequest, operation string, extract extractFunc) (*MatrixResult, error) {
	// Guard before any solver work.
	if req.Data == nil {
		return nil, core.ErrEmptyDataset
	}
	if req.Data.Type != dataset.TypeContinuous {
		return nil, core.NewFeatureNotSupportedError(operation, string(req.Data.Type))
	}

	dagResult, err := s.EstimateDAG(ctx, req)
	if err != nil {
		return nil, err
	}

	matrices, err := extract(ctx, dagResult.Path, req.Data)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", operation, err)
	}

	return &MatrixResult{DAGResult: *dagResult, Matrices: matrices}, nil
}

// prepare runs every pre-dispatch stage: integrity gate, hyperparameter
// resolution, family classification, intervention resolution, constraint
// translation and lambda grid construction. All failures surface here,
// before any solver call.
func (s *EstimationService) prepare(req EstimateRequest) (*dataset.Dataset, hyper.Bundle, dataset.Family, []float64, graph.Constraints, error) {
	var none graph.Constraints

	data := req.Data
	if data == nil {
		return nil, hyper.Bundle{}, dataset.FamilyUnknown, nil, none, core.ErrEmptyDataset
	}
	if err := data.Validate(); err != nil {
		return nil, hyper.Bundle{}, dataset.FamilyUnknown, nil, none, err
	}

	if missing := data.CountMissing(); missing > 0 {
		return nil, hyper.Bundle{}, dataset.FamilyUnknown, nil, none, core.NewMissingValuesError(missing)
	}

	bundle := hyper.Resolve(req.Hyper, data.NumVars())

	family, err := data.Family()
	if err != nil {
		return nil, hyper.Bundle{}, dataset.FamilyUnknown, nil, none, err
	}

	if len(req.Interventions) > 0 {
		resolved, degraded, err := data.ResolveInterventions(req.Interventions)
		if err != nil {
			return nil, hyper.Bundle{}, dataset.FamilyUnknown, nil, none, err
		}
		for _, row := range degraded {
			s.logger.Warn("intervention entry for row %d names an unknown variable, treating row as observational", row)
		}
		shallow := *data
		shallow.Interventions = resolved
		data = &shallow
	}

	constraints, err := s.resolveConstraints(req, data)
	if err != nil {
		return nil, hyper.Bundle{}, dataset.FamilyUnknown, nil, none, err
	}

	lambdas, err := s.resolveLambdas(req, data)
	if err != nil {
		return nil, hyper.Bundle{}, dataset.FamilyUnknown, nil, none, err
	}

	return data, bundle, family, lambdas, constraints, nil
}

// resolveConstraints translates named edge pairs into index pairs and
// validates the merged constraint set. Unknown constraint names are hard
// errors, unlike intervention names.
func (s *EstimationService) resolveConstraints(req EstimateRequest, data *dataset.Dataset) (graph.Constraints, error) {
	constraints := req.Constraints

	resolvePairs := func(pairs []EdgePair, kind string) ([]graph.EdgeConstraint, error) {
		var out []graph.EdgeConstraint
		for _, pair := range pairs {
			from, ok := data.ColumnIndex(pair.From)
			if !ok {
				return nil, fmt.Errorf("%w: %s %q", core.ErrVariableNotFound, kind, pair.From)
			}
			to, ok := data.ColumnIndex(pair.To)
			if !ok {
				return nil, fmt.Errorf("%w: %s %q", core.ErrVariableNotFound, kind, pair.To)
			}
			out = append(out, graph.EdgeConstraint{From: from, To: to})
		}
		return out, nil
	}

	wl, err := resolvePairs(req.Whitelist, "whitelist variable")
	if err != nil {
		return constraints, err
	}
	bl, err := resolvePairs(req.Blacklist, "blacklist variable")
	if err != nil {
		return constraints, err
	}
	constraints.Whitelist = append(constraints.Whitelist, wl...)
	constraints.Blacklist = append(constraints.Blacklist, bl...)

	if err := constraints.Validate(data.Columns); err != nil {
		return constraints, err
	}
	return constraints, nil
}

func (s *EstimationService) resolveLambdas(req EstimateRequest, data *dataset.Dataset) ([]float64, error) {
	if len(req.Lambdas) > 0 {
		for i := 1; i < len(req.Lambdas); i++ {
			if req.Lambdas[i] >= req.Lambdas[i-1] {
				return nil, core.ErrUnorderedLambdaGrid
			}
		}
		return req.Lambdas, nil
	}

	length := req.LambdaLength
	if length <= 0 {
		length = graph.DefaultLambdaLength
	}
	ratio := req.LambdaRatio
	if ratio <= 0 {
		ratio = graph.DefaultLambdaRatio
	}
	return graph.LambdaGrid(graph.MaxLambda(data), ratio, length)
}

// recordRun persists the run manifest when a repository is configured.
// Persistence failures are logged, never surfaced: the estimate itself
// succeeded.
func (s *EstimationService) recordRun(ctx context.Context, operation string, family dataset.Family, data *dataset.Dataset, bundle hyper.Bundle, path graph.SolutionPath, elapsed time.Duration) core.RunID {
	record := run.NewRecord(operation, family.String(), data.NumRows(), data.NumVars(), bundle, path, elapsed.Milliseconds())
	if s.runs != nil {
		if err := s.runs.SaveRun(ctx, record); err != nil {
			s.logger.Error("failed to persist run %s: %v", record.ID, err)
		}
	}
	return record.ID
}
