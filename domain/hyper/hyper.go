// Package hyper holds the default-hyperparameter policy as pure functions
// of the variable count, with no hidden module state.
package hyper

// Library-wide defaults
const (
	// DefaultAlpha stops path extension once the estimate carries more
	// than DefaultAlpha * p edges.
	DefaultAlpha = 10.0

	// DefaultGamma is the MCP concavity parameter; any negative value
	// selects the L1 penalty instead.
	DefaultGamma = 2.0

	DefaultErrorTol      = 1e-4
	DefaultWeightScale   = 1.0
	DefaultConvergenceLB = 0.01
	DefaultUpperBound    = 100.0
)

// Request carries caller-supplied overrides; nil means "use the default"
type Request struct {
	EdgeThreshold *int     `json:"edge_threshold,omitempty"`
	MaxIters      *int     `json:"max_iters,omitempty"`
	Gamma         *float64 `json:"gamma,omitempty"`
	ErrorTol      *float64 `json:"error_tol,omitempty"`

	// Discrete-only knobs
	WeightScale   *float64 `json:"weight_scale,omitempty"`
	ConvergenceLB *float64 `json:"convergence_lb,omitempty"`
	UpperBound    *float64 `json:"upper_bound,omitempty"`
	Adaptive      bool     `json:"adaptive,omitempty"`
}

// Bundle is a fully resolved hyperparameter set ready for a solver call
type Bundle struct {
	Alpha         float64 `json:"alpha"`
	MaxIters      int     `json:"max_iters"`
	Gamma         float64 `json:"gamma"`
	ErrorTol      float64 `json:"error_tol"`
	WeightScale   float64 `json:"weight_scale"`
	ConvergenceLB float64 `json:"convergence_lb"`
	UpperBound    float64 `json:"upper_bound"`
	Adaptive      bool    `json:"adaptive"`
}

// ResolveAlpha computes the edge-count threshold fraction: exactly
// threshold/p when the caller set a threshold, DefaultAlpha otherwise.
func ResolveAlpha(edgeThreshold *int, p int) float64 {
	if edgeThreshold == nil {
		return DefaultAlpha
	}
	return float64(*edgeThreshold) / float64(p)
}

// DefaultMaxIterations scales the sweep budget with the variable count
func DefaultMaxIterations(p int) int {
	iters := 5 * p
	if iters < 100 {
		iters = 100
	}
	return iters
}

// Resolve fills every unset knob from the defaults. Pure computation, no
// failure modes.
func Resolve(req Request, p int) Bundle {
	b := Bundle{
		Alpha:         ResolveAlpha(req.EdgeThreshold, p),
		MaxIters:      DefaultMaxIterations(p),
		Gamma:         DefaultGamma,
		ErrorTol:      DefaultErrorTol,
		WeightScale:   DefaultWeightScale,
		ConvergenceLB: DefaultConvergenceLB,
		UpperBound:    DefaultUpperBound,
		Adaptive:      req.Adaptive,
	}
	if req.MaxIters != nil {
		b.MaxIters = *req.MaxIters
	}
	if req.Gamma != nil {
		b.Gamma = *req.Gamma
	}
	if req.ErrorTol != nil {
		b.ErrorTol = *req.ErrorTol
	}
	if req.WeightScale != nil {
		b.WeightScale = *req.WeightScale
	}
	if req.ConvergenceLB != nil {
		b.ConvergenceLB = *req.ConvergenceLB
	}
	if req.UpperBound != nil {
		b.UpperBound = *req.UpperBound
	}
	return b
}
