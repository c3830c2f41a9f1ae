package types

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// weightSumEpsilon is the tolerance allowed when checking that factor
// weights sum to 1.0.
const weightSumEpsilon = 1e-6

// ConfigurationError represents an invalid weight vector or engine
// configuration detected at construction time.
type ConfigurationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// AgentWeights is a named set of non-negative scoring factors summing to 1.0.
// The normalization invariant is enforced at construction; instances are
// treated as immutable afterwards.
type AgentWeights struct {
	Name    string             `json:"name" validate:"required"`
	Factors map[string]float64 `json:"factors" validate:"required,dive,gte=0"`
}

// NewAgentWeights constructs an AgentWeights, validating that every factor
// is non-negative and the factors sum to 1.0 within tolerance. The factor
// map is copied so callers cannot mutate the constructed vector.
func NewAgentWeights(name string, factors map[string]float64) (*AgentWeights, error) {
	w := &AgentWeights{
		Name:    name,
		Factors: make(map[string]float64, len(factors)),
	}
	for factor, weight := range factors {
		w.Factors[factor] = weight
	}

	validate := validator.New()
	if err := validate.Struct(w); err != nil {
		return nil, &ConfigurationError{
			Field:   "factors",
			Message: "weight vector failed validation",
			Cause:   err,
		}
	}

	sum := 0.0
	for _, weight := range w.Factors {
		sum += weight
	}
	if math.Abs(sum-1.0) > weightSumEpsilon {
		return nil, &ConfigurationError{
			Field:   "factors",
			Message: fmt.Sprintf("weights must sum to 1.0, got %.6f", sum),
		}
	}

	return w, nil
}

// Factor returns the weight for a named factor, or 0 when absent.
func (w *AgentWeights) Factor(name string) float64 {
	return w.Factors[name]
}

// Sum returns the total weight across all factors.
func (w *AgentWeights) Sum() float64 {
	sum := 0.0
	for _, weight := range w.Factors {
		sum += weight
	}
	return sum
}
