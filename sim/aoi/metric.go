package aoi

import (
	"fmt"
	"math"
)

// DefaultWeight splits priority evenly between staleness and reliability.
const DefaultWeight = 0.5

// CalculateMetric blends staleness and reliability into a scheduling priority.
// Higher is more urgent.
//
// Formula: weight*age + (1-weight) / (successes+1)
//
// The +1 keeps a flow with no successes finite. The two terms are not on the
// same scale: the reliability term lies in (0, 1] while age is in slots or
// ticks, so weight is not a convex mix of comparable quantities.
func CalculateMetric(age float64, successes uint64, weight float64) float64 {
	return weight*age + (1-weight)*(1/(float64(successes)+1))
}

// Calculator holds a validated metric weight.
type Calculator struct {
	weight float64
}

// NewCalculator creates a Calculator with the given weight.
func NewCalculator(weight float64) (*Calculator, error) {
	c := &Calculator{}
	if err := c.SetWeight(weight); err != nil {
		return nil, err
	}
	return c, nil
}

// SetWeight stores w if it lies in [0, 1]. Out-of-range values are rejected,
// never clamped.
func (c *Calculator) SetWeight(w float64) error {
	if math.IsNaN(w) || w < 0 || w > 1 {
		return fmt.Errorf("%w: metric weight must be in [0, 1], got %v", ErrInvalidArgument, w)
	}
	c.weight = w
	return nil
}

// Weight returns the stored weight.
func (c *Calculator) Weight() float64 {
	return c.weight
}

// Calculate applies CalculateMetric with the stored weight.
func (c *Calculator) Calculate(age float64, successes uint64) float64 {
	return CalculateMetric(age, successes, c.weight)
}

// Priority scores a flow's current state.
func (c *Calculator) Priority(f *FlowState) float64 {
	return c.Calculate(f.Age.CurrentAoI(), f.Reliability.Reliability())
}
