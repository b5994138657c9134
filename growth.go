package unboxed

import "math"

// GrowthPolicy returns the capacity to allocate when a vector of length
// current must hold required elements. Results below required are raised to
// required.
type GrowthPolicy func(current, required int) int

// DoublingGrowth amortizes repeated growth: max(required, 2*current).
func DoublingGrowth(current, required int) int {
	if current > math.MaxInt/2 {
		return required
	}
	return max(required, 2*current)
}

// ExactGrowth allocates exactly the required capacity.
func ExactGrowth(_, required int) int {
	return required
}

func capacityFor(p GrowthPolicy, current, required int) int {
	c := p(current, required)
	if c < required {
		return required
	}
	return c
}
