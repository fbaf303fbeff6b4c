//go:build !fastmath

package ballistics

import "math"

// inertiaCoefficient returns 0.01^(dt/inertia), the weight of the old
// readout after dt seconds.
func inertiaCoefficient(dt, inertia float64) float64 {
	return math.Pow(0.01, dt/inertia)
}
