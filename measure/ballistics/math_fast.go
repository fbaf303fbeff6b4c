//go:build fastmath

package ballistics

import "github.com/meko-christian/algo-approx"

// ln001 is the natural logarithm of 0.01.
const ln001 = -4.605170185988091

// inertiaCoefficient computes 0.01^(dt/inertia) as e^(ln(0.01)*dt/inertia)
// using fast approximation.
func inertiaCoefficient(dt, inertia float64) float64 {
	return approx.FastExp(ln001 * dt / inertia)
}
