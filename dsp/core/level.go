package core

import "math"

// DBToLinear converts a level in dB to an amplitude factor.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts an amplitude to dB. Silence maps to -Inf and a
// negative amplitude to NaN; pass the result through FloorDB before it
// reaches meter state.
func LinearToDB(amplitude float64) float64 {
	switch {
	case amplitude < 0:
		return math.NaN()
	case amplitude == 0:
		return math.Inf(-1)
	default:
		return 20 * math.Log10(amplitude)
	}
}

// LinearPowerToDB converts a power (mean square) to dB with the same
// conventions as LinearToDB.
func LinearPowerToDB(power float64) float64 {
	switch {
	case power < 0:
		return math.NaN()
	case power == 0:
		return math.Inf(-1)
	default:
		return 10 * math.Log10(power)
	}
}

// FloorDB clamps db to floor from below. -Inf and NaN also read floor, so
// a smoothing recurrence fed with the result stays finite.
func FloorDB(db, floor float64) float64 {
	if !(db >= floor) {
		return floor
	}

	return db
}
