package kmeter

import (
	"fmt"
	"strings"
)

// CrestFactor selects the K-System scale a meter is read on. The value is
// the headroom in dB between the scale's 0 mark and digital full scale.
type CrestFactor int

const (
	// CrestFactorNormal reads levels in dBFS.
	CrestFactorNormal CrestFactor = 0
	// CrestFactorK12 is the K-12 scale for broadcast.
	CrestFactorK12 CrestFactor = 12
	// CrestFactorK14 is the K-14 scale for pop and rock mastering.
	CrestFactorK14 CrestFactor = 14
	// CrestFactorK20 is the K-20 scale for wide-dynamic-range material.
	CrestFactorK20 CrestFactor = 20
)

// Valid reports whether c is one of the K-System scales.
func (c CrestFactor) Valid() bool {
	switch c {
	case CrestFactorNormal, CrestFactorK12, CrestFactorK14, CrestFactorK20:
		return true
	default:
		return false
	}
}

// Headroom returns the scale offset in dB.
func (c CrestFactor) Headroom() float64 {
	return float64(c)
}

// Apply converts a dBFS reading to the scale.
func (c CrestFactor) Apply(db float64) float64 {
	return db + c.Headroom()
}

// String returns the scale name as printed on the meter.
func (c CrestFactor) String() string {
	switch c {
	case CrestFactorNormal:
		return "NORM"
	case CrestFactorK12:
		return "K-12"
	case CrestFactorK14:
		return "K-14"
	case CrestFactorK20:
		return "K-20"
	default:
		return fmt.Sprintf("CrestFactor(%d)", int(c))
	}
}

// ParseCrestFactor converts names such as "k20", "K-14" or "normal" into
// a CrestFactor.
func ParseCrestFactor(name string) (CrestFactor, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "") {
	case "norm", "normal", "0":
		return CrestFactorNormal, nil
	case "k12", "12":
		return CrestFactorK12, nil
	case "k14", "14":
		return CrestFactorK14, nil
	case "k20", "20":
		return CrestFactorK20, nil
	default:
		return 0, fmt.Errorf("kmeter: unknown crest factor %q", name)
	}
}
