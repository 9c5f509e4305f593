package analysis

import "fmt"

// CurveConfig holds the ABC classification thresholds, in units sold
// over the period. Spreadsheet defaults: A (>=9) | B (3..8) | C (1..2) |
// 0 or less = SEM_GIRO.
type CurveConfig struct {
	AMin float64
	BMin float64
	CMin float64
}

// DefaultCurveConfig mirrors the reference spreadsheet thresholds.
var DefaultCurveConfig = CurveConfig{AMin: 9, BMin: 3, CMin: 1}

// NewCurveConfig validates thresholds before they reach the engine. The
// invariant is AMin > BMin > CMin > 0; anything else is rejected so the
// engine never runs with an inconsistent configuration.
func NewCurveConfig(aMin, bMin, cMin float64) (CurveConfig, error) {
	if aMin <= 0 || bMin <= 0 || cMin <= 0 {
		return CurveConfig{}, fmt.Errorf("limites da curva ABC inválidos: valores devem ser positivos")
	}
	if !(aMin > bMin && bMin > cMin) {
		return CurveConfig{}, fmt.Errorf("consistência dos limites violada: esperado A_min > B_min > C_min")
	}
	return CurveConfig{AMin: aMin, BMin: bMin, CMin: cMin}, nil
}

// Classify assigns the ABC curve for a quantity sold. Zero or negative
// quantities (including malformed cells coerced to zero) are SEM_GIRO.
func (c CurveConfig) Classify(quantitySold float64) Curve {
	switch {
	case quantitySold <= 0:
		return CurveSemGiro
	case quantitySold >= c.AMin:
		return CurveA
	case quantitySold >= c.BMin:
		return CurveB
	case quantitySold >= c.CMin:
		return CurveC
	default:
		return CurveSemGiro
	}
}
