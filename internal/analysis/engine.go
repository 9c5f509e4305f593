// Package analysis implements the consolidation and metrics engine: it
// merges the vendas and inventário spreadsheets by product identity,
// computes per-product stock and financial metrics, classifies products
// into ABC curves and rolls everything up into one summary.
//
// The engine is a pure, synchronous, in-memory transformation. It does
// no I/O, holds no state across invocations and never fails once input
// validation and configuration have passed: malformed numeric cells are
// coerced to zero, rows without any identifier are dropped.
package analysis

// Engine runs the three stages (merge, per-product metrics,
// aggregation) with a fixed, validated curve configuration. A zero
// Engine is not usable; construct one with NewEngine.
type Engine struct {
	curves CurveConfig
}

// NewEngine builds an engine with the given curve thresholds.
func NewEngine(curves CurveConfig) *Engine {
	return &Engine{curves: curves}
}

// NewDefaultEngine builds an engine with the spreadsheet defaults
// (A>=9, B>=3, C>=1).
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultCurveConfig)
}

// CurveConfig returns the thresholds the engine classifies with.
func (e *Engine) CurveConfig() CurveConfig {
	return e.curves
}

// Process consolidates the two row sets and computes all metrics. The
// caller is expected to have run ValidateColumns first; Process assumes
// structurally valid input. The returned result is never mutated by the
// engine afterwards.
func (e *Engine) Process(sales []SalesRow, inventory []InventoryRow) *Result {
	merged := merge(sales, inventory)

	consolidated := make([]ConsolidatedProduct, 0, len(merged.order))
	for _, key := range merged.order {
		consolidated = append(consolidated, e.curves.finalize(merged.products[key]))
	}

	summary := aggregate(consolidated, salesOnlyTotals{
		revenue:         merged.salesOnlyRevenue,
		stockoutRevenue: merged.salesOnlyStockoutRevenue,
	})

	result := &Result{
		Summary:      summary,
		Consolidated: consolidated,
		Stockouts:    make([]ConsolidatedProduct, 0),
		Stagnant:     make([]ConsolidatedProduct, 0),
	}
	for _, p := range consolidated {
		if p.Stockout {
			result.Stockouts = append(result.Stockouts, p)
		}
		if p.Stagnant {
			result.Stagnant = append(result.Stagnant, p)
		}
	}
	return result
}
