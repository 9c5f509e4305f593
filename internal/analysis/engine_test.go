package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const moneyEpsilon = 1e-9

func mkSales(ean, code, desc, qty, stock, net, cost string) SalesRow {
	return SalesRow{
		EAN:          ean,
		InternalCode: code,
		Description:  desc,
		QuantitySold: qty,
		CurrentStock: stock,
		NetSales:     net,
		UnitCost:     cost,
	}
}

func mkInv(ean, code, desc, stock, cost string) InventoryRow {
	return InventoryRow{
		EAN:          ean,
		InternalCode: code,
		Description:  desc,
		CurrentStock: stock,
		UnitCost:     cost,
	}
}

// one product, found by key, for assertions on a single SKU
func productByKey(t *testing.T, res *Result, key string) ConsolidatedProduct {
	t.Helper()
	for _, p := range res.Consolidated {
		if p.MergeKey == key {
			return p
		}
	}
	t.Fatalf("product %s not found in consolidated set", key)
	return ConsolidatedProduct{}
}

func TestIdentityMergeAcrossSheets(t *testing.T) {
	engine := NewDefaultEngine()
	res := engine.Process(
		[]SalesRow{mkSales("123", "", "Dipirona 500mg", "2", "4", "30", "5")},
		[]InventoryRow{mkInv(" 123 ", "C9", "Dipirona", "7", "4,5")},
	)

	require.Len(t, res.Consolidated, 1, "same EAN with differing whitespace must consolidate")
	p := res.Consolidated[0]
	assert.Equal(t, "EAN:123", p.MergeKey)
	assert.Equal(t, "123", p.EAN)
	assert.Equal(t, "C9", p.InternalCode, "internal code fills in from inventory")
	assert.Equal(t, "Dipirona 500mg", p.Description, "first non-empty description wins")
	assert.Equal(t, 7.0, p.Stock, "nonzero inventory stock takes precedence")
}

func TestFallbackKeyAndUnmergeableRows(t *testing.T) {
	engine := NewDefaultEngine()
	res := engine.Process(
		[]SalesRow{
			mkSales("", "X1", "Produto com código", "1", "1", "10", "2"),
			mkSales("", "", "Sem identidade", "5", "0", "99", "3"),
		},
		nil,
	)

	require.Len(t, res.Consolidated, 1, "row without EAN and code is dropped, not an error")
	assert.Equal(t, "COD:X1", res.Consolidated[0].MergeKey)
	assert.Equal(t, 1, res.Summary.TotalSKUs)
	// the dropped row's revenue never enters any total
	assert.InDelta(t, 10.0, res.Summary.QuarterSales, moneyEpsilon)
}

func TestSalesAccumulationAndLastWriterScalars(t *testing.T) {
	engine := NewDefaultEngine()
	res := engine.Process(
		[]SalesRow{
			mkSales("77", "", "Primeira descrição", "3", "10", "60", "4"),
			mkSales("77", "", "Outra descrição", "2", "8", "40", "6"),
		},
		nil,
	)

	p := productByKey(t, res, "EAN:77")
	assert.Equal(t, 5.0, p.QuantitySold, "quantity sums across sales rows")
	assert.InDelta(t, 100.0, p.NetSales, moneyEpsilon, "net sales sums across sales rows")
	assert.Equal(t, 6.0, p.UnitCost, "last sales row's unit cost wins")
	assert.Equal(t, 8.0, p.SalesStock, "last sales row's stock wins")
	assert.Equal(t, "Primeira descrição", p.Description, "description keeps the first writer")
}

func TestStockPrecedence(t *testing.T) {
	engine := NewDefaultEngine()

	res := engine.Process(
		[]SalesRow{mkSales("1", "", "A", "1", "10", "10", "1")},
		[]InventoryRow{mkInv("1", "", "", "0", "1")},
	)
	assert.Equal(t, 10.0, productByKey(t, res, "EAN:1").Stock,
		"inventory zero counts as absent and falls back to sales stock")

	res = engine.Process(
		[]SalesRow{mkSales("1", "", "A", "1", "10", "10", "1")},
		[]InventoryRow{mkInv("1", "", "", "5", "1")},
	)
	assert.Equal(t, 5.0, productByKey(t, res, "EAN:1").Stock,
		"nonzero inventory stock strictly wins")

	res = engine.Process(
		[]SalesRow{mkSales("1", "", "A", "1", "10", "10", "1")},
		[]InventoryRow{mkInv("1", "", "", "-2", "1")},
	)
	assert.Equal(t, -2.0, productByKey(t, res, "EAN:1").Stock,
		"negative inventory stock is nonzero and still wins")
}

func TestStockoutAndStagnantNeverBothSet(t *testing.T) {
	engine := NewDefaultEngine()
	res := engine.Process(
		[]SalesRow{
			mkSales("1", "", "vendido e zerado", "4", "0", "40", "2"),
			mkSales("2", "", "vendido com estoque", "4", "9", "40", "2"),
			mkSales("3", "", "sem venda sem estoque", "0", "0", "0", "2"),
		},
		[]InventoryRow{
			mkInv("4", "", "parado", "12", "3"),
		},
	)

	for _, p := range res.Consolidated {
		assert.False(t, p.Stockout && p.Stagnant,
			"flag_falta and flag_parado must be mutually exclusive (%s)", p.MergeKey)
	}
	assert.True(t, productByKey(t, res, "EAN:1").Stockout)
	assert.True(t, productByKey(t, res, "EAN:4").Stagnant)
	assert.False(t, productByKey(t, res, "EAN:3").Stockout)
	assert.False(t, productByKey(t, res, "EAN:3").Stagnant)
}

func TestScenarioStockoutProduct(t *testing.T) {
	engine := NewDefaultEngine()
	res := engine.Process(
		[]SalesRow{mkSales("1", "", "Produto A", "10", "0", "500", "20")},
		nil,
	)

	p := productByKey(t, res, "EAN:1")
	assert.Equal(t, 0.0, p.Stock)
	assert.True(t, p.Stockout)
	assert.False(t, p.Stagnant)
	assert.Equal(t, CurveA, p.Curve, "10 >= 9 is curve A")
	assert.InDelta(t, 200.0, p.CMVPeriod, moneyEpsilon)
	assert.InDelta(t, 300.0, p.GrossProfit, moneyEpsilon)

	require.Len(t, res.Stockouts, 1)
	assert.Empty(t, res.Stagnant)
}

func TestScenarioWithInventoryRow(t *testing.T) {
	engine := NewDefaultEngine()
	res := engine.Process(
		[]SalesRow{mkSales("1", "", "Produto A", "10", "0", "500", "20")},
		[]InventoryRow{mkInv("1", "", "Produto A", "50", "18")},
	)

	p := productByKey(t, res, "EAN:1")
	assert.Equal(t, 50.0, p.Stock)
	assert.False(t, p.Stockout, "stock > 0 clears the stockout flag")
	assert.Equal(t, 20.0, p.UnitCost, "sales-side cost is preferred over inventory cost")

	// regulator for curve A: round(10/90 * 15) = 2; excess = 50 - 2
	assert.Equal(t, 2.0, p.RegulatorUnits)
	assert.Equal(t, 48.0, p.ExcessUnits)
	assert.InDelta(t, 960.0, p.ExcessValue, moneyEpsilon)
	assert.True(t, p.ExcessFlag)
}

func TestPreferredCostFallsBackToInventory(t *testing.T) {
	engine := NewDefaultEngine()
	res := engine.Process(
		[]SalesRow{mkSales("1", "", "A", "2", "0", "20", "0")},
		[]InventoryRow{mkInv("1", "", "", "4", "7")},
	)

	p := productByKey(t, res, "EAN:1")
	assert.Equal(t, 7.0, p.UnitCost)
	assert.InDelta(t, 14.0, p.CMVPeriod, moneyEpsilon)
}

func TestRegulatorIsDeterministicAndExcessNonNegative(t *testing.T) {
	engine := NewDefaultEngine()
	for _, stock := range []string{"-5", "0", "1", "2", "100"} {
		res := engine.Process(
			[]SalesRow{mkSales("9", "", "A", "9", stock, "90", "3")},
			nil,
		)
		p := productByKey(t, res, "EAN:9")
		// curve A, round(9/90*15) = round(1.5) = 2
		assert.Equal(t, 2.0, p.RegulatorUnits, "stock %s", stock)
		assert.GreaterOrEqual(t, p.ExcessUnits, 0.0, "excess is never negative (stock %s)", stock)
	}
}

func TestNoTurnoverProductHasNoRegulator(t *testing.T) {
	engine := NewDefaultEngine()
	res := engine.Process(nil, []InventoryRow{mkInv("5", "", "parado", "30", "2")})

	p := productByKey(t, res, "EAN:5")
	assert.Equal(t, CurveSemGiro, p.Curve)
	assert.Equal(t, 0.0, p.RegulatorUnits)
	assert.Equal(t, 30.0, p.ExcessUnits, "all stagnant stock is excess against a zero target")
	assert.InDelta(t, 60.0, p.ExcessValue, moneyEpsilon)
}

func TestSummaryExcessTotalsMatchProductSums(t *testing.T) {
	engine := NewDefaultEngine()
	res := engine.Process(
		[]SalesRow{
			mkSales("1", "", "a", "10", "40", "500", "20"),
			mkSales("2", "", "b", "3", "90", "60", "4"),
			mkSales("3", "", "c", "1", "0", "15", "5"),
		},
		[]InventoryRow{
			mkInv("2", "", "", "120", "4"),
			mkInv("4", "", "parado", "55", "2"),
		},
	)

	var units, value float64
	for _, p := range res.Consolidated {
		units += p.ExcessUnits
		value += p.ExcessValue
	}
	assert.Equal(t, units, res.Summary.TotalExcessUnits)
	assert.InDelta(t, value, res.Summary.TotalExcessValue, moneyEpsilon)
}

func TestGlobalStockoutIndexUsesSalesStreamOnly(t *testing.T) {
	engine := NewDefaultEngine()
	// First product sold out on the sales snapshot but covered by
	// inventory: it counts toward the index even though flag_falta is
	// false after consolidation.
	res := engine.Process(
		[]SalesRow{
			mkSales("1", "", "a", "5", "0", "100", "2"),
			mkSales("2", "", "b", "5", "10", "300", "2"),
		},
		[]InventoryRow{mkInv("1", "", "", "50", "2")},
	)

	assert.False(t, productByKey(t, res, "EAN:1").Stockout)
	assert.InDelta(t, 25.0, res.Summary.StockoutRevenuePercent, moneyEpsilon,
		"index = 100/400 * 100, judged on the sales-side stock alone")
}

func TestPerCurveStockoutPercentSharesGlobalDenominator(t *testing.T) {
	engine := NewDefaultEngine()
	res := engine.Process(
		[]SalesRow{
			mkSales("1", "", "curva A em ruptura", "10", "0", "600", "10"),
			mkSales("2", "", "curva C com estoque", "1", "5", "400", "10"),
		},
		nil,
	)

	byCurve := make(map[Curve]CurveSummary)
	for _, c := range res.Summary.Curves {
		byCurve[c.Curve] = c
	}

	// denominator is the total revenue across all curves (1000), not
	// the curve's own revenue
	assert.InDelta(t, 60.0, byCurve[CurveA].StockoutPercent, moneyEpsilon)
	assert.InDelta(t, 0.0, byCurve[CurveC].StockoutPercent, moneyEpsilon)
}

func TestCoverageDaysRestrictedToSoldProducts(t *testing.T) {
	engine := NewDefaultEngine()
	res := engine.Process(
		[]SalesRow{mkSales("1", "", "a", "9", "18", "90", "2")},
		[]InventoryRow{mkInv("2", "", "parado sem venda", "500", "1")},
	)

	// (18 / 9) * 90; the stagnant product contributes nothing
	assert.InDelta(t, 180.0, res.Summary.AvgCoverageDays, moneyEpsilon)
}

func TestMonthlyAveragesAndMargin(t *testing.T) {
	engine := NewDefaultEngine()
	res := engine.Process(
		[]SalesRow{mkSales("1", "", "a", "9", "10", "900", "50")},
		nil,
	)

	s := res.Summary
	assert.InDelta(t, 300.0, s.MonthlySales, moneyEpsilon)
	assert.InDelta(t, 150.0, s.MonthlyCMV, moneyEpsilon)
	assert.InDelta(t, 450.0, s.QuarterGrossProfit, moneyEpsilon)
	assert.InDelta(t, 150.0, s.MonthlyGrossProfit, moneyEpsilon)
	assert.InDelta(t, 3.0, s.MonthlyUnitsSold, moneyEpsilon)
	assert.InDelta(t, 0.5, s.GrossMargin, moneyEpsilon, "margin is a fraction of revenue")
}

func TestSoldProductsStockUsesRealizedCost(t *testing.T) {
	engine := NewDefaultEngine()
	// Two sales rows on the same key with different costs: CMV uses the
	// last cost (6), so the realized cost CMV/qty is 6 as well.
	res := engine.Process(
		[]SalesRow{
			mkSales("1", "", "a", "2", "10", "40", "4"),
			mkSales("1", "", "a", "2", "10", "40", "6"),
		},
		nil,
	)

	s := res.Summary
	assert.InDelta(t, 10.0, s.SoldProductsStockUnits, moneyEpsilon)
	assert.InDelta(t, 60.0, s.SoldProductsStockValue, moneyEpsilon, "10 units at CMV/qty = 24/4")
}

func TestCurveSummariesAlwaysFourInOrder(t *testing.T) {
	engine := NewDefaultEngine()
	res := engine.Process(nil, nil)

	require.Len(t, res.Summary.Curves, 4)
	for i, c := range Curves {
		assert.Equal(t, c, res.Summary.Curves[i].Curve)
	}
	assert.Zero(t, res.Summary.TotalSKUs)
}
