package analysis

// salesOnlyTotals carries the two revenue sums accumulated while
// iterating the raw sales rows. They are not recomputed from the
// consolidated products: the global stockout index is defined on the
// sales sheet alone, with the sales-side stock snapshot.
type salesOnlyTotals struct {
	revenue         float64
	stockoutRevenue float64
}

type curveRevenue struct {
	total    float64
	stockout float64
}

type coverageSums struct {
	stock float64
	sold  float64
}

// aggregate folds the consolidated products into the organization-wide
// summary plus the four per-curve rollups.
func aggregate(products []ConsolidatedProduct, salesOnly salesOnlyTotals) Summary {
	s := Summary{TotalSKUs: len(products)}

	if salesOnly.revenue > 0 {
		s.StockoutRevenuePercent = salesOnly.stockoutRevenue / salesOnly.revenue * 100
	}

	curves := make(map[Curve]*CurveSummary, len(Curves))
	for _, c := range Curves {
		curves[c] = &CurveSummary{Curve: c}
	}
	revenueByCurve := make(map[Curve]*curveRevenue, len(Curves))
	coverageByCurve := make(map[Curve]*coverageSums, len(Curves))
	for _, c := range Curves {
		revenueByCurve[c] = &curveRevenue{}
		coverageByCurve[c] = &coverageSums{}
	}

	var coverage coverageSums

	for i := range products {
		p := &products[i]
		c := curves[p.Curve]

		s.QuarterSales += p.NetSales
		s.QuarterCMV += p.CMVPeriod
		s.QuarterUnitsSold += p.QuantitySold

		if p.QuantitySold > 0 {
			s.SKUsWithSales++

			// Stock valuation for sold products uses the realized unit
			// cost (CMV / quantity) and only falls back to the
			// preferred cost when there is no CMV. This is a second,
			// intentionally different cost rule from the one used for
			// regulator and excess valuation.
			realCost := p.UnitCost
			if p.CMVPeriod > 0 {
				realCost = p.CMVPeriod / p.QuantitySold
			}
			s.SoldProductsStockUnits += p.Stock
			s.SoldProductsStockValue += p.Stock * realCost

			s.RegulatorStockUnits += p.RegulatorUnits
			s.RegulatorStockValue += p.RegulatorUnits * p.UnitCost

			coverage.stock += p.Stock
			coverage.sold += p.QuantitySold
			coverageByCurve[p.Curve].stock += p.Stock
			coverageByCurve[p.Curve].sold += p.QuantitySold

			// Per-curve stockout revenue is judged on the sales-side
			// stock snapshot, not the consolidated stock.
			revenueByCurve[p.Curve].total += p.NetSales
			if p.SalesStock <= 0 {
				revenueByCurve[p.Curve].stockout += p.NetSales
			}
		}

		c.SKUs++
		c.Sales90d += p.NetSales
		c.CMV90d += p.CMVPeriod
		c.GrossProfit90d += p.NetSales - p.CMVPeriod

		if p.Stagnant {
			s.StagnantSKUs++
			c.StagnantSKUs++
			s.StagnantStockUnits += p.Stock
			s.StagnantStockValue += p.Stock * p.UnitCost
			c.StagnantStockUnits += p.Stock
			c.StagnantStockValue += p.Stock * p.UnitCost
		}
		if p.Stockout {
			s.StockoutSKUs++
			c.StockoutSKUs++
		}

		c.ExcessUnits += p.ExcessUnits
		c.ExcessValue += p.ExcessValue
		s.TotalExcessUnits += p.ExcessUnits
		s.TotalExcessValue += p.ExcessValue
	}

	if coverage.sold > 0 {
		s.AvgCoverageDays = coverage.stock / coverage.sold * PeriodDays
	}
	for _, c := range Curves {
		if sums := coverageByCurve[c]; sums.sold > 0 {
			curves[c].AvgCoverageDays = sums.stock / sums.sold * PeriodDays
		}
	}

	// Every curve's stockout percentage shares the same denominator: the
	// total revenue across all curves (spreadsheet cell $L$18). The
	// percentages therefore do not sum to the global index in general;
	// historical reports depend on this exact formula.
	var totalRevenue float64
	for _, c := range Curves {
		totalRevenue += revenueByCurve[c].total
	}
	if totalRevenue > 0 {
		for _, c := range Curves {
			curves[c].StockoutPercent = revenueByCurve[c].stockout / totalRevenue * 100
		}
	}

	s.QuarterGrossProfit = s.QuarterSales - s.QuarterCMV
	s.MonthlySales = s.QuarterSales / periodMonths
	s.MonthlyCMV = s.QuarterCMV / periodMonths
	s.MonthlyGrossProfit = s.QuarterGrossProfit / periodMonths
	s.MonthlyUnitsSold = s.QuarterUnitsSold / periodMonths
	if s.QuarterSales > 0 {
		s.GrossMargin = s.QuarterGrossProfit / s.QuarterSales
	}

	s.Curves = make([]CurveSummary, 0, len(Curves))
	for _, c := range Curves {
		s.Curves = append(s.Curves, *curves[c])
	}

	return s
}
