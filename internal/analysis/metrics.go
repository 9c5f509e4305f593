package analysis

import "math"

// preferredCost picks the unit cost used for all valuation (CMV,
// regulator stock, excess): the sales-reported cost when positive, then
// the inventory-reported cost, else zero.
func preferredCost(salesCost, inventoryCost float64) float64 {
	if salesCost > 0 {
		return salesCost
	}
	if inventoryCost > 0 {
		return inventoryCost
	}
	return 0
}

// finalize computes every derived field for one accumulated product. It
// is a pure function of that product's accumulated fields; no
// cross-product dependency.
func (c CurveConfig) finalize(acc *productAccum) ConsolidatedProduct {
	cost := preferredCost(acc.salesUnitCost, acc.inventoryUnitCost)

	// Inventory stock wins whenever it is a nonzero number. A reported
	// inventory stock of exactly zero counts as absent and falls back
	// to the sales-side snapshot. Deliberate spreadsheet policy.
	stock := acc.inventoryStock
	if stock == 0 {
		stock = acc.salesStock
	}

	curve := c.Classify(acc.quantitySold)

	cmv := cost * acc.quantitySold
	grossProfit := acc.netSales - cmv

	// Regulador: ARRED((qtd/90) * EstoqueMaxDias; 0)
	dailyConsumption := acc.quantitySold / PeriodDays
	var regulatorUnits float64
	if dailyConsumption > 0 {
		regulatorUnits = math.Round(dailyConsumption * targetCoverageDays[curve])
	}

	excessUnits := math.Max(0, stock-regulatorUnits)

	description := acc.description
	if description == "" {
		description = "N/A"
	}

	return ConsolidatedProduct{
		MergeKey:       acc.mergeKey,
		EAN:            acc.ean,
		InternalCode:   acc.internalCode,
		Description:    description,
		QuantitySold:   acc.quantitySold,
		NetSales:       acc.netSales,
		CMVPeriod:      cmv,
		GrossProfit:    grossProfit,
		UnitCost:       cost,
		InventoryStock: acc.inventoryStock,
		SalesStock:     acc.salesStock,
		Stock:          stock,
		Curve:          curve,
		Stockout:       acc.quantitySold > 0 && stock <= 0,
		Stagnant:       acc.quantitySold == 0 && stock > 0,
		RegulatorUnits: regulatorUnits,
		ExcessUnits:    excessUnits,
		ExcessValue:    excessUnits * cost,
		ExcessFlag:     excessUnits > 0,
	}
}
