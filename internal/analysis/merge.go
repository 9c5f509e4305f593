package analysis

// productAccum collects the contributions of all sales and inventory
// rows sharing one merge key, before metrics are computed.
type productAccum struct {
	mergeKey     string
	ean          string
	internalCode string
	description  string

	// sales side: quantity and revenue accumulate, scalars follow the
	// last sales row seen for the key
	quantitySold  float64
	netSales      float64
	salesUnitCost float64
	salesStock    float64

	// inventory side: last inventory row wins
	inventoryStock    float64
	inventoryUnitCost float64
}

// mergeResult is the output of the merge stage: one accumulator per
// unique merge key (in first-encounter order, so reruns of the same
// file pair reproduce historical results), plus two revenue totals
// accumulated purely from the sales stream. The sales-only totals feed
// the global stockout-revenue ratio, which deliberately ignores the
// consolidated stock (it reproduces a spreadsheet formula).
type mergeResult struct {
	products map[string]*productAccum
	order    []string

	salesOnlyRevenue         float64
	salesOnlyStockoutRevenue float64
}

func (m *mergeResult) getOrCreate(key string) *productAccum {
	if acc, ok := m.products[key]; ok {
		return acc
	}
	acc := &productAccum{mergeKey: key}
	m.products[key] = acc
	m.order = append(m.order, key)
	return acc
}

// fillIdentity records EAN, internal code and description on first
// non-empty sighting, from either stream. First writer wins.
func (acc *productAccum) fillIdentity(ean, internalCode, description string) {
	if acc.ean == "" {
		acc.ean = NormalizeKey(ean)
	}
	if acc.internalCode == "" {
		acc.internalCode = NormalizeKey(internalCode)
	}
	if acc.description == "" {
		acc.description = description
	}
}

// merge folds both row sets into consolidated accumulators. Rows with
// neither EAN nor internal code are silently dropped: they cannot be
// attributed to any product and are not counted anywhere.
func merge(sales []SalesRow, inventory []InventoryRow) *mergeResult {
	m := &mergeResult{products: make(map[string]*productAccum, len(sales))}

	for _, row := range sales {
		key := MakeMergeKey(row.EAN, row.InternalCode)
		if key == "" {
			continue
		}

		qty := ParseNumber(row.QuantitySold)
		net := ParseNumber(row.NetSales)
		stock := ParseNumber(row.CurrentStock)
		cost := ParseNumber(row.UnitCost)

		m.salesOnlyRevenue += net
		if qty > 0 && stock <= 0 {
			m.salesOnlyStockoutRevenue += net
		}

		acc := m.getOrCreate(key)
		acc.fillIdentity(row.EAN, row.InternalCode, row.Description)
		acc.quantitySold += qty
		acc.netSales += net
		acc.salesUnitCost = cost
		acc.salesStock = stock
	}

	for _, row := range inventory {
		key := MakeMergeKey(row.EAN, row.InternalCode)
		if key == "" {
			continue
		}

		acc := m.getOrCreate(key)
		acc.fillIdentity(row.EAN, row.InternalCode, row.Description)
		acc.inventoryStock = ParseNumber(row.CurrentStock)
		acc.inventoryUnitCost = ParseNumber(row.UnitCost)
	}

	return m
}
