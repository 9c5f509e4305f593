package analysis

// Curve is the ABC demand classification of a product. SEM_GIRO marks
// products with zero sales in the period.
type Curve string

const (
	CurveA       Curve = "A"
	CurveB       Curve = "B"
	CurveC       Curve = "C"
	CurveSemGiro Curve = "SEM_GIRO"
)

// Curves lists the classification buckets in report order.
var Curves = []Curve{CurveA, CurveB, CurveC, CurveSemGiro}

// PeriodDays is the sales window covered by the vendas spreadsheet.
const PeriodDays = 90.0

// periodMonths is used for the monthly averages (fixed 90-day quarter).
const periodMonths = 3.0

// targetCoverageDays maps a curve to its regulator stock target in days.
var targetCoverageDays = map[Curve]float64{
	CurveA:       15,
	CurveB:       26,
	CurveC:       46,
	CurveSemGiro: 0,
}

// SalesRow is one line of the vendas spreadsheet. Values are kept as the
// raw cell strings; numeric coercion happens inside the engine so that
// malformed cells degrade to zero instead of failing the whole upload.
type SalesRow struct {
	EAN          string
	InternalCode string
	Description  string
	QuantitySold string
	CurrentStock string
	NetSales     string
	UnitCost     string
}

// InventoryRow is one line of the inventário spreadsheet.
type InventoryRow struct {
	InternalCode string
	EAN          string
	Description  string
	CurrentStock string
	UnitCost     string
}

// ConsolidatedProduct is the per-SKU output of the engine. JSON field
// names follow the historical persisted representation and must not
// change, or stored runs stop round-tripping.
type ConsolidatedProduct struct {
	MergeKey       string  `json:"chave_merge"`
	EAN            string  `json:"EAN_consolidado"`
	InternalCode   string  `json:"codigoInterno"`
	Description    string  `json:"descricaoConsolidada"`
	QuantitySold   float64 `json:"quantidadeVendida90d"`
	NetSales       float64 `json:"valorVendaLiquidaTotal"`
	CMVPeriod      float64 `json:"cmvPeriodo"`
	GrossProfit    float64 `json:"lucroBrutoPeriodo"`
	UnitCost       float64 `json:"custoUnitario"`
	InventoryStock float64 `json:"estoqueAtualInventario"`
	SalesStock     float64 `json:"estoqueAtualVendas"`
	Stock          float64 `json:"estoqueAtualConsolidado"`
	Curve          Curve   `json:"Curva_ABC"`
	Stockout       bool    `json:"flag_falta"`
	Stagnant       bool    `json:"flag_parado"`
	RegulatorUnits float64 `json:"estoqueReguladorUnidades"`
	ExcessUnits    float64 `json:"excessoUnidades"`
	ExcessValue    float64 `json:"excessoValor"`
	ExcessFlag     bool    `json:"flag_excesso"`
}

// CurveSummary is the per-curve rollup. Exactly four instances exist per
// run, one per Curve.
type CurveSummary struct {
	Curve              Curve   `json:"curva"`
	SKUs               int     `json:"skus"`
	StagnantSKUs       int     `json:"skusParados"`
	StockoutSKUs       int     `json:"skusEmFalta"`
	Sales90d           float64 `json:"venda90d"`
	CMV90d             float64 `json:"cmv90d"`
	GrossProfit90d     float64 `json:"lucroBruto90d"`
	StagnantStockUnits float64 `json:"estoqueParadoUnidades"`
	StagnantStockValue float64 `json:"estoqueParadoValor"`
	ExcessUnits        float64 `json:"excessoUnidades"`
	ExcessValue        float64 `json:"excessoValor"`
	AvgCoverageDays    float64 `json:"diasEstoqueMedio"`
	StockoutPercent    float64 `json:"faltaPercent"`
}

// Summary is the organization-wide rollup shown on the dashboard.
type Summary struct {
	TotalSKUs              int            `json:"totalSKUs"`
	SKUsWithSales          int            `json:"skusComVenda"`
	StockoutSKUs           int            `json:"skusEmFalta"`
	StagnantSKUs           int            `json:"skusParados"`
	StockoutRevenuePercent float64        `json:"indiceFaltas"`
	StagnantStockUnits     float64        `json:"estoqueParadoUnidades"`
	StagnantStockValue     float64        `json:"estoqueParadoValor"`
	QuarterSales           float64        `json:"vendaTrimestre"`
	MonthlySales           float64        `json:"vendaMediaMes"`
	QuarterCMV             float64        `json:"cmvTrimestre"`
	MonthlyCMV             float64        `json:"cmvMediaMes"`
	QuarterGrossProfit     float64        `json:"lucroBrutoTrimestre"`
	GrossMargin            float64        `json:"margemBrutaPercent"`
	MonthlyGrossProfit     float64        `json:"lucroBrutoMediaMes"`
	QuarterUnitsSold       float64        `json:"unidadesVendidasTrimestre"`
	MonthlyUnitsSold       float64        `json:"unidadesVendidasMediaMes"`
	SoldProductsStockValue float64        `json:"estoqueProdutosVendidosValor"`
	SoldProductsStockUnits float64        `json:"estoqueProdutosVendidosUnidades"`
	RegulatorStockValue    float64        `json:"estoqueReguladorValor"`
	RegulatorStockUnits    float64        `json:"estoqueReguladorUnidades"`
	AvgCoverageDays        float64        `json:"diasEstoqueMedioGeral"`
	TotalExcessUnits       float64        `json:"excessoUnidadesTotal"`
	TotalExcessValue       float64        `json:"excessoValorTotal"`
	Curves                 []CurveSummary `json:"curvas"`
}

// Result is the full output of one engine run.
type Result struct {
	Summary      Summary               `json:"summary"`
	Consolidated []ConsolidatedProduct `json:"consolidated"`
	Stockouts    []ConsolidatedProduct `json:"faltas"`
	Stagnant     []ConsolidatedProduct `json:"parados"`
}
