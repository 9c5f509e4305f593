package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/farmaindex/backend-go/internal/analysis"
)

// View selects which product subset an export represents; it only
// affects the sheet name, the layout is always the same.
type View string

const (
	ViewAll      View = "all"
	ViewStockout View = "stockout"
	ViewStagnant View = "stagnant"
)

// exportHeader is the fixed column order of the índice-de-faltas
// export. Downstream spreadsheets rely on this exact layout.
var exportHeader = []interface{}{
	"Código interno",
	"EAN",
	"Descrição",
	"Quantidade Vendida",
	"Estoque atual",
	"Valor de venda líquida total",
	"Custo unitário",
	"CMV 90d (R$)",
	"Lucro Bruto 90d (R$)",
	"Curva ABC",
	"Em falta?",
	"Parado?",
}

func sheetNameFor(view View) string {
	switch view {
	case ViewStockout:
		return "Produtos em falta"
	case ViewStagnant:
		return "Itens parados"
	default:
		return "Base consolidada"
	}
}

func simNao(b bool) string {
	if b {
		return "SIM"
	}
	return "NÃO"
}

// WriteProducts writes a product subset as an XLSX workbook in the
// standard export layout. The exported unit cost is the realized cost
// (CMV / quantity sold); products without sales leave the cell blank.
func WriteProducts(w io.Writer, products []analysis.ConsolidatedProduct, view View) error {
	if len(products) == 0 {
		return fmt.Errorf("nenhum dado para exportar")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetNameFor(view)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name export sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for i, p := range products {
		var unitCost interface{}
		if p.QuantitySold > 0 {
			unitCost = p.CMVPeriod / p.QuantitySold
		}

		row := []interface{}{
			p.InternalCode,
			p.EAN,
			p.Description,
			p.QuantitySold,
			p.Stock,
			p.NetSales,
			unitCost,
			p.CMVPeriod,
			p.GrossProfit,
			string(p.Curve),
			simNao(p.Stockout),
			simNao(p.Stagnant),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute export cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write export row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write export workbook: %w", err)
	}
	return nil
}
