package analysis

import (
	"fmt"
	"strings"
)

// Required column names, exactly as they come out of the Excel files.
const (
	ColEAN          = "EAN"
	ColInternalCode = "Código interno"
	ColDescription  = "Descrição"
	ColQuantitySold = "Quantidade Vendida"
	ColCurrentStock = "Estoque atual"
	ColNetSales     = "Valor de venda líquida total"
	ColUnitCost     = "Custo unitário"
)

// SalesRequiredColumns must all be present in the vendas sheet header.
var SalesRequiredColumns = []string{
	ColEAN,
	ColDescription,
	ColQuantitySold,
	ColCurrentStock,
	ColNetSales,
	ColUnitCost,
}

// InventoryRequiredColumns must all be present in the inventário sheet
// header.
var InventoryRequiredColumns = []string{
	ColInternalCode,
	ColEAN,
	ColDescription,
	ColCurrentStock,
	ColUnitCost,
}

// ValidateColumns checks both sheets before the engine runs: non-empty
// inputs and all required columns present. It reports the first problem
// found, naming the sheet and the missing column. The engine is never
// invoked on input that fails this check.
func ValidateColumns(salesHeader, inventoryHeader []string, salesRows, inventoryRows int) error {
	if salesRows == 0 {
		return fmt.Errorf("a planilha de vendas está vazia ou não pôde ser lida")
	}
	if inventoryRows == 0 {
		return fmt.Errorf("a planilha de inventário está vazia ou não pôde ser lida")
	}
	if col := firstMissing(SalesRequiredColumns, salesHeader); col != "" {
		return fmt.Errorf("coluna obrigatória ausente na planilha de Vendas: '%s'", col)
	}
	if col := firstMissing(InventoryRequiredColumns, inventoryHeader); col != "" {
		return fmt.Errorf("coluna obrigatória ausente na planilha de Inventário: '%s'", col)
	}
	return nil
}

func firstMissing(required, header []string) string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = struct{}{}
	}
	for _, col := range required {
		if _, ok := present[col]; !ok {
			return col
		}
	}
	return ""
}

// SalesRowsFromRecords converts header-keyed records (as produced by the
// spreadsheet reader) into the typed row schema. Missing columns map to
// empty cells.
func SalesRowsFromRecords(records []map[string]string) []SalesRow {
	rows := make([]SalesRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, SalesRow{
			EAN:          rec[ColEAN],
			InternalCode: rec[ColInternalCode],
			Description:  rec[ColDescription],
			QuantitySold: rec[ColQuantitySold],
			CurrentStock: rec[ColCurrentStock],
			NetSales:     rec[ColNetSales],
			UnitCost:     rec[ColUnitCost],
		})
	}
	return rows
}

// InventoryRowsFromRecords converts header-keyed records into typed
// inventory rows.
func InventoryRowsFromRecords(records []map[string]string) []InventoryRow {
	rows := make([]InventoryRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, InventoryRow{
			InternalCode: rec[ColInternalCode],
			EAN:          rec[ColEAN],
			Description:  rec[ColDescription],
			CurrentStock: rec[ColCurrentStock],
			UnitCost:     rec[ColUnitCost],
		})
	}
	return rows
}
