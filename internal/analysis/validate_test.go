package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateColumnsEmptySheets(t *testing.T) {
	err := ValidateColumns(SalesRequiredColumns, InventoryRequiredColumns, 0, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vendas", "error must name the empty sheet")

	err = ValidateColumns(SalesRequiredColumns, InventoryRequiredColumns, 5, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inventário")
}

func TestValidateColumnsMissingColumn(t *testing.T) {
	salesHeader := []string{"EAN", "Descrição", "Estoque atual", "Valor de venda líquida total", "Custo unitário"}
	err := ValidateColumns(salesHeader, InventoryRequiredColumns, 1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Quantidade Vendida", "error names the first missing column")
	assert.Contains(t, err.Error(), "Vendas")

	invHeader := []string{"EAN", "Descrição", "Estoque atual", "Custo unitário"}
	err = ValidateColumns(SalesRequiredColumns, invHeader, 1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Código interno")
	assert.Contains(t, err.Error(), "Inventário")
}

func TestValidateColumnsOK(t *testing.T) {
	assert.NoError(t, ValidateColumns(SalesRequiredColumns, InventoryRequiredColumns, 3, 3))
}

func TestValidateColumnsTrimsHeaderCells(t *testing.T) {
	header := append([]string{}, SalesRequiredColumns...)
	header[0] = "  EAN  "
	assert.NoError(t, ValidateColumns(header, InventoryRequiredColumns, 1, 1))
}

func TestRowConversionFromRecords(t *testing.T) {
	sales := SalesRowsFromRecords([]map[string]string{{
		ColEAN:          "789",
		ColDescription:  "Produto",
		ColQuantitySold: "4",
		ColCurrentStock: "2",
		ColNetSales:     "80,5",
		ColUnitCost:     "10",
	}})
	require.Len(t, sales, 1)
	assert.Equal(t, "789", sales[0].EAN)
	assert.Equal(t, "80,5", sales[0].NetSales, "conversion keeps the raw cell; coercion is the engine's job")

	inv := InventoryRowsFromRecords([]map[string]string{{
		ColInternalCode: "C1",
		ColCurrentStock: "9",
	}})
	require.Len(t, inv, 1)
	assert.Equal(t, "C1", inv[0].InternalCode)
	assert.Equal(t, "", inv[0].EAN)
}
