package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/farmaindex/backend-go/internal/analysis"
)

// buildWorkbook assembles an in-memory XLSX with the given rows on the
// first sheet.
func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadSheet(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"EAN", "Descrição", "Quantidade Vendida"},
		{"123", "Dipirona", 10},
		{nil, nil, nil},
		{"456", "Paracetamol", "2,5"},
	})

	header, records, err := ReadSheet(buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"EAN", "Descrição", "Quantidade Vendida"}, header)
	require.Len(t, records, 2, "fully empty rows are skipped")
	assert.Equal(t, "123", records[0]["EAN"])
	assert.Equal(t, "10", records[0]["Quantidade Vendida"])
	assert.Equal(t, "2,5", records[1]["Quantidade Vendida"], "cells stay raw strings")
}

func TestReadSheetShortRows(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"EAN", "Descrição", "Estoque atual"},
		{"789"},
	})

	_, records, err := ReadSheet(buf)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0]["Estoque atual"], "missing trailing cells map to empty")
}

func TestReadSheetRejectsGarbage(t *testing.T) {
	_, _, err := ReadSheet(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}

func TestWriteProductsRoundTrip(t *testing.T) {
	products := []analysis.ConsolidatedProduct{
		{
			MergeKey:     "EAN:1",
			EAN:          "1",
			InternalCode: "C1",
			Description:  "Produto A",
			QuantitySold: 10,
			NetSales:     500,
			CMVPeriod:    200,
			GrossProfit:  300,
			Stock:        0,
			Curve:        analysis.CurveA,
			Stockout:     true,
		},
		{
			MergeKey:    "EAN:2",
			EAN:         "2",
			Description: "Produto B",
			Stock:       30,
			Curve:       analysis.CurveSemGiro,
			Stagnant:    true,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteProducts(&buf, products, ViewStockout))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Equal(t, []string{"Produtos em falta"}, sheets)

	rows, err := f.GetRows(sheets[0])
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Código interno", rows[0][0])
	assert.Equal(t, "Parado?", rows[0][11])

	assert.Equal(t, "C1", rows[1][0])
	assert.Equal(t, "20", rows[1][6], "unit cost is CMV/qty")
	assert.Equal(t, "A", rows[1][9])
	assert.Equal(t, "SIM", rows[1][10])
	assert.Equal(t, "NÃO", rows[1][11])

	assert.Equal(t, "SEM_GIRO", rows[2][9])
	assert.Equal(t, "SIM", rows[2][11])
}

func TestWriteProductsEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteProducts(&buf, nil, ViewAll))
}
