// Package excel reads and writes the XLSX workbooks the analysis works
// with. Reading targets the first sheet only, mirroring how clients
// export their vendas and inventário reports.
package excel

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadSheet reads the first sheet of an XLSX workbook and returns the
// header row plus one header-keyed record per data row. Rows with no
// non-empty cell are skipped; cells beyond the header width are
// ignored.
func ReadSheet(r io.Reader) ([]string, []map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open xlsx workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("xlsx workbook has no sheets")
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	defer rows.Close()

	var header []string
	var records []map[string]string

	for rows.Next() {
		cells, err := rows.Columns()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row from sheet %s: %w", sheets[0], err)
		}

		if header == nil {
			for _, c := range cells {
				header = append(header, strings.TrimSpace(c))
			}
			continue
		}

		record := make(map[string]string, len(header))
		empty := true
		for i, col := range header {
			if col == "" {
				continue
			}
			var value string
			if i < len(cells) {
				value = cells[i]
			}
			if strings.TrimSpace(value) != "" {
				empty = false
			}
			record[col] = value
		}
		if empty {
			continue
		}
		records = append(records, record)
	}
	if err := rows.Error(); err != nil {
		return nil, nil, fmt.Errorf("error iterating rows in sheet %s: %w", sheets[0], err)
	}
	if header == nil {
		return nil, nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	return header, records, nil
}

// ReadSheetFile is ReadSheet over a file on disk.
func ReadSheetFile(path string) ([]string, []map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSheet(f)
}
