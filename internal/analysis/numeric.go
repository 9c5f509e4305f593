package analysis

import (
	"regexp"
	"strconv"
	"strings"
)

// thousandsGrouped matches Brazilian display integers with dot group
// separators: "1.234", "12.345.678".
var thousandsGrouped = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// ParseNumber coerces a raw spreadsheet cell into a float64. Empty cells
// and unparseable values become 0, never an error.
//
// Cells in Brazilian display format lose their thousands dots and their
// decimal comma becomes a decimal point: "1.234,56" -> 1234.56 and
// "1.234" -> 1234. A cell is display-formatted when it carries a comma
// or when its dots group digits in threes; any other dotted string is a
// machine-formatted number as the workbook reader renders numeric cells
// ("10.5" -> 10.5).
func ParseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	if strings.Contains(s, ",") || thousandsGrouped.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}
