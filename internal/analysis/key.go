package analysis

import "strings"

// Merge key prefixes. EAN identifies a product across both spreadsheets;
// the internal code is the fallback when no EAN is present.
const (
	eanKeyPrefix  = "EAN:"
	codeKeyPrefix = "COD:"
)

// NormalizeKey trims an identifier cell; an all-whitespace value counts
// as absent.
func NormalizeKey(value string) string {
	return strings.TrimSpace(value)
}

// MakeMergeKey derives the consolidation key for a row. EAN takes
// priority over the internal code. Rows with neither identifier return
// "" and are dropped from the consolidation.
func MakeMergeKey(ean, internalCode string) string {
	if v := NormalizeKey(ean); v != "" {
		return eanKeyPrefix + v
	}
	if v := NormalizeKey(internalCode); v != "" {
		return codeKeyPrefix + v
	}
	return ""
}
