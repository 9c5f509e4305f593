package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeMergeKey(t *testing.T) {
	assert.Equal(t, "EAN:123", MakeMergeKey("123", "X1"), "EAN takes priority over internal code")
	assert.Equal(t, "EAN:123", MakeMergeKey("  123  ", ""), "whitespace is trimmed")
	assert.Equal(t, "COD:X1", MakeMergeKey("", "X1"), "internal code is the fallback")
	assert.Equal(t, "COD:X1", MakeMergeKey("   ", " X1 "), "blank EAN counts as absent")
	assert.Equal(t, "", MakeMergeKey("", ""), "no identifier yields no key")
	assert.Equal(t, "", MakeMergeKey("  ", "  "))
}
