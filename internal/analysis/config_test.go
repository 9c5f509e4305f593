package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCurveConfigRejectsInvalidThresholds(t *testing.T) {
	cases := []struct {
		name    string
		a, b, c float64
	}{
		{"zero A", 0, 3, 1},
		{"negative B", 9, -3, 1},
		{"zero C", 9, 3, 0},
		{"A not above B", 3, 3, 1},
		{"B not above C", 9, 1, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCurveConfig(tc.a, tc.b, tc.c)
			assert.Error(t, err)
		})
	}
}

func TestNewCurveConfigAcceptsDefaults(t *testing.T) {
	cfg, err := NewCurveConfig(9, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, DefaultCurveConfig, cfg)
}

func TestClassifyBoundaries(t *testing.T) {
	cfg := DefaultCurveConfig
	cases := []struct {
		qty  float64
		want Curve
	}{
		{10, CurveA},
		{9, CurveA},
		{8, CurveB},
		{3, CurveB},
		{2, CurveC},
		{1, CurveC},
		{0.5, CurveSemGiro},
		{0, CurveSemGiro},
		{-1, CurveSemGiro},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cfg.Classify(tc.qty), "quantity %v", tc.qty)
	}
}
