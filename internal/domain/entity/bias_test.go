package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBiasLevel(t *testing.T) {
	tests := []struct {
		name    string
		overall float64
		want    string
	}{
		{"zero", 0.0, BiasLevelLow},
		{"just below low boundary", 0.19, BiasLevelLow},
		{"low boundary", 0.2, BiasLevelModerate},
		{"moderate", 0.39, BiasLevelModerate},
		{"high boundary", 0.4, BiasLevelHigh},
		{"high", 0.59, BiasLevelHigh},
		{"very high boundary", 0.6, BiasLevelVeryHigh},
		{"max", 1.0, BiasLevelVeryHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BiasLevel(tt.overall))
		})
	}
}
