package timeframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	codes := All()

	require.Len(t, codes, 10)
	assert.Equal(t, []string{"15m", "30m", "1h", "2h", "4h", "1d", "3d", "1w", "2w", "1m"}, codes)
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name        string
		code        string
		sensitivity float64
		volatility  float64
		fibonacci   float64
		ok          bool
	}{
		{name: "15 минут", code: "15m", sensitivity: 1.8, volatility: 1.5, fibonacci: 0.5, ok: true},
		{name: "1 час", code: "1h", sensitivity: 1.4, volatility: 1.2, fibonacci: 1.0, ok: true},
		{name: "4 часа", code: "4h", sensitivity: 1.0, volatility: 1.0, fibonacci: 1.8, ok: true},
		{name: "месяц", code: "1m", sensitivity: 0.3, volatility: 0.4, fibonacci: 8.0, ok: true},
		{name: "неизвестный код", code: "5m", sensitivity: 1.4, volatility: 1.2, fibonacci: 1.0, ok: false},
		{name: "пустой код", code: "", sensitivity: 1.4, volatility: 1.2, fibonacci: 1.0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, ok := Lookup(tt.code)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.sensitivity, cfg.Sensitivity)
			assert.Equal(t, tt.volatility, cfg.VolatilityMultiplier)
			assert.Equal(t, tt.fibonacci, cfg.FibonacciMultiplier)
			assert.Equal(t, tt.ok, Supported(tt.code))
		})
	}
}

func TestTableMonotonic(t *testing.T) {
	codes := All()
	for i := 1; i < len(codes); i++ {
		prev, cur := Get(codes[i-1]), Get(codes[i])

		assert.Greater(t, prev.Sensitivity, cur.Sensitivity, cur.Code)
		assert.Greater(t, prev.VolatilityMultiplier, cur.VolatilityMultiplier, cur.Code)
		assert.Less(t, prev.FibonacciMultiplier, cur.FibonacciMultiplier, cur.Code)
	}
}
