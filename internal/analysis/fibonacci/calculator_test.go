package fibonacci

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skalibog/mtsa/internal/analysis/timeframe"
	"github.com/skalibog/mtsa/pkg/models"
)

func TestCalculateSupport(t *testing.T) {
	levels := Calculate(120, 100, 110, models.SignalBuy, timeframe.H1)

	assert.Equal(t, models.LevelSupport, levels.Type)
	assert.InDelta(t, 115.28, levels.Level1, 1e-9)
	assert.InDelta(t, 112.36, levels.Level2, 1e-9)
	assert.InDelta(t, 107.64, levels.Level3, 1e-9)
	assert.InDelta(t, 98.0, levels.StopLoss, 1e-9)
}

func TestCalculateResistance(t *testing.T) {
	levels := Calculate(120, 100, 110, models.SignalSell, timeframe.H1)

	assert.Equal(t, models.LevelResistance, levels.Type)
	assert.InDelta(t, 104.72, levels.Level1, 1e-9)
	assert.InDelta(t, 107.64, levels.Level2, 1e-9)
	assert.InDelta(t, 112.36, levels.Level3, 1e-9)
	assert.InDelta(t, 122.4, levels.StopLoss, 1e-9)
}

func TestCalculateHoldUsesSupport(t *testing.T) {
	levels := Calculate(120, 100, 110, models.SignalHold, timeframe.H1)

	assert.Equal(t, models.LevelSupport, levels.Type)
}

func TestCalculateOrdering(t *testing.T) {
	for _, code := range timeframe.All() {
		t.Run(code, func(t *testing.T) {
			support := Calculate(250, 200, 230, models.SignalBuy, code)
			assert.Greater(t, support.Level1, support.Level2)
			assert.Greater(t, support.Level2, support.Level3)
			assert.Less(t, support.StopLoss, 200.0)

			resistance := Calculate(250, 200, 230, models.SignalSell, code)
			assert.Less(t, resistance.Level1, resistance.Level2)
			assert.Less(t, resistance.Level2, resistance.Level3)
			assert.Greater(t, resistance.StopLoss, 250.0)
		})
	}
}

func TestCalculateFlatRange(t *testing.T) {
	levels := Calculate(100, 100, 100, models.SignalBuy, timeframe.D1)

	assert.Equal(t, 100.0, levels.Level1)
	assert.Equal(t, 100.0, levels.Level2)
	assert.Equal(t, 100.0, levels.Level3)
}

func TestCalculateUnknownTimeframe(t *testing.T) {
	assert.Equal(t,
		Calculate(120, 100, 110, models.SignalBuy, timeframe.H1),
		Calculate(120, 100, 110, models.SignalBuy, "7h"))
}

func TestNearAny(t *testing.T) {
	levels := models.FibonacciLevels{Level1: 115.28, Level2: 112.36, Level3: 107.64}

	tests := []struct {
		name string
		last float64
		want bool
	}{
		{name: "рядом с уровнем", last: 110, want: true},
		{name: "на уровне", last: 112.36, want: true},
		{name: "далеко", last: 130, want: false},
		{name: "нулевая цена", last: 0, want: false},
		{name: "отрицательная цена", last: -5, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NearAny(levels, tt.last, ProximityTolerance))
		})
	}
}
