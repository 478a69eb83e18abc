package fibonacci

import (
	"math"
	"sort"

	"github.com/skalibog/mtsa/internal/analysis/timeframe"
	"github.com/skalibog/mtsa/pkg/models"
)

// Ratios коэффициенты коррекции
var Ratios = [3]float64{0.236, 0.382, 0.618}

// ProximityTolerance допуск близости цены к уровню, доля от last
const ProximityTolerance = 0.02

const stopLossStep = 0.02

// Calculate рассчитывает уровни коррекции для пары и таймфрейма.
// BUY дает уровни поддержки от high вниз, SELL уровни сопротивления от low вверх
func Calculate(high, low, last float64, signalType models.SignalType, code string) models.FibonacciLevels {
	return CalculateWithMultiplier(high, low, last, signalType, timeframe.Get(code).FibonacciMultiplier)
}

// CalculateWithMultiplier то же, что Calculate, но с явным множителем диапазона
func CalculateWithMultiplier(high, low, last float64, signalType models.SignalType, multiplier float64) models.FibonacciLevels {
	priceRange := (high - low) * multiplier
	levels := make([]float64, len(Ratios))

	if signalType == models.SignalSell {
		for i, ratio := range Ratios {
			levels[i] = low + priceRange*ratio
		}
		sort.Float64s(levels)

		return models.FibonacciLevels{
			Type:     models.LevelResistance,
			Level1:   levels[0],
			Level2:   levels[1],
			Level3:   levels[2],
			StopLoss: high * (1 + stopLossStep*multiplier),
		}
	}

	for i, ratio := range Ratios {
		levels[i] = high - priceRange*ratio
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(levels)))

	return models.FibonacciLevels{
		Type:     models.LevelSupport,
		Level1:   levels[0],
		Level2:   levels[1],
		Level3:   levels[2],
		StopLoss: low * (1 - stopLossStep*multiplier),
	}
}

// NearAny находится ли цена в пределах tolerance*last от любого уровня.
// При last <= 0 близость не определена
func NearAny(levels models.FibonacciLevels, last, tolerance float64) bool {
	if last <= 0 {
		return false
	}
	for _, level := range levels.Levels() {
		if math.Abs(last-level)/last <= tolerance {
			return true
		}
	}
	return false
}
