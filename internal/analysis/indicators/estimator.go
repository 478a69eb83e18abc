package indicators

import (
	"math"

	"github.com/skalibog/mtsa/internal/analysis/timeframe"
	"github.com/skalibog/mtsa/pkg/models"
)

// Input данные, из которых оцениваются осцилляторы
type Input struct {
	Snapshot      models.TickerSnapshot
	Timeframe     timeframe.Config
	PricePosition float64
	Momentum      float64
	VolumeRatio   float64
}

// Oscillators значения RSI, StochRSI и MACD
type Oscillators struct {
	RSI      float64
	StochRSI float64
	MACD     float64
}

// Estimator источник осцилляторов. Реализация по свечам может заменить
// ProxyEstimator без изменений в вызывающем коде
type Estimator interface {
	Estimate(in Input) Oscillators
}

// ProxyEstimator оценивает осцилляторы по одному снимку, без истории свечей
type ProxyEstimator struct{}

// NewProxyEstimator создает оценщик по снимку
func NewProxyEstimator() *ProxyEstimator {
	return &ProxyEstimator{}
}

// Estimate реализует Estimator
func (e *ProxyEstimator) Estimate(in Input) Oscillators {
	return Oscillators{
		RSI:      RSIProxy(in.Momentum),
		StochRSI: StochRSIProxy(in.PricePosition),
		MACD:     MACDProxy(in.Snapshot, in.VolumeRatio, in.Timeframe.Sensitivity),
	}
}

// RSIProxy смещает нейтральные 50 на momentum*3 в пределах [0, 100]
func RSIProxy(momentum float64) float64 {
	return Clamp(50+momentum*3, 0, 100)
}

// StochRSIProxy положение цены в дневном диапазоне
func StochRSIProxy(pricePosition float64) float64 {
	return Clamp(pricePosition, 0, 100)
}

// MACDProxy отклонение last от середины диапазона в процентах,
// усиленное объемом и чувствительностью таймфрейма.
// Не зависит от momentum и RSI
func MACDProxy(s models.TickerSnapshot, volumeRatio, sensitivity float64) float64 {
	mid := (s.High + s.Low) / 2
	if mid == 0 {
		return 0
	}
	boost := 1.0
	if volumeRatio > 1.2 {
		boost = 1.5
	}
	return Finite((s.Last-mid)/mid*100) * boost * sensitivity
}

// Clamp ограничивает значение диапазоном, NaN превращается в lo
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Finite заменяет NaN и бесконечности нулем
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
