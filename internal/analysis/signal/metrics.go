package signal

import (
	"github.com/skalibog/mtsa/internal/analysis/indicators"
	"github.com/skalibog/mtsa/pkg/models"
)

const (
	bandEdgeThreshold    = 0.10 // доля ширины полосы
	pressureThreshold    = 2.0  // % спреда
	volumeSpikeThreshold = 1.5
	trendFactor          = 2.0
)

// PricePosition положение last в диапазоне low..high в процентах, 50 при high == low
func PricePosition(s models.TickerSnapshot) float64 {
	if s.High == s.Low {
		return 50
	}
	return indicators.Finite((s.Last - s.Low) / (s.High - s.Low) * 100)
}

// Momentum изменение цены, масштабированное чувствительностью таймфрейма
func Momentum(s models.TickerSnapshot, sensitivity float64) float64 {
	return indicators.Finite(s.PriceChangePercent) * sensitivity
}

// VolumeRatio отношение объема пары к среднему по рынку, 1.0 при нулевом среднем
func VolumeRatio(volume, avgVolume float64) float64 {
	if avgVolume <= 0 {
		return 1.0
	}
	return indicators.Finite(volume / avgVolume)
}

// Volatility (high-low)/low в процентах, 0 при нулевом low
func Volatility(s models.TickerSnapshot) float64 {
	if s.Low <= 0 {
		return 0
	}
	return indicators.Finite((s.High - s.Low) / s.Low * 100)
}

// SpreadPercent (sell-buy)/buy в процентах, 0 при нулевом buy
func SpreadPercent(s models.TickerSnapshot) float64 {
	if s.Buy <= 0 {
		return 0
	}
	return indicators.Finite((s.Sell - s.Buy) / s.Buy * 100)
}

// BandPositionOf классифицирует last относительно полос вокруг середины
// диапазона. Ширина полосы: (high-low) * volatilityMultiplier
func BandPositionOf(s models.TickerSnapshot, volatilityMultiplier float64) models.BandPosition {
	width := (s.High - s.Low) * volatilityMultiplier
	if width <= 0 {
		return models.BandNeutral
	}

	mid := (s.High + s.Low) / 2
	upper := mid + width/2
	lower := mid - width/2
	edge := width * bandEdgeThreshold

	switch {
	case s.Last-lower <= edge:
		return models.BandOversold
	case upper-s.Last <= edge:
		return models.BandOverbought
	case s.Last > mid:
		return models.BandAboveMid
	case s.Last < mid:
		return models.BandBelowMid
	default:
		return models.BandNeutral
	}
}

// PressureOf давление в стакане по спреду
func PressureOf(spreadPercent float64) models.OrderPressure {
	switch {
	case spreadPercent > pressureThreshold:
		return models.PressureSell
	case spreadPercent < -pressureThreshold:
		return models.PressureBuy
	default:
		return models.PressureNeutral
	}
}

// TrendOf тренд по momentum относительно порога 2*sensitivity
func TrendOf(momentum, sensitivity float64) models.Trend {
	threshold := trendFactor * sensitivity
	switch {
	case momentum > threshold:
		return models.TrendUp
	case momentum < -threshold:
		return models.TrendDown
	default:
		return models.TrendSideways
	}
}
