package signal

import (
	"math"

	"github.com/skalibog/mtsa/pkg/models"
)

const maxScore = 100

// Score аддитивная оценка силы сигнала в пределах [0, 100]
func Score(ind models.Indicators) int {
	score := rsiPoints(ind.RSI) +
		stochPoints(ind.StochRSI) +
		bandPoints(ind.BBPosition) +
		volumePoints(ind.VolumeRatio) +
		momentumPoints(ind.Momentum)

	if score > maxScore {
		return maxScore
	}
	return score
}

// rsiPoints 5..25
func rsiPoints(rsi float64) int {
	switch {
	case rsi < 30 || rsi > 70:
		return 25
	case rsi < 40 || rsi > 60:
		return 15
	default:
		return 5
	}
}

// stochPoints 5..20
func stochPoints(stoch float64) int {
	switch {
	case stoch < 20 || stoch > 80:
		return 20
	case stoch < 35 || stoch > 65:
		return 12
	default:
		return 5
	}
}

// bandPoints 5..25
func bandPoints(position models.BandPosition) int {
	switch position {
	case models.BandOversold, models.BandOverbought:
		return 25
	case models.BandAboveMid, models.BandBelowMid:
		return 12
	default:
		return 5
	}
}

// volumePoints 0..15
func volumePoints(ratio float64) int {
	switch {
	case ratio > 2:
		return 15
	case ratio > 1.5:
		return 10
	case ratio > 1:
		return 5
	default:
		return 0
	}
}

// momentumPoints 0..15
func momentumPoints(momentum float64) int {
	m := math.Abs(momentum)
	switch {
	case m > 10:
		return 15
	case m > 5:
		return 10
	case m > 2:
		return 5
	default:
		return 0
	}
}
