package risk

import (
	"github.com/skalibog/mtsa/internal/analysis/signal"
	"github.com/skalibog/mtsa/pkg/models"
)

// Пороги суммарной оценки
const (
	highThreshold   = 5
	mediumThreshold = 3
)

// Assess оценивает риск пары по волатильности, объему относительно рынка
// и спреду
func Assess(s models.TickerSnapshot, volumeRatio float64) models.RiskAssessment {
	score := volatilityPoints(signal.Volatility(s)) +
		volumePoints(volumeRatio) +
		spreadPoints(signal.SpreadPercent(s))

	level := models.RiskLow
	switch {
	case score >= highThreshold:
		level = models.RiskHigh
	case score >= mediumThreshold:
		level = models.RiskMedium
	}

	return models.RiskAssessment{Level: level, Score: score}
}

func volatilityPoints(volatility float64) int {
	switch {
	case volatility > 20:
		return 3
	case volatility > 10:
		return 2
	case volatility > 5:
		return 1
	default:
		return 0
	}
}

func volumePoints(ratio float64) int {
	switch {
	case ratio < 0.5:
		return 2
	case ratio < 1:
		return 1
	default:
		return 0
	}
}

func spreadPoints(spread float64) int {
	switch {
	case spread > 5:
		return 2
	case spread > 2:
		return 1
	default:
		return 0
	}
}
