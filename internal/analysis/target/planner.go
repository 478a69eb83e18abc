package target

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/skalibog/mtsa/pkg/models"
)

// Plan строит план сделки от текущей цены по уровням Фибоначчи.
// Для SELL целью служит второе сопротивление, для BUY симметричное
// продолжение за вторую поддержку: last + (last - level2)
func Plan(s models.TickerSnapshot, signalType models.SignalType, levels models.FibonacciLevels) models.TargetPlan {
	label := "Support"
	target := s.Last + (s.Last - levels.Level2)
	if signalType == models.SignalSell {
		label = "Resistance"
		target = levels.Level2
	}

	targets := make([]models.Target, 0, 3)
	for i, value := range levels.Levels() {
		targets = append(targets, models.Target{
			Label: fmt.Sprintf("%s %d", label, i+1),
			Value: value,
		})
	}

	risk := math.Abs(s.Last - levels.StopLoss)
	reward := math.Abs(target - s.Last)

	return models.TargetPlan{
		Entry:      s.Last,
		Targets:    targets,
		StopLoss:   levels.StopLoss,
		RiskReward: RiskReward(risk, reward),
	}
}

// RiskReward отношение reward/risk с одним знаком после запятой, "0" при нулевом риске
func RiskReward(risk, reward float64) string {
	if risk == 0 || math.IsNaN(risk) || math.IsNaN(reward) || math.IsInf(reward, 0) {
		return "0"
	}
	return decimal.NewFromFloat(reward).Div(decimal.NewFromFloat(risk)).StringFixed(1)
}
