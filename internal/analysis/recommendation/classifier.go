package recommendation

import (
	"github.com/skalibog/mtsa/internal/analysis/fibonacci"
	"github.com/skalibog/mtsa/pkg/models"
)

// Input данные для классификации
type Input struct {
	Bullish        int
	Bearish        int
	WinRate        int
	Trend          models.Trend
	NearSupport    bool
	NearResistance bool
}

// Rule правило таблицы: первое сработавшее определяет рекомендацию
type Rule struct {
	Name  string
	Match func(in Input) bool
	Label models.Recommendation
}

// Rules упорядоченная таблица правил. Последнее правило срабатывает всегда
var Rules = []Rule{
	{"sideways", func(in Input) bool { return in.Trend == models.TrendSideways && in.WinRate < 55 }, models.RecommendationSideways},

	{"buy strong", func(in Input) bool { return in.Bullish >= 7 && in.WinRate >= 85 && in.NearSupport }, models.RecommendationBuyStrong},
	{"buy now", func(in Input) bool { return in.Bullish >= 6 && in.WinRate >= 75 && in.NearSupport }, models.RecommendationBuyNow},
	{"accumulate", func(in Input) bool { return in.Bullish >= 5 && in.WinRate >= 65 }, models.RecommendationAccumulate},
	{"wait buy in downtrend", func(in Input) bool {
		return in.Bullish >= 4 && in.WinRate >= 55 && in.Trend == models.TrendDown
	}, models.RecommendationWaitBuy},
	{"buy watch", func(in Input) bool { return in.Bullish >= 3 && in.Bullish <= 4 && in.WinRate >= 50 }, models.RecommendationBuyWatch},
	{"wait buy away from support", func(in Input) bool { return in.Bullish >= 4 && !in.NearSupport }, models.RecommendationWaitBuy},

	{"sell strong", func(in Input) bool { return in.Bearish >= 7 && in.WinRate >= 85 && in.NearResistance }, models.RecommendationSellStrong},
	{"sell now", func(in Input) bool { return in.Bearish >= 6 && in.WinRate >= 75 && in.NearResistance }, models.RecommendationSellNow},
	{"distributed", func(in Input) bool { return in.Bearish >= 5 && in.WinRate >= 65 }, models.RecommendationDistributed},
	{"wait sell in uptrend", func(in Input) bool {
		return in.Bearish >= 4 && in.WinRate >= 55 && in.Trend == models.TrendUp
	}, models.RecommendationWaitSell},
	{"sell watch", func(in Input) bool { return in.Bearish >= 3 && in.Bearish <= 4 && in.WinRate >= 50 }, models.RecommendationSellWatch},
	{"wait sell away from resistance", func(in Input) bool { return in.Bearish >= 4 && !in.NearResistance }, models.RecommendationWaitSell},

	{"balanced", func(in Input) bool { return abs(in.Bullish-in.Bearish) <= 1 }, models.RecommendationWait},
	{"hold", func(Input) bool { return true }, models.RecommendationHold},
}

// Classify возвращает рекомендацию по первому сработавшему правилу
func Classify(in Input) models.Recommendation {
	label, _ := Match(in)
	return label
}

// Match как Classify, дополнительно возвращает индекс правила
func Match(in Input) (models.Recommendation, int) {
	for i, rule := range Rules {
		if rule.Match(in) {
			return rule.Label, i
		}
	}
	return models.RecommendationHold, len(Rules) - 1
}

// TickerProximity близость last к уровням поддержки и сопротивления,
// посчитанным только по тикеру: базовый множитель диапазона, без учета
// типа сигнала и таймфрейма
func TickerProximity(s models.TickerSnapshot) (nearSupport, nearResistance bool) {
	support := fibonacci.CalculateWithMultiplier(s.High, s.Low, s.Last, models.SignalBuy, 1.0)
	resistance := fibonacci.CalculateWithMultiplier(s.High, s.Low, s.Last, models.SignalSell, 1.0)

	nearSupport = fibonacci.NearAny(support, s.Last, fibonacci.ProximityTolerance)
	nearResistance = fibonacci.NearAny(resistance, s.Last, fibonacci.ProximityTolerance)
	return nearSupport, nearResistance
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
