package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skalibog/mtsa/pkg/models"
)

func TestClassifySidewaysWins(t *testing.T) {
	in := Input{Bullish: 8, WinRate: 40, Trend: models.TrendSideways, NearSupport: true}

	assert.Equal(t, models.RecommendationSideways, Classify(in))
}

func TestClassifyBuyStrongPrecedence(t *testing.T) {
	in := Input{Bullish: 7, Bearish: 0, WinRate: 90, Trend: models.TrendUp, NearSupport: true}

	assert.Equal(t, models.RecommendationBuyStrong, Classify(in))
}

func TestMatchEachRule(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		index int
		want  models.Recommendation
	}{
		{name: "боковик", in: Input{Trend: models.TrendSideways, WinRate: 40}, index: 0, want: models.RecommendationSideways},
		{name: "сильная покупка", in: Input{Bullish: 7, WinRate: 90, Trend: models.TrendUp, NearSupport: true}, index: 1, want: models.RecommendationBuyStrong},
		{name: "покупка", in: Input{Bullish: 6, WinRate: 75, Trend: models.TrendUp, NearSupport: true}, index: 2, want: models.RecommendationBuyNow},
		{name: "накопление", in: Input{Bullish: 5, WinRate: 65, Trend: models.TrendUp}, index: 3, want: models.RecommendationAccumulate},
		{name: "ожидание покупки в нисходящем тренде", in: Input{Bullish: 4, WinRate: 55, Trend: models.TrendDown}, index: 4, want: models.RecommendationWaitBuy},
		{name: "наблюдение за покупкой", in: Input{Bullish: 3, WinRate: 50, Trend: models.TrendUp}, index: 5, want: models.RecommendationBuyWatch},
		{name: "ожидание покупки вдали от поддержки", in: Input{Bullish: 5, Bearish: 3, WinRate: 63, Trend: models.TrendUp}, index: 6, want: models.RecommendationWaitBuy},
		{name: "сильная продажа", in: Input{Bearish: 7, WinRate: 90, Trend: models.TrendDown, NearResistance: true}, index: 7, want: models.RecommendationSellStrong},
		{name: "продажа", in: Input{Bearish: 6, WinRate: 75, Trend: models.TrendDown, NearResistance: true}, index: 8, want: models.RecommendationSellNow},
		{name: "распределение", in: Input{Bearish: 5, WinRate: 65, Trend: models.TrendDown}, index: 9, want: models.RecommendationDistributed},
		{name: "ожидание продажи в восходящем тренде", in: Input{Bearish: 4, WinRate: 55, Trend: models.TrendUp}, index: 10, want: models.RecommendationWaitSell},
		{name: "наблюдение за продажей", in: Input{Bearish: 3, WinRate: 50, Trend: models.TrendDown}, index: 11, want: models.RecommendationSellWatch},
		{name: "ожидание продажи вдали от сопротивления", in: Input{Bearish: 5, Bullish: 2, WinRate: 63, Trend: models.TrendDown}, index: 12, want: models.RecommendationWaitSell},
		{name: "равновесие", in: Input{Bullish: 1, Bearish: 2, WinRate: 25, Trend: models.TrendUp}, index: 13, want: models.RecommendationWait},
		{name: "удержание", in: Input{Bearish: 2, WinRate: 25, Trend: models.TrendUp}, index: 14, want: models.RecommendationHold},
	}

	require.Len(t, Rules, 15)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, index := Match(tt.in)

			assert.Equal(t, tt.index, index)
			assert.Equal(t, tt.want, label)
		})
	}
}

func TestClassifyTotal(t *testing.T) {
	trends := []models.Trend{models.TrendUp, models.TrendDown, models.TrendSideways}
	seen := map[models.Recommendation]bool{}

	for bullish := 0; bullish <= 8; bullish++ {
		for bearish := 0; bearish <= 8-bullish; bearish++ {
			for _, winRate := range []int{0, 13, 25, 38, 50, 55, 63, 65, 75, 85, 88, 100} {
				for _, trend := range trends {
					for _, near := range []bool{false, true} {
						in := Input{
							Bullish:        bullish,
							Bearish:        bearish,
							WinRate:        winRate,
							Trend:          trend,
							NearSupport:    near,
							NearResistance: !near,
						}
						label := Classify(in)
						assert.True(t, label.IsValid(), "%+v -> %q", in, label)
						seen[label] = true
					}
				}
			}
		}
	}

	// Каждая рекомендация достижима
	for _, rec := range models.Recommendations() {
		assert.True(t, seen[rec], rec)
	}
}

func TestTickerProximity(t *testing.T) {
	tests := []struct {
		name           string
		snapshot       models.TickerSnapshot
		nearSupport    bool
		nearResistance bool
	}{
		{name: "рядом с обоими", snapshot: models.TickerSnapshot{High: 120, Low: 100, Last: 112}, nearSupport: true, nearResistance: true},
		{name: "только сопротивление", snapshot: models.TickerSnapshot{High: 120, Low: 100, Last: 105}, nearSupport: false, nearResistance: true},
		{name: "далеко от уровней", snapshot: models.TickerSnapshot{High: 120, Low: 100, Last: 119}},
		{name: "нулевая цена", snapshot: models.TickerSnapshot{High: 10, Low: 0, Last: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			support, resistance := TickerProximity(tt.snapshot)

			assert.Equal(t, tt.nearSupport, support)
			assert.Equal(t, tt.nearResistance, resistance)
		})
	}
}
