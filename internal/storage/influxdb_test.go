package storage

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skalibog/mtsa/pkg/models"
)

func testAnalysis() *models.MarketAnalysis {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	pair := models.PairAnalysis{
		Snapshot: models.TickerSnapshot{Pair: "btc_idr", Last: 110},
		Risk:     models.RiskAssessment{Level: models.RiskMedium, Score: 3},
		Timeframes: []models.TimeframeAnalysis{
			{
				Signal: models.SignalResult{
					Pair: "btc_idr", Timeframe: "1h", Type: models.SignalBuy, Score: 62,
					Recommendation: models.RecommendationAccumulate, BullishCount: 5, BearishCount: 1, WinRate: 63,
					Indicators: models.Indicators{RSI: 56, StochRSI: 50, MACD: 0.5, Momentum: 2, VolumeRatio: 1.1},
				},
				Plan: models.TargetPlan{RiskReward: "1.5"},
			},
			{
				Signal: models.SignalResult{Pair: "btc_idr", Timeframe: "4h", Type: models.SignalSell, Recommendation: models.RecommendationHold},
				Plan:   models.TargetPlan{RiskReward: "0"},
			},
		},
	}

	return &models.MarketAnalysis{
		CycleID:     "cycle-1",
		GeneratedAt: ts,
		Pairs:       []models.PairAnalysis{pair},
	}
}

func TestAnalysisPoints(t *testing.T) {
	points := AnalysisPoints(testAnalysis())

	assert.Len(t, points, 2)
	assert.Empty(t, AnalysisPoints(&models.MarketAnalysis{}))
}

func TestSignalPointLineProtocol(t *testing.T) {
	analysis := testAnalysis()
	pair := analysis.Pairs[0]

	point := SignalPoint(analysis.CycleID, analysis.GeneratedAt, pair, pair.Timeframes[0])
	line := write.PointToLineProtocol(point, time.Nanosecond)

	require.True(t, strings.HasPrefix(line, "signals,cycle=cycle-1,pair=btc_idr,timeframe=1h "), line)
	for _, field := range []string{
		`type="BUY"`,
		`score=62i`,
		`recommendation="ACCUMULATE"`,
		`bullish=5i`,
		`bearish=1i`,
		`win_rate=63i`,
		`risk="MEDIUM"`,
		`risk_reward="1.5"`,
		`price=110`,
	} {
		assert.Contains(t, line, field)
	}
	assert.True(t, strings.HasSuffix(strings.TrimSpace(line), "1714564800000000000"), line)
}

func TestHistoryQuery(t *testing.T) {
	query, err := HistoryQuery("mtsa", "btc_idr", "4h", 20)
	require.NoError(t, err)

	assert.Contains(t, query, `from(bucket: "mtsa")`)
	assert.Contains(t, query, `r.pair == "btc_idr"`)
	assert.Contains(t, query, `r.timeframe == "4h"`)
	assert.Contains(t, query, `limit(n: 20)`)
}

func TestHistoryQueryRejectsInput(t *testing.T) {
	tests := []struct {
		name  string
		pair  string
		code  string
		limit int
	}{
		{name: "кавычка в паре", pair: `btc_idr") |> drop() //`, code: "1h", limit: 10},
		{name: "пробел в паре", pair: "btc idr", code: "1h", limit: 10},
		{name: "пустая пара", pair: "", code: "1h", limit: 10},
		{name: "неизвестный таймфрейм", pair: "btc_idr", code: `1h" or true`, limit: 10},
		{name: "нулевой limit", pair: "btc_idr", code: "1h", limit: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := HistoryQuery("mtsa", tt.pair, tt.code, tt.limit)

			assert.Empty(t, query)
			assert.True(t, errors.Is(err, ErrInvalidQuery), "%v", err)
		})
	}
}
