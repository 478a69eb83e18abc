package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skalibog/mtsa/internal/storage"
	"github.com/skalibog/mtsa/pkg/models"
)

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	records := []storage.SignalRecord{
		{
			Time:           time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			Pair:           "btc_idr",
			Timeframe:      "1d",
			Type:           models.SignalBuy,
			Score:          72,
			Recommendation: models.RecommendationAccumulate,
			WinRate:        63,
			Risk:           models.RiskLow,
			Price:          1050000000,
		},
	}

	printHistory(&buf, "btc_idr", "1d", records)

	out := buf.String()
	assert.Contains(t, out, "История btc_idr, таймфрейм 1d: 1 записей")
	assert.Contains(t, out, "01.05.2024 12:00:00")
	assert.Contains(t, out, "ACCUMULATE")
	assert.Contains(t, out, "63%")
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	analysis := &models.MarketAnalysis{
		CycleID:     "c1",
		GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Summary:     models.MarketSummary{Pairs: 1, TopGainer: "btc_idr", TopGainerChange: 5},
		Pairs: []models.PairAnalysis{{
			Snapshot: models.TickerSnapshot{Pair: "btc_idr", Last: 110, PriceChangePercent: 5},
			Risk:     models.RiskAssessment{Level: models.RiskMedium},
			Timeframes: []models.TimeframeAnalysis{{
				Signal: models.SignalResult{Timeframe: "1h", Type: models.SignalSell, Score: 40, Recommendation: models.RecommendationSellWatch, WinRate: 38},
				Plan:   models.TargetPlan{StopLoss: 122.4, RiskReward: "0.2"},
			}},
		}},
	}

	printTable(&buf, analysis, "1h")

	out := buf.String()
	assert.Contains(t, out, "SELL WATCH")
	assert.Contains(t, out, "122.4")
	assert.Contains(t, out, "лидер роста: btc_idr (5.00%)")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, printJSON(&buf, []storage.SignalRecord{{Pair: "btc_idr", Score: 10}}))

	var decoded []storage.SignalRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 10, decoded[0].Score)
}
