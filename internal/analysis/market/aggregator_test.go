package market

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skalibog/mtsa/pkg/models"
)

func TestAverageVolume(t *testing.T) {
	assert.Equal(t, 0.0, AverageVolume(nil))

	snapshots := []models.TickerSnapshot{{Volume: 100}, {Volume: 300}, {Volume: 200}}
	assert.Equal(t, 200.0, AverageVolume(snapshots))
}

func TestSummarize(t *testing.T) {
	snapshots := []models.TickerSnapshot{
		{Pair: "btc_idr", Volume: 1000, PriceChangePercent: 5},
		{Pair: "eth_usdt", Volume: 500, PriceChangePercent: 12, IsUSDTPair: true},
		{Pair: "sol_idr", Volume: 300, PriceChangePercent: 12},
		{Pair: "xrp_usdt", Volume: 200, PriceChangePercent: -3, IsUSDTPair: true},
	}

	summary := Summarize(snapshots)

	assert.Equal(t, 4, summary.Pairs)
	assert.Equal(t, 2, summary.USDTPairs)
	assert.Equal(t, 2000.0, summary.TotalVolume)
	assert.Equal(t, 500.0, summary.AverageVolume)
	// При равенстве остается первая пара
	assert.Equal(t, "eth_usdt", summary.TopGainer)
	assert.Equal(t, 12.0, summary.TopGainerChange)
}

func TestSummarizeNegativeOnly(t *testing.T) {
	summary := Summarize([]models.TickerSnapshot{
		{Pair: "a_idr", PriceChangePercent: -4},
		{Pair: "b_idr", PriceChangePercent: -1},
	})

	assert.Equal(t, "b_idr", summary.TopGainer)
	assert.Equal(t, -1.0, summary.TopGainerChange)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, 0, summary.Pairs)
	assert.Empty(t, summary.TopGainer)
	assert.Equal(t, 0.0, summary.AverageVolume)
}
