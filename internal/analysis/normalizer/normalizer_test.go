package normalizer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skalibog/mtsa/pkg/models"
)

func TestNormalizeMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  *models.RawMarket
	}{
		{name: "nil снимок", raw: nil},
		{name: "нет тикеров", raw: &models.RawMarket{}},
		{name: "пустые тикеры", raw: &models.RawMarket{Tickers: map[string]models.RawTicker{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshots, err := Normalize(tt.raw)

			assert.Nil(t, snapshots)
			assert.True(t, errors.Is(err, ErrMalformedSnapshot))
		})
	}
}

func TestNormalizeSkipsInvalidPairs(t *testing.T) {
	raw := &models.RawMarket{
		USDTRate: 16000,
		Tickers: map[string]models.RawTicker{
			"eth_idr":  {High: "60000000", Low: "55000000", Last: "58000000", Buy: "57990000", Sell: "58010000", VolIDR: "1000000000"},
			"btc_idr":  {High: "1100000000", Low: "1000000000", Last: "1050000000", VolIDR: "5000000000", ServerTime: 1700000000},
			"bad_idr":  {High: "abc", Low: "1", Last: "1"},
			"neg_idr":  {High: "10", Low: "-1", Last: "5"},
			"inv_idr":  {High: "5", Low: "10", Last: "7"},
			"miss_idr": {High: "10", Low: "5"},
		},
	}

	snapshots, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	// Порядок по идентификатору пары
	assert.Equal(t, "btc_idr", snapshots[0].Pair)
	assert.Equal(t, "eth_idr", snapshots[1].Pair)

	btc := snapshots[0]
	assert.Equal(t, 1050000000.0, btc.Last)
	assert.Equal(t, 5000000000.0, btc.Volume)
	assert.InDelta(t, 5.0, btc.PriceChangePercent, 1e-9)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), btc.ServerTime)
	assert.False(t, btc.IsUSDTPair)
	assert.Zero(t, btc.USDTRate)
}

func TestNormalizeSkipsOverflow(t *testing.T) {
	raw := &models.RawMarket{Tickers: map[string]models.RawTicker{
		"btc_idr": {High: "1e400", Low: "1", Last: "2"},
		"eth_idr": {High: "120", Low: "100", Last: "110", VolIDR: "1e20"},
	}}

	snapshots, err := Normalize(raw)
	require.NoError(t, err)

	require.Len(t, snapshots, 1)
	assert.Equal(t, "eth_idr", snapshots[0].Pair)
	assert.Equal(t, 1e20, snapshots[0].Volume)
}

func TestNormalizeAllInvalid(t *testing.T) {
	raw := &models.RawMarket{Tickers: map[string]models.RawTicker{"bad_idr": {High: "x"}}}

	snapshots, err := Normalize(raw)

	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		name    string
		pair    string
		ticker  models.RawTicker
		wantErr bool
		check   func(t *testing.T, s models.TickerSnapshot)
	}{
		{
			name:   "USDT пара получает курс",
			pair:   "USDT_IDR",
			ticker: models.RawTicker{High: "16500", Low: "16000", Last: "16200", VolIDR: "900", VolUSDT: "50"},
			check: func(t *testing.T, s models.TickerSnapshot) {
				assert.Equal(t, "usdt_idr", s.Pair)
				assert.False(t, s.IsUSDTPair)
				assert.Equal(t, 900.0, s.Volume)
			},
		},
		{
			name:   "котировка в USDT",
			pair:   "sol_usdt",
			ticker: models.RawTicker{High: "150", Low: "140", Last: "145", VolIDR: "1", VolUSDT: "2000"},
			check: func(t *testing.T, s models.TickerSnapshot) {
				assert.True(t, s.IsUSDTPair)
				assert.Equal(t, 16000.0, s.USDTRate)
				assert.Equal(t, 2000.0, s.Volume)
			},
		},
		{
			name:   "нулевой low",
			pair:   "new_idr",
			ticker: models.RawTicker{High: "10", Low: "0", Last: "5"},
			check: func(t *testing.T, s models.TickerSnapshot) {
				assert.Zero(t, s.PriceChangePercent)
				assert.Zero(t, s.Volume)
			},
		},
		{
			name:   "нулевой last",
			pair:   "dead_idr",
			ticker: models.RawTicker{High: "10", Low: "5", Last: "0"},
			check: func(t *testing.T, s models.TickerSnapshot) {
				assert.Zero(t, s.Last)
				assert.InDelta(t, -100.0, s.PriceChangePercent, 1e-9)
			},
		},
		{
			name:   "объем из первого заполненного поля",
			pair:   "abc_xyz",
			ticker: models.RawTicker{High: "10", Low: "5", Last: "6", VolBTC: "0.5"},
			check: func(t *testing.T, s models.TickerSnapshot) {
				assert.Equal(t, 0.5, s.Volume)
			},
		},
		{name: "пустая пара", pair: " ", ticker: models.RawTicker{High: "1", Low: "1", Last: "1"}, wantErr: true},
		{name: "нет last", pair: "a_idr", ticker: models.RawTicker{High: "1", Low: "1"}, wantErr: true},
		{name: "high меньше low", pair: "a_idr", ticker: models.RawTicker{High: "1", Low: "2", Last: "1"}, wantErr: true},
		{name: "отрицательный buy", pair: "a_idr", ticker: models.RawTicker{High: "2", Low: "1", Last: "1", Buy: "-1"}, wantErr: true},
		{name: "переполнение high", pair: "a_idr", ticker: models.RawTicker{High: "1e400", Low: "1", Last: "2"}, wantErr: true},
		{name: "переполнение объема", pair: "a_idr", ticker: models.RawTicker{High: "2", Low: "1", Last: "1", VolIDR: "9e999"}, wantErr: true},
		{name: "значение выше границы", pair: "a_idr", ticker: models.RawTicker{High: "1e21", Low: "1", Last: "2"}, wantErr: true},
		{name: "некорректный объем", pair: "a_idr", ticker: models.RawTicker{High: "2", Low: "1", Last: "1", VolIDR: "n/a"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NormalizeTicker(tt.pair, tt.ticker, 16000)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestQuoteCurrency(t *testing.T) {
	assert.Equal(t, "idr", QuoteCurrency("btc_idr"))
	assert.Equal(t, "usdt", QuoteCurrency("ETHUSDT"))
	assert.Equal(t, "btc", QuoteCurrency("ethbtc"))
	assert.Equal(t, "", QuoteCurrency("foo"))
}
