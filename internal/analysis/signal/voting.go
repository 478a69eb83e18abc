package signal

import (
	"math"

	"github.com/skalibog/mtsa/internal/analysis/fibonacci"
	"github.com/skalibog/mtsa/pkg/models"
)

// VoteCount число индикаторов в голосовании
const VoteCount = 8

// Vote итог голосования восьми индикаторов. Бычьи и медвежьи голоса
// считаются независимо
type Vote struct {
	Bullish int
	Bearish int
}

// CastVotes проводит голосование по индикаторам
func CastVotes(s models.TickerSnapshot, ind models.Indicators, signalType models.SignalType, code string) Vote {
	var v Vote
	add := func(bull, bear bool) {
		if bull {
			v.Bullish++
		}
		if bear {
			v.Bearish++
		}
	}

	add(ind.RSI < 30, ind.RSI > 70)
	add(ind.StochRSI < 20, ind.StochRSI > 80)
	add(ind.BBPosition == models.BandOversold, ind.BBPosition == models.BandOverbought)
	add(ind.MACD > 0, ind.MACD < 0)
	add(ind.VolumeSpike && ind.PriceUp, ind.VolumeSpike && ind.PriceDown)
	add(ind.Momentum > 0, ind.Momentum < 0)

	near := fibonacciVote(s, signalType, code)
	add(near && signalType == models.SignalBuy, near && signalType == models.SignalSell)

	add(ind.Trend == models.TrendUp, ind.Trend == models.TrendDown)

	return v
}

// fibonacciVote близость last к уровням для текущего типа сигнала и таймфрейма
func fibonacciVote(s models.TickerSnapshot, signalType models.SignalType, code string) bool {
	levels := fibonacci.Calculate(s.High, s.Low, s.Last, signalType, code)
	return fibonacci.NearAny(levels, s.Last, fibonacci.ProximityTolerance)
}

// WinRate доля голосов преобладающей стороны в процентах, 50 при равенстве
func WinRate(v Vote) int {
	if v.Bullish == v.Bearish {
		return 50
	}
	top := v.Bullish
	if v.Bearish > top {
		top = v.Bearish
	}
	return int(math.Round(float64(top) / VoteCount * 100))
}
