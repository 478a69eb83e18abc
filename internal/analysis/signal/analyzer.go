package signal

import (
	"github.com/skalibog/mtsa/internal/analysis/indicators"
	"github.com/skalibog/mtsa/internal/analysis/recommendation"
	"github.com/skalibog/mtsa/internal/analysis/timeframe"
	"github.com/skalibog/mtsa/pkg/models"
)

// Analyzer строит сигнал по снимку пары на таймфрейме
type Analyzer struct {
	estimator indicators.Estimator
}

// Option настройка анализатора
type Option func(*Analyzer)

// WithEstimator заменяет источник осцилляторов
func WithEstimator(e indicators.Estimator) Option {
	return func(a *Analyzer) {
		if e != nil {
			a.estimator = e
		}
	}
}

// NewAnalyzer создает анализатор сигналов
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{estimator: indicators.NewProxyEstimator()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze выполняет анализ пары. Неизвестный код таймфрейма
// обрабатывается с параметрами 1h
func (a *Analyzer) Analyze(s models.TickerSnapshot, avgVolume float64, code string) models.SignalResult {
	cfg := timeframe.Get(code)
	ind := a.Indicators(s, avgVolume, cfg)

	signalType, tags := decideType(ind, indicatorTags(ind))
	vote := CastVotes(s, ind, signalType, code)
	winRate := WinRate(vote)

	nearSupport, nearResistance := recommendation.TickerProximity(s)
	label := recommendation.Classify(recommendation.Input{
		Bullish:        vote.Bullish,
		Bearish:        vote.Bearish,
		WinRate:        winRate,
		Trend:          ind.Trend,
		NearSupport:    nearSupport,
		NearResistance: nearResistance,
	})

	return models.SignalResult{
		Pair:           s.Pair,
		Timeframe:      code,
		Type:           signalType,
		Score:          Score(ind),
		Recommendation: label,
		Tags:           tags,
		BullishCount:   vote.Bullish,
		BearishCount:   vote.Bearish,
		WinRate:        winRate,
		Indicators:     ind,
	}
}

// Indicators считает производные метрики пары для таймфрейма
func (a *Analyzer) Indicators(s models.TickerSnapshot, avgVolume float64, cfg timeframe.Config) models.Indicators {
	position := PricePosition(s)
	momentum := Momentum(s, cfg.Sensitivity)
	volumeRatio := VolumeRatio(s.Volume, avgVolume)
	mid := (s.High + s.Low) / 2

	osc := a.estimator.Estimate(indicators.Input{
		Snapshot:      s,
		Timeframe:     cfg,
		PricePosition: position,
		Momentum:      momentum,
		VolumeRatio:   volumeRatio,
	})

	return models.Indicators{
		RSI:           indicators.Clamp(osc.RSI, 0, 100),
		StochRSI:      indicators.Clamp(osc.StochRSI, 0, 100),
		BBPosition:    BandPositionOf(s, cfg.VolatilityMultiplier),
		MACD:          indicators.Finite(osc.MACD),
		Momentum:      momentum,
		VolumeRatio:   volumeRatio,
		Volatility:    Volatility(s),
		PricePosition: position,
		OrderPressure: PressureOf(SpreadPercent(s)),
		Trend:         TrendOf(momentum, cfg.Sensitivity),
		VolumeSpike:   volumeRatio > volumeSpikeThreshold,
		PriceUp:       s.Last > mid,
		PriceDown:     s.Last < mid,
	}
}

// decideType определяет направление сигнала. Сначала бычий уклон,
// затем медвежьи условия: при уже выбранном BUY спор решает большинство
// из трех индикаторов, иначе любое медвежье условие дает SELL.
// Если ни одна ветка не сработала, решает положение цены в диапазоне
func decideType(ind models.Indicators, tags []string) (models.SignalType, []string) {
	bullishLean := ind.Momentum > 0 || ind.RSI < 50 || ind.StochRSI < 50 ||
		ind.BBPosition == models.BandOversold || ind.BBPosition == models.BandBelowMid
	bearishAny := ind.Momentum < 0 || ind.RSI > 50 || ind.StochRSI > 50 ||
		ind.BBPosition == models.BandOverbought || ind.BBPosition == models.BandAboveMid

	var signalType models.SignalType
	if bullishLean {
		signalType = models.SignalBuy
		tags = withTag(tags, tagBullishBias)
	}

	if bearishAny {
		if signalType == models.SignalBuy {
			bull := countTrue(ind.Momentum > 0, ind.RSI < 50, ind.StochRSI < 50)
			bear := countTrue(ind.Momentum <= 0, ind.RSI >= 50, ind.StochRSI >= 50)
			if bear > bull {
				signalType = models.SignalSell
				tags = withTag(withoutBuyTags(tags), tagBearishMajority)
			}
		} else {
			signalType = models.SignalSell
			tags = withTag(tags, tagBearishBias)
		}
	}

	if signalType == "" {
		if ind.PricePosition < 50 {
			signalType = models.SignalBuy
		} else {
			signalType = models.SignalSell
		}
	}

	return signalType, tags
}

func countTrue(conds ...bool) int {
	n := 0
	for _, c := range conds {
		if c {
			n++
		}
	}
	return n
}
