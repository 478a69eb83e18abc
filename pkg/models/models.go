package models

import (
	"time"
)

// SignalType направление сигнала
type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
	SignalHold SignalType = "HOLD"
)

// Recommendation итоговая рекомендация по паре на таймфрейме
type Recommendation string

const (
	RecommendationSideways    Recommendation = "SIDEWAYS"
	RecommendationBuyStrong   Recommendation = "BUY STRONG"
	RecommendationBuyNow      Recommendation = "BUY NOW"
	RecommendationAccumulate  Recommendation = "ACCUMULATE"
	RecommendationWaitBuy     Recommendation = "WAIT BUY"
	RecommendationBuyWatch    Recommendation = "BUY WATCH"
	RecommendationSellStrong  Recommendation = "SELL STRONG"
	RecommendationSellNow     Recommendation = "SELL NOW"
	RecommendationDistributed Recommendation = "DISTRIBUTED"
	RecommendationWaitSell    Recommendation = "WAIT SELL"
	RecommendationSellWatch   Recommendation = "SELL WATCH"
	RecommendationWait        Recommendation = "WAIT"
	RecommendationHold        Recommendation = "HOLD"
)

// Recommendations возвращает закрытый набор допустимых рекомендаций
func Recommendations() []Recommendation {
	return []Recommendation{
		RecommendationSideways,
		RecommendationBuyStrong,
		RecommendationBuyNow,
		RecommendationAccumulate,
		RecommendationWaitBuy,
		RecommendationBuyWatch,
		RecommendationSellStrong,
		RecommendationSellNow,
		RecommendationDistributed,
		RecommendationWaitSell,
		RecommendationSellWatch,
		RecommendationWait,
		RecommendationHold,
	}
}

// IsValid проверяет, что рекомендация входит в закрытый набор
func (r Recommendation) IsValid() bool {
	for _, known := range Recommendations() {
		if r == known {
			return true
		}
	}
	return false
}

// IsBuySide относится ли рекомендация к стороне покупки
func (r Recommendation) IsBuySide() bool {
	switch r {
	case RecommendationBuyStrong, RecommendationBuyNow, RecommendationAccumulate,
		RecommendationWaitBuy, RecommendationBuyWatch:
		return true
	}
	return false
}

// IsSellSide относится ли рекомендация к стороне продажи
func (r Recommendation) IsSellSide() bool {
	switch r {
	case RecommendationSellStrong, RecommendationSellNow, RecommendationDistributed,
		RecommendationWaitSell, RecommendationSellWatch:
		return true
	}
	return false
}

// Trend направление тренда
type Trend string

const (
	TrendUp       Trend = "UPTREND"
	TrendDown     Trend = "DOWNTREND"
	TrendSideways Trend = "SIDEWAYS"
)

// BandPosition положение цены относительно полос Боллинджера
type BandPosition string

const (
	BandOversold   BandPosition = "OVERSOLD"
	BandOverbought BandPosition = "OVERBOUGHT"
	BandAboveMid   BandPosition = "ABOVE_MID"
	BandBelowMid   BandPosition = "BELOW_MID"
	BandNeutral    BandPosition = "NEUTRAL"
)

// OrderPressure давление в стакане по спреду buy/sell
type OrderPressure string

const (
	PressureBuy     OrderPressure = "BUY_PRESSURE"
	PressureSell    OrderPressure = "SELL_PRESSURE"
	PressureNeutral OrderPressure = "NEUTRAL"
)

// RiskLevel уровень риска
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// LevelType тип уровней Фибоначчи
type LevelType string

const (
	LevelSupport    LevelType = "SUPPORT"
	LevelResistance LevelType = "RESISTANCE"
)

// RawTicker сырые поля пары в том виде, в каком их отдает биржа
type RawTicker struct {
	High       string `json:"high"`
	Low        string `json:"low"`
	Last       string `json:"last"`
	Buy        string `json:"buy"`
	Sell       string `json:"sell"`
	VolIDR     string `json:"vol_idr,omitempty"`
	VolUSDT    string `json:"vol_usdt,omitempty"`
	VolBTC     string `json:"vol_btc,omitempty"`
	VolETH     string `json:"vol_eth,omitempty"`
	Name       string `json:"name"`
	ServerTime int64  `json:"server_time"`
}

// RawMarket снимок рынка от внешнего источника
type RawMarket struct {
	Tickers   map[string]RawTicker
	USDTRate  float64
	FetchedAt time.Time
}

// TickerSnapshot проверенный снимок пары. Не изменяется после создания
type TickerSnapshot struct {
	Pair               string
	Name               string
	Last               float64
	High               float64
	Low                float64
	Buy                float64
	Sell               float64
	Volume             float64
	PriceChangePercent float64
	IsUSDTPair         bool
	USDTRate           float64
	ServerTime         time.Time
}

// Indicators производные значения индикаторов, из которых собран сигнал
type Indicators struct {
	RSI           float64
	StochRSI      float64
	BBPosition    BandPosition
	MACD          float64
	Momentum      float64
	VolumeRatio   float64
	Volatility    float64
	PricePosition float64
	OrderPressure OrderPressure
	Trend         Trend
	VolumeSpike   bool
	PriceUp       bool
	PriceDown     bool
}

// SignalResult сигнал по паре на одном таймфрейме
type SignalResult struct {
	Pair           string
	Timeframe      string
	Type           SignalType
	Score          int
	Recommendation Recommendation
	Tags           []string
	BullishCount   int
	BearishCount   int
	WinRate        int
	Indicators     Indicators
}

// FibonacciLevels уровни коррекции, Level1 ближайший к цене
type FibonacciLevels struct {
	Type     LevelType
	Level1   float64
	Level2   float64
	Level3   float64
	StopLoss float64
}

// Levels возвращает уровни в порядке близости
func (f FibonacciLevels) Levels() []float64 {
	return []float64{f.Level1, f.Level2, f.Level3}
}

// RiskAssessment оценка риска
type RiskAssessment struct {
	Level RiskLevel
	Score int
}

// Target цель плана сделки
type Target struct {
	Label string
	Value float64
}

// TargetPlan план сделки: вход, цели, стоп
type TargetPlan struct {
	Entry      float64
	Targets    []Target
	StopLoss   float64
	RiskReward string
}

// TimeframeAnalysis результат анализа пары на одном таймфрейме
type TimeframeAnalysis struct {
	Signal    SignalResult
	Fibonacci FibonacciLevels
	Plan      TargetPlan
}

// PairAnalysis результат анализа пары на всех таймфреймах
type PairAnalysis struct {
	Snapshot   TickerSnapshot
	Risk       RiskAssessment
	Timeframes []TimeframeAnalysis
}

// Timeframe возвращает анализ для кода таймфрейма
func (p PairAnalysis) Timeframe(code string) (TimeframeAnalysis, bool) {
	for _, tf := range p.Timeframes {
		if tf.Signal.Timeframe == code {
			return tf, true
		}
	}
	return TimeframeAnalysis{}, false
}

// MarketSummary сводка по рынку за цикл
type MarketSummary struct {
	Pairs           int
	USDTPairs       int
	TotalVolume     float64
	AverageVolume   float64
	TopGainer       string
	TopGainerChange float64
}

// MarketAnalysis результат одного цикла обновления
type MarketAnalysis struct {
	CycleID     string
	GeneratedAt time.Time
	Summary     MarketSummary
	Pairs       []PairAnalysis
}
