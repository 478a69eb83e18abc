package normalizer

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/skalibog/mtsa/pkg/logger"
	"github.com/skalibog/mtsa/pkg/models"
)

// maxValue верхняя граница цен и объемов, при которой диапазон x множитель
// Фибоначчи остается конечным
var maxValue = decimal.New(1, 20)

// ErrMalformedSnapshot снимок рынка не содержит данных по парам
var ErrMalformedSnapshot = errors.New("malformed market snapshot: no pair-keyed tickers")

// Normalize превращает сырой снимок рынка в проверенные снимки пар,
// отсортированные по идентификатору пары. Пары с некорректными полями
// пропускаются, отсутствие данных по парам целиком является ошибкой
func Normalize(raw *models.RawMarket) ([]models.TickerSnapshot, error) {
	if raw == nil || len(raw.Tickers) == 0 {
		return nil, ErrMalformedSnapshot
	}

	pairs := make([]string, 0, len(raw.Tickers))
	for pair := range raw.Tickers {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)

	snapshots := make([]models.TickerSnapshot, 0, len(pairs))
	for _, pair := range pairs {
		snapshot, err := NormalizeTicker(pair, raw.Tickers[pair], raw.USDTRate)
		if err != nil {
			logger.Warn("Пара пропущена", zap.String("pair", pair), zap.Error(err))
			continue
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}

// NormalizeTicker проверяет и конвертирует поля одной пары
func NormalizeTicker(pair string, t models.RawTicker, usdtRate float64) (models.TickerSnapshot, error) {
	pair = strings.ToLower(strings.TrimSpace(pair))
	if pair == "" {
		return models.TickerSnapshot{}, fmt.Errorf("пустой идентификатор пары")
	}

	last, err := parseRequired("last", t.Last)
	if err != nil {
		return models.TickerSnapshot{}, err
	}
	high, err := parseRequired("high", t.High)
	if err != nil {
		return models.TickerSnapshot{}, err
	}
	low, err := parseRequired("low", t.Low)
	if err != nil {
		return models.TickerSnapshot{}, err
	}
	if high.LessThan(low) {
		return models.TickerSnapshot{}, fmt.Errorf("high %s меньше low %s", high, low)
	}

	buy, err := parseOptional("buy", t.Buy)
	if err != nil {
		return models.TickerSnapshot{}, err
	}
	sell, err := parseOptional("sell", t.Sell)
	if err != nil {
		return models.TickerSnapshot{}, err
	}
	volume, err := parseOptional("volume", volumeField(pair, t))
	if err != nil {
		return models.TickerSnapshot{}, err
	}

	for field, v := range map[string]decimal.Decimal{
		"last": last, "high": high, "low": low, "buy": buy, "sell": sell, "volume": volume,
	} {
		if v.GreaterThan(maxValue) {
			return models.TickerSnapshot{}, fmt.Errorf("поле %s вне допустимого диапазона: %s", field, v)
		}
	}

	isUSDT := IsUSDTPair(pair)
	snapshot := models.TickerSnapshot{
		Pair:               pair,
		Name:               t.Name,
		Last:               last.InexactFloat64(),
		High:               high.InexactFloat64(),
		Low:                low.InexactFloat64(),
		Buy:                buy.InexactFloat64(),
		Sell:               sell.InexactFloat64(),
		Volume:             volume.InexactFloat64(),
		PriceChangePercent: priceChangePercent(last, low),
		IsUSDTPair:         isUSDT,
	}
	if isUSDT && usdtRate > 0 {
		snapshot.USDTRate = usdtRate
	}
	if !finite(snapshot.Last, snapshot.High, snapshot.Low, snapshot.Buy, snapshot.Sell, snapshot.Volume, snapshot.PriceChangePercent) {
		return models.TickerSnapshot{}, fmt.Errorf("нечисловое значение после конвертации")
	}
	if t.ServerTime > 0 {
		snapshot.ServerTime = time.Unix(t.ServerTime, 0).UTC()
	}

	return snapshot, nil
}

// IsUSDTPair котируется ли пара в USDT
func IsUSDTPair(pair string) bool {
	return strings.HasSuffix(strings.ToLower(pair), "usdt")
}

// QuoteCurrency валюта котировки пары: btc_idr -> idr, ethusdt -> usdt
func QuoteCurrency(pair string) string {
	pair = strings.ToLower(pair)
	if idx := strings.LastIndex(pair, "_"); idx >= 0 {
		return pair[idx+1:]
	}
	for _, quote := range []string{"usdt", "idr", "btc", "eth"} {
		if strings.HasSuffix(pair, quote) {
			return quote
		}
	}
	return ""
}

// volumeField выбирает поле объема в валюте котировки,
// иначе первое заполненное
func volumeField(pair string, t models.RawTicker) string {
	byQuote := map[string]string{
		"idr":  t.VolIDR,
		"usdt": t.VolUSDT,
		"btc":  t.VolBTC,
		"eth":  t.VolETH,
	}
	if v := byQuote[QuoteCurrency(pair)]; v != "" {
		return v
	}
	for _, v := range []string{t.VolIDR, t.VolUSDT, t.VolBTC, t.VolETH} {
		if v != "" {
			return v
		}
	}
	return ""
}

// priceChangePercent (last-low)/low*100, 0 при нулевом low
func priceChangePercent(last, low decimal.Decimal) float64 {
	if low.IsZero() {
		return 0
	}
	return last.Sub(low).Div(low).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

func parseRequired(field, value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, fmt.Errorf("поле %s отсутствует", field)
	}
	return parseOptional(field, value)
}

func parseOptional(field, value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ошибка парсинга поля %s: %w", field, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("поле %s отрицательное: %s", field, value)
	}
	return d, nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
