package exchange

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"

	"github.com/skalibog/mtsa/internal/config"
	"github.com/skalibog/mtsa/pkg/models"
)

const binanceTestnetURL = "https://testnet.binance.vision"

// BinanceClient источник тикеров спотового рынка Binance
type BinanceClient struct {
	spot     *binance.Client
	quote    string
	usdtRate float64
}

// NewBinanceClient создает новый клиент Binance
func NewBinanceClient(cfg config.ExchangeConfig) (*BinanceClient, error) {
	quote := strings.ToUpper(strings.TrimSpace(cfg.Binance.QuoteAsset))
	if quote == "" {
		return nil, fmt.Errorf("не задан quote_asset для Binance")
	}

	spot := binance.NewClient(cfg.Binance.APIKey, cfg.Binance.APISecret)
	if cfg.Binance.Testnet {
		spot.BaseURL = binanceTestnetURL
	}

	return &BinanceClient{
		spot:     spot,
		quote:    quote,
		usdtRate: cfg.USDTRate,
	}, nil
}

// FetchTickers получает 24-часовую статистику по парам с заданной валютой котировки
func (c *BinanceClient) FetchTickers(ctx context.Context) (*models.RawMarket, error) {
	stats, err := c.spot.NewListPriceChangeStatsService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статистики: %w", err)
	}

	tickers := make(map[string]models.RawTicker, len(stats))
	for _, s := range stats {
		pair, ticker, ok := tickerFromStats(s, c.quote)
		if !ok {
			continue
		}
		tickers[pair] = ticker
	}

	return &models.RawMarket{
		Tickers:   tickers,
		USDTRate:  c.usdtRate,
		FetchedAt: time.Now(),
	}, nil
}

// tickerFromStats конвертирует статистику Binance в сырой тикер: BTCUSDT -> btc_usdt
func tickerFromStats(s *binance.PriceChangeStats, quote string) (string, models.RawTicker, bool) {
	if s == nil || !strings.HasSuffix(s.Symbol, quote) || len(s.Symbol) == len(quote) {
		return "", models.RawTicker{}, false
	}

	base := strings.TrimSuffix(s.Symbol, quote)
	pair := strings.ToLower(base + "_" + quote)

	ticker := models.RawTicker{
		High:       s.HighPrice,
		Low:        s.LowPrice,
		Last:       s.LastPrice,
		Buy:        s.BidPrice,
		Sell:       s.AskPrice,
		Name:       base,
		ServerTime: s.CloseTime / 1000,
	}

	switch strings.ToLower(quote) {
	case "usdt":
		ticker.VolUSDT = s.QuoteVolume
	case "btc":
		ticker.VolBTC = s.QuoteVolume
	case "eth":
		ticker.VolETH = s.QuoteVolume
	default:
		ticker.VolUSDT = s.QuoteVolume
	}

	return pair, ticker, true
}
