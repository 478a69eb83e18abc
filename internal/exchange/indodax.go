package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/skalibog/mtsa/internal/analysis/normalizer"
	"github.com/skalibog/mtsa/internal/config"
	"github.com/skalibog/mtsa/pkg/logger"
	"github.com/skalibog/mtsa/pkg/models"
)

const (
	summariesPath = "/api/summaries"
	usdtRatePair  = "usdt_idr"
)

// IndodaxClient клиент публичного API Indodax
type IndodaxClient struct {
	baseURL      string
	httpClient   *http.Client
	limiter      *rate.Limiter
	maxElapsed   time.Duration
	fallbackRate float64
}

// NewIndodaxClient создает клиент с ограничением частоты запросов
func NewIndodaxClient(cfg config.ExchangeConfig) *IndodaxClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 1
	}

	return &IndodaxClient{
		baseURL:      strings.TrimRight(cfg.IndodaxURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		limiter:      rate.NewLimiter(rate.Limit(rps), 1),
		maxElapsed:   time.Duration(cfg.MaxRetrySecs) * time.Second,
		fallbackRate: cfg.USDTRate,
	}
}

type summariesResponse struct {
	Tickers map[string]models.RawTicker `json:"tickers"`
}

// FetchTickers получает сводку по всем парам
func (c *IndodaxClient) FetchTickers(ctx context.Context) (*models.RawMarket, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("ошибка ограничителя запросов: %w", err)
	}

	body, err := c.get(ctx, c.baseURL+summariesPath)
	if err != nil {
		return nil, err
	}

	return c.parseSummaries(body)
}

func (c *IndodaxClient) get(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("ошибка создания запроса: %w", err))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("ошибка HTTP-запроса: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			statusErr := fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return backoff.Permanent(statusErr)
			}
			return statusErr
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("ошибка чтения ответа: %w", err)
		}
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = c.maxElapsed

	notify := func(err error, wait time.Duration) {
		logger.Warn("Повтор запроса к Indodax", zap.Error(err), zap.Duration("wait", wait))
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(strategy, ctx), notify); err != nil {
		return nil, fmt.Errorf("запрос %s: %w", url, err)
	}
	return body, nil
}

func (c *IndodaxClient) parseSummaries(body []byte) (*models.RawMarket, error) {
	var resp summariesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", normalizer.ErrMalformedSnapshot, err)
	}
	if len(resp.Tickers) == 0 {
		return nil, normalizer.ErrMalformedSnapshot
	}

	return &models.RawMarket{
		Tickers:   resp.Tickers,
		USDTRate:  c.usdtRate(resp.Tickers),
		FetchedAt: time.Now(),
	}, nil
}

// usdtRate курс USDT/IDR из пары usdt_idr, иначе запасное значение
func (c *IndodaxClient) usdtRate(tickers map[string]models.RawTicker) float64 {
	t, ok := tickers[usdtRatePair]
	if !ok {
		return c.fallbackRate
	}
	last, err := decimal.NewFromString(strings.TrimSpace(t.Last))
	if err != nil || !last.IsPositive() {
		return c.fallbackRate
	}
	return last.InexactFloat64()
}
