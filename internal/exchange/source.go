package exchange

import (
	"context"
	"errors"

	"github.com/skalibog/mtsa/internal/config"
	"github.com/skalibog/mtsa/pkg/models"
)

// ErrUnexpectedStatus биржа ответила кодом, отличным от 200
var ErrUnexpectedStatus = errors.New("unexpected response status")

// Source источник снимков рынка
type Source interface {
	FetchTickers(ctx context.Context) (*models.RawMarket, error)
}

// NewSource создает источник по конфигурации
func NewSource(cfg config.ExchangeConfig) (Source, error) {
	switch cfg.Source {
	case config.SourceIndodax:
		return NewIndodaxClient(cfg), nil
	case config.SourceBinance:
		return NewBinanceClient(cfg)
	default:
		return nil, errors.New("неизвестный источник: " + cfg.Source)
	}
}
