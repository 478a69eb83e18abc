package storage

import (
	"context"
	"time"

	"github.com/skalibog/mtsa/pkg/models"
)

// SignalRecord сохраненный сигнал пары на таймфрейме
type SignalRecord struct {
	Time           time.Time
	CycleID        string
	Pair           string
	Timeframe      string
	Type           models.SignalType
	Score          int
	Recommendation models.Recommendation
	WinRate        int
	Risk           models.RiskLevel
	Price          float64
}

// Storage интерфейс для сохранения результатов анализа
type Storage interface {
	SaveAnalysis(ctx context.Context, analysis *models.MarketAnalysis) error
	GetSignalHistory(ctx context.Context, pair, timeframe string, limit int) ([]SignalRecord, error)
	Close()
}
