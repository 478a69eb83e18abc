package aggregator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/skalibog/mtsa/internal/analysis/fibonacci"
	"github.com/skalibog/mtsa/internal/analysis/market"
	"github.com/skalibog/mtsa/internal/analysis/normalizer"
	"github.com/skalibog/mtsa/internal/analysis/risk"
	"github.com/skalibog/mtsa/internal/analysis/signal"
	"github.com/skalibog/mtsa/internal/analysis/target"
	"github.com/skalibog/mtsa/internal/analysis/timeframe"
	"github.com/skalibog/mtsa/internal/config"
	"github.com/skalibog/mtsa/internal/storage"
	"github.com/skalibog/mtsa/pkg/logger"
	"github.com/skalibog/mtsa/pkg/models"
)

// Engine объединяет все аналитические компоненты в цикл анализа рынка
type Engine struct {
	signals   *signal.Analyzer
	storage   storage.Storage
	workers   int
	minVolume float64
	pairs     map[string]struct{}
	now       func() time.Time
}

// Option настройка движка
type Option func(*Engine)

// WithStorage сохраняет результаты каждого цикла
func WithStorage(s storage.Storage) Option {
	return func(e *Engine) { e.storage = s }
}

// WithSignalAnalyzer заменяет анализатор сигналов
func WithSignalAnalyzer(a *signal.Analyzer) Option {
	return func(e *Engine) {
		if a != nil {
			e.signals = a
		}
	}
}

// WithPairs ограничивает результат перечисленными парами
func WithPairs(pairs []string) Option {
	return func(e *Engine) {
		if len(pairs) == 0 {
			return
		}
		e.pairs = make(map[string]struct{}, len(pairs))
		for _, p := range pairs {
			e.pairs[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
		}
	}
}

// WithClock задает источник времени
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine создает движок анализа
func NewEngine(cfg config.AnalysisConfig, opts ...Option) *Engine {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	e := &Engine{
		signals:   signal.NewAnalyzer(),
		workers:   workers,
		minVolume: cfg.MinVolume,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze выполняет полный цикл: нормализация, средний объем, анализ
// каждой пары на всех таймфреймах. При некорректном снимке цикл
// прерывается без частичных результатов
func (e *Engine) Analyze(ctx context.Context, raw *models.RawMarket) (*models.MarketAnalysis, error) {
	started := time.Now()

	snapshots, err := normalizer.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("ошибка нормализации снимка: %w", err)
	}

	// Средний объем считается по всем проверенным парам, до фильтров
	avgVolume := market.AverageVolume(snapshots)
	summary := market.Summarize(snapshots)

	selected := e.selectPairs(snapshots)
	results := make([]models.PairAnalysis, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, snapshot := range selected {
		i, snapshot := i, snapshot
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.AnalyzePair(snapshot, avgVolume)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("анализ прерван: %w", err)
	}

	analysis := &models.MarketAnalysis{
		CycleID:     uuid.NewString(),
		GeneratedAt: e.now(),
		Summary:     summary,
		Pairs:       results,
	}

	if e.storage != nil {
		if err := e.storage.SaveAnalysis(ctx, analysis); err != nil {
			logger.Warn("Не удалось сохранить результаты цикла", zap.String("cycle", analysis.CycleID), zap.Error(err))
		}
	}

	logger.Info("Цикл анализа завершен",
		zap.String("cycle", analysis.CycleID),
		zap.Int("pairs", len(results)),
		zap.Float64("avg_volume", avgVolume),
		zap.Duration("took", time.Since(started)))

	return analysis, nil
}

// AnalyzePair анализирует одну пару на всех таймфреймах
func (e *Engine) AnalyzePair(s models.TickerSnapshot, avgVolume float64) models.PairAnalysis {
	codes := timeframe.All()
	result := models.PairAnalysis{
		Snapshot:   s,
		Risk:       risk.Assess(s, signal.VolumeRatio(s.Volume, avgVolume)),
		Timeframes: make([]models.TimeframeAnalysis, 0, len(codes)),
	}

	for _, code := range codes {
		sig := e.signals.Analyze(s, avgVolume, code)
		levels := fibonacci.Calculate(s.High, s.Low, s.Last, sig.Type, code)

		result.Timeframes = append(result.Timeframes, models.TimeframeAnalysis{
			Signal:    sig,
			Fibonacci: levels,
			Plan:      target.Plan(s, sig.Type, levels),
		})
	}

	logger.Debug("AGGREGATOR: анализ пары завершен",
		zap.String("pair", s.Pair),
		zap.String("risk", string(result.Risk.Level)))

	return result
}

// selectPairs применяет фильтры по списку пар и минимальному объему
func (e *Engine) selectPairs(snapshots []models.TickerSnapshot) []models.TickerSnapshot {
	selected := make([]models.TickerSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if e.pairs != nil {
			if _, ok := e.pairs[s.Pair]; !ok {
				continue
			}
		}
		if s.Volume < e.minVolume {
			continue
		}
		selected = append(selected, s)
	}
	return selected
}

// GetSignalHistory возвращает историю сигналов пары из хранилища
func (e *Engine) GetSignalHistory(ctx context.Context, pair, code string, limit int) ([]storage.SignalRecord, error) {
	if e.storage == nil {
		return nil, fmt.Errorf("хранилище не настроено")
	}
	return e.storage.GetSignalHistory(ctx, pair, code, limit)
}
