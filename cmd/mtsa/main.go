package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skalibog/mtsa/internal/analysis/aggregator"
	"github.com/skalibog/mtsa/internal/analysis/timeframe"
	"github.com/skalibog/mtsa/internal/config"
	"github.com/skalibog/mtsa/internal/exchange"
	"github.com/skalibog/mtsa/internal/storage"
	"github.com/skalibog/mtsa/internal/ui"
	"github.com/skalibog/mtsa/pkg/logger"
	"github.com/skalibog/mtsa/pkg/models"
)

var (
	cfgFile       string
	once          bool
	format        string
	timeframeCode string
	pairList      []string
	historyPair   string
	historyLimit  int
)

func main() {
	logger.Init()
	defer logger.Sync()

	rootCmd := &cobra.Command{
		Use:   "mtsa",
		Short: "Мультитаймфреймовый анализатор сигналов по тикерам биржи",
		Long: `MTSA загружает снимок тикеров биржи и для каждой пары строит сигнал,
рекомендацию, уровни Фибоначчи и план сделки на 10 таймфреймах.

Примеры:
  mtsa --config config.yaml
  mtsa --once --timeframe 4h --pairs btc_idr,eth_idr
  mtsa --once --format json
  mtsa --history btc_idr --timeframe 1d --limit 20`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "config.yaml", "путь к файлу конфигурации")
	rootCmd.Flags().BoolVar(&once, "once", false, "выполнить один цикл, вывести результат и выйти")
	rootCmd.Flags().StringVar(&format, "format", "table", "формат вывода для --once: table, json")
	rootCmd.Flags().StringVar(&timeframeCode, "timeframe", "", "таймфрейм таблицы для --once (по умолчанию ui.default_timeframe)")
	rootCmd.Flags().StringSliceVar(&pairList, "pairs", nil, "список пар через запятую (по умолчанию exchange.pairs)")
	rootCmd.Flags().StringVar(&historyPair, "history", "", "вывести историю сигналов пары из хранилища и выйти")
	rootCmd.Flags().IntVar(&historyLimit, "limit", 20, "число записей для --history")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	if cmd.Flags().Changed("pairs") {
		cfg.Exchange.Pairs = pairList
	}
	if timeframeCode == "" {
		timeframeCode = cfg.UI.DefaultTimeframe
	}
	if !timeframe.Supported(timeframeCode) {
		return fmt.Errorf("неизвестный таймфрейм %q", timeframeCode)
	}
	if format != "table" && format != "json" {
		return fmt.Errorf("неизвестный формат %q", format)
	}

	if err := logger.Setup(cfg.LoggerOptions()); err != nil {
		return fmt.Errorf("ошибка настройки логгера: %w", err)
	}

	// Контекст отменяется по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, err := exchange.NewSource(cfg.Exchange)
	if err != nil {
		return fmt.Errorf("ошибка инициализации источника: %w", err)
	}

	opts := []aggregator.Option{aggregator.WithPairs(cfg.Exchange.Pairs)}
	if cfg.Storage.Enabled {
		store, err := storage.NewInfluxDBStorage(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("ошибка инициализации хранилища: %w", err)
		}
		defer store.Close()
		opts = append(opts, aggregator.WithStorage(store))
	}

	engine := aggregator.NewEngine(cfg.Analysis, opts...)

	if historyPair != "" {
		records, err := engine.GetSignalHistory(ctx, historyPair, timeframeCode, historyLimit)
		if err != nil {
			return fmt.Errorf("ошибка получения истории: %w", err)
		}
		if format == "json" {
			return printJSON(os.Stdout, records)
		}
		printHistory(os.Stdout, historyPair, timeframeCode, records)
		return nil
	}

	if once {
		analysis, err := runCycle(ctx, source, engine)
		if err != nil {
			return err
		}
		if format == "json" {
			return printJSON(os.Stdout, analysis)
		}
		printTable(os.Stdout, analysis, timeframeCode)
		return nil
	}

	interval := time.Duration(cfg.Analysis.IntervalSeconds) * time.Second

	if !cfg.UI.Enabled {
		logger.Info("UI отключен, результаты пишутся только в лог", zap.Duration("interval", interval))
		refreshLoop(ctx, source, engine, interval, func(*models.MarketAnalysis, error) {})
		return nil
	}

	userInterface := ui.NewTermUI(cfg.UI, cfg.Log.JSONFile)
	go refreshLoop(ctx, source, engine, interval, userInterface.Update)

	// UI в основном потоке, выход из UI завершает программу
	if err := userInterface.Start(); err != nil {
		return err
	}
	stop()
	return nil
}

// runCycle загружает снимок и выполняет один цикл анализа
func runCycle(ctx context.Context, source exchange.Source, engine *aggregator.Engine) (*models.MarketAnalysis, error) {
	raw, err := source.FetchTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки тикеров: %w", err)
	}
	return engine.Analyze(ctx, raw)
}

// refreshLoop выполняет цикл сразу и далее по таймеру до отмены контекста
func refreshLoop(ctx context.Context, source exchange.Source, engine *aggregator.Engine, interval time.Duration, publish func(*models.MarketAnalysis, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		analysis, err := runCycle(ctx, source, engine)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Ошибка цикла анализа", zap.Error(err))
		}
		publish(analysis, err)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			logger.Info("Завершение работы")
			return
		}
	}
}
