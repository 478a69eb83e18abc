package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/skalibog/mtsa/internal/analysis/timeframe"
	"github.com/skalibog/mtsa/pkg/logger"
)

// ErrInvalidConfig конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("invalid config")

// Источники данных
const (
	SourceIndodax = "indodax"
	SourceBinance = "binance"
)

// Config представляет полную конфигурацию приложения
type Config struct {
	Exchange ExchangeConfig `yaml:"exchange"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Storage  StorageConfig  `yaml:"storage"`
	UI       UIConfig       `yaml:"ui"`
	Log      LogConfig      `yaml:"log"`
}

// ExchangeConfig настройки источника тикеров
type ExchangeConfig struct {
	Source         string   `yaml:"source"`
	IndodaxURL     string   `yaml:"indodax_url"`
	RequestsPerSec float64  `yaml:"requests_per_sec"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	MaxRetrySecs   int      `yaml:"max_retry_seconds"`
	USDTRate       float64  `yaml:"usdt_idr_rate"` // запасной курс, если в снимке нет usdt_idr
	Binance        Binance  `yaml:"binance"`
	Pairs          []string `yaml:"pairs"` // пусто - все пары
}

// Binance содержит настройки подключения к Binance
type Binance struct {
	APIKey     string `yaml:"api_key"`
	APISecret  string `yaml:"api_secret"`
	Testnet    bool   `yaml:"testnet"`
	QuoteAsset string `yaml:"quote_asset"`
}

// AnalysisConfig настройки цикла анализа
type AnalysisConfig struct {
	IntervalSeconds int     `yaml:"interval_seconds"`
	Workers         int     `yaml:"workers"`
	MinVolume       float64 `yaml:"min_volume"`
}

// StorageConfig настройки хранения сигналов
type StorageConfig struct {
	Enabled      bool   `yaml:"enabled"`
	URL          string `yaml:"url"`
	Token        string `yaml:"token"`
	Organization string `yaml:"organization"`
	Bucket       string `yaml:"bucket"`
}

// UIConfig настройки пользовательского интерфейса
type UIConfig struct {
	Enabled          bool   `yaml:"enabled"`
	RefreshRate      int    `yaml:"refresh_rate_ms"`
	DefaultTimeframe string `yaml:"default_timeframe"`
}

// LogConfig настройки логирования
type LogConfig struct {
	Level    string `yaml:"level"`
	File     string `yaml:"file"`
	JSONFile string `yaml:"json_file"`
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Exchange: ExchangeConfig{
			Source:         SourceIndodax,
			IndodaxURL:     "https://indodax.com",
			RequestsPerSec: 1,
			TimeoutSeconds: 10,
			MaxRetrySecs:   30,
			Binance: Binance{
				QuoteAsset: "USDT",
			},
		},
		Analysis: AnalysisConfig{
			IntervalSeconds: 30,
			Workers:         8,
		},
		Storage: StorageConfig{
			URL:    "http://localhost:8086",
			Bucket: "mtsa",
		},
		UI: UIConfig{
			Enabled:          true,
			RefreshRate:      1000,
			DefaultTimeframe: timeframe.Default,
		},
		Log: LogConfig{
			Level:    "info",
			File:     "app.log",
			JSONFile: "app.json.log",
		},
	}
}

// Load загружает конфигурацию из файла поверх значений по умолчанию.
// Отсутствующий файл не является ошибкой
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("ошибка разбора файла конфигурации: %w", err)
		}
	case os.IsNotExist(err):
		logger.Warn("Файл конфигурации не найден, используются значения по умолчанию", zap.String("path", path))
	default:
		return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Загружена конфигурация", zap.String("path", path), zap.String("source", cfg.Exchange.Source))
	return cfg, nil
}

// applyEnv переопределяет значения из переменных окружения
func (c *Config) applyEnv() {
	if v := os.Getenv("MTSA_SOURCE"); v != "" {
		c.Exchange.Source = v
	}
	if v := os.Getenv("MTSA_INFLUX_TOKEN"); v != "" {
		c.Storage.Token = v
	}
	if v := os.Getenv("MTSA_BINANCE_API_KEY"); v != "" {
		c.Exchange.Binance.APIKey = v
	}
	if v := os.Getenv("MTSA_BINANCE_API_SECRET"); v != "" {
		c.Exchange.Binance.APISecret = v
	}
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	c.Exchange.Source = strings.ToLower(c.Exchange.Source)
	switch c.Exchange.Source {
	case SourceIndodax:
		if c.Exchange.IndodaxURL == "" {
			return fmt.Errorf("%w: exchange.indodax_url пуст", ErrInvalidConfig)
		}
	case SourceBinance:
		if c.Exchange.Binance.QuoteAsset == "" {
			return fmt.Errorf("%w: exchange.binance.quote_asset пуст", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: неизвестный источник %q", ErrInvalidConfig, c.Exchange.Source)
	}

	if c.Exchange.RequestsPerSec <= 0 {
		return fmt.Errorf("%w: exchange.requests_per_sec должен быть больше 0", ErrInvalidConfig)
	}
	if c.Analysis.IntervalSeconds < 1 {
		return fmt.Errorf("%w: analysis.interval_seconds должен быть не меньше 1", ErrInvalidConfig)
	}
	if c.Analysis.Workers < 1 {
		return fmt.Errorf("%w: analysis.workers должен быть не меньше 1", ErrInvalidConfig)
	}
	if c.Storage.Enabled && (c.Storage.URL == "" || c.Storage.Bucket == "") {
		return fmt.Errorf("%w: для storage нужны url и bucket", ErrInvalidConfig)
	}
	// Вывод логгера в stderr разрушает экран UI
	if c.UI.Enabled && c.Log.File == "" {
		return fmt.Errorf("%w: при ui.enabled нужен log.file", ErrInvalidConfig)
	}
	if !timeframe.Supported(c.UI.DefaultTimeframe) {
		return fmt.Errorf("%w: неизвестный таймфрейм %q", ErrInvalidConfig, c.UI.DefaultTimeframe)
	}
	return nil
}

// LoggerOptions настройки логгера из конфигурации
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:    c.Log.Level,
		File:     c.Log.File,
		JSONFile: c.Log.JSONFile,
		Truncate: true,
	}
}
