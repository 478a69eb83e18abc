package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/skalibog/mtsa/internal/analysis/timeframe"
	"github.com/skalibog/mtsa/internal/config"
	"github.com/skalibog/mtsa/pkg/models"
)

const signalsMeasurement = "signals"

// ErrInvalidQuery параметры запроса истории не прошли проверку
var ErrInvalidQuery = errors.New("invalid history query")

var pairPattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)?$`)

// InfluxDBStorage реализует интерфейс Storage с использованием InfluxDB
type InfluxDBStorage struct {
	client   influxdb2.Client
	queryAPI api.QueryAPI
	writeAPI api.WriteAPIBlocking
	org      string
	bucket   string
}

// NewInfluxDBStorage создает новое хранилище InfluxDB
func NewInfluxDBStorage(ctx context.Context, cfg config.StorageConfig) (*InfluxDBStorage, error) {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)

	// Проверка соединения
	health, err := client.Health(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ошибка соединения с InfluxDB: %w", err)
	}
	if health == nil || health.Status != "pass" {
		client.Close()
		return nil, fmt.Errorf("InfluxDB не в состоянии 'pass': %+v", health)
	}

	return &InfluxDBStorage{
		client:   client,
		queryAPI: client.QueryAPI(cfg.Organization),
		writeAPI: client.WriteAPIBlocking(cfg.Organization, cfg.Bucket),
		org:      cfg.Organization,
		bucket:   cfg.Bucket,
	}, nil
}

// Close закрывает соединение с базой данных
func (s *InfluxDBStorage) Close() {
	s.client.Close()
}

// SaveAnalysis сохраняет сигналы всех пар и таймфреймов одного цикла
func (s *InfluxDBStorage) SaveAnalysis(ctx context.Context, analysis *models.MarketAnalysis) error {
	if analysis == nil {
		return nil
	}

	points := AnalysisPoints(analysis)
	if len(points) == 0 {
		return nil
	}

	if err := s.writeAPI.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("ошибка записи сигналов: %w", err)
	}
	return nil
}

// AnalysisPoints строит точки InfluxDB для результата цикла
func AnalysisPoints(analysis *models.MarketAnalysis) []*write.Point {
	var points []*write.Point
	for _, pair := range analysis.Pairs {
		for _, tf := range pair.Timeframes {
			points = append(points, SignalPoint(analysis.CycleID, analysis.GeneratedAt, pair, tf))
		}
	}
	return points
}

// SignalPoint точка для сигнала пары на таймфрейме
func SignalPoint(cycleID string, ts time.Time, pair models.PairAnalysis, tf models.TimeframeAnalysis) *write.Point {
	sig := tf.Signal
	return influxdb2.NewPoint(
		signalsMeasurement,
		map[string]string{
			"pair":      sig.Pair,
			"timeframe": sig.Timeframe,
			"cycle":     cycleID,
		},
		map[string]interface{}{
			"type":           string(sig.Type),
			"score":          int64(sig.Score),
			"recommendation": string(sig.Recommendation),
			"bullish":        int64(sig.BullishCount),
			"bearish":        int64(sig.BearishCount),
			"win_rate":       int64(sig.WinRate),
			"risk":           string(pair.Risk.Level),
			"rsi":            sig.Indicators.RSI,
			"stoch_rsi":      sig.Indicators.StochRSI,
			"macd":           sig.Indicators.MACD,
			"momentum":       sig.Indicators.Momentum,
			"volume_ratio":   sig.Indicators.VolumeRatio,
			"price":          pair.Snapshot.Last,
			"risk_reward":    tf.Plan.RiskReward,
		},
		ts,
	)
}

// GetSignalHistory получает историю сигналов пары на таймфрейме
func (s *InfluxDBStorage) GetSignalHistory(ctx context.Context, pair, code string, limit int) ([]SignalRecord, error) {
	pair = strings.ToLower(strings.TrimSpace(pair))
	query, err := HistoryQuery(s.bucket, pair, code, limit)
	if err != nil {
		return nil, err
	}

	result, err := s.queryAPI.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса истории сигналов: %w", err)
	}

	var records []SignalRecord
	for result.Next() {
		record := result.Record()

		cycle, _ := record.ValueByKey("cycle").(string)
		signalType, _ := record.ValueByKey("type").(string)
		score, _ := record.ValueByKey("score").(int64)
		recommendation, _ := record.ValueByKey("recommendation").(string)
		winRate, _ := record.ValueByKey("win_rate").(int64)
		risk, _ := record.ValueByKey("risk").(string)
		price, _ := record.ValueByKey("price").(float64)

		records = append(records, SignalRecord{
			Time:           record.Time(),
			CycleID:        cycle,
			Pair:           pair,
			Timeframe:      code,
			Type:           models.SignalType(signalType),
			Score:          int(score),
			Recommendation: models.Recommendation(recommendation),
			WinRate:        int(winRate),
			Risk:           models.RiskLevel(risk),
			Price:          price,
		})
	}

	// Проверяем на ошибки при обработке результатов
	if result.Err() != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов: %w", result.Err())
	}

	return records, nil
}

// HistoryQuery Flux-запрос истории сигналов. В запрос попадают только
// пары вида base_quote и известные коды таймфреймов
func HistoryQuery(bucket, pair, code string, limit int) (string, error) {
	if !pairPattern.MatchString(pair) {
		return "", fmt.Errorf("%w: пара %q", ErrInvalidQuery, pair)
	}
	if !timeframe.Supported(code) {
		return "", fmt.Errorf("%w: таймфрейм %q", ErrInvalidQuery, code)
	}
	if limit < 1 {
		return "", fmt.Errorf("%w: limit %d", ErrInvalidQuery, limit)
	}

	return fmt.Sprintf(`
		from(bucket: "%s")
			|> range(start: -30d)
			|> filter(fn: (r) => r._measurement == "%s")
			|> filter(fn: (r) => r.pair == "%s")
			|> filter(fn: (r) => r.timeframe == "%s")
			|> pivot(rowKey:["_time"], columnKey: ["_field"], valueColumn: "_value")
			|> sort(columns: ["_time"], desc: true)
			|> limit(n: %d)
	`, bucket, signalsMeasurement, pair, code, limit), nil
}
