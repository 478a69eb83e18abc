package ui

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/skalibog/mtsa/internal/analysis/timeframe"
	"github.com/skalibog/mtsa/internal/config"
	"github.com/skalibog/mtsa/pkg/logger"
	"github.com/skalibog/mtsa/pkg/models"
)

// Стили UI
var (
	// Основные цвета
	primaryColor   = lipgloss.Color("#0077cc")
	secondaryColor = lipgloss.Color("#333333")
	errorColor     = lipgloss.Color("#cc3300")
	successColor   = lipgloss.Color("#33cc33")
	warningColor   = lipgloss.Color("#cccc00")
	mutedColor     = lipgloss.Color("#999999")

	appStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor)
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(primaryColor).
			Padding(0, 1).
			Align(lipgloss.Center)
	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffffff")).
				Background(secondaryColor).
				Padding(0, 1)
	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(secondaryColor).
			Padding(0, 1)
	activeTimeframeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(primaryColor)
	footerStyle          = lipgloss.NewStyle().Foreground(mutedColor).Padding(0, 1)
	selectedRowStyle     = lipgloss.NewStyle().Background(lipgloss.Color("#222222"))

	ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

const maxLogLines = 50

// Filter фильтр строк по стороне рекомендации
type Filter int

const (
	FilterAll Filter = iota
	FilterBuySide
	FilterSellSide
)

func (f Filter) String() string {
	switch f {
	case FilterBuySide:
		return "покупка"
	case FilterSellSide:
		return "продажа"
	default:
		return "все"
	}
}

// TermUI представляет терминальный интерфейс
type TermUI struct {
	mu            sync.RWMutex
	analysis      *models.MarketAnalysis
	lastErr       error
	lastUpdate    time.Time
	logs          []string
	config        config.UIConfig
	program       *tea.Program
	running       bool
	timeframes    []string
	timeframeIdx  int
	selectedIndex int
	filter        Filter
	sortByScore   bool
	logFile       string
}

// Сообщения для обновления UI
type refreshMsg struct{}
type tickMsg time.Time

// bubbleModel - модель для bubbletea
type bubbleModel struct {
	ui *TermUI
}

// NewTermUI создает терминальный интерфейс. logFile - JSON-лог, который
// показывается в нижней секции
func NewTermUI(cfg config.UIConfig, logFile string) *TermUI {
	ui := &TermUI{
		logs:       []string{"MTSA запущен. Ожидание данных..."},
		config:     cfg,
		timeframes: timeframe.All(),
		logFile:    logFile,
	}
	for i, code := range ui.timeframes {
		if code == cfg.DefaultTimeframe {
			ui.timeframeIdx = i
		}
	}
	ui.program = tea.NewProgram(bubbleModel{ui: ui}, tea.WithAltScreen())
	return ui
}

// Start запускает UI. Блокирует до выхода пользователя
func (ui *TermUI) Start() error {
	ui.mu.Lock()
	ui.running = true
	ui.mu.Unlock()

	_, err := ui.program.Run()

	ui.mu.Lock()
	ui.running = false
	ui.mu.Unlock()

	if err != nil {
		return fmt.Errorf("ошибка запуска UI: %w", err)
	}
	return nil
}

// Update принимает результат цикла. При ошибке остается предыдущий
// успешный результат
func (ui *TermUI) Update(analysis *models.MarketAnalysis, err error) {
	ui.mu.Lock()
	if err != nil {
		ui.lastErr = err
	} else if analysis != nil {
		ui.analysis = analysis
		ui.lastErr = nil
		ui.lastUpdate = analysis.GeneratedAt
		ui.clampSelection()
	}
	running := ui.running
	ui.mu.Unlock()

	// До запуска программы Send заблокировался бы
	if running {
		ui.program.Send(refreshMsg{})
	}
}

// rows строки текущего таймфрейма. Вызывается под ui.mu
func (ui *TermUI) rows() []row {
	return visibleRows(ui.analysis, ui.timeframes[ui.timeframeIdx], ui.filter, ui.sortByScore)
}

// clampSelection удерживает выбор в пределах видимых строк. Вызывается под ui.mu
func (ui *TermUI) clampSelection() {
	ui.selectedIndex = clampIndex(ui.selectedIndex, len(ui.rows()))
}

// clampIndex индекс в пределах [0, n-1], 0 для пустого набора
func clampIndex(idx, n int) int {
	return max(0, min(n-1, idx))
}

// Snapshot текущий отображаемый результат и последняя ошибка
func (ui *TermUI) Snapshot() (*models.MarketAnalysis, error) {
	ui.mu.RLock()
	defer ui.mu.RUnlock()
	return ui.analysis, ui.lastErr
}

// loadLogsFromFile перечитывает JSON-лог
func (ui *TermUI) loadLogsFromFile() error {
	if ui.logFile == "" {
		return nil
	}
	logs, err := readLogLines(ui.logFile, maxLogLines)
	if err != nil {
		return err
	}

	if len(logs) > 0 {
		ui.mu.Lock()
		ui.logs = logs
		ui.mu.Unlock()
	}
	return nil
}

// readLogLines читает последние limit строк JSON-лога zap в читаемом виде
func readLogLines(path string, limit int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Файл не существует, это не ошибка
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var logs []string

	for scanner.Scan() {
		logs = append(logs, formatLogLine(scanner.Text()))
		if len(logs) > limit {
			logs = logs[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// formatLogLine превращает строку JSON-лога в "[15:04:05] [LEVEL] msg (k: v)"
func formatLogLine(line string) string {
	var zapLog map[string]interface{}
	if err := json.Unmarshal([]byte(line), &zapLog); err != nil {
		return line
	}

	level, _ := zapLog["level"].(string)
	ts, _ := zapLog["ts"].(string)
	msg, _ := zapLog["msg"].(string)
	level = ansiRegex.ReplaceAllString(level, "")

	timestamp := ""
	if t, err := time.Parse(logger.TimeLayout, ts); err == nil {
		timestamp = t.Format("15:04:05")
	}

	keys := make([]string, 0, len(zapLog))
	for k := range zapLog {
		if k != "level" && k != "ts" && k != "msg" && k != "caller" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] %s", timestamp, level, msg)
	for _, k := range keys {
		fmt.Fprintf(&b, " (%s: %v)", k, zapLog[k])
	}
	return b.String()
}

func (ui *TermUI) refreshInterval() time.Duration {
	if ui.config.RefreshRate <= 0 {
		return time.Second
	}
	return time.Duration(ui.config.RefreshRate) * time.Millisecond
}

func (ui *TermUI) tick() tea.Cmd {
	return tea.Tick(ui.refreshInterval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Методы для bubbletea
func (m bubbleModel) Init() tea.Cmd {
	return m.ui.tick()
}

func (m bubbleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.ui.handleKey(msg.String())

	case tea.WindowSizeMsg:
		// lipgloss сам переносит строки

	case tickMsg:
		if err := m.ui.loadLogsFromFile(); err != nil {
			logger.Warn("Ошибка загрузки логов", zap.Error(err))
		}
		return m, m.ui.tick()

	case refreshMsg:
		// Просто обновляем UI
	}

	return m, nil
}

// handleKey обрабатывает нажатие клавиши
func (ui *TermUI) handleKey(key string) tea.Cmd {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case "left":
		ui.timeframeIdx = (ui.timeframeIdx - 1 + len(ui.timeframes)) % len(ui.timeframes)
	case "right":
		ui.timeframeIdx = (ui.timeframeIdx + 1) % len(ui.timeframes)
	case "up":
		ui.selectedIndex--
	case "down":
		ui.selectedIndex++
	case "f":
		ui.filter = (ui.filter + 1) % 3
		ui.selectedIndex = 0
	case "s":
		ui.sortByScore = !ui.sortByScore
	}
	ui.clampSelection()
	return nil
}

func (m bubbleModel) View() string {
	ui := m.ui
	ui.mu.RLock()
	defer ui.mu.RUnlock()

	rows := ui.rows()
	selected := clampIndex(ui.selectedIndex, len(rows))

	title := titleStyle.Render("MTSA - Multi-Timeframe Signal Analyzer")
	tabs := renderTimeframeTabs(ui.timeframes, ui.timeframeIdx)
	signals := renderSignalsSection(rows, selected)
	details := renderDetails(rows, selected)
	logs := renderLogsSection(ui.logs)
	status := renderStatus(ui.analysis, ui.lastErr, ui.filter, ui.sortByScore)
	footer := footerStyle.Render("Клавиши: ←/→ - таймфрейм, ↑/↓ - навигация, F - фильтр, S - сортировка, Q - выход")

	return appStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			tabs,
			status,
			signals,
			details,
			logs,
			footer,
		),
	)
}

// row строка таблицы сигналов
type row struct {
	Pair     string
	Last     float64
	Change   float64
	Risk     models.RiskLevel
	Analysis models.TimeframeAnalysis
}

// visibleRows строки для таймфрейма с учетом фильтра и сортировки
func visibleRows(analysis *models.MarketAnalysis, code string, filter Filter, byScore bool) []row {
	if analysis == nil {
		return nil
	}

	rows := make([]row, 0, len(analysis.Pairs))
	for _, p := range analysis.Pairs {
		tf, ok := p.Timeframe(code)
		if !ok {
			continue
		}
		rec := tf.Signal.Recommendation
		if filter == FilterBuySide && !rec.IsBuySide() {
			continue
		}
		if filter == FilterSellSide && !rec.IsSellSide() {
			continue
		}
		rows = append(rows, row{
			Pair:     p.Snapshot.Pair,
			Last:     p.Snapshot.Last,
			Change:   p.Snapshot.PriceChangePercent,
			Risk:     p.Risk.Level,
			Analysis: tf,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if byScore && rows[i].Analysis.Signal.Score != rows[j].Analysis.Signal.Score {
			return rows[i].Analysis.Signal.Score > rows[j].Analysis.Signal.Score
		}
		return rows[i].Pair < rows[j].Pair
	})
	return rows
}

func renderTimeframeTabs(codes []string, active int) string {
	parts := make([]string, len(codes))
	for i, code := range codes {
		if i == active {
			parts[i] = activeTimeframeStyle.Render(" " + code + " ")
		} else {
			parts[i] = " " + code + " "
		}
	}
	return strings.Join(parts, "")
}

func renderStatus(analysis *models.MarketAnalysis, lastErr error, filter Filter, byScore bool) string {
	sortLabel := "пара"
	if byScore {
		sortLabel = "оценка"
	}

	status := fmt.Sprintf("Фильтр: %s | Сортировка: %s", filter, sortLabel)
	if analysis != nil {
		status += fmt.Sprintf(" | Пар: %d | Обновлено: %s | Лидер: %s (%.2f%%)",
			analysis.Summary.Pairs,
			analysis.GeneratedAt.Format("15:04:05"),
			analysis.Summary.TopGainer,
			analysis.Summary.TopGainerChange)
	}
	if lastErr != nil {
		status += " | " + lipgloss.NewStyle().Foreground(errorColor).Render("Ошибка: "+lastErr.Error())
	}
	return footerStyle.Render(status)
}

func renderSignalsSection(rows []row, selectedIndex int) string {
	header := sectionHeaderStyle.Render("СИГНАЛЫ")
	content := strings.Builder{}

	if len(rows) == 0 {
		content.WriteString("  Ожидание данных...\n")
	} else {
		content.WriteString(fmt.Sprintf("  %-12s %14s %8s %-12s %5s %5s %-6s %5s\n",
			"ПАРА", "ЦЕНА", "ИЗМ%", "РЕКОМЕНД.", "ОЦЕН", "WIN%", "РИСК", "R/R"))
		for i, r := range rows {
			sig := r.Analysis.Signal
			line := fmt.Sprintf("  %-12s %14s %8.2f %s %5d %5d %-6s %5s",
				r.Pair,
				formatPrice(r.Last),
				r.Change,
				formatRecommendation(sig.Recommendation),
				sig.Score,
				sig.WinRate,
				r.Risk,
				r.Analysis.Plan.RiskReward)

			// Выделяем выбранную строку
			if i == selectedIndex {
				line = selectedRowStyle.Render("> " + line[2:])
			}
			content.WriteString(line + "\n")
		}
	}

	return sectionStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, content.String()))
}

func renderDetails(rows []row, selectedIndex int) string {
	if selectedIndex < 0 || selectedIndex >= len(rows) {
		return ""
	}
	r := rows[selectedIndex]
	sig := r.Analysis.Signal
	ind := sig.Indicators

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s | %s | bull %d / bear %d\n", r.Pair, sig.Timeframe, sig.Type, sig.BullishCount, sig.BearishCount)
	fmt.Fprintf(&b, "RSI %.1f  StochRSI %.1f  BB %s  MACD %.2f  Mom %.2f  Vol x%.2f  %s\n",
		ind.RSI, ind.StochRSI, ind.BBPosition, ind.MACD, ind.Momentum, ind.VolumeRatio, ind.Trend)
	for _, t := range r.Analysis.Plan.Targets {
		fmt.Fprintf(&b, "%s: %s  ", t.Label, formatPrice(t.Value))
	}
	fmt.Fprintf(&b, "\nStop: %s  R/R: %s\n", formatPrice(r.Analysis.Plan.StopLoss), r.Analysis.Plan.RiskReward)
	if len(sig.Tags) > 0 {
		b.WriteString(strings.Join(sig.Tags, " · "))
	}

	return sectionStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sectionHeaderStyle.Render("ДЕТАЛИ"), b.String()))
}

func renderLogsSection(logs []string) string {
	header := sectionHeaderStyle.Render("ЛОГИ")
	content := strings.Builder{}

	const maxLogsToShow = 8
	start := 0
	if len(logs) > maxLogsToShow {
		start = len(logs) - maxLogsToShow
	}

	for _, line := range logs[start:] {
		// Выделение по уровню логирования
		switch {
		case strings.Contains(line, "[ERROR]"):
			line = lipgloss.NewStyle().Foreground(errorColor).Render(line)
		case strings.Contains(line, "[WARN]"):
			line = lipgloss.NewStyle().Foreground(warningColor).Render(line)
		case strings.Contains(line, "[INFO]"):
			line = lipgloss.NewStyle().Foreground(successColor).Render(line)
		case strings.Contains(line, "[DEBUG]"):
			line = lipgloss.NewStyle().Foreground(lipgloss.Color("#9999ff")).Render(line)
		}
		content.WriteString("  " + line + "\n")
	}

	return sectionStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, content.String()))
}

// formatRecommendation рекомендация фиксированной ширины с цветом стороны
func formatRecommendation(rec models.Recommendation) string {
	style := lipgloss.NewStyle().Width(12)

	switch rec {
	case models.RecommendationBuyStrong, models.RecommendationBuyNow:
		style = style.Foreground(successColor).Bold(true)
	case models.RecommendationSellStrong, models.RecommendationSellNow:
		style = style.Foreground(errorColor).Bold(true)
	default:
		switch {
		case rec.IsBuySide():
			style = style.Foreground(successColor)
		case rec.IsSellSide():
			style = style.Foreground(errorColor)
		default:
			style = style.Foreground(warningColor)
		}
	}

	return style.Render(string(rec))
}

// formatPrice цена без лишних нулей: крупные значения без дробной части
func formatPrice(v float64) string {
	switch {
	case v >= 1000:
		return fmt.Sprintf("%.0f", v)
	case v >= 1:
		return fmt.Sprintf("%.4f", v)
	default:
		return fmt.Sprintf("%.8f", v)
	}
}
