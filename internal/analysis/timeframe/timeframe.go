package timeframe

// Коды поддерживаемых таймфреймов
const (
	M15 = "15m"
	M30 = "30m"
	H1  = "1h"
	H2  = "2h"
	H4  = "4h"
	D1  = "1d"
	D3  = "3d"
	W1  = "1w"
	W2  = "2w"
	MN1 = "1m" // месяц
)

// Default таймфрейм, параметры которого используются для неизвестных кодов
const Default = H1

// Config параметры анализа для таймфрейма
type Config struct {
	Code                 string
	Sensitivity          float64
	VolatilityMultiplier float64
	FibonacciMultiplier  float64
}

var configs = []Config{
	{Code: M15, Sensitivity: 1.8, VolatilityMultiplier: 1.5, FibonacciMultiplier: 0.5},
	{Code: M30, Sensitivity: 1.6, VolatilityMultiplier: 1.35, FibonacciMultiplier: 0.7},
	{Code: H1, Sensitivity: 1.4, VolatilityMultiplier: 1.2, FibonacciMultiplier: 1.0},
	{Code: H2, Sensitivity: 1.2, VolatilityMultiplier: 1.1, FibonacciMultiplier: 1.3},
	{Code: H4, Sensitivity: 1.0, VolatilityMultiplier: 1.0, FibonacciMultiplier: 1.8},
	{Code: D1, Sensitivity: 0.8, VolatilityMultiplier: 0.85, FibonacciMultiplier: 2.5},
	{Code: D3, Sensitivity: 0.65, VolatilityMultiplier: 0.75, FibonacciMultiplier: 3.5},
	{Code: W1, Sensitivity: 0.5, VolatilityMultiplier: 0.6, FibonacciMultiplier: 5.0},
	{Code: W2, Sensitivity: 0.4, VolatilityMultiplier: 0.5, FibonacciMultiplier: 6.5},
	{Code: MN1, Sensitivity: 0.3, VolatilityMultiplier: 0.4, FibonacciMultiplier: 8.0},
}

// All возвращает коды всех таймфреймов от младшего к старшему
func All() []string {
	codes := make([]string, len(configs))
	for i, c := range configs {
		codes[i] = c.Code
	}
	return codes
}

// Lookup возвращает параметры таймфрейма. Для неизвестного кода
// возвращаются параметры 1h и false
func Lookup(code string) (Config, bool) {
	for _, c := range configs {
		if c.Code == code {
			return c, true
		}
	}
	fallback, _ := Lookup(Default)
	return fallback, false
}

// Get как Lookup, но без признака
func Get(code string) Config {
	cfg, _ := Lookup(code)
	return cfg
}

// Supported поддерживается ли код
func Supported(code string) bool {
	_, ok := Lookup(code)
	return ok
}
