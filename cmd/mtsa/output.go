package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/skalibog/mtsa/internal/storage"
	"github.com/skalibog/mtsa/pkg/models"
)

// printTable выводит сигналы всех пар на одном таймфрейме
func printTable(w io.Writer, analysis *models.MarketAnalysis, code string) {
	fmt.Fprintf(w, "Цикл %s, %s, таймфрейм %s\n", analysis.CycleID, analysis.GeneratedAt.Format("02.01.2006 15:04:05"), code)
	fmt.Fprintf(w, "Пар: %d (USDT: %d), средний объем: %.2f, лидер роста: %s (%.2f%%)\n\n",
		analysis.Summary.Pairs,
		analysis.Summary.USDTPairs,
		analysis.Summary.AverageVolume,
		analysis.Summary.TopGainer,
		analysis.Summary.TopGainerChange)

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Pair", "Last", "Change", "Signal", "Score", "Recommendation", "Win", "Risk", "Stop", "R/R"}),
	)

	for _, pair := range analysis.Pairs {
		tf, ok := pair.Timeframe(code)
		if !ok {
			continue
		}
		sig := tf.Signal
		table.Append([]string{
			pair.Snapshot.Pair,
			fmt.Sprintf("%g", pair.Snapshot.Last),
			fmt.Sprintf("%.2f%%", pair.Snapshot.PriceChangePercent),
			string(sig.Type),
			fmt.Sprintf("%d", sig.Score),
			string(sig.Recommendation),
			fmt.Sprintf("%d%%", sig.WinRate),
			string(pair.Risk.Level),
			fmt.Sprintf("%g", tf.Plan.StopLoss),
			tf.Plan.RiskReward,
		})
	}

	table.Render()
}

// printHistory выводит сохраненные сигналы пары, новые сверху
func printHistory(w io.Writer, pair, code string, records []storage.SignalRecord) {
	fmt.Fprintf(w, "История %s, таймфрейм %s: %d записей\n\n", pair, code, len(records))

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Time", "Price", "Signal", "Score", "Recommendation", "Win", "Risk"}),
	)

	for _, r := range records {
		table.Append([]string{
			r.Time.Format("02.01.2006 15:04:05"),
			fmt.Sprintf("%g", r.Price),
			string(r.Type),
			fmt.Sprintf("%d", r.Score),
			string(r.Recommendation),
			fmt.Sprintf("%d%%", r.WinRate),
			string(r.Risk),
		})
	}

	table.Render()
}

// printJSON выводит значение с отступами
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
