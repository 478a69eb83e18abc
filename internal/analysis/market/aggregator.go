package market

import (
	"github.com/skalibog/mtsa/pkg/models"
)

// AverageVolume средний объем по всем проверенным снимкам, 0 для пустого набора
func AverageVolume(snapshots []models.TickerSnapshot) float64 {
	if len(snapshots) == 0 {
		return 0
	}
	var total float64
	for _, s := range snapshots {
		total += s.Volume
	}
	return total / float64(len(snapshots))
}

// Summarize собирает сводку по рынку
func Summarize(snapshots []models.TickerSnapshot) models.MarketSummary {
	summary := models.MarketSummary{
		Pairs:         len(snapshots),
		AverageVolume: AverageVolume(snapshots),
	}

	for i, s := range snapshots {
		summary.TotalVolume += s.Volume
		if s.IsUSDTPair {
			summary.USDTPairs++
		}
		// При равенстве побеждает первая по порядку пара
		if i == 0 || s.PriceChangePercent > summary.TopGainerChange {
			summary.TopGainer = s.Pair
			summary.TopGainerChange = s.PriceChangePercent
		}
	}

	return summary
}
