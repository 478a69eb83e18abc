package signal

import (
	"fmt"
	"strings"

	"github.com/skalibog/mtsa/pkg/models"
)

// Теги только для отображения. Теги покупки содержат "buy"
const (
	tagBullishBias     = "Bullish bias (buy)"
	tagBearishBias     = "Bearish bias (sell)"
	tagBearishMajority = "Bearish majority (sell)"
)

// indicatorTags теги по значениям индикаторов
func indicatorTags(ind models.Indicators) []string {
	var tags []string

	switch {
	case ind.RSI < 30:
		tags = append(tags, fmt.Sprintf("RSI %.0f oversold (buy)", ind.RSI))
	case ind.RSI > 70:
		tags = append(tags, fmt.Sprintf("RSI %.0f overbought (sell)", ind.RSI))
	}

	switch {
	case ind.StochRSI < 20:
		tags = append(tags, "StochRSI low (buy)")
	case ind.StochRSI > 80:
		tags = append(tags, "StochRSI high (sell)")
	}

	switch ind.BBPosition {
	case models.BandOversold:
		tags = append(tags, "Lower band (buy)")
	case models.BandOverbought:
		tags = append(tags, "Upper band (sell)")
	}

	if ind.VolumeSpike {
		tags = append(tags, fmt.Sprintf("Volume x%.1f", ind.VolumeRatio))
	}

	switch ind.OrderPressure {
	case models.PressureBuy:
		tags = append(tags, "Bid pressure")
	case models.PressureSell:
		tags = append(tags, "Ask pressure")
	}

	switch ind.Trend {
	case models.TrendUp:
		tags = append(tags, "Uptrend")
	case models.TrendDown:
		tags = append(tags, "Downtrend")
	}

	return tags
}

// withTag возвращает новую последовательность с добавленным тегом
func withTag(tags []string, tag string) []string {
	out := make([]string, 0, len(tags)+1)
	out = append(out, tags...)
	return append(out, tag)
}

// withoutBuyTags возвращает новую последовательность без тегов покупки
func withoutBuyTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), "buy") {
			continue
		}
		out = append(out, tag)
	}
	return out
}
