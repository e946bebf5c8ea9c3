package marketdata

import (
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"finedge/internal/domain"
)

// HistorySeries is the price history payload for one symbol.
type HistorySeries struct {
	Symbol string                    `json:"symbol"`
	Name   string                    `json:"name"`
	Period string                    `json:"period"`
	Data   []domain.PerformancePoint `json:"data"`
}

// periodDays maps a history period to its span in days.
var periodDays = map[string]int{
	"1d": 1,
	"5d": 5,
	"1m": 30,
	"3m": 90,
	"6m": 180,
	"1y": 365,
	"5y": 1825,
}

// History generates a price history series for a symbol. The data is
// illustrative only: there is no real historical feed behind the mock
// table, so the series is synthesized as a random walk ending near the
// current price. The walk is seeded from (symbol, period) so repeated
// reads of the same chart are stable. Unknown periods default to 1y.
func (p *Provider) History(symbol, period string) (*HistorySeries, bool) {
	stock, ok := p.Lookup(symbol)
	if !ok {
		return nil, false
	}

	period = strings.ToLower(period)
	days, ok := periodDays[period]
	if !ok {
		period = "1y"
		days = periodDays[period]
	}

	rng := rand.New(rand.NewSource(seed(stock.Symbol + ":" + period)))
	now := time.Now()

	// Start at 70% of the current price and drift upward.
	value, _ := stock.Price.Float64()
	value *= 0.7

	data := make([]domain.PerformancePoint, 0, days+1)
	for i := days; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)

		value += (rng.Float64()*0.06 - 0.03) * value
		if value < 0.01 {
			value = 0.01
		}

		data = append(data, domain.PerformancePoint{
			Date:  formatChartDate(date, days),
			Value: value,
		})
	}

	return &HistorySeries{
		Symbol: stock.Symbol,
		Name:   stock.Name,
		Period: period,
		Data:   data,
	}, true
}

// formatChartDate picks a label granularity matching the span: time of day
// for intraday, month+day for short spans, month+year otherwise.
func formatChartDate(date time.Time, days int) string {
	switch {
	case days <= 1:
		return date.Format("15:04")
	case days <= 30:
		return date.Format("Jan 2")
	default:
		return date.Format("Jan 2006")
	}
}

func seed(key string) int64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return int64(h.Sum64())
}
