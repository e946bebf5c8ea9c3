package service

import (
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finedge/internal/domain"
)

// Timeframes of the portfolio performance chart, shortest first.
var performanceTimeframes = []string{"1D", "1W", "1M", "3M", "1Y", "ALL"}

var timeframeDays = map[string]int{
	"1D":  1,
	"1W":  7,
	"1M":  30,
	"3M":  90,
	"1Y":  365,
	"ALL": 1095,
}

var allocationSectors = []string{"Technology", "Finance", "Healthcare", "Consumer Goods", "Energy"}

// SyntheticGenerator produces the illustrative display data attached to a
// portfolio view: daily change, performance chart series and sector
// allocation. None of it is real — there is no stored valuation history to
// chart — and none of it may ever feed cashBalance or totalValue, which
// stay derived from the ledger. The generator seeds from the user ID so
// the same portfolio renders the same charts across reads.
type SyntheticGenerator struct{}

// NewSyntheticGenerator creates a SyntheticGenerator.
func NewSyntheticGenerator() *SyntheticGenerator {
	return &SyntheticGenerator{}
}

// TodayChange produces an illustrative daily change of about 1% of the
// total value, signed by the user seed.
func (g *SyntheticGenerator) TodayChange(userID uuid.UUID, totalValue decimal.Decimal) (change, percent float64) {
	total, _ := totalValue.Float64()
	if total == 0 {
		return 0, 0
	}

	rng := rand.New(rand.NewSource(userSeed(userID, "today")))
	change = total * 0.01
	if rng.Float64() < 0.5 {
		change = -change
	}
	return change, change / total * 100
}

// PerformanceData produces one series per timeframe, each an ordered
// sequence of {date, value} points ending near the current total value.
func (g *SyntheticGenerator) PerformanceData(userID uuid.UUID, totalValue decimal.Decimal) map[string][]domain.PerformancePoint {
	data := make(map[string][]domain.PerformancePoint, len(performanceTimeframes))
	for _, timeframe := range performanceTimeframes {
		data[timeframe] = g.Series(userID, totalValue, timeframeDays[timeframe])
	}
	return data
}

// Series produces a single random-walk series spanning the given number
// of days, starting at 70% of the current value.
func (g *SyntheticGenerator) Series(userID uuid.UUID, totalValue decimal.Decimal, days int) []domain.PerformancePoint {
	rng := rand.New(rand.NewSource(userSeed(userID, "series")))
	now := time.Now()

	value, _ := totalValue.Float64()
	value *= 0.7

	series := make([]domain.PerformancePoint, 0, days+1)
	for i := days; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)

		value += (rng.Float64()*0.03 - 0.01) * value
		if value < 0 {
			value = 0
		}

		series = append(series, domain.PerformancePoint{
			Date:  formatSeriesDate(date, days),
			Value: value,
		})
	}
	return series
}

// Allocation produces an illustrative sector split summing to 100.
func (g *SyntheticGenerator) Allocation(userID uuid.UUID) []domain.SectorAllocation {
	rng := rand.New(rand.NewSource(userSeed(userID, "allocation")))

	remaining := 100
	allocation := make([]domain.SectorAllocation, 0, len(allocationSectors))
	for i, sector := range allocationSectors {
		percentage := remaining
		if i < len(allocationSectors)-1 {
			percentage = int(rng.Float64() * float64(remaining) * 0.7)
		}
		remaining -= percentage
		if percentage > 0 {
			allocation = append(allocation, domain.SectorAllocation{Sector: sector, Percentage: percentage})
		}
	}
	return allocation
}

func formatSeriesDate(date time.Time, days int) string {
	switch {
	case days <= 1:
		return date.Format("15:04")
	case days <= 30:
		return date.Format("Jan 2")
	default:
		return date.Format("Jan 2006")
	}
}

func userSeed(userID uuid.UUID, kind string) int64 {
	h := fnv.New64a()
	h.Write(userID[:])
	h.Write([]byte(kind))
	return int64(h.Sum64())
}
