package marketdata

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Lookup(t *testing.T) {
	p := NewProvider()

	t.Run("known symbol", func(t *testing.T) {
		quote, ok := p.Lookup("AAPL")
		require.True(t, ok)
		assert.Equal(t, "Apple Inc", quote.Name)
		assert.True(t, quote.Price.Equal(decimal.RequireFromString("145.86")))
	})

	t.Run("case-insensitive", func(t *testing.T) {
		quote, ok := p.Lookup("aapl")
		require.True(t, ok)
		assert.Equal(t, "AAPL", quote.Symbol)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		_, ok := p.Lookup("ZZZZ")
		assert.False(t, ok)
	})

	t.Run("indices are not quotable as stocks", func(t *testing.T) {
		_, ok := p.Lookup("SPX")
		assert.False(t, ok)
	})
}

func TestProvider_Indices(t *testing.T) {
	p := NewProvider()

	indices := p.Indices()
	require.Len(t, indices, 4)
	assert.Equal(t, "SPX", indices[0].Symbol)
}

func TestProvider_Search(t *testing.T) {
	p := NewProvider()

	t.Run("matches on symbol", func(t *testing.T) {
		results := p.Search("AAP")
		require.Len(t, results, 1)
		assert.Equal(t, "AAPL", results[0].Symbol)
	})

	t.Run("matches on name, case-insensitive", func(t *testing.T) {
		results := p.Search("micro")
		require.Len(t, results, 1)
		assert.Equal(t, "MSFT", results[0].Symbol)
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Empty(t, p.Search("xyzzy"))
	})
}

func TestProvider_Movers(t *testing.T) {
	p := NewProvider()

	movers := p.Movers(10)
	require.Len(t, movers, 10)

	// TSLA has the largest absolute percent move in the table.
	assert.Equal(t, "TSLA", movers[0].Symbol)

	for i := 1; i < len(movers); i++ {
		prev := abs(movers[i-1].ChangePercent)
		cur := abs(movers[i].ChangePercent)
		assert.GreaterOrEqual(t, prev, cur)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func TestProvider_History(t *testing.T) {
	p := NewProvider()

	t.Run("returns one point per day plus the endpoint", func(t *testing.T) {
		series, ok := p.History("AAPL", "1m")
		require.True(t, ok)
		assert.Equal(t, "AAPL", series.Symbol)
		assert.Equal(t, "1m", series.Period)
		assert.Len(t, series.Data, 31)
	})

	t.Run("unknown period defaults to one year", func(t *testing.T) {
		series, ok := p.History("AAPL", "2w")
		require.True(t, ok)
		assert.Equal(t, "1y", series.Period)
		assert.Len(t, series.Data, 366)
	})

	t.Run("series is stable across reads", func(t *testing.T) {
		first, ok := p.History("MSFT", "5d")
		require.True(t, ok)
		second, ok := p.History("MSFT", "5d")
		require.True(t, ok)

		require.Len(t, second.Data, len(first.Data))
		for i := range first.Data {
			assert.Equal(t, first.Data[i].Value, second.Data[i].Value)
		}
	})

	t.Run("unknown symbol", func(t *testing.T) {
		_, ok := p.History("ZZZZ", "1m")
		assert.False(t, ok)
	})

	t.Run("prices stay positive", func(t *testing.T) {
		series, ok := p.History("INTC", "5y")
		require.True(t, ok)
		for _, point := range series.Data {
			assert.Greater(t, point.Value, 0.0)
		}
	})
}
