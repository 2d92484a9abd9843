package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recoveredEvent(keyLength int, confidence float64, latencyMs int64, textLen int) CrackEvent {
	return CrackEvent{
		Type:       EventRecovered,
		Source:     "api",
		TextLength: textLen,
		KeyLength:  keyLength,
		Confidence: confidence,
		LatencyMs:  latencyMs,
		Timestamp:  time.Now().UTC(),
	}
}

func TestAggregatorCounts(t *testing.T) {
	agg := NewAggregator(nil)

	agg.Record(recoveredEvent(5, 0.8, 10, 2000))
	agg.Record(recoveredEvent(5, 0.6, 30, 4000))
	agg.Record(CrackEvent{Type: EventNoSignal, LatencyMs: 2, TextLength: 10})
	agg.Record(CrackEvent{Type: EventError, LatencyMs: 1, TextLength: 50, CacheHit: true})

	stats := agg.Stats()
	assert.Equal(t, int64(4), stats.TotalCracks)
	assert.Equal(t, int64(2), stats.Recovered)
	assert.Equal(t, int64(1), stats.NoSignal)
	assert.Equal(t, int64(1), stats.Errors)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.InDelta(t, 0.7, stats.AvgConfidence, 1e-9)
	assert.InDelta(t, (10+30+2+1)/4.0, stats.AvgLatencyMs, 1e-9)
	assert.InDelta(t, (2000+4000+10+50)/4.0, stats.AvgTextLength, 1e-9)
}

func TestAggregatorLongestTextCountsOnlyRecoveries(t *testing.T) {
	agg := NewAggregator(nil)
	agg.Record(recoveredEvent(3, 0.5, 5, 1500))
	agg.Record(CrackEvent{Type: EventNoSignal, TextLength: 9000})

	stats := agg.Stats()
	assert.Equal(t, 1500, stats.LongestTextCracked)
}

func TestAggregatorKeyLengthBinsAscending(t *testing.T) {
	agg := NewAggregator(nil)
	agg.Record(recoveredEvent(12, 0.5, 1, 100))
	agg.Record(recoveredEvent(3, 0.5, 1, 100))
	agg.Record(recoveredEvent(3, 0.5, 1, 100))
	agg.Record(recoveredEvent(7, 0.5, 1, 100))

	bins := agg.Stats().KeyLengths
	require.Len(t, bins, 3)
	assert.Equal(t, KeyLengthBin{KeyLength: 3, Count: 2}, bins[0])
	assert.Equal(t, KeyLengthBin{KeyLength: 7, Count: 1}, bins[1])
	assert.Equal(t, KeyLengthBin{KeyLength: 12, Count: 1}, bins[2])
}

func TestAggregatorPercentiles(t *testing.T) {
	agg := NewAggregator(nil)
	for i := int64(1); i <= 100; i++ {
		agg.Record(CrackEvent{Type: EventNoSignal, LatencyMs: i})
	}

	stats := agg.Stats()
	assert.Equal(t, int64(51), stats.P50LatencyMs)
	assert.Equal(t, int64(96), stats.P95LatencyMs)
	assert.Equal(t, int64(100), stats.P99LatencyMs)
}

func TestAggregatorEmpty(t *testing.T) {
	stats := NewAggregator(nil).Stats()
	assert.Zero(t, stats.TotalCracks)
	assert.Zero(t, stats.AvgLatencyMs)
	assert.Zero(t, stats.AvgConfidence)
	assert.Empty(t, stats.KeyLengths)
}
