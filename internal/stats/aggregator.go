package stats

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cipherworks/cipher-analysis-platform/pkg/kafka"
)

// AggregatedStats is the snapshot served by the stats endpoint.
type AggregatedStats struct {
	TotalCracks         int64           `json:"total_cracks"`
	Recovered           int64           `json:"recovered"`
	NoSignal            int64           `json:"no_signal"`
	Errors              int64           `json:"errors"`
	CacheHits           int64           `json:"cache_hits"`
	AvgLatencyMs        float64         `json:"avg_latency_ms"`
	P50LatencyMs        int64           `json:"p50_latency_ms"`
	P95LatencyMs        int64           `json:"p95_latency_ms"`
	P99LatencyMs        int64           `json:"p99_latency_ms"`
	AvgConfidence       float64         `json:"avg_confidence"`
	KeyLengths          []KeyLengthBin  `json:"key_lengths"`
	CracksPerMinute     float64         `json:"cracks_per_minute"`
	AvgTextLength       float64         `json:"avg_text_length"`
	LongestTextCracked  int             `json:"longest_text_cracked"`
}

// KeyLengthBin counts how often a given key length was recovered.
type KeyLengthBin struct {
	KeyLength int   `json:"key_length"`
	Count     int64 `json:"count"`
}

// Aggregator consumes crack telemetry from Kafka into running statistics.
type Aggregator struct {
	mu            sync.RWMutex
	totalCracks   atomic.Int64
	recovered     atomic.Int64
	noSignal      atomic.Int64
	errorCount    atomic.Int64
	cacheHits     atomic.Int64
	latencies     []int64
	confidenceSum float64
	keyLengths    map[int]int64
	textLenSum    int64
	longestText   int
	startTime     time.Time

	consumer *kafka.Consumer
	logger   *slog.Logger
}

func NewAggregator(consumer *kafka.Consumer) *Aggregator {
	return &Aggregator{
		latencies:  make([]int64, 0, 10000),
		keyLengths: make(map[int]int64),
		startTime:  time.Now(),
		consumer:   consumer,
		logger:     slog.Default().With("component", "stats-aggregator"),
	}
}

func (a *Aggregator) Start(ctx context.Context) error {
	a.logger.Info("stats aggregator starting")
	return a.consumer.Start(ctx)
}

// HandleEvent returns a Kafka MessageHandler feeding the aggregator. Decode
// failures are logged and skipped; they never stall the consumer.
func HandleEvent(agg *Aggregator) kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[CrackEvent](value)
		if err != nil {
			agg.logger.Error("failed to decode crack event", "error", err)
			return nil
		}
		agg.Record(event)
		return nil
	}
}

// Record folds one crack event into the running statistics.
func (a *Aggregator) Record(event CrackEvent) {
	a.totalCracks.Add(1)
	switch event.Type {
	case EventRecovered:
		a.recovered.Add(1)
	case EventNoSignal:
		a.noSignal.Add(1)
	default:
		a.errorCount.Add(1)
	}
	if event.CacheHit {
		a.cacheHits.Add(1)
	}

	a.mu.Lock()
	a.latencies = append(a.latencies, event.LatencyMs)
	a.textLenSum += int64(event.TextLength)
	if event.TextLength > a.longestText && event.Type == EventRecovered {
		a.longestText = event.TextLength
	}
	if event.Type == EventRecovered {
		a.keyLengths[event.KeyLength]++
		a.confidenceSum += event.Confidence
	}
	a.mu.Unlock()
}

// Stats returns a snapshot of the aggregated statistics.
func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalCracks:        a.totalCracks.Load(),
		Recovered:          a.recovered.Load(),
		NoSignal:           a.noSignal.Load(),
		Errors:             a.errorCount.Load(),
		CacheHits:          a.cacheHits.Load(),
		LongestTextCracked: a.longestText,
	}
	if len(a.latencies) > 0 {
		sorted := make([]int64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
		stats.P99LatencyMs = percentile(sorted, 99)
		stats.AvgTextLength = float64(a.textLenSum) / float64(len(sorted))
	}
	if recovered := stats.Recovered; recovered > 0 {
		stats.AvgConfidence = a.confidenceSum / float64(recovered)
	}
	stats.KeyLengths = keyLengthBins(a.keyLengths)
	elapsed := time.Since(a.startTime).Minutes()
	if elapsed > 0 {
		stats.CracksPerMinute = float64(stats.TotalCracks) / elapsed
	}
	return stats
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// keyLengthBins flattens the key length counts into ascending order.
func keyLengthBins(counts map[int]int64) []KeyLengthBin {
	bins := make([]KeyLengthBin, 0, len(counts))
	for length, count := range counts {
		bins = append(bins, KeyLengthBin{KeyLength: length, Count: count})
	}
	sort.Slice(bins, func(i, j int) bool {
		return bins[i].KeyLength < bins[j].KeyLength
	})
	return bins
}
