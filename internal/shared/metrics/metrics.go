package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	evaluationsTotal      atomic.Uint64
	plansGeneratedTotal   atomic.Uint64
	generationFailedTotal atomic.Uint64

	oracleCallsTotal    = newLabeledCounter("operation")
	oracleFailuresTotal = newLabeledCounter("operation")
	scoreFallbacksTotal = newLabeledCounter("dimension")

	oracleDuration     = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000})
	evaluationDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000})

	gaugesMu sync.Mutex
	gauges   = map[string]gauge{}
)

type gauge struct {
	help string
	read func() float64
}

// RegisterGauge exposes a value sampled at render time. Registering a name again replaces it.
func RegisterGauge(name, help string, read func() float64) {
	gaugesMu.Lock()
	gauges[name] = gauge{help: help, read: read}
	gaugesMu.Unlock()
}

// IncEvaluations counts one completed answer evaluation.
func IncEvaluations() {
	evaluationsTotal.Add(1)
}

// IncPlansGenerated counts one improvement plan.
func IncPlansGenerated() {
	plansGeneratedTotal.Add(1)
}

// IncGenerationFailed counts a question or round generation that surfaced an error.
func IncGenerationFailed() {
	generationFailedTotal.Add(1)
}

// IncOracleCall counts an outbound oracle request.
func IncOracleCall(operation string) {
	oracleCallsTotal.Inc(operation)
}

// IncOracleFailure counts an oracle request that returned an error.
func IncOracleFailure(operation string) {
	oracleFailuresTotal.Inc(operation)
}

// IncScoreFallback counts a dimension score or text that used its documented default.
func IncScoreFallback(dimension string) {
	scoreFallbacksTotal.Inc(dimension)
}

// ObserveOracleDurationMs records one oracle round trip in milliseconds.
func ObserveOracleDurationMs(value float64) {
	oracleDuration.Observe(clampNonNegative(value))
}

// ObserveEvaluationDurationMs records one full answer evaluation in milliseconds.
func ObserveEvaluationDurationMs(value float64) {
	evaluationDuration.Observe(clampNonNegative(value))
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "evaluations_total", "Answer evaluations completed", evaluationsTotal.Load())
	writeCounter(&buf, "improvement_plans_total", "Improvement plans generated", plansGeneratedTotal.Load())
	writeCounter(&buf, "question_generation_failed_total", "Question or round generations that failed", generationFailedTotal.Load())
	writeLabeledCounter(&buf, "oracle_calls_total", "Oracle requests by operation", oracleCallsTotal)
	writeLabeledCounter(&buf, "oracle_failures_total", "Oracle request failures by operation", oracleFailuresTotal)
	writeLabeledCounter(&buf, "score_fallbacks_total", "Documented defaults applied by dimension", scoreFallbacksTotal)
	writeHistogram(&buf, "oracle_duration_ms", "Oracle request duration in milliseconds", oracleDuration.Snapshot())
	writeHistogram(&buf, "evaluation_duration_ms", "Answer evaluation duration in milliseconds", evaluationDuration.Snapshot())
	writeGauges(&buf)
	return buf.String()
}

type labeledCounter struct {
	label  string
	mu     sync.Mutex
	values map[string]uint64
}

func newLabeledCounter(label string) *labeledCounter {
	return &labeledCounter{label: label, values: make(map[string]uint64)}
}

func (l *labeledCounter) Inc(value string) {
	if value == "" {
		value = "unknown"
	}
	l.mu.Lock()
	l.values[value]++
	l.mu.Unlock()
}

func (l *labeledCounter) Get(value string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.values[value]
}

func (l *labeledCounter) snapshot() ([]string, map[string]uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	keys := make([]string, 0, len(l.values))
	out := make(map[string]uint64, len(l.values))
	for k, v := range l.values {
		keys = append(keys, k)
		out[k] = v
	}
	sort.Strings(keys)
	return keys, out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe records value in the first bucket whose bound holds it; writeHistogram accumulates.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help string, counter *labeledCounter) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys, values := counter.snapshot()
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, counter.label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func writeGauges(buf *bytes.Buffer) {
	gaugesMu.Lock()
	names := make([]string, 0, len(gauges))
	snapshot := make(map[string]gauge, len(gauges))
	for name, g := range gauges {
		names = append(names, name)
		snapshot[name] = g
	}
	gaugesMu.Unlock()

	sort.Strings(names)
	for _, name := range names {
		g := snapshot[name]
		fmt.Fprintf(buf, "# HELP %s %s\n", name, g.help)
		fmt.Fprintf(buf, "# TYPE %s gauge\n", name)
		fmt.Fprintf(buf, "%s %s\n", name, formatFloat(g.read()))
	}
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func clampNonNegative(value float64) float64 {
	if value < 0 {
		return 0
	}
	return value
}

// SinceMillis returns the elapsed time since start in milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
