package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	analysisAITotal        atomic.Uint64
	analysisHeuristicTotal atomic.Uint64
	analysisFallbackTotal  atomic.Uint64
	analysisRejectedTotal  atomic.Uint64
	extractionFailedTotal  atomic.Uint64
	reportsSavedTotal      atomic.Uint64

	analysisDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncAnalysis counts a completed analysis by the path that produced its scores.
func IncAnalysis(source string) {
	if source == "ai" {
		analysisAITotal.Add(1)
		return
	}
	analysisHeuristicTotal.Add(1)
}

// IncFallback counts an AI attempt that degraded to the heuristic.
func IncFallback() {
	analysisFallbackTotal.Add(1)
}

// IncRejected counts a request refused before analysis (missing input, unsupported file).
func IncRejected() {
	analysisRejectedTotal.Add(1)
}

// IncExtractionFailed counts documents whose text could not be extracted.
func IncExtractionFailed() {
	extractionFailedTotal.Add(1)
}

// IncReportSaved counts persisted reports.
func IncReportSaved() {
	reportsSavedTotal.Add(1)
}

// ObserveAnalysisDurationMs records an analysis duration in milliseconds.
func ObserveAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	analysisDuration.Observe(value)
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
	fmt.Fprintf(&buf, "# HELP analysis_total Total analyses completed by scoring source\n")
	fmt.Fprintf(&buf, "# TYPE analysis_total counter\n")
	fmt.Fprintf(&buf, "analysis_total{source=\"ai\"} %d\n", analysisAITotal.Load())
	fmt.Fprintf(&buf, "analysis_total{source=\"heuristic\"} %d\n", analysisHeuristicTotal.Load())
	writeCounter(&buf, "analysis_fallback_total", "AI analyses that fell back to the keyword heuristic", analysisFallbackTotal.Load())
	writeCounter(&buf, "analysis_rejected_total", "Analysis requests rejected before scoring", analysisRejectedTotal.Load())
	writeCounter(&buf, "extraction_failed_total", "Documents whose text extraction failed", extractionFailedTotal.Load())
	writeCounter(&buf, "reports_saved_total", "Analysis reports persisted", reportsSavedTotal.Load())
	writeHistogram(&buf, "analysis_duration_ms", "Analysis duration in milliseconds", analysisDuration.Snapshot())
	return buf.String()
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

// Observe records value in the first bucket whose bound holds it; Render accumulates.
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

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
