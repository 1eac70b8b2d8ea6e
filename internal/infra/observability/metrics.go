package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
)

// Metrics holds all Prometheus metrics for the analysis pipeline.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	stageDuration       *prometheus.HistogramVec
	reportsAnalyzed     *prometheus.CounterVec
	analyzeErrors       prometheus.Counter
	extractionFallbacks *prometheus.CounterVec
	issuesFound         *prometheus.CounterVec
	lettersComposed     *prometheus.CounterVec
	letterRequests      prometheus.Counter
	externalErrors      *prometheus.CounterVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credify_stage_duration_seconds",
				Help:    "Duration of pipeline stages by name.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		reportsAnalyzed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credify_reports_analyzed_total",
				Help: "Reports analyzed, by primary bureau.",
			},
			[]string{"bureau"},
		),
		analyzeErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "credify_analyze_errors_total",
				Help: "Analyze requests rejected as unreadable input.",
			},
		),
		extractionFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credify_extraction_fallbacks_total",
				Help: "Zero-record fallback passes taken, by record family.",
			},
			[]string{"family"},
		),
		issuesFound: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credify_issues_found_total",
				Help: "Issues emitted by the classifier, by type.",
			},
			[]string{"type"},
		),
		lettersComposed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credify_letters_composed_total",
				Help: "Letters composed, by template resolution tier.",
			},
			[]string{"tier"},
		),
		letterRequests: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "credify_letter_requests_total",
				Help: "Letter generation requests served.",
			},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credify_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credify_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credify_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
	}
}

// RecordStageDuration records the duration of one pipeline stage.
func (m *Metrics) RecordStageDuration(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// IncrReportAnalyzed counts one analyzed report. An empty bureau is recorded
// as "unknown".
func (m *Metrics) IncrReportAnalyzed(bureau string) {
	if bureau == "" {
		bureau = "unknown"
	}
	m.reportsAnalyzed.WithLabelValues(bureau).Inc()
}

// IncrAnalyzeError counts one unreadable-input rejection.
func (m *Metrics) IncrAnalyzeError() {
	m.analyzeErrors.Inc()
}

// IncrExtractionFallback counts a zero-record fallback pass for one family
// ("accounts:known-creditor", "accounts:placeholder", ...).
func (m *Metrics) IncrExtractionFallback(family string) {
	m.extractionFallbacks.WithLabelValues(family).Inc()
}

// RecordIssues counts the issues emitted for one report.
func (m *Metrics) RecordIssues(issues []domain.Issue) {
	for _, issue := range issues {
		m.issuesFound.WithLabelValues(string(issue.Type)).Inc()
	}
}

// RecordLetters counts one letter generation request and its letters, by the
// resolution tier that produced each body.
func (m *Metrics) RecordLetters(letters []domain.Letter) {
	m.letterRequests.Inc()
	for _, letter := range letters {
		tier := letter.Resolution
		if tier == "" {
			tier = domain.ResolutionStructural
		}
		m.lettersComposed.WithLabelValues(tier).Inc()
	}
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// PipelineSnapshot returns the aggregate counters served by
// GET /v1/metrics/pipeline. Prometheus counters are cumulative, so the
// snapshot is all-time for the process.
func (m *Metrics) PipelineSnapshot() *domain.PipelineMetrics {
	reports := sumCounterVec(m.reportsAnalyzed)
	issues := sumCounterVec(m.issuesFound)
	letters := sumCounterVec(m.lettersComposed)
	letterReqs := counterValue(m.letterRequests)
	hits := sumCounterVec(m.cacheHits)
	misses := sumCounterVec(m.cacheMisses)

	snap := &domain.PipelineMetrics{
		ReportsAnalyzed:     int64(reports),
		AnalyzeErrors:       int64(counterValue(m.analyzeErrors)),
		ExtractionFallbacks: int64(sumCounterVec(m.extractionFallbacks)),
		IssuesFound:         int64(issues),
		LettersComposed:     int64(letters),
		TemplateFetchErrors: int64(counterVecValue(m.externalErrors, "templates")),
	}
	if hits+misses > 0 {
		snap.CacheHitRate = hits / (hits + misses)
	}
	if reports > 0 {
		snap.AvgIssuesPerReport = issues / reports
	}
	if letterReqs > 0 {
		snap.AvgLettersPerRequest = letters / letterReqs
	}
	return snap
}

// counterValue extracts the current float64 value from a plain counter.
func counterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

// counterVecValue extracts the value for one label of a CounterVec.
func counterVecValue(cv *prometheus.CounterVec, label string) float64 {
	counter, err := cv.GetMetricWithLabelValues(label)
	if err != nil {
		return 0
	}
	return counterValue(counter)
}

// sumCounterVec sums all label children of a CounterVec.
func sumCounterVec(cv *prometheus.CounterVec) float64 {
	ch := make(chan prometheus.Metric, 64)
	go func() {
		cv.Collect(ch)
		close(ch)
	}()

	var sum float64
	for metric := range ch {
		m := &dto.Metric{}
		if err := metric.Write(m); err != nil {
			continue
		}
		if m.Counter != nil && m.Counter.Value != nil {
			sum += *m.Counter.Value
		}
	}
	return sum
}
