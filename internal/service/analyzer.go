// Package service orchestrates the analysis pipeline and letter generation
// over the persistence and template ports.
package service

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/riyahstaff/credifyai-sub001/internal/bureau"
	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/extract"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/observability"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/resilience"
	"github.com/riyahstaff/credifyai-sub001/internal/issues"
	"github.com/riyahstaff/credifyai-sub001/internal/port"
	"github.com/riyahstaff/credifyai-sub001/internal/report"
	"github.com/riyahstaff/credifyai-sub001/internal/salvage"
)

var tracer = otel.Tracer("service")

//go:embed sample_report.txt
var sampleReport string

// Analyzer runs the full pipeline: salvage, bureau detection, extraction,
// assembly and classification, then persists the result.
type Analyzer struct {
	salvager   *salvage.Salvager
	classifier *issues.Classifier
	store      port.ReportStore
	cache      port.Cache[*domain.CreditReport]
	bulkhead   *resilience.Bulkhead
	metrics    *observability.Metrics
	logger     *zap.Logger

	// allowSampleData substitutes a bundled sample report for empty uploads
	// instead of rejecting them. Demo environments only.
	allowSampleData bool
}

// NewAnalyzer creates the analyzer service with all dependencies injected.
func NewAnalyzer(
	salvager *salvage.Salvager,
	classifier *issues.Classifier,
	store port.ReportStore,
	cache port.Cache[*domain.CreditReport],
	bulkhead *resilience.Bulkhead,
	metrics *observability.Metrics,
	logger *zap.Logger,
	allowSampleData bool,
) *Analyzer {
	return &Analyzer{
		salvager:        salvager,
		classifier:      classifier,
		store:           store,
		cache:           cache,
		bulkhead:        bulkhead,
		metrics:         metrics,
		logger:          logger,
		allowSampleData: allowSampleData,
	}
}

// Analyze runs the pipeline over one upload and returns the persisted report.
// The only user-visible failure is unreadable input, raised here at the
// boundary; every later stage degrades instead of failing.
func (a *Analyzer) Analyze(ctx context.Context, req *domain.AnalyzeRequest) (*domain.CreditReport, error) {
	ctx, span := tracer.Start(ctx, "Analyzer.Analyze")
	defer span.End()

	if err := a.bulkhead.Acquire(ctx); err != nil {
		return nil, &domain.ErrTimeout{Operation: "analyze"}
	}
	defer a.bulkhead.Release()

	text := req.Text
	if strings.TrimSpace(text) == "" {
		if !a.allowSampleData {
			a.metrics.IncrAnalyzeError()
			return nil, &domain.ErrUnreadableInput{Filename: req.Filename}
		}
		a.logger.Warn("empty upload, substituting bundled sample report",
			zap.String("filename", req.Filename))
		text = sampleReport
	}

	salvageStart := time.Now()
	recovered := a.salvager.Recover(text, salvage.Options{Format: req.Format, Filename: req.Filename})
	a.metrics.RecordStageDuration("salvage", time.Since(salvageStart))
	if recovered == "" {
		a.metrics.IncrAnalyzeError()
		return nil, &domain.ErrUnreadableInput{Filename: req.Filename}
	}

	extractStart := time.Now()
	detection := bureau.Detect(recovered)
	res := extract.Run(recovered, detection.Present)
	a.metrics.RecordStageDuration("extract", time.Since(extractStart))
	for _, fallback := range res.Fallbacks {
		a.metrics.IncrExtractionFallback(fallback)
		a.logger.Info("extraction fallback used", zap.String("family", fallback))
	}

	classifyStart := time.Now()
	rep := report.Assemble(res, detection, recovered, time.Now())
	rep.Issues = a.classifier.Classify(rep)
	a.metrics.RecordStageDuration("classify", time.Since(classifyStart))

	span.SetAttributes(
		attribute.String("report.id", rep.ID),
		attribute.Int("report.accounts", len(rep.Accounts)),
		attribute.Int("report.issues", len(rep.Issues)),
	)

	if err := a.store.SaveReport(ctx, rep); err != nil {
		a.logger.Error("failed to persist report", zap.String("report_id", rep.ID), zap.Error(err))
		return nil, fmt.Errorf("persist report: %w", err)
	}
	a.cache.Set(cacheKey(rep.ID), rep)

	a.metrics.IncrReportAnalyzed(rep.PrimaryBureau)
	a.metrics.RecordIssues(rep.Issues)
	a.logger.Info("report analyzed",
		zap.String("report_id", rep.ID),
		zap.String("primary_bureau", rep.PrimaryBureau),
		zap.Int("accounts", len(rep.Accounts)),
		zap.Int("issues", len(rep.Issues)),
	)
	return rep, nil
}

// GetReport returns a stored report, preferring the in-memory cache.
func (a *Analyzer) GetReport(ctx context.Context, reportID string) (*domain.CreditReport, error) {
	ctx, span := tracer.Start(ctx, "Analyzer.GetReport")
	defer span.End()

	if cached, ok := a.cache.Get(cacheKey(reportID)); ok {
		a.metrics.IncrCacheHit("report")
		return cached, nil
	}
	a.metrics.IncrCacheMiss("report")

	rep, err := a.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	a.cache.Set(cacheKey(reportID), rep)
	return rep, nil
}

// ListReports returns a page of stored reports, newest first.
func (a *Analyzer) ListReports(ctx context.Context, page, pageSize int) ([]domain.CreditReport, error) {
	ctx, span := tracer.Start(ctx, "Analyzer.ListReports")
	defer span.End()

	return a.store.ListReports(ctx, page, pageSize)
}

func cacheKey(reportID string) string {
	return "report:" + reportID
}
