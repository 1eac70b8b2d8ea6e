package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/observability"
	"github.com/riyahstaff/credifyai-sub001/internal/letter"
	"github.com/riyahstaff/credifyai-sub001/internal/port"
)

// Letters generates, persists and manages dispute letters.
type Letters struct {
	composer *letter.Composer
	store    port.ReportStore
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewLetters creates the letter service.
func NewLetters(composer *letter.Composer, store port.ReportStore, metrics *observability.Metrics, logger *zap.Logger) *Letters {
	return &Letters{
		composer: composer,
		store:    store,
		metrics:  metrics,
		logger:   logger,
	}
}

// Generate composes letters for a report. An empty issueIDs list means every
// issue on the report; a report without issues still yields one general
// letter. The result is persisted and never empty.
func (s *Letters) Generate(ctx context.Context, reportID string, issueIDs []string) ([]domain.Letter, error) {
	ctx, span := tracer.Start(ctx, "Letters.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("report.id", reportID))

	rep, err := s.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	selected := rep.Issues
	if len(issueIDs) > 0 {
		selected, err = filterIssues(rep.Issues, issueIDs)
		if err != nil {
			return nil, err
		}
	}

	letters := s.composer.Compose(ctx, rep, selected)
	if err := s.store.SaveLetters(ctx, letters); err != nil {
		s.logger.Error("failed to persist letters", zap.String("report_id", reportID), zap.Error(err))
		return nil, fmt.Errorf("persist letters: %w", err)
	}

	s.metrics.RecordLetters(letters)
	s.logger.Info("letters generated",
		zap.String("report_id", reportID),
		zap.Int("letters", len(letters)),
	)
	return letters, nil
}

// Get returns one stored letter.
func (s *Letters) Get(ctx context.Context, letterID string) (*domain.Letter, error) {
	ctx, span := tracer.Start(ctx, "Letters.Get")
	defer span.End()

	return s.store.GetLetter(ctx, letterID)
}

// List returns a report's stored letters.
func (s *Letters) List(ctx context.Context, reportID string) ([]domain.Letter, error) {
	ctx, span := tracer.Start(ctx, "Letters.List")
	defer span.End()

	return s.store.ListLetters(ctx, reportID)
}

// UpdateStatus advances a letter's lifecycle state.
func (s *Letters) UpdateStatus(ctx context.Context, letterID string, status domain.LetterStatus) error {
	ctx, span := tracer.Start(ctx, "Letters.UpdateStatus")
	defer span.End()

	switch status {
	case domain.LetterDraft, domain.LetterReady, domain.LetterSent:
	default:
		return &domain.ErrValidation{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}
	return s.store.UpdateLetterStatus(ctx, letterID, status)
}

// filterIssues selects issues by id, rejecting ids the report does not have.
func filterIssues(all []domain.Issue, ids []string) ([]domain.Issue, error) {
	byID := make(map[string]domain.Issue, len(all))
	for _, issue := range all {
		byID[issue.ID] = issue
	}

	selected := make([]domain.Issue, 0, len(ids))
	for _, id := range ids {
		issue, ok := byID[id]
		if !ok {
			return nil, &domain.ErrNotFound{Resource: "issue", ID: id}
		}
		selected = append(selected, issue)
	}
	return selected, nil
}
