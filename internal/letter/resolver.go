// Package letter selects dispute-letter templates and composes final letters.
//
// Resolution walks a fixed fallback ladder (exact type match, partial type
// match, general template, structural skeleton) so composition always has
// something to work with, even with an empty or unreachable template corpus.
package letter

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
)

// generalTemplateType marks a corpus entry as the designated catch-all.
const generalTemplateType = "general"

// CorpusSource supplies the template corpus. Fetch failures are treated as an
// empty corpus, never surfaced to composition.
type CorpusSource interface {
	Corpus(ctx context.Context) ([]domain.LetterTemplate, error)
}

// Resolver picks the best template for an issue type.
type Resolver struct {
	source CorpusSource
	logger *zap.Logger
}

func NewResolver(source CorpusSource, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{source: source, logger: logger}
}

// Resolve returns the template for the given issue type together with the
// resolution tier that produced it. ResolutionStructural comes with a zero
// template and means the caller must synthesize a structural letter.
//
// Ladder: exact type equality, then substring match in either direction, then
// the corpus's general template.
func (r *Resolver) Resolve(ctx context.Context, issueType domain.IssueType) (domain.LetterTemplate, string) {
	corpus := r.corpus(ctx)
	if len(corpus) == 0 {
		return domain.LetterTemplate{}, domain.ResolutionStructural
	}

	want := strings.ToLower(strings.TrimSpace(string(issueType)))

	for _, t := range corpus {
		if strings.ToLower(t.Type) == want && t.Body != "" {
			return t, domain.ResolutionExact
		}
	}
	for _, t := range corpus {
		tt := strings.ToLower(t.Type)
		if tt == "" || t.Body == "" || tt == generalTemplateType {
			continue
		}
		if strings.Contains(tt, want) || strings.Contains(want, tt) {
			return t, domain.ResolutionPartial
		}
	}
	for _, t := range corpus {
		if strings.ToLower(t.Type) == generalTemplateType && t.Body != "" {
			return t, domain.ResolutionGeneric
		}
	}
	return domain.LetterTemplate{}, domain.ResolutionStructural
}

func (r *Resolver) corpus(ctx context.Context) []domain.LetterTemplate {
	if r.source == nil {
		return nil
	}
	corpus, err := r.source.Corpus(ctx)
	if err != nil {
		r.logger.Warn("template corpus unavailable, falling back to structural letters", zap.Error(err))
		return nil
	}
	return corpus
}
