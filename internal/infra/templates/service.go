package templates

import (
	"context"
	_ "embed"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/observability"
)

//go:embed corpus.yaml
var embeddedCorpus []byte

// Lister fetches the remote template listing. Satisfied by RepoClient; nil
// means embedded templates only.
type Lister interface {
	List(ctx context.Context) ([]domain.LetterTemplate, error)
}

// Service is the corpus cache. The corpus is built once (embedded defaults
// merged with the remote listing, remote wins by name), guarded by
// singleflight so concurrent first callers share one fetch, and held for the
// process lifetime until Reset.
type Service struct {
	remote  Lister
	metrics *observability.Metrics
	logger  *zap.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	corpus []domain.LetterTemplate
}

// NewService creates the corpus service.
func NewService(remote Lister, metrics *observability.Metrics, logger *zap.Logger) *Service {
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{remote: remote, metrics: metrics, logger: logger}
}

// Corpus returns the cached template corpus, building it on first use.
// A failed remote fetch degrades to the embedded defaults; Corpus never
// returns an error alongside an empty corpus unless the embedded defaults
// themselves are unparseable.
func (s *Service) Corpus(ctx context.Context) ([]domain.LetterTemplate, error) {
	s.mu.RLock()
	cached := s.corpus
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := s.group.Do("corpus", func() (any, error) {
		// Re-check under the flight: a caller that lost the race to a
		// completed flight must not trigger a second fetch.
		s.mu.RLock()
		existing := s.corpus
		s.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		corpus, err := s.build(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.corpus = corpus
		s.mu.Unlock()
		return corpus, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.LetterTemplate), nil
}

// Reset drops the cached corpus so the next Corpus call rebuilds it.
func (s *Service) Reset() {
	s.mu.Lock()
	s.corpus = nil
	s.mu.Unlock()
}

func (s *Service) build(ctx context.Context) ([]domain.LetterTemplate, error) {
	defaults, err := parseEmbedded()
	if err != nil {
		return nil, err
	}

	if s.remote == nil {
		return defaults, nil
	}

	remote, err := s.remote.List(ctx)
	if err != nil {
		s.metrics.IncrExternalError("templates")
		s.logger.Warn("remote template fetch failed, using embedded corpus", zap.Error(err))
		return defaults, nil
	}

	return merge(defaults, remote), nil
}

// merge overlays remote templates onto the defaults; a remote template with
// the same name replaces the default, new names are appended.
func merge(defaults, remote []domain.LetterTemplate) []domain.LetterTemplate {
	byName := make(map[string]int, len(defaults))
	out := make([]domain.LetterTemplate, len(defaults))
	copy(out, defaults)
	for i, t := range out {
		byName[t.Name] = i
	}

	for _, t := range remote {
		if t.Body == "" {
			continue
		}
		if i, ok := byName[t.Name]; ok {
			out[i] = t
			continue
		}
		byName[t.Name] = len(out)
		out = append(out, t)
	}
	return out
}

func parseEmbedded() ([]domain.LetterTemplate, error) {
	var doc struct {
		Templates []domain.LetterTemplate `yaml:"templates"`
	}
	if err := yaml.Unmarshal(embeddedCorpus, &doc); err != nil {
		return nil, err
	}
	return doc.Templates, nil
}
