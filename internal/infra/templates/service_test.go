package templates

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/observability"
)

type fakeLister struct {
	calls     atomic.Int32
	templates []domain.LetterTemplate
	err       error
}

func (f *fakeLister) List(context.Context) ([]domain.LetterTemplate, error) {
	f.calls.Add(1)
	return f.templates, f.err
}

func TestCorpus_EmbeddedDefaultsParse(t *testing.T) {
	svc := NewService(nil, nil, nil)

	corpus, err := svc.Corpus(context.Background())
	if err != nil {
		t.Fatalf("Corpus: %v", err)
	}
	if len(corpus) == 0 {
		t.Fatal("embedded corpus is empty")
	}

	types := map[string]bool{}
	for _, tpl := range corpus {
		if tpl.Name == "" || tpl.Type == "" || tpl.Body == "" {
			t.Errorf("incomplete template: %+v", tpl.Name)
		}
		types[tpl.Type] = true
	}
	for _, want := range []string{"late_payment", "collection", "inquiry", "general"} {
		if !types[want] {
			t.Errorf("embedded corpus missing type %q", want)
		}
	}
}

func TestCorpus_RemoteOverridesByName(t *testing.T) {
	remote := &fakeLister{templates: []domain.LetterTemplate{
		{Name: "general-dispute", Type: "general", Body: "remote body"},
		{Name: "goodwill-request", Type: "goodwill", Body: "new remote template"},
		{Name: "broken", Type: "x", Body: ""},
	}}
	svc := NewService(remote, nil, nil)

	corpus, err := svc.Corpus(context.Background())
	if err != nil {
		t.Fatalf("Corpus: %v", err)
	}

	var generalBody string
	var hasGoodwill, hasBroken bool
	for _, tpl := range corpus {
		switch tpl.Name {
		case "general-dispute":
			generalBody = tpl.Body
		case "goodwill-request":
			hasGoodwill = true
		case "broken":
			hasBroken = true
		}
	}
	if generalBody != "remote body" {
		t.Errorf("remote template did not win by name: %q", generalBody)
	}
	if !hasGoodwill {
		t.Error("new remote template not appended")
	}
	if hasBroken {
		t.Error("bodiless remote template accepted")
	}
}

func TestCorpus_RemoteFailureDegradesToEmbedded(t *testing.T) {
	remote := &fakeLister{err: errors.New("unreachable")}
	metrics := observability.NewMetrics()
	svc := NewService(remote, metrics, nil)

	corpus, err := svc.Corpus(context.Background())
	if err != nil {
		t.Fatalf("fetch failure must not surface: %v", err)
	}
	if len(corpus) == 0 {
		t.Fatal("expected embedded fallback corpus")
	}
	if got := metrics.PipelineSnapshot().TemplateFetchErrors; got != 1 {
		t.Errorf("template fetch errors = %d, want 1", got)
	}
}

func TestCorpus_FetchedOnceAcrossConcurrentCallers(t *testing.T) {
	remote := &fakeLister{templates: []domain.LetterTemplate{
		{Name: "r", Type: "general", Body: "b"},
	}}
	svc := NewService(remote, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Corpus(context.Background()); err != nil {
				t.Errorf("Corpus: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := remote.calls.Load(); got != 1 {
		t.Errorf("remote fetched %d times, want 1", got)
	}

	svc.Reset()
	if _, err := svc.Corpus(context.Background()); err != nil {
		t.Fatalf("Corpus after Reset: %v", err)
	}
	if got := remote.calls.Load(); got != 2 {
		t.Errorf("Reset did not trigger refetch: %d calls", got)
	}
}
