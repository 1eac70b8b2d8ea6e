package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/observability"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/resilience"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/templates"
	"github.com/riyahstaff/credifyai-sub001/internal/issues"
	"github.com/riyahstaff/credifyai-sub001/internal/letter"
	"github.com/riyahstaff/credifyai-sub001/internal/salvage"
	"github.com/riyahstaff/credifyai-sub001/internal/service"
)

// memStore is an in-memory port.ReportStore for service tests.
type memStore struct {
	mu      sync.Mutex
	reports map[string]*domain.CreditReport
	letters map[string]domain.Letter
}

func newMemStore() *memStore {
	return &memStore{
		reports: map[string]*domain.CreditReport{},
		letters: map[string]domain.Letter{},
	}
}

func (m *memStore) SaveReport(_ context.Context, r *domain.CreditReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[r.ID] = r
	return nil
}

func (m *memStore) GetReport(_ context.Context, id string) (*domain.CreditReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "report", ID: id}
	}
	return r, nil
}

func (m *memStore) ListReports(_ context.Context, _, _ int) ([]domain.CreditReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CreditReport, 0, len(m.reports))
	for _, r := range m.reports {
		out = append(out, *r)
	}
	return out, nil
}

func (m *memStore) SaveLetters(_ context.Context, letters []domain.Letter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range letters {
		m.letters[l.ID] = l
	}
	return nil
}

func (m *memStore) GetLetter(_ context.Context, id string) (*domain.Letter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.letters[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "letter", ID: id}
	}
	return &l, nil
}

func (m *memStore) ListLetters(_ context.Context, reportID string) ([]domain.Letter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Letter
	for _, l := range m.letters {
		if l.ReportID == reportID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memStore) UpdateLetterStatus(_ context.Context, id string, status domain.LetterStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.letters[id]
	if !ok {
		return &domain.ErrNotFound{Resource: "letter", ID: id}
	}
	l.Status = status
	m.letters[id] = l
	return nil
}

// mapCache is a minimal port.Cache for tests.
type mapCache struct {
	mu sync.Mutex
	m  map[string]*domain.CreditReport
}

func newMapCache() *mapCache { return &mapCache{m: map[string]*domain.CreditReport{}} }

func (c *mapCache) Get(key string) (*domain.CreditReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *mapCache) Set(key string, value *domain.CreditReport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
}

func (c *mapCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
}

func newAnalyzer(store *memStore, allowSample bool) *service.Analyzer {
	return service.NewAnalyzer(
		salvage.New(0, nil),
		issues.New(func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }),
		store,
		newMapCache(),
		resilience.NewBulkhead(4),
		observability.NewMetrics(),
		zap.NewNop(),
		allowSample,
	)
}

const sampleText = `TransUnion Credit Report

ACCOUNTS

Account Name: CHASE CARD SERVICES
Account Number: ****5678
Account Type: Credit Card
Balance: $2,450.00
Credit Limit: $5,000.00
Payment Status: 30 days late
Date Opened: 06/2018
Date Reported: 02/2024

INQUIRIES
01/15/2022 CAPITAL ONE
`

func TestAnalyze_EmptyInputRejected(t *testing.T) {
	a := newAnalyzer(newMemStore(), false)

	_, err := a.Analyze(context.Background(), &domain.AnalyzeRequest{Text: "   ", Filename: "empty.pdf"})

	var unreadable *domain.ErrUnreadableInput
	if !errors.As(err, &unreadable) {
		t.Fatalf("expected ErrUnreadableInput, got %v", err)
	}
	if unreadable.Filename != "empty.pdf" {
		t.Errorf("filename = %q", unreadable.Filename)
	}
}

func TestAnalyze_SampleDataSubstitution(t *testing.T) {
	store := newMemStore()
	a := newAnalyzer(store, true)

	rep, err := a.Analyze(context.Background(), &domain.AnalyzeRequest{Text: ""})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(rep.Accounts) == 0 {
		t.Error("sample report produced no accounts")
	}
	if len(rep.Issues) == 0 {
		t.Error("sample report produced no issues")
	}
	if _, ok := store.reports[rep.ID]; !ok {
		t.Error("report not persisted")
	}
}

func TestAnalyze_FullPipelinePersistsAndCaches(t *testing.T) {
	store := newMemStore()
	a := newAnalyzer(store, false)

	rep, err := a.Analyze(context.Background(), &domain.AnalyzeRequest{Text: sampleText, Format: "text"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if rep.PrimaryBureau != domain.BureauTransUnion {
		t.Errorf("primary bureau = %q", rep.PrimaryBureau)
	}
	if len(rep.Accounts) != 1 || rep.Accounts[0].AccountName == "" {
		t.Fatalf("accounts = %+v", rep.Accounts)
	}
	if !strings.Contains(strings.ToLower(rep.Accounts[0].AccountName), "chase") {
		t.Errorf("account name = %q", rep.Accounts[0].AccountName)
	}

	// Late payment plus the aged inquiry.
	var hasLate, hasInquiry bool
	for _, is := range rep.Issues {
		switch is.Type {
		case domain.IssueLatePayment:
			hasLate = true
		case domain.IssueInquiry:
			hasInquiry = true
		}
	}
	if !hasLate || !hasInquiry {
		t.Errorf("issues = %+v", rep.Issues)
	}

	got, err := a.GetReport(context.Background(), rep.ID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got.ID != rep.ID {
		t.Errorf("GetReport id = %q", got.ID)
	}
}

func TestGenerate_LettersForAllIssues(t *testing.T) {
	store := newMemStore()
	a := newAnalyzer(store, false)
	rep, err := a.Analyze(context.Background(), &domain.AnalyzeRequest{Text: sampleText})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	svc := newLetterService(store)
	letters, err := svc.Generate(context.Background(), rep.ID, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(letters) != len(rep.Issues) {
		t.Errorf("letters = %d, issues = %d", len(letters), len(rep.Issues))
	}
	for _, l := range letters {
		if strings.TrimSpace(l.Content) == "" {
			t.Errorf("letter %s has empty content", l.ID)
		}
		if strings.Contains(l.Content, "{") {
			t.Errorf("letter %s contains unresolved token:\n%s", l.ID, l.Content)
		}
	}

	stored, err := svc.List(context.Background(), rep.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(stored) != len(letters) {
		t.Errorf("persisted %d letters, want %d", len(stored), len(letters))
	}
}

func TestGenerate_SelectedAndUnknownIssues(t *testing.T) {
	store := newMemStore()
	a := newAnalyzer(store, false)
	rep, err := a.Analyze(context.Background(), &domain.AnalyzeRequest{Text: sampleText})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	svc := newLetterService(store)

	letters, err := svc.Generate(context.Background(), rep.ID, []string{rep.Issues[0].ID})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(letters) != 1 {
		t.Errorf("letters = %d, want 1", len(letters))
	}

	var notFound *domain.ErrNotFound
	if _, err := svc.Generate(context.Background(), rep.ID, []string{"issue-999"}); !errors.As(err, &notFound) {
		t.Errorf("expected ErrNotFound for unknown issue id, got %v", err)
	}
}

func TestGenerate_ReportWithoutIssuesYieldsOneLetter(t *testing.T) {
	store := newMemStore()
	rep := &domain.CreditReport{ID: "rep-empty", Issues: []domain.Issue{}, Accounts: []domain.Account{}}
	if err := store.SaveReport(context.Background(), rep); err != nil {
		t.Fatal(err)
	}

	letters, err := newLetterService(store).Generate(context.Background(), "rep-empty", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(letters) != 1 {
		t.Fatalf("letters = %d, want 1", len(letters))
	}
	if strings.TrimSpace(letters[0].Content) == "" {
		t.Error("general letter has empty content")
	}
}

func TestUpdateStatus_Validation(t *testing.T) {
	store := newMemStore()
	store.letters["let-1"] = domain.Letter{ID: "let-1", Content: "x", Status: domain.LetterDraft}
	svc := newLetterService(store)

	if err := svc.UpdateStatus(context.Background(), "let-1", domain.LetterSent); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	var validation *domain.ErrValidation
	if err := svc.UpdateStatus(context.Background(), "let-1", domain.LetterStatus("mailed")); !errors.As(err, &validation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func newLetterService(store *memStore) *service.Letters {
	resolver := letter.NewResolver(templates.NewService(nil, nil, nil), nil)
	composer := letter.NewComposer(resolver, nil)
	return service.NewLetters(composer, store, observability.NewMetrics(), zap.NewNop())
}
