package integration_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
	"github.com/riyahstaff/credifyai-sub001/internal/handler"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/cache"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/observability"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/resilience"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/store"
	"github.com/riyahstaff/credifyai-sub001/internal/infra/templates"
	"github.com/riyahstaff/credifyai-sub001/internal/issues"
	"github.com/riyahstaff/credifyai-sub001/internal/letter"
	"github.com/riyahstaff/credifyai-sub001/internal/salvage"
	"github.com/riyahstaff/credifyai-sub001/internal/service"
)

const htmlFixture = `<html><body>
<h1>Experian Credit Report</h1>
<div>
<h2>Personal Information</h2>
<p>Name: Morgan Rivera</p>
<p>Address: 44 Cedar Lane</p>
</div>
<h2>Accounts</h2>
<table>
<tr><td>Account Name: NAVIENT</td></tr>
<tr><td>Account Number: ****2211</td></tr>
<tr><td>Account Type: Student Loan</td></tr>
<tr><td>Balance: $14,800.00</td></tr>
<tr><td>Payment Status: 90 days late</td></tr>
<tr><td>Date Opened: 08/2016</td></tr>
<tr><td>Date Reported: 01/2024</td></tr>
</table>
</body></html>`

func newStack(t *testing.T, remoteURL string) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	st, err := store.Open(filepath.Join(t.TempDir(), "integration.db"), logger)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	var remote templates.Lister
	if remoteURL != "" {
		remote = templates.NewRepoClient(
			&http.Client{Timeout: 2 * time.Second},
			remoteURL,
			resilience.NewCircuitBreaker("templates-integration"),
			resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond, CallTimeout: 2 * time.Second},
		)
	}
	corpus := templates.NewService(remote, metrics, logger)

	analyzerSvc := service.NewAnalyzer(
		salvage.New(0, logger),
		issues.New(nil),
		st,
		cache.New[*domain.CreditReport](time.Minute),
		resilience.NewBulkhead(4),
		metrics,
		logger,
		false,
	)
	resolver := letter.NewResolver(corpus, logger)
	lettersSvc := service.NewLetters(letter.NewComposer(resolver, nil), st, metrics, logger)

	return handler.NewRouter(analyzerSvc, lettersSvc, nil, metrics, logger)
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, &buf))
	return rec
}

// TestIntegration_FullFlow drives an HTML upload through the whole stack with
// a mock remote template repository and checks that the remote template wins
// over the embedded one when composing the letter.
func TestIntegration_FullFlow(t *testing.T) {
	templateServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/templates" {
			http.NotFound(w, r)
			return
		}
		listing := []domain.LetterTemplate{
			{
				Name: "late-payment-dispute",
				Type: "late_payment",
				Body: "NOTICE OF DISPUTE (rev. 2024-02)\n\n{BUREAU_NAME}\n{BUREAU_ADDRESS}\n\nI dispute the late payment reported on {ACCOUNT_NAME} ({ACCOUNT_NUMBER}).\n\n{LEGAL_CITATIONS}\n\nSincerely,\n{CONSUMER_NAME}",
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(listing)
	}))
	defer templateServer.Close()

	router := newStack(t, templateServer.URL)

	// Analyze the HTML upload.
	rec := postJSON(t, router, "/v1/reports/analyze",
		domain.AnalyzeRequest{Text: htmlFixture, Format: "html", Filename: "report.html"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("analyze status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var analyzed domain.AnalyzeResponse
	if err := json.NewDecoder(rec.Body).Decode(&analyzed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	rep := analyzed.Report
	if rep.PrimaryBureau != domain.BureauExperian {
		t.Errorf("primary bureau = %q", rep.PrimaryBureau)
	}
	if len(rep.Accounts) == 0 {
		t.Fatal("no accounts extracted from html upload")
	}
	if rep.PersonalInfo.Name != "Morgan Rivera" {
		t.Errorf("consumer name = %q", rep.PersonalInfo.Name)
	}

	var lateIssueID string
	for _, issue := range rep.Issues {
		if issue.Type == domain.IssueLatePayment {
			lateIssueID = issue.ID
		}
	}
	if lateIssueID == "" {
		t.Fatalf("no late payment issue classified: %+v", rep.Issues)
	}

	// Generate a letter for the late payment issue.
	rec = postJSON(t, router, "/v1/reports/"+rep.ID+"/letters",
		domain.GenerateLettersRequest{IssueIDs: []string{lateIssueID}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("letters status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var letters domain.LettersResponse
	if err := json.NewDecoder(rec.Body).Decode(&letters); err != nil {
		t.Fatalf("decode letters: %v", err)
	}
	if len(letters.Letters) != 1 {
		t.Fatalf("letters = %d, want 1", len(letters.Letters))
	}

	content := letters.Letters[0].Content
	if !strings.Contains(content, "NOTICE OF DISPUTE (rev. 2024-02)") {
		t.Errorf("remote template did not override embedded corpus:\n%s", content)
	}
	if !strings.Contains(content, "NAVIENT") {
		t.Errorf("account name missing from letter:\n%s", content)
	}
	if !strings.Contains(content, "Morgan Rivera") {
		t.Errorf("consumer name missing from letter:\n%s", content)
	}
	if strings.Contains(content, "{") {
		t.Errorf("unresolved token in letter:\n%s", content)
	}
}

// TestIntegration_TemplateRepositoryDown exercises the fallback chain end to
// end: with the repository unreachable, letters still come out of the
// embedded corpus, non-empty and token-free.
func TestIntegration_TemplateRepositoryDown(t *testing.T) {
	// Nothing listens here; the connection is refused immediately.
	router := newStack(t, "http://127.0.0.1:1")

	rec := postJSON(t, router, "/v1/reports/analyze", domain.AnalyzeRequest{
		Text: "Equifax Credit Report\n\nAccount Name: MIDLAND CREDIT MGMT\nAccount Number: ****9931\nAccount Type: Collection\nBalance: $512.00\nPayment Status: Collection account\nDate Reported: 03/2024\n",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("analyze status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var analyzed domain.AnalyzeResponse
	if err := json.NewDecoder(rec.Body).Decode(&analyzed); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = postJSON(t, router, "/v1/reports/"+analyzed.Report.ID+"/letters", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("letters status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var letters domain.LettersResponse
	if err := json.NewDecoder(rec.Body).Decode(&letters); err != nil {
		t.Fatalf("decode letters: %v", err)
	}
	if len(letters.Letters) == 0 {
		t.Fatal("no letters with repository down")
	}
	for _, l := range letters.Letters {
		if strings.TrimSpace(l.Content) == "" {
			t.Errorf("letter %s has empty content", l.ID)
		}
		if strings.Contains(l.Content, "{") {
			t.Errorf("unresolved token:\n%s", l.Content)
		}
	}
}
