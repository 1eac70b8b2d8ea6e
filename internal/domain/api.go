package domain

// Wire DTOs for the HTTP surface. Kept separate from the canonical entities
// so the pipeline types never grow transport concerns.

// AnalyzeRequest is the body of POST /v1/reports/analyze.
type AnalyzeRequest struct {
	// Text is the raw uploaded content (already text-decoded by the caller;
	// may still contain PDF/HTML control structures; salvage handles that).
	Text string `json:"text"`
	// Format is a hint: "pdf", "html" or "text". It steers salvage
	// heuristics only and never changes the output shape.
	Format   string `json:"format,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// AnalyzeResponse wraps the assembled report.
type AnalyzeResponse struct {
	Report *CreditReport `json:"report"`
}

// GenerateLettersRequest is the body of POST /v1/reports/{reportID}/letters.
// When IssueIDs is empty, letters are generated for every issue on the
// report (or one general letter when the report has none).
type GenerateLettersRequest struct {
	IssueIDs []string `json:"issueIds,omitempty"`
}

// LettersResponse wraps a list of letters.
type LettersResponse struct {
	Letters []Letter `json:"letters"`
}

// IssuesResponse wraps a report's issue list.
type IssuesResponse struct {
	Issues []Issue `json:"issues"`
}

// BureauAddressResponse is the body of GET /v1/bureaus/{name}/address.
type BureauAddressResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// UpdateLetterStatusRequest is the body of PATCH /v1/letters/{letterID}/status.
type UpdateLetterStatusRequest struct {
	Status LetterStatus `json:"status"`
}

// TokenRequest is the body of POST /v1/auth/token.
type TokenRequest struct {
	Password string `json:"password"`
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// PipelineMetrics is the JSON snapshot served by GET /v1/metrics/pipeline.
type PipelineMetrics struct {
	ReportsAnalyzed      int64   `json:"reports_analyzed"`
	AnalyzeErrors        int64   `json:"analyze_errors"`
	ExtractionFallbacks  int64   `json:"extraction_fallbacks"`
	IssuesFound          int64   `json:"issues_found"`
	LettersComposed      int64   `json:"letters_composed"`
	TemplateFetchErrors  int64   `json:"template_fetch_errors"`
	CacheHitRate         float64 `json:"cache_hit_rate"`
	AvgIssuesPerReport   float64 `json:"avg_issues_per_report"`
	AvgLettersPerRequest float64 `json:"avg_letters_per_request"`
}
