// Package salvage recovers readable text from noisy or binary-derived
// credit report uploads using layered fallback strategies. It never fails:
// worst case it returns an empty string, which downstream stages tolerate.
package salvage

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DefaultWindow is the number of characters kept around each keyword hit in
// the last-resort keyword scan.
const DefaultWindow = 240

// minReadableLength is the shortest output a stage may declare a success with.
const minReadableLength = 40

// keywords is the fixed credit-report vocabulary used by the keyword-window
// stage. Matching is case-insensitive.
var keywords = []string{
	"EXPERIAN", "EQUIFAX", "TRANSUNION", "TRANS UNION",
	"ACCOUNT", "ACCOUNTS", "TRADELINE",
	"INQUIRY", "INQUIRIES",
	"BALANCE", "CREDIT LIMIT", "PAYMENT",
	"COLLECTION", "CHARGE OFF", "CHARGE-OFF",
	"PUBLIC RECORD", "BANKRUPTCY",
	"CREDIT REPORT", "DATE OPENED", "DATE REPORTED",
}

var (
	pdfStreamRe  = regexp.MustCompile(`(?s)stream.*?endstream`)
	pdfObjectRe  = regexp.MustCompile(`(?s)\d+\s+\d+\s+obj.*?endobj`)
	pdfMarkerRe  = regexp.MustCompile(`%PDF-\d\.\d|%%EOF|xref|trailer|startxref`)
	tagMarkupRe  = regexp.MustCompile(`<[^>]{0,200}>`)
	multiSpaceRe = regexp.MustCompile(`[ \t]{2,}`)
	multiBlankRe = regexp.MustCompile(`\n{3,}`)
)

// Salvager turns raw upload content into best-effort plain text.
type Salvager struct {
	window int
	logger *zap.Logger
}

// New creates a Salvager. A window of 0 selects DefaultWindow.
func New(window int, logger *zap.Logger) *Salvager {
	if window <= 0 {
		window = DefaultWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Salvager{window: window, logger: logger}
}

// Options carries upload metadata. The format hint steers which stage runs
// first; it never changes the shape of the output.
type Options struct {
	Format   string // "pdf", "html", "text" or ""
	Filename string
}

// Recover runs the salvage stages in order and returns the first readable
// result. Stages: HTML text extraction (when the content looks like markup),
// structural stripping of PDF/HTML control structures, and finally
// keyword-anchored windowing. Never returns an error; an empty string means
// nothing was recoverable.
func (s *Salvager) Recover(raw string, opts Options) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	if opts.Format == "html" || looksLikeHTML(raw) {
		if text := s.fromHTML(raw); readable(text) {
			s.logger.Debug("salvage: html stage succeeded", zap.Int("len", len(text)))
			return text
		}
	}

	if text := s.structuralStrip(raw); readable(text) {
		s.logger.Debug("salvage: strip stage succeeded", zap.Int("len", len(text)))
		return text
	}

	text := s.keywordWindows(raw)
	s.logger.Debug("salvage: keyword stage result", zap.Int("len", len(text)))
	return text
}

// fromHTML parses the content as HTML and returns its visible text.
// A parse failure is a stage failure, not an error.
func (s *Salvager) fromHTML(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()
	return normalize(doc.Text())
}

// structuralStrip removes PDF object/stream blocks, PDF file markers and tag
// markup, then keeps only printable characters.
func (s *Salvager) structuralStrip(raw string) string {
	text := pdfStreamRe.ReplaceAllString(raw, " ")
	text = pdfObjectRe.ReplaceAllString(text, " ")
	text = pdfMarkerRe.ReplaceAllString(text, " ")
	text = tagMarkupRe.ReplaceAllString(text, " ")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case unicode.IsPrint(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return normalize(b.String())
}

// keywordWindows keeps fixed-size windows around every credit-report keyword
// hit and discards everything else. Overlapping windows are merged so text
// between nearby hits survives intact.
func (s *Salvager) keywordWindows(raw string) string {
	// Work on the printable-only form so binary runs cannot leak through.
	text := s.structuralStrip(raw)
	if text == "" {
		text = normalize(raw)
	}
	upper := asciiUpper(text)

	type span struct{ start, end int }
	var spans []span
	for _, kw := range keywords {
		from := 0
		for {
			i := strings.Index(upper[from:], kw)
			if i < 0 {
				break
			}
			hit := from + i
			start := hit - s.window
			if start < 0 {
				start = 0
			}
			end := hit + len(kw) + s.window
			if end > len(text) {
				end = len(text)
			}
			spans = append(spans, span{start, end})
			from = hit + len(kw)
		}
	}
	if len(spans) == 0 {
		return ""
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	merged := spans[:1]
	for _, sp := range spans[1:] {
		last := &merged[len(merged)-1]
		if sp.start <= last.end {
			if sp.end > last.end {
				last.end = sp.end
			}
			continue
		}
		merged = append(merged, sp)
	}

	parts := make([]string, 0, len(merged))
	for _, sp := range merged {
		parts = append(parts, strings.TrimSpace(text[sp.start:sp.end]))
	}
	return normalize(strings.Join(parts, "\n"))
}

// readable decides whether a stage produced enough plain text to stop the
// fallback chain: a minimum length and a majority of word-ish characters.
func readable(text string) bool {
	if len(text) < minReadableLength {
		return false
	}
	wordish := 0
	total := 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '\n' ||
			r == '.' || r == ',' || r == '$' || r == '/' || r == '-' || r == ':' {
			wordish++
		}
	}
	return float64(wordish) >= 0.7*float64(total)
}

// asciiUpper upper-cases ASCII letters only. Unlike strings.ToUpper it never
// changes byte length, so indices into the result are valid indices into the
// input. The keyword vocabulary is pure ASCII.
func asciiUpper(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'a' && b[i] <= 'z' {
			b[i] -= 'a' - 'A'
		}
	}
	return string(b)
}

func looksLikeHTML(raw string) bool {
	probe := strings.ToLower(raw)
	if len(probe) > 2048 {
		probe = probe[:2048]
	}
	for _, marker := range []string{"<html", "<!doctype html", "<body", "<div", "<table", "<br"} {
		if strings.Contains(probe, marker) {
			return true
		}
	}
	return false
}

// normalize collapses runs of spaces and blank lines and trims each line.
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = multiBlankRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
