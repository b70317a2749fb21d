package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/joelkehle/topsis-agency/internal/topsis"
)

func sampleSummary(t *testing.T) Summary {
	t.Helper()
	table := topsis.RawTable{
		Header:  []string{"Model", "Price", "Storage"},
		Records: [][]string{{"M1", "1", "2"}, {"M2", "2", "1"}, {"M3", "3", "3"}},
	}
	res, err := topsis.Run(table, "1,1", "+,-")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return Summary{
		InputName:   "data.csv",
		Weights:     "1,1",
		Impacts:     "+,-",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Result:      res,
	}
}

func TestBuildMarkdownOrdersByRank(t *testing.T) {
	md := BuildMarkdown(sampleSummary(t))
	first := strings.Index(md, "| 1 | M2 |")
	second := strings.Index(md, "| 2 | M3 |")
	third := strings.Index(md, "| 3 | M1 |")
	if first < 0 || second < 0 || third < 0 {
		t.Fatalf("missing ranking rows:\n%s", md)
	}
	if !(first < second && second < third) {
		t.Fatalf("ranking rows out of order:\n%s", md)
	}
	if !strings.Contains(md, "| 0.690983 |") {
		t.Fatalf("expected rounded top score, got:\n%s", md)
	}
	if !strings.Contains(md, "- Generated: 2026-01-02T03:04:05Z") {
		t.Fatalf("expected generated timestamp, got:\n%s", md)
	}
}

func TestBuildMarkdownListsCriteria(t *testing.T) {
	md := BuildMarkdown(sampleSummary(t))
	if !strings.Contains(md, "| 1 | Price | 1.000000 | + |") {
		t.Fatalf("expected Price criterion row, got:\n%s", md)
	}
	if !strings.Contains(md, "| 2 | Storage | 1.000000 | - |") {
		t.Fatalf("expected Storage criterion row, got:\n%s", md)
	}
}

func TestBuildMarkdownEscapesPipes(t *testing.T) {
	s := sampleSummary(t)
	s.Result.IDs = []string{"a|b", "M2", "M3"}
	md := BuildMarkdown(s)
	if !strings.Contains(md, `a\|b`) {
		t.Fatalf("expected escaped pipe, got:\n%s", md)
	}
}

func TestBuildMarkdownIncludesNarrative(t *testing.T) {
	s := sampleSummary(t)
	s.Narrative = "  M2 wins on price.  "
	md := BuildMarkdown(s)
	if !strings.Contains(md, "## Summary\n\nM2 wins on price.\n") {
		t.Fatalf("expected narrative section, got:\n%s", md)
	}
}

func TestRenderHTMLProducesTablesAndHooks(t *testing.T) {
	doc, err := RenderHTML("TOPSIS Result", BuildMarkdown(sampleSummary(t)))
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.HasPrefix(doc, "<!doctype html>") {
		t.Fatalf("expected full document, got: %.80s", doc)
	}
	if strings.Count(doc, "<table>") != 2 {
		t.Fatalf("expected two tables, got:\n%s", doc)
	}
	if !strings.Contains(doc, `data-page-break-before="true">How Scores Are Computed</h2>`) {
		t.Fatalf("expected page break hook, got:\n%s", doc)
	}
	if strings.Count(doc, `<tr data-top-rank="true">`) != 1 {
		t.Fatalf("expected exactly one highlighted row, got:\n%s", doc)
	}
}

func TestApplyPrintLayoutHooksNoopWhenHeadingMissing(t *testing.T) {
	in := "<h2>Ranking</h2><p>x</p>"
	if out := applyPrintLayoutHooks(in); out != in {
		t.Fatalf("expected no change, got: %s", out)
	}
}

func TestChromiumPDFRendererWithoutBinary(t *testing.T) {
	r := &ChromiumPDFRenderer{}
	if r.Available() {
		t.Fatal("expected renderer without path to be unavailable")
	}
	if _, err := r.Render(context.Background(), "<html></html>"); !errors.Is(err, ErrNoChrome) {
		t.Fatalf("expected ErrNoChrome, got %v", err)
	}
}

func TestPageSettingsParams(t *testing.T) {
	p := A4.params()
	if p.PaperWidth != 8.27 || p.PaperHeight != 11.69 || p.MarginBottom != 0.75 {
		t.Fatalf("unexpected page geometry: %+v", p)
	}
	if !p.PrintBackground || !p.DisplayHeaderFooter || !strings.Contains(p.FooterTemplate, "pageNumber") {
		t.Fatalf("expected background and page counter footer: %+v", p)
	}

	bare := PageSettings{Width: 8.5, Height: 11}.params()
	if bare.DisplayHeaderFooter || bare.FooterTemplate != "" {
		t.Fatalf("expected no footer without a template: %+v", bare)
	}
}

type mockMessager struct {
	response *anthropic.Message
	err      error
	params   anthropic.MessageNewParams
}

func (m *mockMessager) New(_ context.Context, params anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	m.params = params
	return m.response, m.err
}

func newMockMessage(text string) *anthropic.Message {
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: text},
		},
	}
}

func withMockClient(mock *mockMessager) func() {
	old := newAnthropicClient
	newAnthropicClient = func(_ string) AnthropicMessager { return mock }
	return func() { newAnthropicClient = old }
}

func TestNarratorReturnsText(t *testing.T) {
	mock := &mockMessager{response: newMockMessage("  M2 ranks first.  ")}
	defer withMockClient(mock)()

	n, err := NewNarrator("test-key", "")
	if err != nil {
		t.Fatalf("NewNarrator: %v", err)
	}
	if n.ModelName() != DefaultNarratorModel {
		t.Fatalf("expected default model, got %q", n.ModelName())
	}
	got, err := n.Narrate(context.Background(), sampleSummary(t))
	if err != nil {
		t.Fatalf("Narrate: %v", err)
	}
	if got != "M2 ranks first." {
		t.Fatalf("unexpected narrative %q", got)
	}
	if string(mock.params.Model) != DefaultNarratorModel {
		t.Fatalf("unexpected model in request: %q", mock.params.Model)
	}
}

func TestNarratorErrors(t *testing.T) {
	if _, err := NewNarrator(" ", ""); err == nil {
		t.Fatal("expected missing key error")
	}

	defer withMockClient(&mockMessager{err: errors.New("boom")})()
	n, err := NewNarrator("k", "custom-model")
	if err != nil {
		t.Fatalf("NewNarrator: %v", err)
	}
	if _, err := n.Narrate(context.Background(), sampleSummary(t)); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestNarratorRejectsEmptyResponse(t *testing.T) {
	defer withMockClient(&mockMessager{response: newMockMessage("   ")})()
	n, err := NewNarrator("k", "")
	if err != nil {
		t.Fatalf("NewNarrator: %v", err)
	}
	if _, err := n.Narrate(context.Background(), sampleSummary(t)); err == nil {
		t.Fatal("expected empty response error")
	}
}
