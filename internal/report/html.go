package report

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const styleCSS = `body{font-family:-apple-system,"Segoe UI",Helvetica,Arial,sans-serif;color:#1c1917;background:#fff;margin:0;padding:1rem;}
.report{max-width:960px;margin:0 auto;}
h1{font-size:1.5rem;border-bottom:2px solid #92400e;padding-bottom:0.3rem;}
h2{font-size:1.15rem;margin-top:1.6rem;}
table{width:100%;border-collapse:collapse;border:1px solid #a8a29e;font-size:0.85rem;}
th,td{border:1px solid #a8a29e;padding:0.35rem 0.45rem;vertical-align:top;}
thead th{background:#f1f5f9;font-weight:700;}
tr[data-top-rank="true"] td{background:#fef3c7;}
code{background:#f5f5f4;padding:0 0.2rem;}
h2[data-page-break-before="true"]{break-before:page;page-break-before:always;}
@media print{@page{size:auto;margin:12mm;} body{padding:0;} .report{max-width:none;}}`

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderFragment converts markdown to an HTML fragment.
func RenderFragment(markdown string) (string, error) {
	var out strings.Builder
	if err := markdownRenderer.Convert([]byte(markdown), &out); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return applyPrintLayoutHooks(out.String()), nil
}

// RenderHTML converts markdown to a standalone HTML document.
func RenderHTML(title, markdown string) (string, error) {
	content, err := RenderFragment(markdown)
	if err != nil {
		return "", err
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(title) + "</title>" +
		"<style>" + styleCSS + "</style></head><body><div class='report'>" + content + "</div></body></html>", nil
}

var (
	reMethodHeading = regexp.MustCompile(`(?i)<h2([^>]*)>\s*` + regexp.QuoteMeta(methodHeading) + `\s*</h2>`)
	reTopRankRow    = regexp.MustCompile(`<tr>(\s*<td[^>]*>1</td>)`)
)

func applyPrintLayoutHooks(contentHTML string) string {
	out := reMethodHeading.ReplaceAllString(contentHTML, `<h2$1 data-page-break-before="true">`+methodHeading+`</h2>`)
	// Highlight rank 1; the ranking is the first table whose first cell holds the rank.
	if loc := reTopRankRow.FindStringIndex(out); loc != nil {
		out = out[:loc[0]] + reTopRankRow.ReplaceAllString(out[loc[0]:loc[1]], `<tr data-top-rank="true">$1`) + out[loc[1]:]
	}
	return out
}
