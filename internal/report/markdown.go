// Package report turns a ranking into a markdown summary, an HTML document and,
// when a Chromium binary is available, a PDF.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joelkehle/topsis-agency/internal/topsis"
)

const methodHeading = "How Scores Are Computed"

// Summary is everything a report needs about one run.
type Summary struct {
	InputName   string
	Weights     string
	Impacts     string
	GeneratedAt time.Time
	Result      topsis.Result
	Narrative   string
}

// BuildMarkdown renders the ranking table first, followed by the per-criterion
// parameters and the ideal vectors.
func BuildMarkdown(s Summary) string {
	res := s.Result
	var b strings.Builder
	b.WriteString("# TOPSIS Result\n\n")
	if s.InputName != "" {
		fmt.Fprintf(&b, "- Input: %s\n", escapeCell(s.InputName))
	}
	fmt.Fprintf(&b, "- Alternatives: %d\n", len(res.Scores))
	fmt.Fprintf(&b, "- Criteria: %d\n", len(res.Weights))
	if s.Weights != "" {
		fmt.Fprintf(&b, "- Weights: `%s`\n", s.Weights)
	}
	if s.Impacts != "" {
		fmt.Fprintf(&b, "- Impacts: `%s`\n", s.Impacts)
	}
	if !s.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "- Generated: %s\n", s.GeneratedAt.UTC().Format(time.RFC3339))
	}

	if strings.TrimSpace(s.Narrative) != "" {
		b.WriteString("\n## Summary\n\n")
		b.WriteString(strings.TrimSpace(s.Narrative))
		b.WriteString("\n")
	}

	b.WriteString("\n## Ranking\n\n")
	b.WriteString("| Rank | Alternative | Topsis Score | S+ | S- |\n")
	b.WriteString("|---:|---|---:|---:|---:|\n")
	for _, i := range res.Order() {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			res.Ranks[i], escapeCell(label(res.IDs, i)),
			formatFloat(res.Scores[i]), formatFloat(at(res.SeparationBest, i)), formatFloat(at(res.SeparationWorst, i)))
	}

	b.WriteString("\n## Criteria\n\n")
	b.WriteString("| # | Criterion | Weight | Impact | Norm | Ideal best | Ideal worst |\n")
	b.WriteString("|---:|---|---:|:---:|---:|---:|---:|\n")
	for j := range res.Weights {
		impact := ""
		if j < len(res.Impacts) {
			impact = res.Impacts[j].String()
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s |\n",
			j+1, escapeCell(label(res.Names, j)), formatFloat(res.Weights[j]), escapeCell(impact),
			formatFloat(at(res.Norms, j)), formatFloat(at(res.IdealBest, j)), formatFloat(at(res.IdealWorst, j)))
	}

	b.WriteString("\n## " + methodHeading + "\n\n")
	b.WriteString("Each criterion column is divided by its Euclidean norm and multiplied by its weight. ")
	b.WriteString("The ideal best takes the column maximum for `+` criteria and the minimum for `-` criteria; the ideal worst is the opposite. ")
	b.WriteString("S+ and S- are the Euclidean distances of an alternative to the ideal best and ideal worst, ")
	b.WriteString("and the score is S- / (S+ + S-). Ties keep the input order.\n")
	return b.String()
}

func label(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return strconv.Itoa(i + 1)
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
