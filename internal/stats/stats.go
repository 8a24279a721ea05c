// Package stats computes the derived snippet metrics shown in the viewer
// and on the admin dashboard: token counts, line counts, and aggregates.
//
// These are display statistics, not a lexer — a "token" here is simply a
// whitespace-delimited non-empty segment, which is what the counters have
// always meant in this app.
package stats

import (
	"strings"
	"time"

	"github.com/im-rahulr/codeshareit/internal/model"
)

// CountTokens returns the number of whitespace-delimited non-empty
// segments. "a b  c" → 3. The empty (or all-whitespace) string → 0.
func CountTokens(s string) int {
	return len(strings.Fields(s))
}

// CountLines returns the number of newline-delimited segments.
// "x\ny\nz" → 3. Note the empty string counts as 1 line, not 0 —
// an empty buffer still renders as one (blank) line.
func CountLines(s string) int {
	return strings.Count(s, "\n") + 1
}

// SnippetStats is the per-snippet breakdown shown next to each entry.
type SnippetStats struct {
	Tokens int `json:"tokens"`
	Lines  int `json:"lines"`
}

// ForContent computes the per-snippet stats for a piece of content.
func ForContent(content string) SnippetStats {
	return SnippetStats{
		Tokens: CountTokens(content),
		Lines:  CountLines(content),
	}
}

// Aggregate is the dashboard summary block.
type Aggregate struct {
	TotalSnippets int `json:"totalSnippets"`
	TotalTokens   int `json:"totalTokens"`
	TotalLines    int `json:"totalLines"`
	TodayCount    int `json:"todayCount"`
}

// Summarize folds per-snippet stats into the dashboard totals.
// TodayCount counts snippets created on the same calendar day as now, in
// now's location — "today" is a local-time notion, not a 24h window.
func Summarize(snippets []model.Snippet, now time.Time) Aggregate {
	agg := Aggregate{TotalSnippets: len(snippets)}

	y, m, d := now.Date()
	for i := range snippets {
		s := &snippets[i]
		agg.TotalTokens += CountTokens(s.Content)
		agg.TotalLines += CountLines(s.Content)

		cy, cm, cd := s.CreatedAt.In(now.Location()).Date()
		if cy == y && cm == m && cd == d {
			agg.TodayCount++
		}
	}

	return agg
}
