package stats

import (
	"testing"
	"time"

	"github.com/im-rahulr/codeshareit/internal/model"
)

func TestCountTokens(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"a b  c", 3},
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"tabs\tand\nnewlines count", 4},
		{"  leading and trailing  ", 3},
	}

	for _, tc := range cases {
		if got := CountTokens(tc.in); got != tc.want {
			t.Errorf("CountTokens(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestCountLines(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"x\ny\nz", 3},
		{"", 1},
		{"single line", 1},
		{"trailing newline\n", 2},
	}

	for _, tc := range cases {
		if got := CountLines(tc.in); got != tc.want {
			t.Errorf("CountLines(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, time.March, 14, 15, 0, 0, 0, time.UTC)

	snippets := []model.Snippet{
		{Content: "a b c\nd", CreatedAt: now.Add(-2 * time.Hour)},            // today: 4 tokens, 2 lines
		{Content: "x", CreatedAt: now.AddDate(0, 0, -1)},                      // yesterday: 1 token, 1 line
		{Content: "", CreatedAt: now.Add(-30 * time.Minute)},                  // today: 0 tokens, 1 line
	}

	agg := Summarize(snippets, now)

	if agg.TotalSnippets != 3 {
		t.Errorf("TotalSnippets = %d, want 3", agg.TotalSnippets)
	}
	if agg.TotalTokens != 5 {
		t.Errorf("TotalTokens = %d, want 5", agg.TotalTokens)
	}
	if agg.TotalLines != 4 {
		t.Errorf("TotalLines = %d, want 4", agg.TotalLines)
	}
	if agg.TodayCount != 2 {
		t.Errorf("TodayCount = %d, want 2", agg.TodayCount)
	}
}

// "Today" is a calendar-day comparison, not created_at > now-24h.
// A snippet from 23:50 yesterday is 30 minutes old at 00:20 but is NOT
// part of today's activity.
func TestSummarize_TodayIsCalendarDay(t *testing.T) {
	now := time.Date(2026, time.March, 14, 0, 20, 0, 0, time.UTC)
	lateYesterday := time.Date(2026, time.March, 13, 23, 50, 0, 0, time.UTC)

	agg := Summarize([]model.Snippet{{Content: "x", CreatedAt: lateYesterday}}, now)
	if agg.TodayCount != 0 {
		t.Errorf("TodayCount = %d, want 0 for a snippet from yesterday evening", agg.TodayCount)
	}
}

func TestSummarize_Empty(t *testing.T) {
	agg := Summarize(nil, time.Now())
	if agg != (Aggregate{}) {
		t.Errorf("Summarize(nil) = %+v, want zero aggregate", agg)
	}
}
