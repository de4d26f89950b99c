package metrics

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregate(t *testing.T) {
	results := []Result{
		{ID: "1", Label: "FAKE", Verdict: "FAKE", Duration: 100 * time.Millisecond},
		{ID: "2", Label: "FAKE", Verdict: "REAL", Duration: 200 * time.Millisecond},
		{ID: "3", Label: "REAL", Verdict: "REAL", Duration: 300 * time.Millisecond, Fallback: true},
		{ID: "4", Label: "REAL", Verdict: "FAKE", Duration: 400 * time.Millisecond},
		{ID: "5", Label: "FAKE", Verdict: "MAYBE", Duration: 500 * time.Millisecond},
		{ID: "6", Label: "REAL", Error: "rate limited"},
		{ID: "7", Label: "", Verdict: "REAL", Duration: 500 * time.Millisecond},
	}

	s := Aggregate(results)

	tests := []struct {
		name     string
		got, exp int
	}{
		{"total", s.Total, 7},
		{"evaluated", s.Evaluated, 5},
		{"correct", s.Correct, 2},
		{"errors", s.Errors, 1},
		{"unknown", s.Unknown, 1},
		{"skipped", s.Skipped, 1},
		{"true positives", s.TruePositives, 1},
		{"false negatives", s.FalseNegatives, 2},
		{"false positives", s.FalsePositives, 1},
		{"true negatives", s.TrueNegatives, 1},
		{"fallbacks", s.TranslationFallbacks, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.exp {
				t.Errorf("Expected %d, got %d", tt.exp, tt.got)
			}
		})
	}

	if !almostEqual(s.Accuracy, 0.4) {
		t.Errorf("Accuracy = %v, expected 0.4", s.Accuracy)
	}
	if !almostEqual(s.Precision, 0.5) {
		t.Errorf("Precision = %v, expected 0.5", s.Precision)
	}
	if !almostEqual(s.Recall, 1.0/3.0) {
		t.Errorf("Recall = %v, expected 1/3", s.Recall)
	}
	if !almostEqual(s.F1, 0.4) {
		t.Errorf("F1 = %v, expected 0.4", s.F1)
	}
	if s.AverageLatency != 2000*time.Millisecond/6 {
		t.Errorf("AverageLatency = %v", s.AverageLatency)
	}
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)
	if s.Total != 0 || s.Accuracy != 0 || s.F1 != 0 || s.AverageLatency != 0 {
		t.Errorf("unexpected summary for no results: %+v", s)
	}
}

func TestAggregateAllErrors(t *testing.T) {
	s := Aggregate([]Result{{Label: "FAKE", Error: "boom"}, {Label: "REAL", Error: "boom"}})
	if s.Errors != 2 || s.Evaluated != 0 || s.Accuracy != 0 {
		t.Errorf("unexpected summary: %+v", s)
	}
}

func TestSummaryPrint(t *testing.T) {
	var buf bytes.Buffer
	Aggregate([]Result{{Label: "FAKE", Verdict: "FAKE"}}).Print(&buf)

	for _, want := range []string{"Total Records:      1", "Accuracy:           100.00%", "F1 (FAKE):          1.000"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, buf.String())
		}
	}
}
