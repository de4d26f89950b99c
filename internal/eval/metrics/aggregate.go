package metrics

import (
	"fmt"
	"io"
	"time"
)

// Positive is the class precision and recall are reported for.
const Positive = "FAKE"

// Result is the outcome of classifying one labeled record
type Result struct {
	ID       string
	Label    string // REAL, FAKE or "" when the dataset label was not recognized
	Verdict  string
	Text     string // normalized text sent to the classifier
	Fallback bool   // translation fell back to the original text
	Duration time.Duration
	Error    string // If classification failed
}

// Summary holds aggregated classification metrics
type Summary struct {
	Total     int
	Evaluated int
	Correct   int
	Errors    int
	Unknown   int // answers other than REAL or FAKE
	Skipped   int // records without a usable label

	TruePositives  int
	FalsePositives int
	TrueNegatives  int
	FalseNegatives int

	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64

	TranslationFallbacks int
	AverageLatency       time.Duration
	TotalLatency         time.Duration
}

// Aggregate computes accuracy and FAKE-class precision, recall and F1.
// Unknown answers count as wrong; failed and unlabeled records are excluded.
func Aggregate(results []Result) Summary {
	s := Summary{Total: len(results)}

	timed := 0
	for _, r := range results {
		if r.Error != "" {
			s.Errors++
			continue
		}
		s.TotalLatency += r.Duration
		timed++
		if r.Fallback {
			s.TranslationFallbacks++
		}

		if r.Label == "" {
			s.Skipped++
			continue
		}
		s.Evaluated++

		known := r.Verdict == "REAL" || r.Verdict == "FAKE"
		if !known {
			s.Unknown++
		}
		if r.Verdict == r.Label {
			s.Correct++
		}

		switch {
		case r.Label == Positive && r.Verdict == Positive:
			s.TruePositives++
		case r.Label == Positive:
			s.FalseNegatives++
		case r.Verdict == Positive:
			s.FalsePositives++
		case known:
			s.TrueNegatives++
		}
	}

	s.Accuracy = ratio(s.Correct, s.Evaluated)
	s.Precision = ratio(s.TruePositives, s.TruePositives+s.FalsePositives)
	s.Recall = ratio(s.TruePositives, s.TruePositives+s.FalseNegatives)
	if s.Precision+s.Recall > 0 {
		s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
	if timed > 0 {
		s.AverageLatency = s.TotalLatency / time.Duration(timed)
	}
	return s
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// Print writes a human readable summary
func (s Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "\n========================================")
	fmt.Fprintln(w, "Evaluation Summary")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Total Records:      %d\n", s.Total)
	fmt.Fprintf(w, "Evaluated:          %d\n", s.Evaluated)
	fmt.Fprintf(w, "Errors:             %d\n", s.Errors)
	fmt.Fprintf(w, "Skipped (no label): %d\n", s.Skipped)
	fmt.Fprintf(w, "Unknown Answers:    %d\n", s.Unknown)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Accuracy:           %.2f%%\n", s.Accuracy*100)
	fmt.Fprintf(w, "Precision (FAKE):   %.2f%%\n", s.Precision*100)
	fmt.Fprintf(w, "Recall (FAKE):      %.2f%%\n", s.Recall*100)
	fmt.Fprintf(w, "F1 (FAKE):          %.3f\n", s.F1)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Confusion Matrix (label \\ verdict):")
	fmt.Fprintf(w, "  FAKE: %d FAKE, %d other\n", s.TruePositives, s.FalseNegatives)
	fmt.Fprintf(w, "  REAL: %d FAKE, %d REAL\n", s.FalsePositives, s.TrueNegatives)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Translation Fallbacks: %d\n", s.TranslationFallbacks)
	fmt.Fprintf(w, "Average Latency:       %v\n", s.AverageLatency.Round(time.Millisecond))
	fmt.Fprintln(w, "========================================")
}
