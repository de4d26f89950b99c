package evalcmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/veritas-news/veritas/internal/eval/metrics"
	"github.com/veritas-news/veritas/internal/eval/results"
)

// NewReportCmd prints a saved YAML report
func NewReportCmd() *cobra.Command {
	var reportPath string
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a saved evaluation report",
		Example: `  veritas eval report --results evals/google_gemma-3n-e2b-it_free-2026-10-19_12-00-00.yaml
  veritas eval report --results evals/run.yaml --format csv > run.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeReport(os.Stdout, reportPath, format)
		},
	}

	cmd.Flags().StringVar(&reportPath, "results", "", "Path to a YAML report written by eval run (required)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or csv")
	_ = cmd.MarkFlagRequired("results")

	return cmd
}

func executeReport(w io.Writer, reportPath, format string) error {
	spec, err := results.LoadYAML(reportPath)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	switch format {
	case "text":
		return printTextReport(w, spec)
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(spec)
	case "csv":
		return printCSVReport(w, spec)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printTextReport(w io.Writer, spec *results.EvalSpec) error {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Fake News Classification Report")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Provider:   %s\n", spec.Config.Provider)
	fmt.Fprintf(w, "Model:      %s\n", spec.Config.Model)
	fmt.Fprintf(w, "Translator: %s\n", spec.Config.Translator)
	fmt.Fprintf(w, "Dataset:    %s\n", spec.Config.DatasetPath)

	s := spec.Summary
	metrics.Summary{
		Total:                s.Total,
		Evaluated:            s.Evaluated,
		Correct:              s.Correct,
		Errors:               s.Errors,
		Unknown:              s.Unknown,
		Skipped:              s.Skipped,
		TruePositives:        s.TruePositives,
		FalsePositives:       s.FalsePositives,
		TrueNegatives:        s.TrueNegatives,
		FalseNegatives:       s.FalseNegatives,
		Accuracy:             s.Accuracy,
		Precision:            s.Precision,
		Recall:               s.Recall,
		F1:                   s.F1,
		TranslationFallbacks: s.TranslationFallbacks,
		AverageLatency:       time.Duration(s.AverageLatencyMS) * time.Millisecond,
	}.Print(w)

	fmt.Fprintln(w, "\nMisclassified Records:")
	for _, r := range spec.Results {
		switch {
		case r.Error != "":
			fmt.Fprintf(w, "  [%s] error: %s\n", r.Identifier, r.Error)
		case r.Label != "" && r.Verdict != r.Label:
			fmt.Fprintf(w, "  [%s] label %s, verdict %s: %s\n", r.Identifier, r.Label, r.Verdict, truncate(r.Text, 80))
		}
	}
	return nil
}

func printCSVReport(w io.Writer, spec *results.EvalSpec) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"ID", "Label", "Verdict", "Correct", "Fallback", "Latency MS", "Error"}); err != nil {
		return err
	}
	for _, r := range spec.Results {
		row := []string{
			r.Identifier,
			r.Label,
			r.Verdict,
			strconv.FormatBool(r.Error == "" && r.Label != "" && r.Verdict == r.Label),
			strconv.FormatBool(r.Fallback),
			strconv.FormatInt(r.LatencyMS, 10),
			r.Error,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
