package evalcmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veritas-news/veritas/internal/eval/dataset"
	"github.com/veritas-news/veritas/internal/textclean"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var datasetPath string
	var limit int
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect dataset records and their label distribution",
		Long: `Inspect records from a parquet or jsonl dataset file.

Each record is shown with its label and the sanitized text the classifier
would receive before translation.`,
		Example: `  # Inspect first 5 records interactively
  veritas eval inspect --dataset ./news.parquet --limit 5 --interactive

  # Label distribution of the whole file
  veritas eval inspect --dataset ./news.jsonl --limit 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader
			if interactive {
				in = os.Stdin
			}
			return executeInspect(cmd.Context(), os.Stdout, in, datasetPath, limit)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to parquet or jsonl dataset file (required)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of records to inspect (0 for all)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Pause after each record (press Enter to continue)")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

// executeInspect prints records to w. When in is non-nil it waits for a line
// from in after each record.
func executeInspect(ctx context.Context, w io.Writer, in io.Reader, datasetPath string, limit int) error {
	records, err := dataset.NewLoader(datasetPath).LoadSample(limit)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	fmt.Fprintf(w, "Loaded %d records from %s\n", len(records), datasetPath)
	printLabelCounts(w, records)
	fmt.Fprintln(w, strings.Repeat("=", 80))

	var reader *bufio.Reader
	if in != nil {
		reader = bufio.NewReader(in)
	}

	for i, record := range records {
		if ctx.Err() != nil {
			fmt.Fprintln(w, "\nInspection interrupted.")
			return nil
		}

		cleaned := textclean.Sanitize(record.Text)
		fmt.Fprintf(w, "RECORD %d/%d\n", i+1, len(records))
		fmt.Fprintln(w, strings.Repeat("-", 80))
		fmt.Fprintf(w, "ID:        %s\n", record.ID)
		fmt.Fprintf(w, "Label:     %s\n", labelOrUnknown(record))
		fmt.Fprintf(w, "Length:    %d characters, %d after sanitizing\n", len(record.Text), len(cleaned))
		fmt.Fprintf(w, "Sanitized: %s\n\n", truncate(cleaned, 500))

		if reader != nil {
			fmt.Fprint(w, "Press Enter to continue to next record (or Ctrl+C to quit)...")
			if _, err := reader.ReadString('\n'); err != nil {
				return nil
			}
		}
	}
	return nil
}

func printLabelCounts(w io.Writer, records []dataset.Record) {
	counts := map[string]int{}
	for _, r := range records {
		counts[labelOrUnknown(r)]++
	}
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		fmt.Fprintf(w, "  %-10s %d\n", l, counts[l])
	}
}

func labelOrUnknown(r dataset.Record) string {
	if l := r.NormalizedLabel(); l != "" {
		return l
	}
	return "(unknown)"
}
