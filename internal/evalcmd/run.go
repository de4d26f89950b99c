package evalcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/veritas-news/veritas/internal/classifier"
	"github.com/veritas-news/veritas/internal/config"
	"github.com/veritas-news/veritas/internal/detection"
	"github.com/veritas-news/veritas/internal/eval/dataset"
	"github.com/veritas-news/veritas/internal/eval/metrics"
	"github.com/veritas-news/veritas/internal/eval/results"
	"github.com/veritas-news/veritas/internal/pipeline"
)

// textClassifier is satisfied by *detection.Service.
type textClassifier interface {
	Classify(ctx context.Context, text string) (classifier.Verdict, detection.Normalized, error)
}

// NewRunCmd creates the run command for evaluating the classifier on a labeled dataset
func NewRunCmd() *cobra.Command {
	var datasetPath string
	var outputDir string
	var sampleSize int
	var concurrency int
	var provider string
	var model string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify a labeled news dataset and report accuracy",
		Long: `Runs every record of a labeled dataset through the text pipeline
(sanitize, translate, correct, classify) and compares the verdict with the label.

Records are {"id", "text", "label"} rows in a .jsonl or .parquet file; labels are
REAL or FAKE. A YAML report is written to the output directory.`,
		Example: `  # Evaluate 50 records with the configured provider
  veritas eval run --dataset news.jsonl --sample 50

  # Evaluate a parquet file with Ollama, 4 requests at a time
  veritas eval run --dataset news.parquet --provider ollama --concurrency 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(datasetPath); err != nil {
				return fmt.Errorf("dataset file not found: %s", datasetPath)
			}

			cfg := config.Load()
			if provider != "" {
				cfg.ClassifierProvider = provider
				cfg.ClassifierModel = config.DefaultModel(provider)
			}
			if model != "" {
				cfg.ClassifierModel = model
			}
			return executeRun(cmd.Context(), cfg, datasetPath, outputDir, sampleSize, concurrency)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to a .jsonl or .parquet dataset (required)")
	cmd.Flags().StringVar(&outputDir, "output-yaml", "evals", "Directory for the YAML report")
	cmd.Flags().IntVar(&sampleSize, "sample", 10, "Number of records to evaluate (0 for all)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Number of records classified at once")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider (openai, ollama or gemini); defaults to CLASSIFIER_PROVIDER")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults to provider's default)")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func executeRun(ctx context.Context, cfg *config.Config, datasetPath, outputDir string, sampleSize, concurrency int) error {
	slog.Info("Starting evaluation run", "dataset", datasetPath, "provider", cfg.ClassifierProvider, "model", cfg.ClassifierModel)

	records, err := dataset.NewLoader(datasetPath).LoadSample(sampleSize)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	slog.Info("Dataset loaded", "records", len(records))

	// History is not recorded for evaluation runs
	cfg.HistoryDSN = ""
	p, err := pipeline.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	evalResults := evaluate(ctx, p.Service, records, concurrency)

	spec := results.NewSpec(results.EvalConfig{
		Provider:    cfg.ClassifierProvider,
		Model:       cfg.ClassifierModel,
		Translator:  p.Translator.Backend(),
		Temperature: classifier.Temperature,
		DatasetPath: datasetPath,
		SampleSize:  len(records),
	}, evalResults)

	path, err := results.SaveToYAML(outputDir, spec)
	if err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	metrics.Aggregate(evalResults).Print(os.Stdout)
	fmt.Printf("\nResults saved to: %s\n", path)
	return nil
}

// evaluate classifies records with at most concurrency requests in flight.
// Results keep the order of records.
func evaluate(ctx context.Context, svc textClassifier, records []dataset.Record, concurrency int) []metrics.Result {
	if concurrency < 1 {
		concurrency = 1
	}

	out := make([]metrics.Result, len(records))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)

	for i, record := range records {
		wg.Add(1)
		go func(idx int, record dataset.Record) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			slog.Debug("Processing record", "id", record.ID, "progress", fmt.Sprintf("%d/%d", idx+1, len(records)))
			out[idx] = evaluateRecord(ctx, svc, record)
		}(i, record)
	}
	wg.Wait()
	return out
}

func evaluateRecord(ctx context.Context, svc textClassifier, record dataset.Record) metrics.Result {
	result := metrics.Result{
		ID:    record.ID,
		Label: record.NormalizedLabel(),
	}
	if err := ctx.Err(); err != nil {
		result.Error = err.Error()
		return result
	}

	start := time.Now()
	verdict, normalized, err := svc.Classify(ctx, record.Text)
	result.Duration = time.Since(start)
	result.Text = normalized.Text
	result.Fallback = normalized.Translation.Fallback
	if err != nil {
		result.Error = fmt.Sprintf("failed to classify: %v", err)
		return result
	}
	result.Verdict = string(verdict)
	return result
}
