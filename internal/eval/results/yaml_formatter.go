package results

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/veritas-news/veritas/internal/eval/metrics"
)

// EvalConfig represents the configuration section of the eval YAML
type EvalConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Translator  string  `yaml:"translator"`
	Temperature float64 `yaml:"temperature"`
	DatasetPath string  `yaml:"datasetpath"`
	SampleSize  int     `yaml:"samplesize"`
	Timestamp   string  `yaml:"timestamp"`
}

// EvalSummary is the YAML form of metrics.Summary
type EvalSummary struct {
	Total                int     `yaml:"total"`
	Evaluated            int     `yaml:"evaluated"`
	Correct              int     `yaml:"correct"`
	Errors               int     `yaml:"errors"`
	Unknown              int     `yaml:"unknown"`
	Skipped              int     `yaml:"skipped"`
	TruePositives        int     `yaml:"truepositives"`
	FalsePositives       int     `yaml:"falsepositives"`
	TrueNegatives        int     `yaml:"truenegatives"`
	FalseNegatives       int     `yaml:"falsenegatives"`
	Accuracy             float64 `yaml:"accuracy"`
	Precision            float64 `yaml:"precision"`
	Recall               float64 `yaml:"recall"`
	F1                   float64 `yaml:"f1"`
	TranslationFallbacks int     `yaml:"translationfallbacks"`
	AverageLatencyMS     int64   `yaml:"averagelatencyms"`
}

// EvalResult represents a single evaluation result
type EvalResult struct {
	Identifier string `yaml:"identifier"`
	Label      string `yaml:"label"`
	Verdict    string `yaml:"verdict,omitempty"`
	Text       string `yaml:"text,omitempty"`
	Fallback   bool   `yaml:"fallback,omitempty"`
	LatencyMS  int64  `yaml:"latencyms"`
	Error      string `yaml:"error,omitempty"`
}

// EvalSpec represents the complete evaluation report
type EvalSpec struct {
	Config  EvalConfig   `yaml:"config"`
	Summary EvalSummary  `yaml:"summary"`
	Results []EvalResult `yaml:"results"`
}

// NewSpec builds a report from per-record results
func NewSpec(config EvalConfig, results []metrics.Result) EvalSpec {
	if config.Timestamp == "" {
		config.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}
	s := metrics.Aggregate(results)
	spec := EvalSpec{
		Config: config,
		Summary: EvalSummary{
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
			AverageLatencyMS:     s.AverageLatency.Milliseconds(),
		},
		Results: make([]EvalResult, 0, len(results)),
	}

	for _, r := range results {
		spec.Results = append(spec.Results, EvalResult{
			Identifier: r.ID,
			Label:      r.Label,
			Verdict:    r.Verdict,
			Text:       r.Text,
			Fallback:   r.Fallback,
			LatencyMS:  r.Duration.Milliseconds(),
			Error:      r.Error,
		})
	}
	return spec
}

// SaveToYAML writes spec to <dir>/<model>-<timestamp>.yaml and returns the path
func SaveToYAML(dir string, spec EvalSpec) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", dir, err)
	}

	// Model names such as google/gemma-3n-e2b-it:free are not valid file names
	model := strings.NewReplacer("/", "_", ":", "_").Replace(spec.Config.Model)
	filename := filepath.Join(dir, fmt.Sprintf("%s-%s.yaml", model, spec.Config.Timestamp))

	data, err := yaml.Marshal(&spec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}
	return filename, nil
}

// LoadYAML reads a report written by SaveToYAML
func LoadYAML(path string) (*EvalSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var spec EvalSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &spec, nil
}
