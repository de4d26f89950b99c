package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veritas-news/veritas/internal/classifier"
	"github.com/veritas-news/veritas/internal/config"
	"github.com/veritas-news/veritas/internal/detection"
	"github.com/veritas-news/veritas/internal/images"
	"github.com/veritas-news/veritas/internal/models"
	"github.com/veritas-news/veritas/internal/pipeline"
)

func newPredictCmd() *cobra.Command {
	var text string
	var imagePath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Classify a single piece of text or an image",
		Example: `  veritas predict --text "Scientists confirm the moon is made of cheese"
  veritas predict --image screenshot.png
  veritas predict --image https://example.com/post.jpg --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := detection.Request{Text: text}
			if imagePath != "" {
				data, name, err := readImage(cmd, imagePath)
				if err != nil {
					return err
				}
				req.Image, req.Filename = data, name
			}

			p, err := pipeline.Build(cmd.Context(), config.Load())
			if err != nil {
				return err
			}
			defer p.Close()

			pred, err := p.Service.HandleRequest(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printPrediction(cmd.OutOrStdout(), pred, asJSON)
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "News text to classify")
	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Image file or http(s) URL to read the news from")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full prediction as JSON")

	return cmd
}

func readImage(cmd *cobra.Command, ref string) ([]byte, string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return images.NewFetcher().Fetch(cmd.Context(), ref)
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	return data, filepath.Base(ref), nil
}

func printPrediction(w io.Writer, p *models.Prediction, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	if p.Verdict == string(classifier.Error) {
		_, err := fmt.Fprintf(w, "Error: %s\n", p.Reason)
		return err
	}
	_, err := fmt.Fprintf(w, "Verdict: %s\nProcessed text: %s\n", p.Verdict, p.Text)
	return err
}
