package evalcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veritas-news/veritas/internal/eval/dataset"
)

// NewFetchCmd downloads a dataset file from HuggingFace into the local cache
func NewFetchCmd() *cobra.Command {
	var repo string
	var file string
	var cacheDir string
	var force bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download a labeled news dataset from HuggingFace",
		Example: `  veritas eval fetch --repo GonzaloA/fake_news --file data/test.parquet
  veritas eval run --dataset ~/.cache/huggingface/datasets/GonzaloA/fake_news/data/test.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := dataset.NewDownloader(dataset.DownloadConfig{
				Repo:          repo,
				CacheDir:      cacheDir,
				ForceDownload: force,
				Token:         os.Getenv("HF_TOKEN"),
			})
			path, err := d.Download(cmd.Context(), file)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "HuggingFace dataset repository (required)")
	cmd.Flags().StringVar(&file, "file", "", "File within the repository (required)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", dataset.DefaultCacheDir, "Cache directory")
	cmd.Flags().BoolVar(&force, "force", false, "Download even if the file is cached")
	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
