package cmd

import (
	"github.com/spf13/cobra"

	"github.com/veritas-news/veritas/internal/evalcmd"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Classifier evaluation tools",
		Long: `Evaluation tools for measuring how well the configured model separates
real from fake news on a labeled dataset.`,
	}

	cmd.AddCommand(evalcmd.NewFetchCmd())
	cmd.AddCommand(evalcmd.NewInspectCmd())
	cmd.AddCommand(evalcmd.NewRunCmd())
	cmd.AddCommand(evalcmd.NewReportCmd())

	return cmd
}
