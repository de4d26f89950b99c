package cmd

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/veritas-news/veritas/internal/bot"
	"github.com/veritas-news/veritas/internal/config"
	"github.com/veritas-news/veritas/internal/pipeline"
)

func newBotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Long: `Runs a Telegram bot that answers news text and photos with a REAL or FAKE
verdict and the processed text. The bot token is read from TELEGRAM_BOT_TOKEN.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.TelegramBotToken == "" {
				return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
			}

			p, err := pipeline.Build(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
			if err != nil {
				return fmt.Errorf("failed to connect to Telegram: %w", err)
			}
			return bot.Run(cmd.Context(), api, bot.New(api, p.Service))
		},
	}
	return cmd
}
