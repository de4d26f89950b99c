package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/veritas-news/veritas/internal/classifier"
	"github.com/veritas-news/veritas/internal/detection"
	"github.com/veritas-news/veritas/internal/models"
)

const helpText = `Send me a news headline, an article or a screenshot of a post.
I will read it, translate it to English and tell you whether it looks REAL or FAKE.

Commands: /start, /help`

// maxPhotoSize matches the web upload limit.
const maxPhotoSize = 10 * 1024 * 1024

// API is the part of tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot answers Telegram messages with a prediction.
type Bot struct {
	api        API
	service    *detection.Service
	httpClient *http.Client
}

func New(api API, service *detection.Service) *Bot {
	return &Bot{
		api:        api,
		service:    service,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Run long-polls for updates until ctx is canceled. Updates are handled one
// at a time.
func Run(ctx context.Context, api *tgbotapi.BotAPI, b *Bot) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := api.GetUpdatesChan(u)

	slog.Info("Telegram bot polling", "username", api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			slog.Info("Telegram bot stopped")
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, upd)
		}
	}
}

// HandleUpdate replies to a single update.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			b.reply(msg, helpText)
		default:
			b.reply(msg, "Unknown command. "+helpText)
		}
		return
	}

	req, err := b.buildRequest(msg)
	if err != nil {
		slog.Error("Failed to read Telegram message", "chat_id", msg.Chat.ID, "err", err)
		b.reply(msg, "Sorry, I could not read that image: "+err.Error())
		return
	}

	p, err := b.service.HandleRequest(ctx, req)
	if err != nil {
		slog.Error("Prediction failed", "chat_id", msg.Chat.ID, "err", err)
		b.reply(msg, "Sorry, something went wrong: "+err.Error())
		return
	}
	b.reply(msg, formatReply(p))
}

func (b *Bot) buildRequest(msg *tgbotapi.Message) (detection.Request, error) {
	req := detection.Request{Text: msg.Text}
	if msg.Caption != "" {
		req.Text = msg.Caption
	}

	var fileID, filename string
	switch {
	case len(msg.Photo) > 0:
		// Telegram lists photo sizes smallest first and serves them as JPEG
		ph := msg.Photo[len(msg.Photo)-1]
		fileID, filename = ph.FileID, ph.FileUniqueID+".jpg"
	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/"):
		fileID, filename = msg.Document.FileID, filepath.Base(msg.Document.FileName)
	default:
		return req, nil
	}

	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return req, fmt.Errorf("failed to resolve file: %w", err)
	}
	data, err := b.download(url)
	if err != nil {
		return req, err
	}
	req.Image = data
	req.Filename = filename
	return req, nil
}

func (b *Bot) download(url string) ([]byte, error) {
	resp, err := b.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > maxPhotoSize {
		return nil, fmt.Errorf("file too large (max 10MB)")
	}
	return data, nil
}

func (b *Bot) reply(to *tgbotapi.Message, text string) {
	m := tgbotapi.NewMessage(to.Chat.ID, text)
	m.ReplyToMessageID = to.MessageID
	if _, err := b.api.Send(m); err != nil {
		slog.Error("Failed to send Telegram reply", "chat_id", to.Chat.ID, "err", err)
	}
}

func formatReply(p *models.Prediction) string {
	if p.Verdict == string(classifier.Error) {
		return "Error: " + p.Reason
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Verdict: %s\n\nProcessed text:\n%s", p.Verdict, p.Text)
	if p.TranslationFallback {
		sb.WriteString("\n\n(translation unavailable, original text was used)")
	}
	return sb.String()
}
