package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/config"
)

const telegramAPIBase = "https://api.telegram.org"

// Notifier is the outbound alert contract consumed by the notification
// service. Implementations must be fire-and-forget safe: errors are for
// logging only and never propagate to the triggering operation.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// TelegramGateway posts Markdown messages to a Telegram bot chat.
type TelegramGateway struct {
	cfg     config.TelegramConfig
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewTelegramGateway builds the gateway. When the bot token or chat id is
// missing the gateway stays constructed but every Send is a silent no-op.
func NewTelegramGateway(cfg config.TelegramConfig, logger *zap.Logger) *TelegramGateway {
	return &TelegramGateway{
		cfg:     cfg,
		baseURL: telegramAPIBase,
		client:  &http.Client{Timeout: cfg.Timeout()},
		logger:  logger,
	}
}

// Enabled reports whether outbound alerts are configured.
func (g *TelegramGateway) Enabled() bool {
	return g.cfg.Enabled()
}

// Send posts a sendMessage call with the configured chat id and Markdown
// parse mode. The short client timeout bounds how long any caller can be
// held up; callers are expected to ignore the returned error.
func (g *TelegramGateway) Send(ctx context.Context, text string) error {
	if !g.Enabled() {
		return nil
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", g.baseURL, g.cfg.BotToken)
	form := url.Values{
		"chat_id":    {g.cfg.ChatID},
		"text":       {text},
		"parse_mode": {"Markdown"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("telegram send failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("telegram send rejected", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("telegram responded with status %d", resp.StatusCode)
	}
	return nil
}

// WithBaseURL overrides the API host, used by tests.
func (g *TelegramGateway) WithBaseURL(base string) *TelegramGateway {
	g.baseURL = strings.TrimSuffix(base, "/")
	return g
}
