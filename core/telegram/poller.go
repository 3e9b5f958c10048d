package telegram

import (
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/finvik/finbot/core/config"
)

const defaultLongPollTimeout = 10 * time.Second

// BuildPoller selects the update poller from the normalized run mode:
// a webhook listener when configured, long polling otherwise.
func BuildPoller(cfg *coreconfig.Config) tele.Poller {
	if cfg.Telegram.RunMode == coreconfig.RunModeWebhook {
		return &tele.Webhook{
			Listen:   fmt.Sprintf("%s:%d", cfg.Webhook.Listen, cfg.Webhook.Port),
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}

	timeout := defaultLongPollTimeout
	if cfg.Telegram.LongPollTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Telegram.LongPollTimeoutSeconds) * time.Second
	}
	return &tele.LongPoller{Timeout: timeout}
}
