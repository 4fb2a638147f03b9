// marketbot/services/replyservice/client.go
package replyservice

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	httputils "marketbot/marketbot/utils/http"
	"marketbot/marketbot/utils/logging"
	"marketbot/marketbot/utils/types"
)

// Settings is the slice of the settings store the gateway needs.
type Settings interface {
	GetString(ctx context.Context, key, fallback string) string
}

const WebhookURLKey = "webhookUrl"

// Client posts conversation context to the reply webhook and normalizes
// whatever shape comes back. It never returns an error to the caller: a
// failed request becomes one synthetic text item describing the failure,
// and a cancelled request becomes an empty list (nothing to deliver).
type Client struct {
	settings    Settings // nil means always use fallbackURL
	fallbackURL string
}

func NewClient(settings Settings, fallbackURL string) *Client {
	return &Client{settings: settings, fallbackURL: fallbackURL}
}

func (c *Client) endpoint(ctx context.Context) string {
	if c.settings == nil {
		return c.fallbackURL
	}
	return c.settings.GetString(ctx, WebhookURLKey, c.fallbackURL)
}

// RequestReply sends convo to the webhook and returns the ordered reply
// items. There is deliberately no retry: one failed request yields exactly
// one synthetic error reply.
func (c *Client) RequestReply(ctx context.Context, convo types.ConversationContext) []types.ReplyItem {
	defer logging.LogDuration(ctx, "reply_webhook_request")()

	url := c.endpoint(ctx)
	body, status, err := httputils.PostJSONContext(ctx, url, convo)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled mid-flight: nothing to deliver, not an error message.
			logging.BotLogger.Info("reply request cancelled", zap.String("chat_id", convo.ChatID))
			return nil
		}
		logging.ErrorLogger.Error("reply webhook unreachable", zap.String("url", url), zap.Error(err))
		return []types.ReplyItem{{Kind: types.ReplyKindText,
			Content: "No se pudo generar una respuesta automática en este momento."}}
	}
	if status < 200 || status >= 300 {
		logging.ErrorLogger.Error("reply webhook bad status", zap.String("url", url), zap.Int("status", status))
		return []types.ReplyItem{{Kind: types.ReplyKindText,
			Content: fmt.Sprintf("No se pudo generar una respuesta automática (estado %d).", status)}}
	}

	return Normalize(body)
}
