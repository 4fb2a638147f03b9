// marketbot/controllers/settings.go
package controllers

import (
	"context"
	"strconv"

	"marketbot/marketbot/config"
	"marketbot/marketbot/services/replyservice"
	"marketbot/marketbot/sources/psql/dao"
	"marketbot/marketbot/utils/types"
)

type SettingsController struct {
	settings *dao.SettingDAO
	cfg      config.Config
}

func NewSettingsController(settings *dao.SettingDAO, cfg config.Config) *SettingsController {
	return &SettingsController{settings: settings, cfg: cfg}
}

func (c *SettingsController) Get(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"webhook_url": c.settings.GetString(ctx, replyservice.WebhookURLKey, c.cfg.WebhookURL),
		"scan_limit":  c.settings.GetNumber(ctx, dao.KeyScanLimit, dao.DefaultScanLimit),
		"chat_limit":  c.settings.GetNumber(ctx, dao.KeyChatLimit, dao.DefaultChatLimit),
	}
}

func (c *SettingsController) Update(ctx context.Context, req types.SettingsUpdateRequest) error {
	if req.WebhookURL != nil {
		if err := c.settings.Set(ctx, replyservice.WebhookURLKey, *req.WebhookURL); err != nil {
			return err
		}
	}
	if req.ScanLimit != nil {
		if err := c.settings.Set(ctx, dao.KeyScanLimit, strconv.Itoa(*req.ScanLimit)); err != nil {
			return err
		}
	}
	if req.ChatLimit != nil {
		if err := c.settings.Set(ctx, dao.KeyChatLimit, strconv.Itoa(*req.ChatLimit)); err != nil {
			return err
		}
	}
	return nil
}
