// marketbot/controllers/bot.go
package controllers

import (
	"context"

	"go.uber.org/zap"

	"marketbot/marketbot/bot"
	"marketbot/marketbot/sources/psql/dao"
	"marketbot/marketbot/utils/logging"
	"marketbot/marketbot/utils/types"
)

type BotController struct {
	engine   *bot.Engine
	watcher  *bot.Watcher
	settings *dao.SettingDAO
	replyLog *dao.ReplyLogDAO
}

func NewBotController(engine *bot.Engine, watcher *bot.Watcher, settings *dao.SettingDAO, replyLog *dao.ReplyLogDAO) *BotController {
	return &BotController{engine: engine, watcher: watcher, settings: settings, replyLog: replyLog}
}

// StartCycle kicks off a bulk run in the background. A run already in
// progress is rejected immediately; the engine re-checks its own guard so a
// racing second caller still cannot start a concurrent traversal.
func (c *BotController) StartCycle(ctx context.Context, chats int) error {
	state := c.engine.State()
	if state.IsCycling() || state.IsProcessingSingle() {
		return bot.ErrRunInProgress
	}
	go func() {
		if err := c.engine.CycleChats(context.Background(), chats); err != nil {
			logging.ErrorLogger.Error("bulk run failed to start", zap.Error(err))
		}
	}()
	return nil
}

// StartUnread kicks off an unread-only run in the background.
func (c *BotController) StartUnread(ctx context.Context) error {
	state := c.engine.State()
	if state.IsCycling() || state.IsProcessingSingle() {
		return bot.ErrRunInProgress
	}
	go func() {
		if err := c.engine.ProcessUnread(context.Background()); err != nil {
			logging.ErrorLogger.Error("unread run failed to start", zap.Error(err))
		}
	}()
	return nil
}

// ProcessOne synchronously claims and processes exactly one unread chat.
func (c *BotController) ProcessOne(ctx context.Context) (bool, string, error) {
	return c.engine.ProcessOldestUnread(ctx)
}

// CancelRun flips the cooperative cancellation flag.
func (c *BotController) CancelRun() {
	c.engine.Cancel()
}

// ToggleAutoResponder flips the persisted toggle and starts or stops the
// watcher accordingly. Returns the new state.
func (c *BotController) ToggleAutoResponder(ctx context.Context) (bool, error) {
	active := c.settings.GetBool(ctx, dao.KeyAutoResponder, false)
	active = !active
	value := "false"
	if active {
		value = "true"
	}
	if err := c.settings.Set(ctx, dao.KeyAutoResponder, value); err != nil {
		return false, err
	}
	if active {
		c.watcher.Start(context.Background())
	} else {
		c.watcher.Stop()
	}
	return active, nil
}

func (c *BotController) Status(ctx context.Context) (types.RunStatus, error) {
	count, err := c.replyLog.Count(ctx)
	if err != nil {
		return types.RunStatus{}, err
	}
	state := c.engine.State()
	return types.RunStatus{
		Cycling:             state.IsCycling(),
		ProcessingSingle:    state.IsProcessingSingle(),
		AutoResponderActive: c.settings.GetBool(ctx, dao.KeyAutoResponder, false),
		MessagesProcessed:   count,
	}, nil
}

// RecentReplies lists the latest delivered replies for the activity feed.
func (c *BotController) RecentReplies(ctx context.Context, limit int) (interface{}, error) {
	return c.replyLog.Recent(ctx, limit)
}
