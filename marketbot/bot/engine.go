// marketbot/bot/engine.go
package bot

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"marketbot/marketbot/sources/psql/dao"
	"marketbot/marketbot/utils/logging"
	"marketbot/marketbot/utils/types"
	"marketbot/marketbot/utils/wait"
)

// ErrRunInProgress is returned when a second traversal is started while one
// is active. The rejected call has no side effects.
var ErrRunInProgress = errors.New("another run is already in progress")

// Collaborator interfaces; production code wires the playwright-backed
// services, tests wire fakes.
type Discoverer interface {
	ScanConversations(max int) ([]types.ConversationSummary, error)
}

type Navigator interface {
	Open(id string) bool
}

type Extractor interface {
	ChatTitle() string
	ExtractMessages(limit int) []types.Message
}

type ReplyClient interface {
	RequestReply(ctx context.Context, convo types.ConversationContext) []types.ReplyItem
}

type Deliverer interface {
	SendText(text string) bool
	SendImage(ctx context.Context, url string) bool
	ClearComposer()
}

type SettingsStore interface {
	GetString(ctx context.Context, key, fallback string) string
	GetNumber(ctx context.Context, key string, fallback int) int
}

const (
	// Discovery over-fetches so unusable candidates don't starve a run.
	discoverySlack  = 10
	discoveryCap    = 50
	defaultMsgLimit = 10
)

// Engine sequences discovery, navigation, extraction, reply generation,
// preview and delivery over many chats, strictly one at a time.
type Engine struct {
	state     *RunState
	discovery Discoverer
	navigator Navigator
	extractor Extractor
	replies   ReplyClient
	delivery  Deliverer
	settings  SettingsStore
	replyLog  *dao.ReplyLogDAO // nil: deliveries are not persisted
	progress  Reporter

	previewWindow  time.Duration
	interChatDelay time.Duration
	interItemDelay time.Duration
}

func NewEngine(
	state *RunState,
	discovery Discoverer,
	navigator Navigator,
	extractor Extractor,
	replies ReplyClient,
	delivery Deliverer,
	settings SettingsStore,
	replyLog *dao.ReplyLogDAO,
	progress Reporter,
) *Engine {
	if progress == nil {
		progress = NopReporter()
	}
	return &Engine{
		state:     state,
		discovery: discovery,
		navigator: navigator,
		extractor: extractor,
		replies:   replies,
		delivery:  delivery,
		settings:  settings,
		replyLog:  replyLog,
		progress:  progress,

		previewWindow:  5 * time.Second,
		interChatDelay: 2 * time.Second,
		interItemDelay: 3 * time.Second,
	}
}

func (e *Engine) State() *RunState { return e.state }

// Cancel requests a cooperative stop of whatever run is active.
func (e *Engine) Cancel() { e.state.Cancel() }

// CycleChats processes up to requested conversations from the top of the
// chat list. requested <= 0 takes the configured chat limit. Per-chat
// failures are logged and skipped; only cancellation or list exhaustion
// ends the run.
func (e *Engine) CycleChats(ctx context.Context, requested int) error {
	if requested <= 0 {
		requested = e.getNumber(ctx, dao.KeyChatLimit, dao.DefaultChatLimit)
	}
	if !e.state.TryBeginCycle() {
		return ErrRunInProgress
	}
	defer e.state.EndCycle()

	runID := uuid.New().String()[:8]
	logging.BotLogger.Info("bulk run starting", zap.String("run_id", runID), zap.Int("requested", requested))

	buffer := requested + discoverySlack
	if buffer > discoveryCap {
		buffer = discoveryCap
	}
	chats, err := e.discovery.ScanConversations(buffer)
	if err != nil {
		logging.ErrorLogger.Error("chat discovery failed", zap.String("run_id", runID), zap.Error(err))
		e.progress.Report("failed", map[string]interface{}{"error": err.Error()}, 0)
		return err
	}
	if len(chats) > requested {
		chats = chats[:requested]
	}
	e.progress.Report("starting", map[string]interface{}{"total": len(chats)}, 0)

	e.runOver(ctx, runID, chats)
	return nil
}

// ProcessUnread runs the same per-chat pipeline over every currently-unread
// conversation, oldest-flagged first.
func (e *Engine) ProcessUnread(ctx context.Context) error {
	if !e.state.TryBeginCycle() {
		return ErrRunInProgress
	}
	defer e.state.EndCycle()

	runID := uuid.New().String()[:8]
	chats, err := e.discovery.ScanConversations(discoveryCap)
	if err != nil {
		logging.ErrorLogger.Error("chat discovery failed", zap.String("run_id", runID), zap.Error(err))
		return err
	}
	unread := filterUnread(chats)
	// Display order is newest first; flip it so the buyer waiting longest
	// gets answered first.
	reverse(unread)
	e.progress.Report("starting", map[string]interface{}{"total": len(unread), "mode": "unread"}, 0)

	e.runOver(ctx, runID, unread)
	return nil
}

// ProcessOldestUnread claims and processes exactly one unread chat. It has
// its own re-entrancy guard, independent of the loop guard, and reports
// whether anything was processed plus the chat's title.
func (e *Engine) ProcessOldestUnread(ctx context.Context) (bool, string, error) {
	if !e.state.TryBeginSingle() {
		return false, "", ErrRunInProgress
	}
	defer e.state.EndSingle()

	chats, err := e.discovery.ScanConversations(discoveryCap)
	if err != nil {
		return false, "", err
	}
	unread := filterUnread(chats)
	if len(unread) == 0 {
		return false, "", nil
	}
	oldest := unread[len(unread)-1]

	runID := uuid.New().String()[:8]
	e.progress.Report("starting", map[string]interface{}{"total": 1, "mode": "single-unread"}, 0)
	e.processChat(ctx, runID, oldest, 1, 1)

	if e.state.Cancelled() {
		e.delivery.ClearComposer()
	}
	e.progress.Report("completed", nil, 0)
	return !e.state.Cancelled(), oldest.Title, nil
}

// runOver drives the per-chat pipeline across candidates, with a
// cancellable pause between chats. On exit after a cancellation the
// composer is cleared so no draft is left behind.
func (e *Engine) runOver(ctx context.Context, runID string, candidates []types.ConversationSummary) {
	for i, chat := range candidates {
		if e.state.Cancelled() {
			break
		}
		e.processChat(ctx, runID, chat, i+1, len(candidates))

		if i < len(candidates)-1 {
			e.pauseWithCountdown(e.interChatDelay, "waiting", nil)
		}
	}

	if e.state.Cancelled() {
		e.delivery.ClearComposer()
		e.progress.Report("cancelled", nil, 0)
		logging.BotLogger.Info("run cancelled", zap.String("run_id", runID))
		return
	}
	e.progress.Report("completed", nil, 0)
	logging.BotLogger.Info("run completed", zap.String("run_id", runID))
}

// processChat runs one candidate through open -> extract -> reply ->
// preview -> deliver. Every failure is non-fatal for the run.
func (e *Engine) processChat(ctx context.Context, runID string, chat types.ConversationSummary, index, total int) {
	detail := map[string]interface{}{"chat": chat.Title, "index": index, "total": total}
	e.progress.Report("opening", detail, 0)

	if !e.navigator.Open(chat.ID) {
		logging.BotLogger.Info("skipping chat that never rendered",
			zap.String("run_id", runID), zap.String("chat_id", chat.ID))
		return
	}
	if e.state.Cancelled() {
		return
	}

	e.progress.Report("extracting", detail, 0)
	title := e.extractor.ChatTitle()
	if title == "" {
		title = chat.Title
	}
	msgLimit := e.getNumber(ctx, dao.KeyScanLimit, defaultMsgLimit)
	messages := e.extractor.ExtractMessages(msgLimit)
	if len(messages) == 0 {
		logging.BotLogger.Info("no usable messages extracted",
			zap.String("run_id", runID), zap.String("chat_id", chat.ID))
		return
	}

	clientName, listing := types.SplitTitle(title)
	convo := types.ConversationContext{
		ChatID:     chat.ID,
		ClientName: clientName,
		Listing:    listing,
		ChatName:   title,
		Messages:   messages,
	}

	e.progress.Report("requesting_reply", detail, 0)
	reqCtx, cancel := context.WithCancel(ctx)
	e.state.armAbort(cancel)
	items := e.replies.RequestReply(reqCtx, convo)
	e.state.disarmAbort()
	cancel()

	if e.state.Cancelled() || len(items) == 0 {
		return
	}

	// Preview window: the operator can still pull the plug before anything
	// is written into the conversation.
	previewDetail := map[string]interface{}{
		"chat":     chat.Title,
		"messages": messages,
		"replies":  items,
	}
	e.pauseWithCountdown(e.previewWindow, "preview", previewDetail)
	if e.state.Cancelled() {
		return
	}

	e.progress.Report("delivering", detail, 0)
	for j, item := range items {
		if e.state.Cancelled() {
			return
		}
		if j > 0 {
			e.pauseWithCountdown(e.interItemDelay, "delivering", detail)
			if e.state.Cancelled() {
				return
			}
		}
		e.deliverItem(ctx, runID, chat, title, item)
	}
}

func (e *Engine) deliverItem(ctx context.Context, runID string, chat types.ConversationSummary, title string, item types.ReplyItem) {
	var ok bool
	switch item.Kind {
	case types.ReplyKindImage:
		ok = e.delivery.SendImage(ctx, item.URL)
		if !ok {
			e.progress.Report("failed to send image reply", map[string]interface{}{"chat": chat.Title}, 0)
		}
	default:
		ok = e.delivery.SendText(item.Content)
		if !ok {
			e.progress.Report("failed to send text reply", map[string]interface{}{"chat": chat.Title}, 0)
		}
	}
	if !ok {
		logging.BotLogger.Info("reply delivery failed",
			zap.String("run_id", runID), zap.String("chat_id", chat.ID), zap.String("kind", item.Kind))
		return
	}

	if e.replyLog != nil {
		content := item.Content
		if item.Kind == types.ReplyKindImage {
			content = item.URL
		}
		if _, err := e.replyLog.Record(ctx, runID, chat.ID, title, item.Kind, content); err != nil {
			logging.ErrorLogger.Error("reply log write failed", zap.Error(err))
		}
	}
}

// pauseWithCountdown sleeps for d while reporting the remaining seconds and
// honoring cancellation within one tick.
func (e *Engine) pauseWithCountdown(d time.Duration, step string, detail map[string]interface{}) {
	wait.Pause(d, e.state.Cancelled, func(remaining time.Duration) {
		e.progress.Report(step, detail, int(remaining.Seconds())+1)
	})
}

func (e *Engine) getNumber(ctx context.Context, key string, fallback int) int {
	if e.settings == nil {
		return fallback
	}
	return e.settings.GetNumber(ctx, key, fallback)
}

func filterUnread(chats []types.ConversationSummary) []types.ConversationSummary {
	var unread []types.ConversationSummary
	for _, c := range chats {
		if c.Unread {
			unread = append(unread, c)
		}
	}
	return unread
}

func reverse(chats []types.ConversationSummary) {
	for i, j := 0, len(chats)-1; i < j; i, j = i+1, j-1 {
		chats[i], chats[j] = chats[j], chats[i]
	}
}
