// marketbot/services/navigator/navigator.go
package navigator

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"marketbot/marketbot/config"
	"marketbot/marketbot/services/browser"
	"marketbot/marketbot/utils/logging"
	"marketbot/marketbot/utils/wait"
)

const (
	baseURL       = "https://www.messenger.com"
	renderTimeout = 5 * time.Second
	pollInterval  = 100 * time.Millisecond
	settleDelay   = 400 * time.Millisecond
)

// Navigator opens a conversation by id and waits until it looks rendered.
type Navigator struct {
	page browser.Page
	sel  config.Selectors
}

func New(page browser.Page, sel config.Selectors) *Navigator {
	return &Navigator{page: page, sel: sel}
}

// Open activates the chat-list link for id, or falls back to a full deep-link
// navigation when no matching link is on screen. It then waits for the header
// and at least one message bubble, plus a short settle delay for trailing
// re-renders. A false return means the conversation never finished rendering
// within the timeout; the opened chat's id is not re-verified afterwards.
func (n *Navigator) Open(id string) bool {
	linkSel := fmt.Sprintf(`a[role="link"][href*="/t/%s"]`, id)
	if n.page.Exists(linkSel) {
		if err := n.page.Click(linkSel); err != nil {
			logging.BotLogger.Info("chat link click failed, navigating directly",
				zap.String("chat_id", id), zap.Error(err))
			n.gotoDeepLink(id)
		}
	} else {
		n.gotoDeepLink(id)
	}

	if !wait.Until(func() bool { return n.page.Exists(n.sel.Header) }, pollInterval, renderTimeout) {
		logging.BotLogger.Info("conversation header never appeared", zap.String("chat_id", id))
		return false
	}
	bubbles := func() bool {
		return n.page.Exists(n.sel.MessageGroup) || n.page.Exists(n.sel.MessageRow)
	}
	if !wait.Until(bubbles, pollInterval, renderTimeout) {
		logging.BotLogger.Info("no message bubbles rendered", zap.String("chat_id", id))
		return false
	}

	time.Sleep(settleDelay)
	return true
}

func (n *Navigator) gotoDeepLink(id string) {
	if err := n.page.Goto(baseURL + "/t/" + id); err != nil {
		logging.ErrorLogger.Error("deep link navigation failed",
			zap.String("chat_id", id), zap.Error(err))
	}
}
