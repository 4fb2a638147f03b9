// marketbot/services/delivery/delivery.go
package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"marketbot/marketbot/config"
	"marketbot/marketbot/services/browser"
	"marketbot/marketbot/services/imagerelay"
	"marketbot/marketbot/utils/logging"
	"marketbot/marketbot/utils/wait"
)

const (
	composerSettle = 500 * time.Millisecond
	previewTimeout = 4 * time.Second
	pollInterval   = 100 * time.Millisecond
)

// Agent writes replies into the open conversation's composer by simulating
// the minimum input the host UI needs to consider the content sent. It has
// no memory: calling it twice sends twice.
type Agent struct {
	page      browser.Page
	sel       config.Selectors
	relay     *imagerelay.Relay
	cancelled func() bool
}

func NewAgent(page browser.Page, sel config.Selectors, relay *imagerelay.Relay, cancelled func() bool) *Agent {
	if cancelled == nil {
		cancelled = func() bool { return false }
	}
	return &Agent{page: page, sel: sel, relay: relay, cancelled: cancelled}
}

// SendText types text into the composer and submits it. Line breaks inside
// text are produced with Shift+Enter: the composer treats a bare Enter as
// submit, so a multi-line reply has to be keyed the way a person would do
// it. Returns false when the composer is missing or a cancellation was
// observed before the submit went out.
func (a *Agent) SendText(text string) bool {
	if a.cancelled() {
		return false
	}
	if err := a.page.Focus(a.sel.Composer); err != nil {
		logging.BotLogger.Info("composer not focusable", zap.Error(err))
		return false
	}

	// Clear whatever a previous (possibly cancelled) run left behind.
	a.page.Press(a.sel.Composer, "ControlOrMeta+a")
	a.page.Press(a.sel.Composer, "Delete")

	for i, line := range strings.Split(text, "\n") {
		if a.cancelled() {
			return false
		}
		if i > 0 {
			if err := a.page.Press(a.sel.Composer, "Shift+Enter"); err != nil {
				return false
			}
		}
		if line == "" {
			continue
		}
		if err := a.page.TypeText(a.sel.Composer, line); err != nil {
			logging.BotLogger.Info("typing into composer failed", zap.Error(err))
			return false
		}
	}

	// Nudge the host's internal state in case the keystrokes alone did not
	// register the change.
	a.dispatchInputEvent()

	time.Sleep(composerSettle)
	if a.cancelled() {
		return false
	}
	if err := a.page.Press(a.sel.Composer, "Enter"); err != nil {
		return false
	}
	return true
}

// SendImage resolves url to bytes through the relay, attaches it via the
// hidden file input and submits. Returns false when the input or the
// attachment preview never materializes.
func (a *Agent) SendImage(ctx context.Context, url string) bool {
	if a.cancelled() {
		return false
	}
	data, mime, err := a.relay.Fetch(ctx, url)
	if err != nil {
		logging.BotLogger.Info("image fetch failed", zap.String("url", url), zap.Error(err))
		return false
	}

	if !a.page.Exists(a.sel.FileInput) {
		// The input is usually hidden until the attach control is clicked.
		if err := a.page.Click(a.sel.AttachButton); err != nil {
			logging.BotLogger.Info("attach control not clickable", zap.Error(err))
		}
		if !wait.Until(func() bool { return a.page.Exists(a.sel.FileInput) }, pollInterval, 2*time.Second) {
			return false
		}
	}

	if a.cancelled() {
		return false
	}
	upload := browser.FileUpload{Name: "reply" + extensionFor(mime), MimeType: mime, Data: data}
	if err := a.page.SetFiles(a.sel.FileInput, upload); err != nil {
		logging.BotLogger.Info("file selection failed", zap.Error(err))
		return false
	}
	a.dispatchChangeEvent()

	if !wait.Until(func() bool { return a.page.Exists(a.sel.AttachmentPreview) }, pollInterval, previewTimeout) {
		logging.BotLogger.Info("attachment preview never appeared", zap.String("url", url))
		return false
	}

	if a.cancelled() {
		return false
	}
	if err := a.page.Press(a.sel.Composer, "Enter"); err != nil {
		return false
	}
	return true
}

// ClearComposer wipes any half-typed reply; used when a run is cancelled so
// the conversation is not left with a draft.
func (a *Agent) ClearComposer() {
	if err := a.page.Focus(a.sel.Composer); err != nil {
		return
	}
	a.page.Press(a.sel.Composer, "ControlOrMeta+a")
	a.page.Press(a.sel.Composer, "Delete")
}

func (a *Agent) dispatchInputEvent() {
	expr := fmt.Sprintf(`(() => { const el = document.querySelector(%q); if (el) { el.dispatchEvent(new InputEvent('input', { bubbles: true })); } })()`, a.sel.Composer)
	a.page.Eval(expr)
}

func (a *Agent) dispatchChangeEvent() {
	expr := fmt.Sprintf(`(() => { const el = document.querySelector(%q); if (el) { el.dispatchEvent(new Event('change', { bubbles: true })); } })()`, a.sel.FileInput)
	a.page.Eval(expr)
}

func extensionFor(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ".img"
}
