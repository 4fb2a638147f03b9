// marketbot/services/classifier/classifier.go
package classifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"marketbot/marketbot/config"
	"marketbot/marketbot/services/browser"
	"marketbot/marketbot/utils/logging"
	"marketbot/marketbot/utils/types"

	"go.uber.org/zap"
)

const (
	DefaultMessageLimit = 10
	scrollAttempts      = 5
	scrollSettle        = 400 * time.Millisecond
)

// Extractor reads the open conversation and turns its visible bubbles into
// an ordered, denoised message history.
type Extractor struct {
	page browser.Page
	sel  config.Selectors
}

func NewExtractor(page browser.Page, sel config.Selectors) *Extractor {
	return &Extractor{page: page, sel: sel}
}

// ChatTitle resolves the open conversation's display title, trying the
// header link's accessible label first.
func (e *Extractor) ChatTitle() string {
	if title, err := e.page.Attr(e.sel.HeaderTitleLink, "aria-label"); err == nil && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	if title, err := e.page.Text(e.sel.HeaderTitleSpan); err == nil && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	if v, err := e.page.Eval("document.title"); err == nil {
		if title, ok := v.(string); ok {
			return strings.TrimSpace(title)
		}
	}
	return ""
}

// ExtractMessages returns the last limit surviving messages of the open
// conversation, oldest first. Any missing container or empty result yields
// an empty slice, never an error: the caller treats that as a skippable
// chat, not a crash.
func (e *Extractor) ExtractMessages(limit int) []types.Message {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}

	container := e.containerSelector()
	if container == "" {
		logging.BotLogger.Info("message container not found, returning no messages")
		return nil
	}

	e.scrollToTop(container)

	htmlContent, err := e.page.HTML(container)
	if err != nil {
		logging.ErrorLogger.Error("failed to read conversation markup", zap.Error(err))
		return nil
	}
	return Classify(htmlContent, e.ChatTitle(), limit, e.sel)
}

func (e *Extractor) containerSelector() string {
	if e.page.Exists(e.sel.MessageContainer) {
		return e.sel.MessageContainer
	}
	for _, fallback := range e.sel.ContainerFallbacks {
		if e.page.Exists(fallback) {
			return fallback
		}
	}
	return ""
}

// scrollToTop nudges the container to its top a few times to trigger
// lazy-loading of older messages, stopping early once the scrollable height
// stops growing.
func (e *Extractor) scrollToTop(container string) {
	heightExpr := fmt.Sprintf(`(() => { const el = document.querySelector(%q); return el ? el.scrollHeight : 0; })()`, container)
	scrollExpr := fmt.Sprintf(`(() => { const el = document.querySelector(%q); if (el) el.scrollTop = 0; })()`, container)

	for i := 0; i < scrollAttempts; i++ {
		before := e.evalInt(heightExpr)
		if _, err := e.page.Eval(scrollExpr); err != nil {
			return
		}
		time.Sleep(scrollSettle)
		after := e.evalInt(heightExpr)
		if after <= before {
			return
		}
	}
}

func (e *Extractor) evalInt(expr string) int {
	v, err := e.page.Eval(expr)
	if err != nil {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

// Classify parses the conversation container markup and produces the last
// limit messages. chatTitle supplies the counterpart's display name used for
// sender detection and prefix stripping. Pure function so tests can feed it
// synthetic markup directly.
func Classify(containerHTML, chatTitle string, limit int, sel config.Selectors) []types.Message {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<div id=\"__root\">" + containerHTML + "</div>"))
	if err != nil {
		return nil
	}

	buyerName := leadingName(chatTitle)

	groups := doc.Find(sel.MessageGroup)
	if groups.Length() == 0 {
		groups = doc.Find(sel.MessageRow)
	}

	var messages []types.Message
	groups.Each(func(_ int, group *goquery.Selection) {
		sender, ok := classifyBubble(group, buyerName, sel)
		if !ok {
			// No recognizable sender signal: drop the whole bubble. Losing a
			// real message here is preferred over attributing it wrongly.
			return
		}

		first := true
		group.Find(sel.TextSpan).Each(func(_ int, span *goquery.Selection) {
			text := strings.TrimSpace(nodeText(span))
			if first {
				text = stripLeadingSender(text, buyerName)
				first = false
			}
			if isNoise(text) {
				return
			}
			if buyerName != "" && strings.EqualFold(text, buyerName) {
				return
			}
			messages = append(messages, types.Message{Text: text, Sender: sender})
		})
	})

	// Cut the system preamble: keep from the "started this chat" marker on.
	for i, m := range messages {
		if chatStartedRegex.MatchString(m.Text) {
			messages = messages[i:]
			break
		}
	}

	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages
}

// classifyBubble decides who sent a bubble. Order matters: the explicit
// self-sent text marker wins, then the counterpart's name as leading token,
// then the outgoing-message attribute.
func classifyBubble(group *goquery.Selection, buyerName string, sel config.Selectors) (types.Sender, bool) {
	text := strings.TrimSpace(nodeText(group))
	if selfSentRegex.MatchString(text) {
		return types.SenderSeller, true
	}
	if buyerName != "" && strings.HasPrefix(strings.ToLower(text), strings.ToLower(buyerName)) {
		return types.SenderBuyer, true
	}
	if group.Find(sel.OutgoingMarker).Length() > 0 {
		return types.SenderSeller, true
	}
	return types.SenderUnknown, false
}

func stripLeadingSender(text, buyerName string) string {
	text = strings.TrimSpace(selfPrefixRegex.ReplaceAllString(text, ""))
	if buyerName != "" {
		lower := strings.ToLower(text)
		prefix := strings.ToLower(buyerName)
		if strings.HasPrefix(lower, prefix) {
			text = strings.TrimSpace(strings.TrimLeft(text[len(buyerName):], ":· "))
		}
	}
	return text
}

// leadingName takes the first token of a chat title like
// "Maria · Bicicleta montaña".
func leadingName(title string) string {
	for _, r := range []string{"·", "-"} {
		if i := strings.Index(title, r); i >= 0 {
			title = title[:i]
		}
	}
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// nodeText walks the selection's nodes collecting text content, skipping
// script/style subtrees.
func nodeText(s *goquery.Selection) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return sb.String()
}
