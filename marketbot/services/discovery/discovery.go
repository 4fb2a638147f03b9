// marketbot/services/discovery/discovery.go
package discovery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"marketbot/marketbot/config"
	"marketbot/marketbot/services/browser"
	"marketbot/marketbot/utils/types"
)

var chatIDRegex = regexp.MustCompile(`/t/([^/?#]+)`)

// Scanner enumerates the visible conversation entries in the chat list.
type Scanner struct {
	page browser.Page
	sel  config.Selectors
}

func NewScanner(page browser.Page, sel config.Selectors) *Scanner {
	return &Scanner{page: page, sel: sel}
}

// ScanConversations returns up to max chat-list entries in display order.
// The scan is a snapshot: any list re-render invalidates the ids' positions,
// so callers should use the result immediately. Entries without an
// extractable id are dropped.
func (s *Scanner) ScanConversations(max int) ([]types.ConversationSummary, error) {
	html, err := s.page.HTML("body")
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + html + "</body>"))
	if err != nil {
		return nil, err
	}
	return s.scan(doc, max), nil
}

func (s *Scanner) scan(doc *goquery.Document, max int) []types.ConversationSummary {
	// Prefer the Marketplace navigation panel; fall back to the whole page
	// when the marker span is missing (collapsed sidebar, changed markup).
	container := doc.Selection
	doc.Find(s.sel.NavMarker).EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if strings.TrimSpace(span.Text()) != "Marketplace" {
			return true
		}
		if panel := span.Closest(s.sel.NavRegion); panel.Length() > 0 {
			container = panel
		}
		return false
	})

	var chats []types.ConversationSummary
	container.Find(s.sel.ChatLinks).EachWithBreak(func(i int, link *goquery.Selection) bool {
		if max > 0 && len(chats) >= max {
			return false
		}
		href, _ := link.Attr("href")
		m := chatIDRegex.FindStringSubmatch(href)
		if m == nil {
			return true
		}

		title := strings.TrimSpace(link.AttrOr("aria-label", ""))
		if title == "" {
			title = strings.TrimSpace(link.Text())
		}

		chats = append(chats, types.ConversationSummary{
			ID:     m[1],
			Title:  title,
			Unread: s.isUnread(link, title),
		})
		return true
	})
	return chats
}

// isUnread combines the visual dot marker with the accessibility-label
// heuristic. When both signals are absent the chat counts as read; there is
// no third signal to consult.
func (s *Scanner) isUnread(link *goquery.Selection, title string) bool {
	row := link.Closest(s.sel.ChatRow)
	if row.Length() == 0 {
		row = link
	}
	if row.Find(s.sel.UnreadBadge).Length() > 0 {
		return true
	}
	if s.sel.UnreadDot != "" && row.Find(s.sel.UnreadDot).Length() > 0 {
		return true
	}
	lower := strings.ToLower(title)
	return strings.HasSuffix(lower, "unread") || strings.HasSuffix(lower, "no leído")
}
