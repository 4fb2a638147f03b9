// marketbot/utils/types/chat.go
package types

import "strings"

// Sender labels who wrote a message bubble.
type Sender string

const (
	SenderBuyer   Sender = "buyer"
	SenderSeller  Sender = "seller"
	SenderUnknown Sender = "unknown"
)

// ConversationSummary is one entry of the chat list at scan time.
// It goes stale as soon as the list re-renders; never persisted.
type ConversationSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Unread bool   `json:"unread"`
}

// Message is one cleaned-up chat message, oldest-first within a conversation.
type Message struct {
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

const (
	ReplyKindText  = "text"
	ReplyKindImage = "image"
)

// ReplyItem is one unit of reply content coming back from the webhook.
// Kind is either "text" (Content set) or "image" (URL set).
type ReplyItem struct {
	Kind    string `json:"type"`
	Content string `json:"content,omitempty"`
	URL     string `json:"url,omitempty"`
}

// ConversationContext is the payload posted to the reply webhook.
type ConversationContext struct {
	ChatID     string    `json:"chatId"`
	ClientName string    `json:"clientName"`
	Listing    string    `json:"listing"`
	ChatName   string    `json:"chatName"`
	Messages   []Message `json:"messages"`
}

// SplitTitle derives the client name and listing description from a chat
// title like "Maria · Bicicleta montaña". Listing falls back to the whole
// title when no separator is present.
func SplitTitle(title string) (clientName, listing string) {
	title = strings.TrimSpace(title)
	if i := strings.Index(title, "·"); i >= 0 {
		clientName = strings.TrimSpace(title[:i])
		listing = strings.TrimSpace(title[i+len("·"):])
	}
	if clientName == "" {
		parts := strings.Fields(title)
		if len(parts) > 0 {
			clientName = parts[0]
		}
	}
	if listing == "" {
		listing = title
	}
	return clientName, listing
}
