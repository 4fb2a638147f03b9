// marketbot/utils/types/settings.go
package types

// SettingsUpdateRequest carries partial updates; nil fields are untouched.
type SettingsUpdateRequest struct {
	WebhookURL *string `json:"webhook_url,omitempty"`
	ScanLimit  *int    `json:"scan_limit,omitempty"`
	ChatLimit  *int    `json:"chat_limit,omitempty"`
}

// CycleRequest starts a bulk run over the top of the chat list.
type CycleRequest struct {
	Chats int `json:"chats,omitempty"` // 0: use the configured chat limit
}

// RunStatus is the control API's view of the engine.
type RunStatus struct {
	Cycling             bool  `json:"cycling"`
	ProcessingSingle    bool  `json:"processing_single"`
	AutoResponderActive bool  `json:"auto_responder_active"`
	MessagesProcessed   int64 `json:"messages_processed"`
}
