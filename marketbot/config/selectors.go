// marketbot/config/selectors.go
//
// The host page ships no stable API; every selector below is a guess that the
// site can invalidate on any deploy, so the whole set can be overridden from
// a YAML file without recompiling.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Selectors struct {
	// Chat list
	NavRegion   string `yaml:"nav_region"`
	NavMarker   string `yaml:"nav_marker"`
	ChatLinks   string `yaml:"chat_links"`
	ChatRow     string `yaml:"chat_row"`
	UnreadBadge string `yaml:"unread_badge"`
	UnreadDot   string `yaml:"unread_dot"`

	// Open conversation
	Header           string `yaml:"header"`
	HeaderTitleLink  string `yaml:"header_title_link"`
	HeaderTitleSpan  string `yaml:"header_title_span"`
	MessageContainer string `yaml:"message_container"`
	// Fallbacks tried in order when MessageContainer matches nothing.
	ContainerFallbacks []string `yaml:"container_fallbacks"`
	MessageGroup       string   `yaml:"message_group"`
	MessageRow         string   `yaml:"message_row"`
	TextSpan           string   `yaml:"text_span"`
	OutgoingMarker     string   `yaml:"outgoing_marker"`

	// Composer
	Composer          string `yaml:"composer"`
	AttachButton      string `yaml:"attach_button"`
	FileInput         string `yaml:"file_input"`
	AttachmentPreview string `yaml:"attachment_preview"`
}

// DefaultSelectors matches the markup observed on messenger.com/marketplace.
func DefaultSelectors() Selectors {
	return Selectors{
		NavRegion:   `div[role="navigation"]`,
		NavMarker:   `span[dir="auto"]`,
		ChatLinks:   `a[role="link"][href*="/t/"]`,
		ChatRow:     `[role="row"], li`,
		UnreadBadge: `[aria-label*="unread" i], [aria-label*="nuevo" i], [aria-label*="new message" i]`,
		UnreadDot:   `div[data-visualcompletion="ignore"] > span`,

		Header:          `header[role="banner"]`,
		HeaderTitleLink: `header[role="banner"] a[role="link"][href*="/t/"][aria-label]`,
		HeaderTitleSpan: `h2 span[dir="auto"]`,

		MessageContainer: `div[data-pagelet][role="main"]`,
		ContainerFallbacks: []string{
			`[data-testid="messenger_list_view"]`,
			`body`,
		},
		MessageGroup:   `div[data-testid="message-group"]`,
		MessageRow:     `div[role="row"]`,
		TextSpan:       `span[dir="auto"]`,
		OutgoingMarker: `[data-testid="outgoing_message"]`,

		Composer:          `div[role="textbox"][contenteditable="true"]`,
		AttachButton:      `div[aria-label*="attach" i], div[aria-label*="adjuntar" i]`,
		FileInput:         `input[type="file"]`,
		AttachmentPreview: `div[aria-label*="remove attachment" i], div[aria-label*="eliminar" i], img[alt*="preview" i]`,
	}
}

// LoadSelectors returns the defaults, overlaid with the YAML file at path
// when it is non-empty and readable. Unknown keys in the file are ignored,
// empty values keep their default.
func LoadSelectors(path string) (Selectors, error) {
	sel := DefaultSelectors()
	if path == "" {
		return sel, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return sel, err
	}
	var override Selectors
	if err := yaml.Unmarshal(data, &override); err != nil {
		return sel, err
	}
	merge(&sel, override)
	return sel, nil
}

func merge(dst *Selectors, src Selectors) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.NavRegion, src.NavRegion)
	set(&dst.NavMarker, src.NavMarker)
	set(&dst.ChatLinks, src.ChatLinks)
	set(&dst.ChatRow, src.ChatRow)
	set(&dst.UnreadBadge, src.UnreadBadge)
	set(&dst.UnreadDot, src.UnreadDot)
	set(&dst.Header, src.Header)
	set(&dst.HeaderTitleLink, src.HeaderTitleLink)
	set(&dst.HeaderTitleSpan, src.HeaderTitleSpan)
	set(&dst.MessageContainer, src.MessageContainer)
	if len(src.ContainerFallbacks) > 0 {
		dst.ContainerFallbacks = src.ContainerFallbacks
	}
	set(&dst.MessageGroup, src.MessageGroup)
	set(&dst.MessageRow, src.MessageRow)
	set(&dst.TextSpan, src.TextSpan)
	set(&dst.OutgoingMarker, src.OutgoingMarker)
	set(&dst.Composer, src.Composer)
	set(&dst.AttachButton, src.AttachButton)
	set(&dst.FileInput, src.FileInput)
	set(&dst.AttachmentPreview, src.AttachmentPreview)
}
