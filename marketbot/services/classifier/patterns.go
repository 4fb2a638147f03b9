// marketbot/services/classifier/patterns.go
//
// Noise patterns for the chat transcript. The host UI interleaves real
// messages with timestamps, delivery labels and quick-reply chips, in
// whichever locale the operator's account uses, so both the English and
// Spanish variants observed in the wild are matched.
package classifier

import "regexp"

var (
	// "3:41 pm", "14:05"
	timeRegex = regexp.MustCompile(`(?i)^\d{1,2}:\d{2}(?:\s?[ap]m)?$`)
	// "12 ene 2025, 14:05" / "12 jan 2025 14:05"
	dateTimeRegex = regexp.MustCompile(`(?i)\d{1,2}\s(?:ene|feb|mar|abr|may|jun|jul|ago|sep|oct|nov|dic|jan|apr|aug|dec)\w*\s\d{4},?\s\d{1,2}:\d{2}`)
	// "12/01/25, 2:05 pm"
	numericDateRegex = regexp.MustCompile(`(?i)^\d{1,2}/\d{1,2}/\d{2,4},?\s?\d{1,2}:\d{2}(?:\s?[ap]m)?$`)
	// "enviado hace 3 min" / "sent 3m ago"
	relativeTimeRegex = regexp.MustCompile(`(?i)^(?:enviado hace\s?\d+|sent\s\d+\w*\sago)`)

	awaitingResponseRegex = regexp.MustCompile(`(?i)(?:está esperando tu respuesta|awaiting your response|is waiting for your response)`)
	viewListingRegex      = regexp.MustCompile(`(?i)(?:ver publicación|view listing|view post)`)
	messageSentRegex      = regexp.MustCompile(`(?i)message sent`)
	sentLabelRegex        = regexp.MustCompile(`(?i)^(?:enviado|enviaste|you sent|sent)$`)
	quickReplyRegex       = regexp.MustCompile(`(?i)^(?:quick replies|respuestas rápidas|press enter to send|presiona enter para enviar)$`)

	// Marks the system preamble boundary; everything before it is noise.
	chatStartedRegex = regexp.MustCompile(`(?i)(?:inició este chat|started this chat)`)

	// Self-sent bubble markers.
	selfSentRegex = regexp.MustCompile(`(?i)(?:^|\b)(?:enviaste|you sent)\b`)

	// Prefix stripped from the first text span of a kept bubble.
	selfPrefixRegex = regexp.MustCompile(`(?i)^(?:enviaste|you sent)[:\s]*`)
)

// isNoise reports whether a span's text is UI boilerplate rather than an
// actual message.
func isNoise(text string) bool {
	switch {
	case text == "":
		return true
	case text == "Enter":
		return true
	case timeRegex.MatchString(text):
		return true
	case dateTimeRegex.MatchString(text):
		return true
	case numericDateRegex.MatchString(text):
		return true
	case relativeTimeRegex.MatchString(text):
		return true
	case awaitingResponseRegex.MatchString(text):
		return true
	case viewListingRegex.MatchString(text):
		return true
	case messageSentRegex.MatchString(text):
		return true
	case sentLabelRegex.MatchString(text):
		return true
	case quickReplyRegex.MatchString(text):
		return true
	}
	return false
}
