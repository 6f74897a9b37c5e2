package pipeline

import (
	"fmt"

	"emojitranslator/internal/domain"
)

// UnsupportedNotice is posted instead of a translation when the reacted
// message has no text to translate.
const UnsupportedNotice = "_Sorry, the language is not supported!_ :persevere:"

// FormatReply builds the threaded reply for a translation. An empty
// translation produces the unsupported notice.
func FormatReply(original domain.Message, channel, translation string, lang domain.LanguageCode, emoji string) domain.Reply {
	attribution := fmt.Sprintf("A translation of the original message to :%s: _(%s)_", emoji, lang)
	reply := domain.Reply{
		Channel:  channel,
		ThreadTS: original.ThreadRoot(),
		Context:  attribution,
	}
	if translation == "" {
		reply.Text = UnsupportedNotice
		reply.Body = UnsupportedNotice
		return reply
	}
	reply.Text = fmt.Sprintf("_Here is a translation to_ :%s: _(%s)_", emoji, lang)
	reply.Body = translation
	return reply
}
