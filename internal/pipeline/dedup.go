package pipeline

import "emojitranslator/internal/domain"

// AlreadyTranslated reports whether the thread already holds a bot reply whose
// first content block is exactly candidate. Replies without a usable first
// block never match.
func AlreadyTranslated(thread []domain.Message, candidate string) bool {
	for _, m := range thread {
		if m.Kind() != domain.KindBotReply {
			continue
		}
		text, ok := m.FirstBlockText()
		if !ok {
			continue
		}
		if text == candidate {
			return true
		}
	}
	return false
}

// targetMessage picks the reacted message out of the fetched thread.
func targetMessage(thread []domain.Message, ts string) (domain.Message, bool) {
	for _, m := range thread {
		if m.Timestamp == ts {
			return m, true
		}
	}
	return domain.Message{}, false
}
