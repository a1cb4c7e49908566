package dispatch

import (
	"voxfolio/internal/session"
)

// msgKey names a canned interface message. These are the dispatcher's own
// fallback texts; anything conversational comes from the narration service.
type msgKey int

const (
	msgStopped msgKey = iota
	msgClarify
	msgNoTimeline
	msgLanguageEN
	msgLanguageDE
	msgPickLanguage
)

var messagesEN = map[msgKey]string{
	msgStopped:      "Okay, stopping.",
	msgClarify:      "I didn't catch that. Try \"show me your projects\" or \"show your cv\".",
	msgNoTimeline:   "There is no timeline on this screen. Say \"show your cv\" first.",
	msgLanguageEN:   "Switched to English.",
	msgLanguageDE:   "Alles klar, ab jetzt auf Deutsch.",
	msgPickLanguage: "Which language would you like?",
}

var messagesDE = map[msgKey]string{
	msgStopped:      "Okay, ich höre auf.",
	msgClarify:      "Das habe ich nicht verstanden. Versuch \"zeig mir deine Projekte\" oder \"zeig deinen Lebenslauf\".",
	msgNoTimeline:   "Auf diesem Bildschirm gibt es keine Zeitleiste. Sag zuerst \"zeig deinen Lebenslauf\".",
	msgLanguageEN:   "Switched to English.",
	msgLanguageDE:   "Alles klar, ab jetzt auf Deutsch.",
	msgPickLanguage: "Welche Sprache möchtest du?",
}

// message resolves key in the given interface language. Unknown languages
// fall back to English.
func message(lang session.Language, key msgKey) string {
	if lang == session.LanguageDE {
		if s, ok := messagesDE[key]; ok {
			return s
		}
	}
	return messagesEN[key]
}
