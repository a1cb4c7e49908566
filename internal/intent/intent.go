// Package intent maps raw user text to a structured intent. Classification
// is a small fixed rule set applied in a fixed order; it is deliberately not
// a general NLU engine. Anything the rules cannot place resolves to Unknown.
package intent

// Kind discriminates the closed set of intents.
type Kind string

const (
	KindShowProjects          Kind = "SHOW_PROJECTS"
	KindShowCV                Kind = "SHOW_CV"
	KindShowAnyProjects       Kind = "SHOW_ANY_PROJECTS"
	KindGoBack                Kind = "GO_BACK"
	KindLoopTimeline          Kind = "LOOP_TIMELINE"
	KindShowLanguageSelection Kind = "SHOW_LANGUAGE_SELECTION"
	KindSetLanguageEN         Kind = "SET_LANGUAGE_EN"
	KindSetLanguageDE         Kind = "SET_LANGUAGE_DE"
	KindUnknown               Kind = "UNKNOWN"
)

// Intent is the classified meaning of a user utterance, independent of how
// the interface responds to it.
type Intent struct {
	Kind Kind

	// Tech is set for SHOW_PROJECTS when a technology filter was detected.
	Tech string

	// Reason is set for UNKNOWN and explains why classification failed.
	Reason string
}

// ShowProjects builds a SHOW_PROJECTS intent with an optional tech filter.
func ShowProjects(tech string) Intent { return Intent{Kind: KindShowProjects, Tech: tech} }

// Unknown builds an UNKNOWN intent with a diagnostic reason.
func Unknown(reason string) Intent { return Intent{Kind: KindUnknown, Reason: reason} }
