package intent

import (
	"strings"
)

// Classification order is fixed. Earlier rules win even when a later rule's
// keywords are also present, so "zeig mir die sprache" is a language request
// and never a projects request.
//
//  1. language selection keywords
//  2. explicit language set keywords
//  3. cv keywords
//  4. loop / walkthrough keywords
//  5. go-back keywords
//  6. tech-filtered "show projects"
//  7. "something else / next" keywords
//  8. unknown

var (
	languageSelectionWords = []string{"language", "languages", "sprache", "sprachen"}
	languageEnglishWords   = []string{"english", "englisch"}
	languageGermanWords    = []string{"german", "deutsch"}
	cvWords                = []string{"cv", "resume", "lebenslauf", "curriculum", "career", "werdegang", "experience"}
	loopPhrases            = []string{"walk me through", "walkthrough", "step through", "loop"}
	backPhrases            = []string{"go back", "zurueck", "zurück", "previous screen", "back"}
	projectWords           = []string{"project", "projects", "projekt", "projekte", "portfolio"}
	showVerbs              = []string{"show", "see", "display", "list", "zeig", "zeige"}
	anyElsePhrases         = []string{"something else", "anything else", "was anderes", "etwas anderes", "surprise me", "next", "more"}
)

// techVocabulary is the small fixed set of recognizable technologies. Keys
// are input tokens, values the canonical filter term.
var techVocabulary = map[string]string{
	"go":         "go",
	"golang":     "go",
	"java":       "java",
	"kotlin":     "kotlin",
	"python":     "python",
	"typescript": "typescript",
	"javascript": "javascript",
	"dart":       "dart",
	"flutter":    "flutter",
	"react":      "react",
	"android":    "android",
	"firebase":   "firebase",
	"cloud":      "cloud",
	"backend":    "backend",
	"server":     "backend",
	"api":        "backend",
}

// Parse classifies raw text into an Intent. It is pure, case-insensitive,
// and never fails: text the rules cannot place resolves to UNKNOWN.
func Parse(text string) Intent {
	normalized := normalize(text)
	if normalized == "" {
		return Unknown("empty input")
	}
	tokens := tokenize(normalized)

	if hasAnyWord(tokens, languageSelectionWords) {
		return Intent{Kind: KindShowLanguageSelection}
	}
	if hasAnyWord(tokens, languageEnglishWords) {
		return Intent{Kind: KindSetLanguageEN}
	}
	if hasAnyWord(tokens, languageGermanWords) {
		return Intent{Kind: KindSetLanguageDE}
	}
	if hasAnyWord(tokens, cvWords) {
		return Intent{Kind: KindShowCV}
	}
	if hasAnyPhrase(normalized, loopPhrases) {
		return Intent{Kind: KindLoopTimeline}
	}
	if hasAnyPhrase(normalized, backPhrases) {
		return Intent{Kind: KindGoBack}
	}

	tech := detectTech(tokens)
	wantsProjects := hasAnyWord(tokens, projectWords)
	if wantsProjects || (tech != "" && hasAnyWord(tokens, showVerbs)) {
		return ShowProjects(tech)
	}

	if hasAnyPhrase(normalized, anyElsePhrases) {
		return Intent{Kind: KindShowAnyProjects}
	}

	return Unknown("no rule matched")
}

// DetectTech exposes the tech vocabulary lookup for the refinement patterns.
func DetectTech(text string) string {
	return detectTech(tokenize(normalize(text)))
}

func detectTech(tokens []string) string {
	for _, tok := range tokens {
		if canonical, ok := techVocabulary[tok]; ok {
			return canonical
		}
	}
	return ""
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// tokenize splits normalized text into words, stripping the punctuation that
// speech transcripts tend to carry.
func tokenize(normalized string) []string {
	return strings.FieldsFunc(normalized, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		case r == '#' || r == '+' || r == 'ä' || r == 'ö' || r == 'ü' || r == 'ß':
			return false
		}
		return true
	})
}

func hasAnyWord(tokens []string, words []string) bool {
	for _, tok := range tokens {
		for _, w := range words {
			if tok == w {
				return true
			}
		}
	}
	return false
}

func hasAnyPhrase(normalized string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(p, " ") {
			if strings.Contains(normalized, p) {
				return true
			}
			continue
		}
		for _, tok := range tokenize(normalized) {
			if tok == p {
				return true
			}
		}
	}
	return false
}
