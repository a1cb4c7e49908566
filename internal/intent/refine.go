package intent

import (
	"regexp"
	"strings"

	"voxfolio/internal/screen"
)

// Refinement patterns: a last attempt to read a concrete screen mutation out
// of text that did not classify as any intent. These run only after Parse
// returned UNKNOWN, and only against the raw text of that same input.
var (
	reAddTimeline = regexp.MustCompile(`^add\s+(.+?)\s+to\s+(?:the\s+)?timeline$`)
	reChangeLevel = regexp.MustCompile(`^(?:change|set)\s+(.+?)\s+level\s+to\s+(\S+)$`)
	reRemove      = regexp.MustCompile(`^remove\s+(?:the\s+)?(.+?)(?:\s+tag)?$`)
	reAdd         = regexp.MustCompile(`^add\s+(.+?)(?:\s+to\s+(?:the\s+)?(\S+))?$`)
	reFilter      = regexp.MustCompile(`^(?:show|filter|only)\b.*?\b(?:using|with|by)\s+(\S+)$`)
)

// Refine tries the structured refinement patterns against raw text and
// returns the mutation they describe. The boolean is false when no pattern
// applies, in which case the dispatcher falls back to a clarification.
func Refine(text string) (screen.Mutation, bool) {
	t := normalize(text)
	if t == "" {
		return nil, false
	}

	if m := reAddTimeline.FindStringSubmatch(t); m != nil {
		title := strings.TrimSpace(m[1])
		return screen.AddTimelineEntry{Entry: screen.TimelineEntry{
			ID:    slug(title),
			Title: title,
		}}, true
	}
	if m := reChangeLevel.FindStringSubmatch(t); m != nil {
		return screen.ChangeLevel{Area: strings.TrimSpace(m[1]), Level: m[2]}, true
	}
	if m := reFilter.FindStringSubmatch(t); m != nil {
		return screen.FilterProjects{Tech: m[1]}, true
	}
	if m := reRemove.FindStringSubmatch(t); m != nil {
		return screen.RemoveTag{Tag: strings.TrimSpace(m[1])}, true
	}
	if m := reAdd.FindStringSubmatch(t); m != nil {
		target := m[2]
		value := strings.TrimSpace(m[1])
		// "add X to skills" reads as a skill addition when a known area is
		// named; everything else lands on the tag lists.
		if target != "" && target != "tags" && target != "tag" {
			return screen.AddSkill{Area: target, Skill: value}, true
		}
		return screen.AddTag{Tag: value}, true
	}
	return nil, false
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
