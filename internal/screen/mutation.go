package screen

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MutationKind discriminates the closed set of mutation variants.
type MutationKind string

const (
	MutAddTag           MutationKind = "ADD_TAG"
	MutRemoveTag        MutationKind = "REMOVE_TAG"
	MutAddSkill         MutationKind = "ADD_SKILL"
	MutChangeLevel      MutationKind = "CHANGE_LEVEL"
	MutAddTimelineEntry MutationKind = "ADD_TIMELINE_ENTRY"
	MutFilterProjects   MutationKind = "FILTER_PROJECTS"
)

// Mutation is a pure, named transform producing a new screen from an old one.
// Apply never fails; a mutation whose target is absent is a no-op.
type Mutation interface {
	MutationKind() MutationKind
	mutation()
}

// AddTag appends a tag to every tag list on the screen (skipped when the tag
// is already present, compared case-insensitively).
type AddTag struct {
	Tag string `json:"tag"`
}

// RemoveTag removes every case-insensitive occurrence of the tag from every
// tag list on the screen.
type RemoveTag struct {
	Tag string `json:"tag"`
}

// AddSkill appends a skill to every skill matrix row whose area equals or
// contains the requested area.
type AddSkill struct {
	Area  string `json:"area"`
	Skill string `json:"skill"`
}

// ChangeLevel sets the level of every skill matrix row whose area equals or
// contains the requested area.
type ChangeLevel struct {
	Area  string `json:"area"`
	Level string `json:"level"`
}

// AddTimelineEntry appends an entry to every timeline on the screen.
type AddTimelineEntry struct {
	Entry TimelineEntry `json:"entry"`
}

// FilterProjects replaces each project list's items with the subset whose
// tech stack contains the filter string.
type FilterProjects struct {
	Tech string `json:"tech"`
}

// Unknown is a forward-compatibility variant: a mutation kind this build does
// not recognize. Apply treats it as "screen unchanged".
type Unknown struct {
	TypeName string `json:"type"`
}

func (AddTag) MutationKind() MutationKind           { return MutAddTag }
func (RemoveTag) MutationKind() MutationKind        { return MutRemoveTag }
func (AddSkill) MutationKind() MutationKind         { return MutAddSkill }
func (ChangeLevel) MutationKind() MutationKind      { return MutChangeLevel }
func (AddTimelineEntry) MutationKind() MutationKind { return MutAddTimelineEntry }
func (FilterProjects) MutationKind() MutationKind   { return MutFilterProjects }
func (u Unknown) MutationKind() MutationKind        { return MutationKind(u.TypeName) }

func (AddTag) mutation()           {}
func (RemoveTag) mutation()        {}
func (AddSkill) mutation()         {}
func (ChangeLevel) mutation()      {}
func (AddTimelineEntry) mutation() {}
func (FilterProjects) mutation()   {}
func (Unknown) mutation()          {}

// Apply produces a new screen from screen + mutation. It is total: no
// mutation kind is rejected, unmatched targets leave the screen unchanged,
// and the input screen is never modified. Unaffected widgets are shared
// structurally; affected widgets and their slices are copied.
func Apply(s Screen, m Mutation) Screen {
	switch mut := m.(type) {
	case AddTag:
		return mapWidgets(s, func(w Widget) Widget {
			tl, ok := w.(TagList)
			if !ok || containsFold(tl.Tags, mut.Tag) {
				return w
			}
			tags := append(copyStrings(tl.Tags), mut.Tag)
			tl.Tags = tags
			return tl
		})
	case RemoveTag:
		return mapWidgets(s, func(w Widget) Widget {
			tl, ok := w.(TagList)
			if !ok || !containsFold(tl.Tags, mut.Tag) {
				return w
			}
			kept := make([]string, 0, len(tl.Tags))
			for _, t := range tl.Tags {
				if !equalFold(t, mut.Tag) {
					kept = append(kept, t)
				}
			}
			tl.Tags = kept
			return tl
		})
	case AddSkill:
		return mapWidgets(s, func(w Widget) Widget {
			sm, ok := w.(SkillMatrix)
			if !ok {
				return w
			}
			changed := false
			rows := copyRows(sm.Rows)
			for i := range rows {
				if areaMatches(rows[i].Area, mut.Area) && !containsFold(rows[i].Skills, mut.Skill) {
					rows[i].Skills = append(copyStrings(rows[i].Skills), mut.Skill)
					changed = true
				}
			}
			if !changed {
				return w
			}
			sm.Rows = rows
			return sm
		})
	case ChangeLevel:
		return mapWidgets(s, func(w Widget) Widget {
			sm, ok := w.(SkillMatrix)
			if !ok {
				return w
			}
			changed := false
			rows := copyRows(sm.Rows)
			for i := range rows {
				if areaMatches(rows[i].Area, mut.Area) && rows[i].Level != mut.Level {
					rows[i].Level = mut.Level
					changed = true
				}
			}
			if !changed {
				return w
			}
			sm.Rows = rows
			return sm
		})
	case AddTimelineEntry:
		return mapWidgets(s, func(w Widget) Widget {
			tl, ok := w.(Timeline)
			if !ok {
				return w
			}
			entries := make([]TimelineEntry, len(tl.Entries), len(tl.Entries)+1)
			copy(entries, tl.Entries)
			tl.Entries = append(entries, mut.Entry)
			return tl
		})
	case FilterProjects:
		return mapWidgets(s, func(w Widget) Widget {
			pl, ok := w.(ProjectList)
			if !ok {
				return w
			}
			kept := make([]Project, 0, len(pl.Projects))
			for _, p := range pl.Projects {
				if TechMatches(p.Tech, mut.Tech) {
					kept = append(kept, p)
				}
			}
			pl.Projects = kept
			return pl
		})
	default:
		// Unknown and any future kind: screen unchanged, by contract.
		return s
	}
}

// ApplyAll folds a sequence of mutations over a screen in order.
func ApplyAll(s Screen, muts []Mutation) Screen {
	for _, m := range muts {
		s = Apply(s, m)
	}
	return s
}

// mapWidgets rebuilds the widget slice through fn. The result shares widgets
// fn leaves untouched.
func mapWidgets(s Screen, fn func(Widget) Widget) Screen {
	widgets := make([]Widget, len(s.Widgets))
	for i, w := range s.Widgets {
		widgets[i] = fn(w)
	}
	s.Widgets = widgets
	return s
}

// areaMatches reports whether a skill row's area equals or contains the
// requested area, case-insensitively. Single-character queries require a
// whole-token match so that "c" does not match "c#".
func areaMatches(rowArea, query string) bool {
	q := strings.TrimSpace(strings.ToLower(query))
	if q == "" {
		return false
	}
	area := strings.ToLower(rowArea)
	if len(q) == 1 {
		for _, tok := range strings.Fields(area) {
			if tok == q {
				return true
			}
		}
		return false
	}
	return strings.Contains(area, q)
}

// TechMatches reports whether any tech stack entry contains the filter
// string, case-insensitively. Single-character filters require an exact
// entry match.
func TechMatches(stack []string, filter string) bool {
	q := strings.TrimSpace(strings.ToLower(filter))
	if q == "" {
		return false
	}
	for _, entry := range stack {
		e := strings.ToLower(entry)
		if len(q) == 1 {
			if e == q {
				return true
			}
			continue
		}
		if strings.Contains(e, q) {
			return true
		}
	}
	return false
}

func containsFold(values []string, needle string) bool {
	for _, v := range values {
		if equalFold(v, needle) {
			return true
		}
	}
	return false
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyRows(in []SkillRow) []SkillRow {
	out := make([]SkillRow, len(in))
	copy(out, in)
	return out
}

// mutationEnvelope is the wire form of a mutation as produced by the compiler
// service: the variant's fields plus a "type" discriminator.
type mutationEnvelope struct {
	Type MutationKind `json:"type"`
}

// UnmarshalMutation decodes one mutation from its discriminated wire form.
// Unrecognized kinds decode to Unknown rather than failing, so a newer
// compiler service cannot break an older client.
func UnmarshalMutation(data []byte) (Mutation, error) {
	var env mutationEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to read mutation envelope: %w", err)
	}
	switch env.Type {
	case MutAddTag:
		var m AddTag
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case MutRemoveTag:
		var m RemoveTag
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case MutAddSkill:
		var m AddSkill
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case MutChangeLevel:
		var m ChangeLevel
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case MutAddTimelineEntry:
		var m AddTimelineEntry
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case MutFilterProjects:
		var m FilterProjects
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return Unknown{TypeName: string(env.Type)}, nil
	}
}

// MarshalMutation encodes one mutation with its type discriminator.
func MarshalMutation(m Mutation) ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s mutation: %w", m.MutationKind(), err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	fields["type"] = json.RawMessage(fmt.Sprintf("%q", m.MutationKind()))
	return json.Marshal(fields)
}
