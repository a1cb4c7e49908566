// Package screen defines the immutable screen model: a screen is a named,
// serializable description of what the interface currently shows, composed of
// typed widgets. Screens are never modified in place; the mutation engine in
// this package produces a new screen from an old one.
package screen

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Layout is the top-level arrangement of a screen's widgets.
type Layout string

const (
	LayoutColumn Layout = "column"
	LayoutRow    Layout = "row"
)

// Screen is the complete description of one interface state.
// Identity is by ID; the same ID may appear more than once in history.
type Screen struct {
	ID      string   `json:"screenId"`
	Layout  Layout   `json:"layout"`
	Widgets []Widget `json:"widgets"`
}

// WidgetKind discriminates the closed set of widget variants.
type WidgetKind string

const (
	KindText        WidgetKind = "text"
	KindProjectList WidgetKind = "project_list"
	KindButtonRow   WidgetKind = "button_row"
	KindInfoCard    WidgetKind = "info_card"
	KindTagList     WidgetKind = "tag_list"
	KindTimeline    WidgetKind = "timeline"
	KindSkillMatrix WidgetKind = "skill_matrix"
)

// Widget is one semantic content block within a screen. The variant set is
// closed; adding a variant requires updating Apply, the JSON codec, and
// FocusTargets.
type Widget interface {
	Kind() WidgetKind
	widget()
}

// Text is a freestanding block of prose.
type Text struct {
	ID   string `json:"id,omitempty"`
	Body string `json:"body"`
}

// Project is one entry of a ProjectList.
type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tech        []string `json:"tech"`
}

// ProjectList presents a filterable collection of projects.
type ProjectList struct {
	ID       string    `json:"id,omitempty"`
	Title    string    `json:"title,omitempty"`
	Projects []Project `json:"projects"`
}

// Button is one action of a ButtonRow. Command is the raw command text the
// button submits when activated.
type Button struct {
	ID      string `json:"id,omitempty"`
	Label   string `json:"label"`
	Command string `json:"command"`
}

// ButtonRow presents a horizontal row of command shortcuts.
type ButtonRow struct {
	ID      string   `json:"id,omitempty"`
	Buttons []Button `json:"buttons"`
}

// InfoCard presents a titled highlight block.
type InfoCard struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// TagList presents an ordered set of short labels.
type TagList struct {
	ID   string   `json:"id,omitempty"`
	Tags []string `json:"tags"`
}

// TimelineEntry is one dated step of a Timeline.
type TimelineEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Period      string `json:"period"`
	Description string `json:"description,omitempty"`
}

// Timeline presents an ordered sequence of dated entries.
type Timeline struct {
	ID      string          `json:"id,omitempty"`
	Entries []TimelineEntry `json:"entries"`
}

// SkillRow is one area of a SkillMatrix.
type SkillRow struct {
	Area   string   `json:"area"`
	Skills []string `json:"skills"`
	Level  string   `json:"level,omitempty"`
}

// SkillMatrix presents skills grouped by area.
type SkillMatrix struct {
	ID   string     `json:"id,omitempty"`
	Rows []SkillRow `json:"rows"`
}

func (Text) Kind() WidgetKind        { return KindText }
func (ProjectList) Kind() WidgetKind { return KindProjectList }
func (ButtonRow) Kind() WidgetKind   { return KindButtonRow }
func (InfoCard) Kind() WidgetKind    { return KindInfoCard }
func (TagList) Kind() WidgetKind     { return KindTagList }
func (Timeline) Kind() WidgetKind    { return KindTimeline }
func (SkillMatrix) Kind() WidgetKind { return KindSkillMatrix }

func (Text) widget()        {}
func (ProjectList) widget() {}
func (ButtonRow) widget()   {}
func (InfoCard) widget()    {}
func (TagList) widget()     {}
func (Timeline) widget()    {}
func (SkillMatrix) widget() {}

// FocusTargets returns every id present on the screen: widget ids, project
// ids, button ids, and timeline entry ids. Used to validate focus hints
// coming back from the narration service.
func (s Screen) FocusTargets() map[string]struct{} {
	targets := make(map[string]struct{})
	add := func(id string) {
		if id != "" {
			targets[id] = struct{}{}
		}
	}
	add(s.ID)
	for _, w := range s.Widgets {
		switch v := w.(type) {
		case Text:
			add(v.ID)
		case ProjectList:
			add(v.ID)
			for _, p := range v.Projects {
				add(p.ID)
			}
		case ButtonRow:
			add(v.ID)
			for _, b := range v.Buttons {
				add(b.ID)
			}
		case InfoCard:
			add(v.ID)
		case TagList:
			add(v.ID)
		case Timeline:
			add(v.ID)
			for _, e := range v.Entries {
				add(e.ID)
			}
		case SkillMatrix:
			add(v.ID)
		}
	}
	return targets
}

// HasTarget reports whether id names something on the screen.
func (s Screen) HasTarget(id string) bool {
	_, ok := s.FocusTargets()[id]
	return ok
}

// Timeline returns the first timeline widget on the screen, if any.
func (s Screen) Timeline() (Timeline, bool) {
	for _, w := range s.Widgets {
		if tl, ok := w.(Timeline); ok {
			return tl, true
		}
	}
	return Timeline{}, false
}

// widgetEnvelope is the wire form of a widget: the variant's own fields plus
// a "type" discriminator.
type widgetEnvelope struct {
	Type WidgetKind `json:"type"`
}

// MarshalJSON emits the widget list with per-widget type discriminators.
func (s Screen) MarshalJSON() ([]byte, error) {
	raw := make([]json.RawMessage, 0, len(s.Widgets))
	for _, w := range s.Widgets {
		b, err := MarshalWidget(w)
		if err != nil {
			return nil, err
		}
		raw = append(raw, b)
	}
	return json.Marshal(struct {
		ID      string            `json:"screenId"`
		Layout  Layout            `json:"layout"`
		Widgets []json.RawMessage `json:"widgets"`
	}{s.ID, s.Layout, raw})
}

// UnmarshalJSON decodes a screen, dispatching each widget on its "type" tag.
func (s *Screen) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID      string            `json:"screenId"`
		Layout  Layout            `json:"layout"`
		Widgets []json.RawMessage `json:"widgets"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	s.ID = wire.ID
	s.Layout = wire.Layout
	s.Widgets = s.Widgets[:0]
	for _, raw := range wire.Widgets {
		w, err := UnmarshalWidget(raw)
		if err != nil {
			return err
		}
		s.Widgets = append(s.Widgets, w)
	}
	return nil
}

// MarshalWidget encodes one widget with its type discriminator.
func MarshalWidget(w Widget) ([]byte, error) {
	body, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s widget: %w", w.Kind(), err)
	}
	// Splice the discriminator into the variant's own object.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	fields["type"] = json.RawMessage(fmt.Sprintf("%q", w.Kind()))
	return json.Marshal(fields)
}

// UnmarshalWidget decodes one widget from its discriminated wire form.
func UnmarshalWidget(data []byte) (Widget, error) {
	var env widgetEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to read widget envelope: %w", err)
	}
	switch env.Type {
	case KindText:
		var w Text
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return w, nil
	case KindProjectList:
		var w ProjectList
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return w, nil
	case KindButtonRow:
		var w ButtonRow
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return w, nil
	case KindInfoCard:
		var w InfoCard
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return w, nil
	case KindTagList:
		var w TagList
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return w, nil
	case KindTimeline:
		var w Timeline
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return w, nil
	case KindSkillMatrix:
		var w SkillMatrix
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, fmt.Errorf("unknown widget type %q", env.Type)
	}
}

// equalFold reports case-insensitive string equality after trimming.
func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
