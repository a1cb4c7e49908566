// Package content holds the portfolio content registry: the static screens
// commands resolve to. Screens come from a YAML content pack; a built-in
// default pack is embedded so the binary runs without any files, and an
// on-disk pack can be hot reloaded via fsnotify.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"voxfolio/internal/logging"
	"voxfolio/internal/screen"
)

//go:embed default_pack.yaml
var defaultPack []byte

// Well-known screen ids. Every pack must provide at least HomeID.
const (
	HomeID     = "home"
	ProjectsID = "projects"
	CVID       = "cv"
	TimelineID = "timeline"
)

// anyRotation maps the current screen id to the screen "show me something
// else" resolves to. Ids not in the map fall through to projects.
var anyRotation = map[string]string{
	HomeID:     ProjectsID,
	ProjectsID: CVID,
	CVID:       TimelineID,
	TimelineID: ProjectsID,
}

// packFile is the YAML shape of a content pack.
type packFile struct {
	Screens []packScreen `yaml:"screens"`
}

type packScreen struct {
	ScreenID string       `yaml:"screenId"`
	Layout   string       `yaml:"layout"`
	Widgets  []packWidget `yaml:"widgets"`
}

// packWidget is the union of all widget fields; Type picks the variant.
type packWidget struct {
	Type     string                 `yaml:"type"`
	ID       string                 `yaml:"id"`
	Body     string                 `yaml:"body"`
	Title    string                 `yaml:"title"`
	Tags     []string               `yaml:"tags"`
	Projects []screen.Project       `yaml:"projects"`
	Buttons  []screen.Button        `yaml:"buttons"`
	Entries  []screen.TimelineEntry `yaml:"entries"`
	Rows     []screen.SkillRow      `yaml:"rows"`
}

// Registry resolves screen ids to screens. Reads are concurrent-safe with
// reloads.
type Registry struct {
	mu      sync.RWMutex
	screens map[string]screen.Screen
}

// NewRegistry builds a registry from the embedded default pack.
func NewRegistry() (*Registry, error) {
	r := &Registry{}
	if err := r.loadBytes(defaultPack); err != nil {
		return nil, fmt.Errorf("failed to load embedded content pack: %w", err)
	}
	return r, nil
}

// LoadFile replaces the registry contents with the pack at path.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read content pack: %w", err)
	}
	if err := r.loadBytes(data); err != nil {
		return err
	}
	logging.Content("content pack loaded from %s", path)
	return nil
}

func (r *Registry) loadBytes(data []byte) error {
	var pack packFile
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return fmt.Errorf("failed to parse content pack: %w", err)
	}

	screens := make(map[string]screen.Screen, len(pack.Screens))
	for _, ps := range pack.Screens {
		s, err := compileScreen(ps)
		if err != nil {
			return err
		}
		screens[s.ID] = s
	}
	if _, ok := screens[HomeID]; !ok {
		return fmt.Errorf("content pack has no %q screen", HomeID)
	}

	r.mu.Lock()
	r.screens = screens
	r.mu.Unlock()
	return nil
}

func compileScreen(ps packScreen) (screen.Screen, error) {
	if ps.ScreenID == "" {
		return screen.Screen{}, fmt.Errorf("content pack screen missing screenId")
	}
	layout := screen.Layout(ps.Layout)
	if layout == "" {
		layout = screen.LayoutColumn
	}
	if layout != screen.LayoutColumn && layout != screen.LayoutRow {
		return screen.Screen{}, fmt.Errorf("screen %s: unknown layout %q", ps.ScreenID, ps.Layout)
	}

	s := screen.Screen{ID: ps.ScreenID, Layout: layout}
	for _, pw := range ps.Widgets {
		w, err := compileWidget(pw)
		if err != nil {
			return screen.Screen{}, fmt.Errorf("screen %s: %w", ps.ScreenID, err)
		}
		s.Widgets = append(s.Widgets, w)
	}
	return s, nil
}

func compileWidget(pw packWidget) (screen.Widget, error) {
	switch screen.WidgetKind(pw.Type) {
	case screen.KindText:
		return screen.Text{ID: pw.ID, Body: pw.Body}, nil
	case screen.KindProjectList:
		return screen.ProjectList{ID: pw.ID, Title: pw.Title, Projects: pw.Projects}, nil
	case screen.KindButtonRow:
		return screen.ButtonRow{ID: pw.ID, Buttons: pw.Buttons}, nil
	case screen.KindInfoCard:
		return screen.InfoCard{ID: pw.ID, Title: pw.Title, Body: pw.Body}, nil
	case screen.KindTagList:
		return screen.TagList{ID: pw.ID, Tags: pw.Tags}, nil
	case screen.KindTimeline:
		return screen.Timeline{ID: pw.ID, Entries: pw.Entries}, nil
	case screen.KindSkillMatrix:
		return screen.SkillMatrix{ID: pw.ID, Rows: pw.Rows}, nil
	default:
		return nil, fmt.Errorf("unknown widget type %q", pw.Type)
	}
}

// Screen returns the screen registered under id.
func (r *Registry) Screen(id string) (screen.Screen, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.screens[id]
	return s, ok
}

// Home returns the base screen history is seeded with.
func (r *Registry) Home() screen.Screen {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.screens[HomeID]
}

// NextAny resolves "show me something else" via the fixed rotation keyed by
// the current screen id.
func (r *Registry) NextAny(currentID string) (screen.Screen, bool) {
	next, ok := anyRotation[currentID]
	if !ok {
		next = ProjectsID
	}
	return r.Screen(next)
}
