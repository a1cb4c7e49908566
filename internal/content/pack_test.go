package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"voxfolio/internal/screen"
)

func TestDefaultPackLoads(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("embedded pack must load: %v", err)
	}
	for _, id := range []string{HomeID, ProjectsID, CVID, TimelineID} {
		s, ok := r.Screen(id)
		if !ok {
			t.Fatalf("missing screen %s", id)
		}
		if len(s.Widgets) == 0 {
			t.Fatalf("screen %s has no widgets", id)
		}
	}
}

func TestProjectsScreenIsFilterable(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	projects, _ := r.Screen(ProjectsID)
	filtered := screen.Apply(projects, screen.FilterProjects{Tech: "go"})
	for _, w := range filtered.Widgets {
		if pl, ok := w.(screen.ProjectList); ok {
			if len(pl.Projects) == 0 {
				t.Fatalf("default pack must keep at least one go project")
			}
			for _, p := range pl.Projects {
				if !screen.TechMatches(p.Tech, "go") {
					t.Fatalf("project %s survived a go filter with stack %v", p.ID, p.Tech)
				}
			}
			return
		}
	}
	t.Fatalf("projects screen has no project list")
}

func TestCVScreenHasTimeline(t *testing.T) {
	r, _ := NewRegistry()
	cv, _ := r.Screen(CVID)
	tl, ok := cv.Timeline()
	if !ok || len(tl.Entries) == 0 {
		t.Fatalf("cv screen must carry a populated timeline")
	}
}

func TestNextAnyRotation(t *testing.T) {
	r, _ := NewRegistry()
	cases := map[string]string{
		HomeID:     ProjectsID,
		ProjectsID: CVID,
		CVID:       TimelineID,
		TimelineID: ProjectsID,
		"unknown":  ProjectsID,
	}
	for current, want := range cases {
		got, ok := r.NextAny(current)
		if !ok || got.ID != want {
			t.Fatalf("NextAny(%s) = %s, want %s", current, got.ID, want)
		}
	}
}

func TestLoadFileRejectsBrokenPack(t *testing.T) {
	r, _ := NewRegistry()
	path := filepath.Join(t.TempDir(), "pack.yaml")
	if err := os.WriteFile(path, []byte("screens: [{widgets: []}]"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := r.LoadFile(path); err == nil {
		t.Fatalf("pack without screenId must be rejected")
	}
	// The previous registry contents survive a failed reload.
	if _, ok := r.Screen(HomeID); !ok {
		t.Fatalf("failed reload must not clear the registry")
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pack.yaml")
	pack := []byte(`
screens:
  - screenId: home
    widgets:
      - type: text
        id: intro
        body: first
`)
	if err := os.WriteFile(path, pack, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, _ := NewRegistry()
	if err := r.LoadFile(path); err != nil {
		t.Fatalf("initial load: %v", err)
	}
	w, err := NewWatcher(r, path)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	w.debounce = 0
	if err := w.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	updated := []byte(`
screens:
  - screenId: home
    widgets:
      - type: text
        id: intro
        body: second
`)
	if err := os.WriteFile(path, updated, 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		home := r.Home()
		if txt, ok := home.Widgets[0].(screen.Text); ok && txt.Body == "second" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("watcher never applied the updated pack")
}
