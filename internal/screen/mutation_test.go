package screen

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleScreen() Screen {
	return Screen{
		ID:     "projects",
		Layout: LayoutColumn,
		Widgets: []Widget{
			Text{ID: "intro", Body: "Selected work"},
			TagList{ID: "tags", Tags: []string{"Go", "Flutter"}},
			ProjectList{ID: "list", Projects: []Project{
				{ID: "p1", Name: "Ledger API", Tech: []string{"go", "postgres"}},
				{ID: "p2", Name: "Field App", Tech: []string{"flutter", "firebase"}},
				{ID: "p3", Name: "Batch Tooling", Tech: []string{"java", "kafka"}},
			}},
			SkillMatrix{ID: "skills", Rows: []SkillRow{
				{Area: "Backend", Skills: []string{"Go", "Java"}, Level: "senior"},
				{Area: "Mobile", Skills: []string{"Flutter"}, Level: "mid"},
			}},
			Timeline{ID: "tl", Entries: []TimelineEntry{
				{ID: "t1", Title: "First role", Period: "2019-2021"},
			}},
		},
	}
}

func tagsOf(t *testing.T, s Screen) []string {
	t.Helper()
	for _, w := range s.Widgets {
		if tl, ok := w.(TagList); ok {
			return tl.Tags
		}
	}
	t.Fatalf("no tag list on screen %s", s.ID)
	return nil
}

func projectsOf(t *testing.T, s Screen) []Project {
	t.Helper()
	for _, w := range s.Widgets {
		if pl, ok := w.(ProjectList); ok {
			return pl.Projects
		}
	}
	t.Fatalf("no project list on screen %s", s.ID)
	return nil
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	original := sampleScreen()
	snapshot := sampleScreen()

	muts := []Mutation{
		AddTag{Tag: "rust"},
		RemoveTag{Tag: "go"},
		AddSkill{Area: "backend", Skill: "Kotlin"},
		ChangeLevel{Area: "mobile", Level: "senior"},
		AddTimelineEntry{Entry: TimelineEntry{ID: "t2", Title: "Next role", Period: "2021-"}},
		FilterProjects{Tech: "go"},
		Unknown{TypeName: "SOMETHING_NEW"},
	}
	for _, m := range muts {
		_ = Apply(original, m)
	}

	if diff := cmp.Diff(snapshot, original); diff != "" {
		t.Fatalf("input screen changed observably (-want +got):\n%s", diff)
	}
}

func TestAddRemoveTagRoundTrip(t *testing.T) {
	s := sampleScreen()
	before := tagsOf(t, s)

	out := Apply(Apply(s, AddTag{Tag: "Rust"}), RemoveTag{Tag: "rust"})
	if diff := cmp.Diff(before, tagsOf(t, out)); diff != "" {
		t.Fatalf("tag round trip diverged (-want +got):\n%s", diff)
	}
}

func TestAddTagSkipsCaseInsensitiveDuplicate(t *testing.T) {
	s := Apply(sampleScreen(), AddTag{Tag: "GO"})
	if got := tagsOf(t, s); len(got) != 2 {
		t.Fatalf("expected duplicate tag to be skipped, got %v", got)
	}
}

func TestAddSkillMatchesAllContainingRows(t *testing.T) {
	s := Screen{ID: "cv", Widgets: []Widget{
		SkillMatrix{Rows: []SkillRow{
			{Area: "Backend Engineering", Skills: []string{"Go"}},
			{Area: "Backend Ops", Skills: []string{"Terraform"}},
			{Area: "Design", Skills: []string{"Figma"}},
		}},
	}}
	out := Apply(s, AddSkill{Area: "backend", Skill: "gRPC"})
	sm := out.Widgets[0].(SkillMatrix)
	if len(sm.Rows[0].Skills) != 2 || len(sm.Rows[1].Skills) != 2 {
		t.Fatalf("expected both backend rows updated, got %+v", sm.Rows)
	}
	if len(sm.Rows[2].Skills) != 1 {
		t.Fatalf("unrelated row changed: %+v", sm.Rows[2])
	}
}

func TestChangeLevelNoMatchIsNoOp(t *testing.T) {
	s := sampleScreen()
	out := Apply(s, ChangeLevel{Area: "frontend", Level: "expert"})
	if diff := cmp.Diff(s, out); diff != "" {
		t.Fatalf("no-op mutation changed screen (-want +got):\n%s", diff)
	}
}

func TestFilterProjectsSubstring(t *testing.T) {
	out := Apply(sampleScreen(), FilterProjects{Tech: "fire"})
	got := projectsOf(t, out)
	if len(got) != 1 || got[0].ID != "p2" {
		t.Fatalf("expected only the firebase project, got %+v", got)
	}
}

func TestFilterProjectsSingleCharIsTokenExact(t *testing.T) {
	s := Screen{ID: "x", Widgets: []Widget{ProjectList{Projects: []Project{
		{ID: "a", Tech: []string{"c#"}},
		{ID: "b", Tech: []string{"c"}},
	}}}}
	got := projectsOf(t, Apply(s, FilterProjects{Tech: "c"}))
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("single-char filter should match exact entries only, got %+v", got)
	}
}

func TestAddTimelineEntryAppendsToEveryTimeline(t *testing.T) {
	s := Screen{ID: "x", Widgets: []Widget{
		Timeline{ID: "a", Entries: []TimelineEntry{{ID: "t1", Title: "one", Period: "2020"}}},
		Timeline{ID: "b"},
	}}
	out := Apply(s, AddTimelineEntry{Entry: TimelineEntry{ID: "t9", Title: "new", Period: "2024"}})
	if got := out.Widgets[0].(Timeline); len(got.Entries) != 2 {
		t.Fatalf("first timeline not appended: %+v", got)
	}
	if got := out.Widgets[1].(Timeline); len(got.Entries) != 1 {
		t.Fatalf("second timeline not appended: %+v", got)
	}
}

func TestUnknownMutationIsNoOp(t *testing.T) {
	s := sampleScreen()
	out := Apply(s, Unknown{TypeName: "REORDER_WIDGETS"})
	if diff := cmp.Diff(s, out); diff != "" {
		t.Fatalf("unknown mutation must leave screen unchanged (-want +got):\n%s", diff)
	}
}

func TestMutationWireRoundTrip(t *testing.T) {
	muts := []Mutation{
		AddTag{Tag: "go"},
		ChangeLevel{Area: "backend", Level: "senior"},
		AddTimelineEntry{Entry: TimelineEntry{ID: "t1", Title: "x", Period: "2024"}},
	}
	for _, m := range muts {
		data, err := MarshalMutation(m)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		back, err := UnmarshalMutation(data)
		if err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if diff := cmp.Diff(m, back); diff != "" {
			t.Fatalf("mutation round trip diverged (-want +got):\n%s", diff)
		}
	}
}

func TestUnmarshalMutationUnknownKind(t *testing.T) {
	m, err := UnmarshalMutation([]byte(`{"type":"SET_THEME","theme":"dark"}`))
	if err != nil {
		t.Fatalf("unknown kinds must decode, got error: %v", err)
	}
	if _, ok := m.(Unknown); !ok {
		t.Fatalf("expected Unknown variant, got %T", m)
	}
	s := sampleScreen()
	if diff := cmp.Diff(s, Apply(s, m)); diff != "" {
		t.Fatalf("decoded unknown mutation must be a no-op:\n%s", diff)
	}
}

func TestScreenJSONRoundTrip(t *testing.T) {
	s := sampleScreen()
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var back Screen
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if diff := cmp.Diff(s, back); diff != "" {
		t.Fatalf("screen wire round trip diverged (-want +got):\n%s", diff)
	}
}

func TestFocusTargets(t *testing.T) {
	s := sampleScreen()
	for _, id := range []string{"projects", "intro", "tags", "p2", "t1", "skills"} {
		if !s.HasTarget(id) {
			t.Fatalf("expected %s to be a focus target", id)
		}
	}
	if s.HasTarget("nope") {
		t.Fatalf("unexpected focus target")
	}
}
