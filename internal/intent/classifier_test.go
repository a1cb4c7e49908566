package intent

import (
	"testing"

	"voxfolio/internal/screen"
)

func TestParseTable(t *testing.T) {
	cases := []struct {
		in   string
		want Intent
	}{
		{"", Unknown("empty input")},
		{"   ", Unknown("empty input")},
		{"cv", Intent{Kind: KindShowCV}},
		{"Show me your CV please", Intent{Kind: KindShowCV}},
		{"lebenslauf", Intent{Kind: KindShowCV}},
		{"show me java projects", ShowProjects("java")},
		{"zeig mir deine projekte", ShowProjects("")},
		{"show me something with firebase", ShowProjects("firebase")},
		{"show me the backend stuff", ShowProjects("backend")},
		{"show your server work", ShowProjects("backend")},
		{"go back", Intent{Kind: KindGoBack}},
		{"take me back", Intent{Kind: KindGoBack}},
		{"loop the timeline", Intent{Kind: KindLoopTimeline}},
		{"walk me through your career", Intent{Kind: KindShowCV}},
		{"walk me through it", Intent{Kind: KindLoopTimeline}},
		{"change the language", Intent{Kind: KindShowLanguageSelection}},
		{"english please", Intent{Kind: KindSetLanguageEN}},
		{"auf deutsch bitte", Intent{Kind: KindSetLanguageDE}},
		{"something else", Intent{Kind: KindShowAnyProjects}},
		{"next", Intent{Kind: KindShowAnyProjects}},
		{"what is the meaning of life", Unknown("no rule matched")},
	}
	for _, tc := range cases {
		got := Parse(tc.in)
		if got != tc.want {
			t.Fatalf("Parse(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseOrderPrecedence(t *testing.T) {
	// CV keywords outrank project keywords even when both are present.
	if got := Parse("show the projects from my cv"); got.Kind != KindShowCV {
		t.Fatalf("expected cv rule to win, got %+v", got)
	}
	// Language selection outranks everything.
	if got := Parse("show language options for projects"); got.Kind != KindShowLanguageSelection {
		t.Fatalf("expected language selection to win, got %+v", got)
	}
	// Go-back outranks project detection.
	if got := Parse("go back to the projects"); got.Kind != KindGoBack {
		t.Fatalf("expected go-back to win, got %+v", got)
	}
}

func TestParseIsCaseInsensitive(t *testing.T) {
	if got := Parse("SHOW ME JAVA PROJECTS"); got != ShowProjects("java") {
		t.Fatalf("got %+v", got)
	}
}

func TestDetectTech(t *testing.T) {
	if got := DetectTech("anything with golang in it"); got != "go" {
		t.Fatalf("golang should canonicalize to go, got %q", got)
	}
	if got := DetectTech("plain words only"); got != "" {
		t.Fatalf("expected no tech, got %q", got)
	}
}

func TestRefinePatterns(t *testing.T) {
	cases := []struct {
		in   string
		want screen.Mutation
	}{
		{"add conference talk to timeline", screen.AddTimelineEntry{Entry: screen.TimelineEntry{ID: "conference-talk", Title: "conference talk"}}},
		{"set backend level to expert", screen.ChangeLevel{Area: "backend", Level: "expert"}},
		{"change mobile level to senior", screen.ChangeLevel{Area: "mobile", Level: "senior"}},
		{"remove the golang tag", screen.RemoveTag{Tag: "golang"}},
		{"add rust", screen.AddTag{Tag: "rust"}},
		{"add grpc to backend", screen.AddSkill{Area: "backend", Skill: "grpc"}},
		{"only the ones built with flutter", screen.FilterProjects{Tech: "flutter"}},
		{"filter projects by java", screen.FilterProjects{Tech: "java"}},
	}
	for _, tc := range cases {
		got, ok := Refine(tc.in)
		if !ok {
			t.Fatalf("Refine(%q) matched nothing", tc.in)
		}
		if got != tc.want {
			t.Fatalf("Refine(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestRefineNoMatch(t *testing.T) {
	for _, in := range []string{"", "tell me a joke", "delete everything now please"} {
		if m, ok := Refine(in); ok {
			t.Fatalf("Refine(%q) unexpectedly produced %#v", in, m)
		}
	}
}
