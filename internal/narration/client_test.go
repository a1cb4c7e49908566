package narration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNarrateDecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Fatalf("missing bearer credential")
		}
		_, _ = w.Write([]byte(`{
			"narration": "Here are the Go projects.",
			"intentSummary": "filtered projects",
			"focusTarget": "p1",
			"tone": "excited"
		}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "key").Narrate(context.Background(), Request{Text: "show go projects"})
	if err != nil {
		t.Fatalf("narrate failed: %v", err)
	}
	if res.Narration == "" || res.FocusTarget != "p1" || res.Tone != ToneExcited {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestNarrateDefaultsTone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"narration":"hi","intentSummary":"","focusTarget":null}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "").Narrate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("narrate failed: %v", err)
	}
	if res.Tone != ToneNeutral {
		t.Fatalf("expected neutral default tone, got %q", res.Tone)
	}
}

func TestNarrateNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "").Narrate(context.Background(), Request{}); err == nil {
		t.Fatalf("expected error on 503")
	}
}
