package compiler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"voxfolio/internal/screen"
)

func TestCompileDecodesMutations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("server failed to decode request: %v", err)
		}
		if req.Text != "add rust" {
			t.Fatalf("unexpected text: %q", req.Text)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"mutations": [
				{"type":"ADD_TAG","tag":"rust"},
				{"type":"SOME_FUTURE_KIND","x":1}
			],
			"systemPrompt": "tags updated"
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	res, err := client.Compile(context.Background(), Request{
		Text:          "add rust",
		CurrentScreen: screen.Screen{ID: "home", Layout: screen.LayoutColumn},
	})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if len(res.Mutations) != 2 {
		t.Fatalf("expected 2 mutations, got %d", len(res.Mutations))
	}
	if _, ok := res.Mutations[0].(screen.AddTag); !ok {
		t.Fatalf("expected AddTag, got %T", res.Mutations[0])
	}
	if _, ok := res.Mutations[1].(screen.Unknown); !ok {
		t.Fatalf("future kinds must decode to Unknown, got %T", res.Mutations[1])
	}
	if res.SystemPrompt != "tags updated" {
		t.Fatalf("unexpected system prompt: %q", res.SystemPrompt)
	}
}

func TestCompileNon2xxIsTotalFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "").Compile(context.Background(), Request{Text: "x"}); err == nil {
		t.Fatalf("expected error on 500")
	}
}

func TestCompileMissingMutationsIsTotalFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"systemPrompt":"no mutations field"}`))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "").Compile(context.Background(), Request{Text: "x"}); err == nil {
		t.Fatalf("expected error when mutations array is missing")
	}
}

func TestCompileEmptyMutationsIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"mutations":[],"systemPrompt":""}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "").Compile(context.Background(), Request{Text: "x"})
	if err != nil {
		t.Fatalf("empty mutations array is a valid response: %v", err)
	}
	if len(res.Mutations) != 0 {
		t.Fatalf("expected no mutations, got %d", len(res.Mutations))
	}
}
