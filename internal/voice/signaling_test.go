package voice

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMintCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer api-key" {
			t.Fatalf("credential mint must carry the api key")
		}
		_, _ = w.Write([]byte(`{"credential":"short-lived-token"}`))
	}))
	defer srv.Close()

	c := NewSignalingClient(srv.URL, srv.URL, "api-key")
	cred, err := c.MintCredential(context.Background())
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if cred != "short-lived-token" {
		t.Fatalf("unexpected credential: %q", cred)
	}
}

func TestMintCredentialRejectsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := NewSignalingClient(srv.URL, srv.URL, "").MintCredential(context.Background()); err == nil {
		t.Fatalf("expected error for missing credential")
	}
}

func TestExchangeSDP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer short-lived-token" {
			t.Fatalf("sdp exchange must carry the minted credential")
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/sdp" {
			t.Fatalf("unexpected content type %q", ct)
		}
		offer, _ := io.ReadAll(r.Body)
		if string(offer) != "v=0 offer" {
			t.Fatalf("unexpected offer body %q", offer)
		}
		_, _ = w.Write([]byte("v=0 answer"))
	}))
	defer srv.Close()

	c := NewSignalingClient(srv.URL, srv.URL, "api-key")
	answer, err := c.ExchangeSDP(context.Background(), "short-lived-token", "v=0 offer")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if answer != "v=0 answer" {
		t.Fatalf("unexpected answer %q", answer)
	}
}

func TestExchangeSDPNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credential", http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := NewSignalingClient(srv.URL, srv.URL, "").ExchangeSDP(context.Background(), "x", "v=0"); err == nil {
		t.Fatalf("expected error on 401")
	}
}
