package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRESTTranslateUsesCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req restRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Query != "Obraz" || req.SourceLang != "cs" || req.TargetLang != "en" {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(restResponse{TranslatedText: "The Painting"})
	}))
	defer server.Close()
	engine := NewRESTEngine(server.URL, "", NewCache())
	engine.Delay = 0

	for i := 0; i < 3; i++ {
		got, err := engine.Translate(context.Background(), "Obraz", "cs", "en")
		if err != nil {
			t.Fatalf("Translate: %v", err)
		}
		if got != "The Painting" {
			t.Errorf("Translate = %q", got)
		}
	}
	// Second and third calls are served from the cache
	if calls != 1 {
		t.Errorf("endpoint called %d times, want 1", calls)
	}
}

func TestRESTTranslateNoEndpoint(t *testing.T) {
	engine := NewRESTEngine("", "", nil)
	got, err := engine.Translate(context.Background(), "Obraz", "cs", "en")
	if err == nil {
		t.Fatal("expected an error without an endpoint")
	}
	if got != "Obraz" {
		t.Errorf("Translate = %q, want the source text back", got)
	}
}

func TestRESTTranslateFailureNotCached(t *testing.T) {
	status := http.StatusBadGateway
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		if status == http.StatusOK {
			json.NewEncoder(w).Encode(restResponse{TranslatedText: "ok now"})
		}
	}))
	defer server.Close()
	engine := NewRESTEngine(server.URL, "", NewCache())
	engine.Delay = 0

	got, err := engine.Translate(context.Background(), "Znovu", "cs", "en")
	if err == nil {
		t.Fatal("expected an error")
	}
	if got != "Znovu" {
		t.Errorf("failed Translate = %q, want the source text", got)
	}
	// The failure must not have poisoned the cache
	status = http.StatusOK
	got, err = engine.Translate(context.Background(), "Znovu", "cs", "en")
	if err != nil {
		t.Fatalf("Translate after recovery: %v", err)
	}
	if got != "ok now" {
		t.Errorf("Translate after recovery = %q, want \"ok now\"", got)
	}
}
