package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func deeplServer(t *testing.T, gotForms *[]map[string]string, status int, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if auth := r.Header.Get("Authorization"); auth != "DeepL-Auth-Key test-key" {
			t.Errorf("authorization header = %q", auth)
		}
		*gotForms = append(*gotForms, map[string]string{
			"text":        r.PostFormValue("text"),
			"target_lang": r.PostFormValue("target_lang"),
			"source_lang": r.PostFormValue("source_lang"),
		})
		w.WriteHeader(status)
		w.Write([]byte(reply))
	}))
}

func testDeepL(serverURL string) *DeepLEngine {
	engine := NewDeepLEngine("test-key")
	engine.Endpoint = serverURL
	engine.Delay = 0
	return engine
}

func TestDeepLTranslate(t *testing.T) {
	forms := []map[string]string{}
	server := deeplServer(t, &forms, http.StatusOK, `{"translations":[{"text":"The Painting"}]}`)
	defer server.Close()
	engine := testDeepL(server.URL)

	got, err := engine.Translate(context.Background(), "Obraz", "cs", "en")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "The Painting" {
		t.Errorf("Translate = %q, want \"The Painting\"", got)
	}
	if len(forms) != 1 {
		t.Fatalf("server saw %d requests, want 1", len(forms))
	}
	// English maps to the dialect-qualified code
	if forms[0]["target_lang"] != "EN-US" {
		t.Errorf("target_lang = %q, want \"EN-US\"", forms[0]["target_lang"])
	}
	if forms[0]["source_lang"] != "CS" {
		t.Errorf("source_lang = %q, want \"CS\"", forms[0]["source_lang"])
	}
}

func TestDeepLAutoDetectOmitsSource(t *testing.T) {
	forms := []map[string]string{}
	server := deeplServer(t, &forms, http.StatusOK, `{"translations":[{"text":"x"}]}`)
	defer server.Close()
	engine := testDeepL(server.URL)

	if _, err := engine.Translate(context.Background(), "Obraz", "auto", "pt"); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if forms[0]["source_lang"] != "" {
		t.Errorf("source_lang = %q, want empty for auto-detect", forms[0]["source_lang"])
	}
	if forms[0]["target_lang"] != "PT-PT" {
		t.Errorf("target_lang = %q, want \"PT-PT\"", forms[0]["target_lang"])
	}
}

func TestDeepLFailureReturnsSourceText(t *testing.T) {
	forms := []map[string]string{}
	server := deeplServer(t, &forms, http.StatusTooManyRequests, `{}`)
	defer server.Close()
	engine := testDeepL(server.URL)

	got, err := engine.Translate(context.Background(), "Obraz", "cs", "en")
	if err == nil {
		t.Fatal("expected an error")
	}
	if got != "Obraz" {
		t.Errorf("failed Translate = %q, want the source text back", got)
	}
}

func TestDeepLShortCircuits(t *testing.T) {
	engine := testDeepL("http://127.0.0.1:1") // must never be called
	tests := []struct {
		name       string
		text       string
		sourceLang string
		targetLang string
		wantErr    bool
	}{
		{"blank text", "   ", "cs", "en", false},
		{"same language", "Obraz", "en", "en", false},
		{"unsupported language", "Obraz", "cs", "hi", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Translate(context.Background(), tt.text, tt.sourceLang, tt.targetLang)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.text {
				t.Errorf("Translate = %q, want the unmodified input", got)
			}
		})
	}
}

func TestDeepLSupports(t *testing.T) {
	engine := NewDeepLEngine("k")
	if !engine.Supports("en") || !engine.Supports("zh") {
		t.Error("en and zh must be supported")
	}
	if engine.Supports("hi") {
		t.Error("hi is not in DeepL's language set")
	}
}

func TestDeepLTranslateToAllFallsBack(t *testing.T) {
	// Every call fails, so every language maps to the source text
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	engine := testDeepL(server.URL)

	result := engine.TranslateToAll(context.Background(), "Obraz", "cs")
	if len(result) != len(deeplLangCodes) {
		t.Fatalf("got %d entries, want %d", len(result), len(deeplLangCodes))
	}
	for lang, text := range result {
		if text != "Obraz" {
			t.Errorf("%s = %q, want the source text", lang, text)
		}
	}
}
