package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"gallery/config"
)

// RESTEngine posts to a LibreTranslate-compatible endpoint. Unlike DeepL it
// has no fixed language set, and it consults the translation cache before
// calling out.
type RESTEngine struct {
	Endpoint string
	APIKey   string
	Cache    *Cache
	Client   *http.Client
	Delay    time.Duration
}

func NewRESTEngine(endpoint, apiKey string, cache *Cache) *RESTEngine {
	return &RESTEngine{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Cache:    cache,
		Client:   &http.Client{},
		Delay:    interCallDelay,
	}
}

func (e *RESTEngine) Supports(targetLang string) bool {
	return true
}

type restRequest struct {
	Query      string `json:"q"`
	SourceLang string `json:"source"`
	TargetLang string `json:"target"`
	APIKey     string `json:"api_key,omitempty"`
}

type restResponse struct {
	TranslatedText string `json:"translatedText"`
}

func (e *RESTEngine) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if strings.EqualFold(sourceLang, targetLang) {
		return text, nil
	}
	if e.Endpoint == "" {
		return text, fmt.Errorf("no translation endpoint configured")
	}
	if e.Cache != nil {
		if cached, ok := e.Cache.Get(text, sourceLang, targetLang); ok {
			return cached, nil
		}
	}

	payload, err := json.Marshal(restRequest{
		Query:      text,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		APIKey:     e.APIKey,
	})
	if err != nil {
		return text, err
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return text, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		log.Printf("Translation request for %s failed: %v", targetLang, err)
		return text, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("Translation endpoint returned status %d for %s", resp.StatusCode, targetLang)
		return text, fmt.Errorf("translation status %d", resp.StatusCode)
	}
	var body restResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("Translation response for %s is not valid JSON: %v", targetLang, err)
		return text, err
	}
	if body.TranslatedText == "" {
		return text, nil
	}
	if e.Cache != nil {
		e.Cache.Put(text, sourceLang, targetLang, body.TranslatedText)
	}
	return body.TranslatedText, nil
}

func (e *RESTEngine) TranslateToAll(ctx context.Context, text, sourceLang string) map[string]string {
	result := map[string]string{}
	for _, lang := range config.TargetLanguages() {
		translated, err := e.Translate(ctx, text, sourceLang, lang)
		if err != nil {
			log.Printf("Bulk translation to %s failed: %v", lang, err)
			result[lang] = text
		} else {
			result[lang] = translated
		}
		time.Sleep(e.Delay)
	}
	return result
}
