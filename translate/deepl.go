package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const deeplEndpoint = "https://api-free.deepl.com/v2/translate"

// DeepL uses its own dialect-qualified codes and supports a fixed language
// set. Hindi is notably absent, so it falls back to the source text.
var deeplLangCodes = map[string]string{
	"en": "EN-US",
	"de": "DE",
	"es": "ES",
	"fr": "FR",
	"ja": "JA",
	"pt": "PT-PT",
	"ru": "RU",
	"zh": "ZH",
}

type DeepLEngine struct {
	APIKey   string
	Endpoint string
	Client   *http.Client
	// delay between bulk calls, overridable in tests
	Delay time.Duration
}

func NewDeepLEngine(apiKey string) *DeepLEngine {
	return &DeepLEngine{
		APIKey:   apiKey,
		Endpoint: deeplEndpoint,
		Client:   &http.Client{},
		Delay:    interCallDelay,
	}
}

func (e *DeepLEngine) Supports(targetLang string) bool {
	_, ok := deeplLangCodes[targetLang]
	return ok
}

func (e *DeepLEngine) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if sourceLang == targetLang {
		return text, nil
	}
	target, ok := deeplLangCodes[targetLang]
	if !ok {
		return text, fmt.Errorf("deepl does not support language %q", targetLang)
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("target_lang", target)
	if sourceLang != "auto" {
		form.Set("source_lang", strings.ToUpper(sourceLang))
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return text, err
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+e.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.Client.Do(req)
	if err != nil {
		log.Printf("DeepL request for %s failed: %v", targetLang, err)
		return text, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("DeepL returned status %d for %s", resp.StatusCode, targetLang)
		return text, fmt.Errorf("deepl status %d", resp.StatusCode)
	}

	var body struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("DeepL response for %s is not valid JSON: %v", targetLang, err)
		return text, err
	}
	if len(body.Translations) == 0 || body.Translations[0].Text == "" {
		return text, nil
	}
	return body.Translations[0].Text, nil
}

func (e *DeepLEngine) TranslateToAll(ctx context.Context, text, sourceLang string) map[string]string {
	result := map[string]string{}
	for lang := range deeplLangCodes {
		translated, err := e.Translate(ctx, text, sourceLang, lang)
		if err != nil {
			log.Printf("DeepL bulk translation to %s failed: %v", lang, err)
			result[lang] = text
		} else {
			result[lang] = translated
		}
		time.Sleep(e.Delay)
	}
	return result
}
