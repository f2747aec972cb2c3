// Package translate talks to external machine-translation providers and
// derives the per-language copies of catalog content.
package translate

import (
	"context"
	"time"

	"gallery/config"
)

const (
	// Outbound calls are cut off after this long and treated as failures
	requestTimeout = 30 * time.Second
	// Pause between consecutive provider calls in bulk translation, to stay
	// under provider rate limits
	interCallDelay = 100 * time.Millisecond
)

// Engine is a translation provider. Implementations never propagate a
// provider failure as a hard stop: Translate returns the source text along
// with the error so callers can choose between skipping the language and
// falling back to the source.
type Engine interface {
	// Translate returns the text in targetLang. sourceLang may be "auto" for
	// provider-side detection. On any failure the returned string is the
	// unmodified source text and the error says why.
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
	// TranslateToAll translates into every language the engine supports,
	// sequentially, with a small delay between calls. Languages the provider
	// cannot handle map to the source text. Never fails.
	TranslateToAll(ctx context.Context, text, sourceLang string) map[string]string
	Supports(targetLang string) bool
}

// NewEngine selects the provider by its configured name. Returns nil when
// translation is disabled; callers treat a nil engine as "keep source text".
func NewEngine(cache *Cache) Engine {
	if !config.TRANSLATION_ENABLED {
		return nil
	}
	switch config.TRANSLATION_PROVIDER {
	case "rest":
		return NewRESTEngine(config.TRANSLATION_ENDPOINT, config.TRANSLATION_API_KEY, cache)
	default:
		return NewDeepLEngine(config.DEEPL_API_KEY)
	}
}
