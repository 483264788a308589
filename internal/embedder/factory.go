package embedder

import (
	"fmt"
	"os"
	"strings"
)

// Config holds embedder configuration
type Config struct {
	Provider  string
	APIKey    string
	BaseURL   string
	Model     string
	CacheSize int
}

// NewFromEnv creates an embedder based on environment variables.
// Priority:
//  1. CODECTX_EMBEDDING_PROVIDER (ollama, openai, local)
//  2. OPENAI_API_KEY if set
//  3. Default to ollama
func NewFromEnv() (Embedder, error) {
	provider := os.Getenv(EnvProvider)
	openaiKey := os.Getenv(EnvOpenAIAPIKey)

	cache := NewCache(10000) // Default cache size

	if provider != "" {
		provider = strings.ToLower(provider)
		switch provider {
		case ProviderOllama:
			return NewOllamaProvider(os.Getenv(EnvOllamaURL), os.Getenv(EnvOllamaModel), cache), nil
		case ProviderOpenAI:
			return NewOpenAIProvider(openaiKey, cache)
		case ProviderLocal:
			return NewLocalProvider(cache)
		default:
			return nil, fmt.Errorf("%w: unknown provider %s", ErrUnsupportedModel, provider)
		}
	}

	if openaiKey != "" {
		return NewOpenAIProvider(openaiKey, cache)
	}

	return NewOllamaProvider(os.Getenv(EnvOllamaURL), os.Getenv(EnvOllamaModel), cache), nil
}

// New creates an embedder with explicit configuration
func New(cfg Config) (Embedder, error) {
	var cache *Cache
	if cfg.CacheSize > 0 {
		cache = NewCache(cfg.CacheSize)
	}

	provider := strings.ToLower(cfg.Provider)
	switch provider {
	case ProviderOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model, cache), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cache)
	case ProviderLocal:
		return NewLocalProvider(cache)
	default:
		return nil, fmt.Errorf("%w: unknown provider %s", ErrUnsupportedModel, cfg.Provider)
	}
}

// DetectProvider returns the provider that would be used based on the
// current environment
func DetectProvider() string {
	provider := os.Getenv(EnvProvider)
	if provider != "" {
		return strings.ToLower(provider)
	}

	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return ProviderOpenAI
	}

	return ProviderOllama
}
