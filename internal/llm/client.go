// Package llm provides single-turn completion clients for the supported
// inference providers.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider identifies an inference provider.
type Provider string

const (
	ProviderGoogle    Provider = "google"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// ErrEmptyResponse indicates the provider returned no usable content.
var ErrEmptyResponse = errors.New("empty response from model")

// Options bound a generation request.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// DefaultOptions keep completions cheap and deterministic.
var DefaultOptions = Options{MaxTokens: 2048, Temperature: 0.1}

// Client issues one bounded completion request against a single model.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Provider() Provider
	Model() string
}

// ForModel constructs a client for a "provider/model" reference. The
// provider's credential environment variable must be set; its absence is a
// descriptive error, not a network attempt.
func ForModel(ref string, opts Options) (Client, error) {
	provider, model, ok := strings.Cut(ref, "/")
	if !ok || model == "" {
		return nil, fmt.Errorf("invalid model reference %q, use: provider/model", ref)
	}
	switch Provider(provider) {
	case ProviderGoogle:
		return NewGoogleClient(model, opts)
	case ProviderOpenAI:
		return NewOpenAIClient(model, opts)
	case ProviderAnthropic:
		return NewAnthropicClient(model, opts)
	default:
		return nil, fmt.Errorf("unknown provider %q in model reference %q", provider, ref)
	}
}
