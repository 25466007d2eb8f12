package llm

import (
	"fmt"

	"github.com/helios-game/helios/internal/domain"
)

// Provider constants
const (
	ProviderDeepSeek = "deepseek"
	ProviderOpenAI   = "openai"
	ProviderMock     = "mock"
)

const (
	DeepSeekBaseURL = "https://api.deepseek.com/v1"
	DeepSeekModel   = "deepseek-chat"
	OpenAIBaseURL   = "https://api.openai.com/v1"
	OpenAIModel     = "gpt-4o-mini"
)

// Options configures an OpenAI-compatible client. Empty BaseURL and Model
// fall back to the provider defaults.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewClient creates an LLM client based on the provider name.
// Returns an error if the provider is unknown or the API key is empty (except for mock).
func NewClient(provider string, opts Options) (domain.LLMClient, error) {
	switch provider {
	case ProviderDeepSeek:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for DeepSeek provider")
		}
		return NewOpenAIClient(withDefaults(opts, DeepSeekBaseURL, DeepSeekModel)), nil

	case ProviderOpenAI:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewOpenAIClient(withDefaults(opts, OpenAIBaseURL, OpenAIModel)), nil

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (valid options: deepseek, openai, mock)", provider)
	}
}

func withDefaults(opts Options, baseURL, model string) Options {
	if opts.BaseURL == "" {
		opts.BaseURL = baseURL
	}
	if opts.Model == "" {
		opts.Model = model
	}
	return opts
}
