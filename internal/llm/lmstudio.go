package llm

const (
	defaultLMStudioBaseURL = "http://localhost:1234/v1"
	defaultLMStudioModel   = "local-model"

	// LM Studio ignores the API key, but the OpenAI client requires one.
	lmStudioAPIKey = "lm-studio"
)

// LMStudioProvider targets a local LM Studio server. LM Studio exposes an
// OpenAI-compatible API, so the underlying SDK is reused.
type LMStudioProvider struct {
	*OpenAIProvider
}

// NewLMStudioProvider creates a provider for a local LM Studio server.
func NewLMStudioProvider(cfg LMStudioConfig) (*LMStudioProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultLMStudioBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultLMStudioModel
	}

	inner, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:  lmStudioAPIKey,
		Model:   model,
		BaseURL: baseURL,
	})
	if err != nil {
		return nil, err
	}

	return &LMStudioProvider{OpenAIProvider: inner}, nil
}
