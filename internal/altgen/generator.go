// Package altgen generates replacement steps for a blocked guide step
// using an LLM provider.
package altgen

import (
	"context"

	"github.com/waymark-labs/waymark/internal/adaptation"
	"github.com/waymark-labs/waymark/internal/guide"
)

// Generator produces alternative steps for a blocked step.
type Generator interface {
	// Generate proposes replacement steps for the blocked step described
	// by the adaptation context. Returns validated drafts or an error.
	Generate(ctx context.Context, input *adaptation.Context) (*Result, error)
}

// Result is the validated outcome of one generation.
type Result struct {
	// Reason is the generator's explanation of why the alternatives
	// take a different route.
	Reason string

	// Drafts are the proposed replacement steps, in the order they
	// should be attempted.
	Drafts []guide.StepDraft
}

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxAlternatives caps how many proposed steps are accepted.
	// Surplus proposals are dropped, not rejected.
	MaxAlternatives int

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxAlternatives: 3,
		MaxTokens:       1500,
		Temperature:     0.7,
	}
}
