// Package guidegen turns a natural-language goal into a complete,
// normalized guide document via an LLM provider.
package guidegen

import (
	"context"

	"github.com/waymark-labs/waymark/internal/guide"
)

// Request describes the guide the user wants generated.
type Request struct {
	// Goal is the user's task in their own words.
	Goal string

	// Category optionally pins the guide category. When empty, the
	// generator's own choice stands.
	Category string

	// Difficulty selects how granular the guide should be. Empty means
	// beginner.
	Difficulty guide.Difficulty

	// UserContext is free-form detail about the user's environment
	// (OS, app versions, constraints). Optional.
	UserContext string
}

// Generator produces a normalized guide from a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (*guide.Guide, error)
}
