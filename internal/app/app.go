// Package app wires the shared dependencies for the commands: logger,
// store, LLM provider, generators and the engine.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/waymark-labs/waymark/internal/altgen"
	"github.com/waymark-labs/waymark/internal/engine"
	"github.com/waymark-labs/waymark/internal/guidegen"
	"github.com/waymark-labs/waymark/internal/llm"
	"github.com/waymark-labs/waymark/internal/logger"
	"github.com/waymark-labs/waymark/internal/store"
)

// App holds the wired dependencies a command needs.
type App struct {
	Store    *store.Store
	Log      *logger.Logger
	Provider llm.Provider // nil when no LLM is configured
	Engine   *engine.Engine
}

// New opens the store at dbPath and builds the engine. A missing LLM
// configuration is not fatal: navigation and inspection keep working,
// and generation or adaptation report a clear error when attempted.
func New(ctx context.Context, dbPath string) (*App, error) {
	log, err := logger.New(os.Getenv("WAYMARK_LOG"))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := &App{Store: st, Log: log}

	var alternatives altgen.Generator
	var guides guidegen.Generator
	providerName := ""

	cfg := llm.ResolveConfig()
	if err := cfg.Validate(); err != nil {
		log.Debug("LLM provider not configured, generation and adaptation are unavailable",
			"error", err)
	} else {
		provider, err := llm.NewProvider(ctx, cfg, st.LLMEvents())
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("initialize LLM provider: %w", err)
		}
		a.Provider = provider
		providerName = cfg.Provider
		alternatives = altgen.New(provider, altgen.DefaultConfig())
		guides = guidegen.NewService(provider, guidegen.DefaultConfig())
		log.Debug("LLM provider ready", "provider", cfg.Provider, "model", provider.ModelID())
	}

	a.Engine = engine.New(st.Guides(), st.Sessions(), alternatives, guides, providerName, log)
	return a, nil
}

// Close releases the store and flushes the logger.
func (a *App) Close() {
	_ = a.Store.Close()
	a.Log.Sync()
}
