// Package engine exposes the guided-walk operations over the stores and
// generators: resolve the current step, move the pointer, compute
// progress, and adapt the guide when a step is reported impossible. The
// engine is synchronous and holds no state of its own; every operation
// loads what it needs, mutates, and saves.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/waymark-labs/waymark/internal/altgen"
	"github.com/waymark-labs/waymark/internal/guidegen"
	"github.com/waymark-labs/waymark/internal/logger"
	"github.com/waymark-labs/waymark/internal/session"
	"github.com/waymark-labs/waymark/internal/store"
)

// AdaptationFailedError reports that alternative generation failed after
// the step was already marked blocked. The block is persisted; the caller
// may retry the report, which mints fresh suffixes.
type AdaptationFailedError struct {
	Err error
}

func (e *AdaptationFailedError) Error() string {
	return fmt.Sprintf("adaptation failed: %v", e.Err)
}

func (e *AdaptationFailedError) Unwrap() error { return e.Err }

// AdaptationConflictError reports that the guide changed under an
// in-flight adaptation. Nothing from the conflicting save is persisted;
// the caller re-reads and retries.
type AdaptationConflictError struct {
	GuideID string
	Err     error
}

func (e *AdaptationConflictError) Error() string {
	return fmt.Sprintf("guide %q changed during adaptation: %v", e.GuideID, e.Err)
}

func (e *AdaptationConflictError) Unwrap() error { return e.Err }

// Engine wires the stores and generators together behind the operation
// surface the commands call.
type Engine struct {
	guides       store.GuideRepo
	sessions     store.SessionRepo
	alternatives altgen.Generator
	guideGen     guidegen.Generator
	providerName string
	log          *logger.Logger

	now func() time.Time
}

// New builds an engine. The generators may be nil when no LLM provider is
// configured; operations that need one fail with a clear error.
// providerName is recorded in adaptation history entries.
func New(guides store.GuideRepo, sessions store.SessionRepo, alternatives altgen.Generator, guideGen guidegen.Generator, providerName string, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	if providerName == "" {
		providerName = "unknown"
	}
	return &Engine{
		guides:       guides,
		sessions:     sessions,
		alternatives: alternatives,
		guideGen:     guideGen,
		providerName: providerName,
		log:          log,
		now:          time.Now,
	}
}

// Start creates a session for a user on a guide. The pointer begins at
// the guide's first identifier and the session waits in Created until the
// first engine access activates it.
func (e *Engine) Start(ctx context.Context, userID, guideID string) (*session.Session, error) {
	g, err := e.guides.Load(ctx, guideID)
	if err != nil {
		return nil, err
	}
	first, ok := g.FirstIdentifier(false)
	if !ok {
		return nil, fmt.Errorf("guide %q has no steps to walk", guideID)
	}

	s := session.New(uuid.NewString(), userID, guideID, first, e.now())
	if err := e.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	e.log.Info("session started",
		"session_id", s.ID,
		"user_id", userID,
		"guide_id", guideID,
		"first_step", first,
	)
	return s, nil
}

// Get returns a session without touching its state.
func (e *Engine) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	return e.sessions.Load(ctx, sessionID)
}

// ListByUser returns a user's sessions, newest first, optionally filtered
// by status.
func (e *Engine) ListByUser(ctx context.Context, userID string, status session.Status) ([]*session.Session, error) {
	return e.sessions.ListByUser(ctx, userID, status)
}

// Pause suspends an active session.
func (e *Engine) Pause(ctx context.Context, sessionID string) (*session.Session, error) {
	return e.transition(ctx, sessionID, "paused", (*session.Session).Pause)
}

// Resume reactivates a paused session.
func (e *Engine) Resume(ctx context.Context, sessionID string) (*session.Session, error) {
	return e.transition(ctx, sessionID, "resumed", (*session.Session).Resume)
}

// Fail abandons a session.
func (e *Engine) Fail(ctx context.Context, sessionID string) (*session.Session, error) {
	return e.transition(ctx, sessionID, "failed", (*session.Session).Fail)
}

// Restart brings a failed session back to active at its last position.
func (e *Engine) Restart(ctx context.Context, sessionID string) (*session.Session, error) {
	return e.transition(ctx, sessionID, "restarted", (*session.Session).Restart)
}

func (e *Engine) transition(ctx context.Context, sessionID, verb string, f func(*session.Session, time.Time) error) (*session.Session, error) {
	s, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := f(s, e.now()); err != nil {
		return nil, err
	}
	if err := e.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	e.log.Info("session "+verb, "session_id", s.ID, "status", s.Status)
	return s, nil
}

// readGate rejects terminal sessions and activates a Created one. Reads
// are allowed while paused. Reports whether activation happened so the
// caller knows the session needs saving.
func readGate(s *session.Session, op string, now time.Time) (bool, error) {
	switch s.Status {
	case session.StatusCompleted, session.StatusFailed:
		return false, &session.InvalidStateError{Status: s.Status, Op: op}
	case session.StatusCreated:
		if err := s.Activate(now); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, nil
	}
}

// writeGate is readGate plus the pointer-mutation rule: the session must
// end up Active, so a paused session has to be resumed first.
func writeGate(s *session.Session, op string, now time.Time) (bool, error) {
	activated, err := readGate(s, op, now)
	if err != nil {
		return false, err
	}
	if s.Status != session.StatusActive {
		return false, &session.InvalidStateError{Status: s.Status, Op: op}
	}
	return activated, nil
}
