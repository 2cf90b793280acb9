package store

import (
	"context"
	"fmt"
	"time"

	"github.com/waymark-labs/waymark/internal/guide"
	"github.com/waymark-labs/waymark/internal/session"
)

// NotFoundError reports a missing row.
type NotFoundError struct {
	Kind string // "guide" or "session"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// VersionConflictError reports a guide save whose expected version no
// longer matches the stored one. The caller should reload and retry.
type VersionConflictError struct {
	GuideID  string
	Expected int
	Actual   int
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("guide %q version conflict: expected %d, stored %d",
		e.GuideID, e.Expected, e.Actual)
}

// GuideRepo persists guide documents as versioned JSON blobs.
type GuideRepo interface {
	// Create stores a new guide at version 1.
	Create(ctx context.Context, g *guide.Guide) error

	// Load returns the guide with its stored version filled in.
	Load(ctx context.Context, id string) (*guide.Guide, error)

	// Save overwrites the document if the stored version still equals
	// expectedVersion, bumping the version by one. A stale
	// expectedVersion yields a VersionConflictError.
	Save(ctx context.Context, g *guide.Guide, expectedVersion int) error

	// List returns all guides, newest first.
	List(ctx context.Context) ([]*guide.Guide, error)
}

// SessionRepo persists sessions.
type SessionRepo interface {
	// Save inserts the session or updates its mutable columns.
	Save(ctx context.Context, s *session.Session) error

	// Load returns the session by id.
	Load(ctx context.Context, id string) (*session.Session, error)

	// ListByUser returns the user's sessions, newest first. An empty
	// status means no filter.
	ListByUser(ctx context.Context, userID string, status session.Status) ([]*session.Session, error)
}

// LLMEventData captures one LLM provider call.
type LLMEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored provider call. Request and response bodies are
// only populated by GetLLMEvent.
type LLMEvent struct {
	ID        int64
	Timestamp time.Time
	LLMEventData
}

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit int // max results (0 = unlimited)
}

// LLMPurposeUsage aggregates provider calls per purpose label.
type LLMPurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates provider calls per model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// LLMEventRepo records and reads provider call events.
type LLMEventRepo interface {
	// AppendLLMEvent records an LLM API call event.
	AppendLLMEvent(ctx context.Context, data LLMEventData) error

	// QueryLLMEvents returns events without bodies, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]*LLMEvent, error)

	// GetLLMEvent returns one event with its bodies, or nil if absent.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
