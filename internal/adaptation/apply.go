package adaptation

import (
	"fmt"
	"strconv"
	"time"

	"github.com/waymark-labs/waymark/internal/guide"
	"github.com/waymark-labs/waymark/internal/identifier"
)

// SuffixesExhaustedError reports that every suffix letter for a step base
// is already taken, so no more alternatives can be minted for it.
type SuffixesExhaustedError struct {
	Base int
}

func (e *SuffixesExhaustedError) Error() string {
	return fmt.Sprintf("no suffix letters left for step base %d", e.Base)
}

// MintIdentifiers picks up to n fresh identifiers for alternatives to
// blockedID. Letters are assigned in order from "a", skipping any suffix
// already used anywhere in the guide for the same base, so repeated
// adaptations never collide: after "1a" and "1b" exist, the next mint for
// base 1 starts at "1c", whichever step of the family was blocked.
func MintIdentifiers(g *guide.Guide, blockedID string, n int) ([]string, error) {
	if !identifier.Valid(blockedID) {
		return nil, fmt.Errorf("cannot mint alternatives for malformed identifier %q", blockedID)
	}
	key := identifier.Parse(blockedID)
	used := g.SuffixesInUse(key.Base)
	base := strconv.Itoa(key.Base)

	var out []string
	for c := byte('a'); c <= 'z' && len(out) < n; c++ {
		s := string(c)
		if used[s] {
			continue
		}
		out = append(out, base+s)
	}
	if len(out) == 0 {
		return nil, &SuffixesExhaustedError{Base: key.Base}
	}
	return out, nil
}

// Apply splices generated alternatives in after the blocked step and
// appends the change to the guide history. The blocked step keeps its
// place in the tree; blocking it again here is a no-op when the caller
// already blocked it before generation ran. Returns the identifiers of
// the inserted steps. If fewer suffix letters remain than drafts given,
// the surplus drafts are dropped.
func Apply(g *guide.Guide, blockedID string, drafts []guide.StepDraft, provider string, p Problem, now time.Time) ([]string, error) {
	if len(drafts) == 0 {
		return nil, fmt.Errorf("no alternative steps to apply for %q", blockedID)
	}
	st, _, ok := g.FindStep(blockedID)
	if !ok {
		return nil, &guide.StepNotFoundError{Identifier: blockedID}
	}
	st.Block(p.Description)

	ids, err := MintIdentifiers(g, blockedID, len(drafts))
	if err != nil {
		return nil, err
	}

	alts := make([]*guide.Step, 0, len(ids))
	for i, id := range ids {
		alts = append(alts, guide.NewAlternative(drafts[i], id, blockedID))
	}

	if err := g.InsertAlternatives(blockedID, alts); err != nil {
		return nil, err
	}

	g.History = append(g.History, guide.AdaptationRecord{
		Timestamp:         now,
		BlockedIdentifier: blockedID,
		Reason:            string(p.Reason),
		Detail:            p.Description,
		NewIdentifiers:    ids,
		GeneratorUsed:     provider,
	})
	g.LastAdaptedAt = &now

	return ids, nil
}
