package navigation

import (
	"errors"
	"testing"

	"github.com/waymark-labs/waymark/internal/guide"
)

func TestOverviewFlags(t *testing.T) {
	g := installGuide()
	s := activeSession(g)
	s.MoveTo("1", t0)

	ov, err := Overview(g, s, "setup")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.SectionID != "setup" || ov.Title != "Setup" {
		t.Errorf("header = %q/%q", ov.SectionID, ov.Title)
	}
	if len(ov.Steps) != 2 {
		t.Fatalf("steps = %d, want 2", len(ov.Steps))
	}

	first, second := ov.Steps[0], ov.Steps[1]
	if !first.Completed || first.Current || first.Locked {
		t.Errorf("step 0 flags = %+v", first)
	}
	if !second.Current || second.Completed || second.Locked {
		t.Errorf("step 1 flags = %+v", second)
	}
}

func TestOverviewLockedAhead(t *testing.T) {
	g := installGuide()
	s := activeSession(g)

	ov, err := Overview(g, s, "execution")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	for _, st := range ov.Steps {
		if !st.Locked {
			t.Errorf("step %s should be locked ahead of the pointer", st.Identifier)
		}
	}
	if ov.TotalMinutes != 12 {
		t.Errorf("TotalMinutes = %d, want 12", ov.TotalMinutes)
	}
}

func TestOverviewBlockedStep(t *testing.T) {
	g := installGuide()
	s := activeSession(g)
	blockWithAlternatives(t, g, "1", 1)
	s.MoveTo("1a", t0)

	ov, err := Overview(g, s, "setup")
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if len(ov.Steps) != 3 {
		t.Fatalf("steps = %d, want 3 (0, 1, 1a)", len(ov.Steps))
	}

	blocked := ov.Steps[1]
	if blocked.Identifier != "1" || !blocked.IsBlocked {
		t.Fatalf("blocked row = %+v", blocked)
	}
	if blocked.Title != "Verify" {
		t.Errorf("blocked steps keep their title, got %q", blocked.Title)
	}
	if blocked.BlockedReason != "reported impossible" {
		t.Errorf("BlockedReason = %q", blocked.BlockedReason)
	}
	if blocked.ShowAs != "crossed_out" {
		t.Errorf("ShowAs = %q, want crossed_out", blocked.ShowAs)
	}
	// Positional flags ignore blocking; the crossed_out hint drives display.
	if blocked.Current || !blocked.Completed {
		t.Errorf("blocked row flags = %+v", blocked)
	}

	alt := ov.Steps[2]
	if !alt.IsAlternative || alt.ReplacesIdentifier != "1" || !alt.Current {
		t.Errorf("alternative row = %+v", alt)
	}

	// Duration excludes the blocked step: 5 + 4, not 5 + 3 + 4.
	if ov.TotalMinutes != 9 {
		t.Errorf("TotalMinutes = %d, want 9", ov.TotalMinutes)
	}
}

func TestOverviewDoesNotHealPointer(t *testing.T) {
	g := installGuide()
	s := activeSession(g)
	s.MoveTo("1", t0)
	blockWithAlternatives(t, g, "1", 1)

	if _, err := Overview(g, s, "setup"); err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if s.CurrentIdentifier != "1" {
		t.Errorf("overview moved the pointer to %q", s.CurrentIdentifier)
	}
}

func TestOverviewUnknownSection(t *testing.T) {
	g := installGuide()
	s := activeSession(g)

	_, err := Overview(g, s, "cleanup")
	var nf *guide.SectionNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want *SectionNotFoundError", err)
	}
	if nf.ID != "cleanup" {
		t.Errorf("ID = %q", nf.ID)
	}
}
