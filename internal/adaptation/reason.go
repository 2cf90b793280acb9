// Package adaptation reshapes a guide around a step the user cannot
// perform: the step is marked blocked, replacement steps are spliced in
// right after it, and the change is recorded in the guide's history.
package adaptation

import "fmt"

// Reason categorizes why a step became impossible.
type Reason string

const (
	ReasonUIChanged      Reason = "ui_changed"
	ReasonFeatureMissing Reason = "feature_missing"
	ReasonAccessDenied   Reason = "access_denied"
	ReasonOther          Reason = "other"
)

// Valid reports whether r is one of the known categories.
func (r Reason) Valid() bool {
	switch r {
	case ReasonUIChanged, ReasonFeatureMissing, ReasonAccessDenied, ReasonOther:
		return true
	}
	return false
}

// ParseReason maps free-form input onto a category, falling back to
// ReasonOther for anything unrecognized. Empty input is an error so
// callers cannot silently drop the field.
func ParseReason(s string) (Reason, error) {
	if s == "" {
		return "", fmt.Errorf("reason category is required")
	}
	r := Reason(s)
	if !r.Valid() {
		return ReasonOther, nil
	}
	return r, nil
}
