// Package revision derives revision state and statistics from a problem list.
// Everything here is a pure function of the list and the day it is evaluated on.
package revision

import (
	"time"

	"github.com/conorfennell/problemlog/internal/domain"
)

// State is the display state of a single problem.
type State int

const (
	NotCandidate State = iota
	Pending
	Due
	Revised
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Due:
		return "due"
	case Revised:
		return "revised"
	}
	return "none"
}

// Today returns the calendar day of now in now's location.
func Today(now time.Time) domain.Date {
	return domain.DateOf(now)
}

// IsCandidate reports whether p is flagged for revision and not yet revised.
func IsCandidate(p domain.Problem) bool {
	return p.NeedsRevision && !p.Revised
}

// IsDue reports whether p should be revised on today.
// Candidates without a revision date are always due.
func IsDue(p domain.Problem, today domain.Date) bool {
	if !IsCandidate(p) {
		return false
	}
	if p.RevisionDate == nil || p.RevisionDate.IsZero() {
		return true
	}
	return !p.RevisionDate.After(today)
}

// StateOf classifies p on today.
func StateOf(p domain.Problem, today domain.Date) State {
	switch {
	case p.Revised:
		return Revised
	case !p.NeedsRevision:
		return NotCandidate
	case IsDue(p, today):
		return Due
	default:
		return Pending
	}
}

// DueRevisions returns the problems due on today, in list order.
func DueRevisions(problems []domain.Problem, today domain.Date) []domain.Problem {
	due := make([]domain.Problem, 0)
	for _, p := range problems {
		if IsDue(p, today) {
			due = append(due, p)
		}
	}
	return due
}
