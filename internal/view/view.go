// Package view projects the problem list into what the UI displays.
package view

import (
	"strings"
	"time"

	"github.com/conorfennell/problemlog/internal/domain"
	"github.com/conorfennell/problemlog/internal/revision"
)

// DefaultDismissAfter is how long a notification stays on screen.
const DefaultDismissAfter = 3 * time.Second

// Notification messages shown after each mutation.
const (
	MsgAdded   = "Problem added successfully!"
	MsgRevised = "Marked as revised!"
	MsgDeleted = "Problem deleted!"
)

// Notification is a transient message shown after an action.
type Notification struct {
	Message      string
	Error        bool
	DismissAfter time.Duration
}

// Success returns an informational notification.
func Success(msg string) *Notification {
	return &Notification{Message: msg, DismissAfter: DefaultDismissAfter}
}

// Failure returns an error notification.
func Failure(msg string) *Notification {
	return &Notification{Message: msg, Error: true, DismissAfter: DefaultDismissAfter}
}

// DismissMillis is DismissAfter in milliseconds, for templates.
func (n *Notification) DismissMillis() int64 {
	return n.DismissAfter.Milliseconds()
}

// Entry is one displayed problem.
type Entry struct {
	domain.Problem
	State           revision.State
	CanMarkRevised  bool
	HasDetails      bool
	DifficultyClass string
}

// LinkText returns the link or "".
func (e Entry) LinkText() string { return deref(e.Link) }

// NotesText returns the notes or "".
func (e Entry) NotesText() string { return deref(e.Notes) }

// RevisionDateText returns the revision date or "".
func (e Entry) RevisionDateText() string {
	if e.RevisionDate == nil {
		return ""
	}
	return e.RevisionDate.String()
}

// Page is everything rendered for one view of the list.
type Page struct {
	Today         domain.Date
	Entries       []Entry
	Due           []Entry
	ShowRevisions bool
	Stats         revision.Stats
	Notification  *Notification
}

// Empty reports whether there is nothing to list.
func (p Page) Empty() bool { return len(p.Entries) == 0 }

// Build projects problems as seen on today. Entries are newest first,
// Due keeps list order. note may be nil.
func Build(problems []domain.Problem, today domain.Date, note *Notification) Page {
	page := Page{
		Today:        today,
		Entries:      make([]Entry, 0, len(problems)),
		Due:          make([]Entry, 0),
		Stats:        revision.ComputeStats(problems, today),
		Notification: note,
	}

	for i := len(problems) - 1; i >= 0; i-- {
		page.Entries = append(page.Entries, newEntry(problems[i], today))
	}
	for _, p := range revision.DueRevisions(problems, today) {
		page.Due = append(page.Due, newEntry(p, today))
	}
	page.ShowRevisions = len(page.Due) > 0
	return page
}

func newEntry(p domain.Problem, today domain.Date) Entry {
	return Entry{
		Problem:         p,
		State:           revision.StateOf(p, today),
		CanMarkRevised:  revision.IsCandidate(p),
		HasDetails:      p.Link != nil || p.Notes != nil || p.RevisionDate != nil,
		DifficultyClass: strings.ToLower(string(p.Difficulty)),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
