// Package tracker owns the in-memory problem list and applies mutations to it.
// Every mutation persists the full list before it becomes visible.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/conorfennell/problemlog/internal/domain"
	"github.com/conorfennell/problemlog/internal/revision"
)

// DeletePrompt is the question asked before a problem is deleted.
const DeletePrompt = "Are you sure you want to delete this problem?"

// Store loads and saves the whole problem list.
type Store interface {
	Load(ctx context.Context) ([]domain.Problem, error)
	Save(ctx context.Context, problems []domain.Problem) error
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Confirmed approves every prompt. Use it when the caller already asked.
var Confirmed = ConfirmFunc(func(string) bool { return true })

// Listener is called with a snapshot of the list after each change.
type Listener func(problems []domain.Problem)

// Tracker holds the problem list for one session.
type Tracker struct {
	mu        sync.Mutex
	store     Store
	problems  []domain.Problem
	listeners []Listener
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLogger sets the logger used for mutation events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

// New loads the stored list and returns a Tracker over it.
func New(ctx context.Context, store Store, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store:  store,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}

	problems, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load problems: %w", err)
	}
	t.problems = problems
	return t, nil
}

// Today returns the current calendar day according to the tracker's clock.
func (t *Tracker) Today() domain.Date {
	return revision.Today(t.now())
}

// OnChange registers l to be called after every successful mutation.
func (t *Tracker) OnChange(l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, l)
}

// Problems returns a copy of the list in insertion order.
func (t *Tracker) Problems() []domain.Problem {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.problems)
}

// Find returns the problem with id, or an error wrapping domain.ErrNotFound.
func (t *Tracker) Find(id int64) (domain.Problem, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexOf(id); i >= 0 {
		return t.problems[i], nil
	}
	return domain.Problem{}, fmt.Errorf("problem %d: %w", id, domain.ErrNotFound)
}

// Add validates f, creates a problem from it and appends it to the list.
func (t *Tracker) Add(ctx context.Context, f domain.Fields) (domain.Problem, error) {
	f = normalize(f)
	if err := f.Validate(); err != nil {
		return domain.Problem{}, err
	}

	t.mu.Lock()
	now := t.now()
	p := domain.Problem{
		ID:            t.nextID(now),
		Name:          f.Name,
		Difficulty:    f.Difficulty,
		Topic:         f.Topic,
		Company:       f.Company,
		NeedsRevision: f.NeedsRevision,
		Date:          domain.Created(revision.Today(now)),
	}
	if p.Company == "" {
		p.Company = domain.DefaultCompany
	}
	if f.Link != "" {
		p.Link = &f.Link
	}
	if f.Notes != "" {
		p.Notes = &f.Notes
	}
	if f.RevisionDate != nil && !f.RevisionDate.IsZero() {
		d := *f.RevisionDate
		p.RevisionDate = &d
	}

	next := append(slices.Clone(t.problems), p)
	if err := t.commit(ctx, next); err != nil {
		t.mu.Unlock()
		return domain.Problem{}, fmt.Errorf("failed to add problem: %w", err)
	}
	t.mu.Unlock()

	t.logger.Info("Problem added", "id", p.ID, "name", p.Name, "needs_revision", p.NeedsRevision)
	t.notify()
	return p, nil
}

// Delete removes the problem with id after confirm approves it.
// It reports whether a problem was removed. A nil confirmer declines.
func (t *Tracker) Delete(ctx context.Context, id int64, confirm Confirmer) (bool, error) {
	if confirm == nil || !confirm.Confirm(DeletePrompt) {
		return false, nil
	}

	t.mu.Lock()
	i := t.indexOf(id)
	if i < 0 {
		t.mu.Unlock()
		return false, nil
	}
	next := slices.Delete(slices.Clone(t.problems), i, i+1)
	if err := t.commit(ctx, next); err != nil {
		t.mu.Unlock()
		return false, fmt.Errorf("failed to delete problem %d: %w", id, err)
	}
	t.mu.Unlock()

	t.logger.Info("Problem deleted", "id", id)
	t.notify()
	return true, nil
}

// MarkRevised marks the problem with id as revised.
// It reports whether the problem exists. Marking twice is the same as once.
func (t *Tracker) MarkRevised(ctx context.Context, id int64) (bool, error) {
	t.mu.Lock()
	i := t.indexOf(id)
	if i < 0 {
		t.mu.Unlock()
		return false, nil
	}
	if t.problems[i].Revised {
		t.mu.Unlock()
		return true, nil
	}
	next := slices.Clone(t.problems)
	next[i].Revised = true
	if err := t.commit(ctx, next); err != nil {
		t.mu.Unlock()
		return false, fmt.Errorf("failed to mark problem %d revised: %w", id, err)
	}
	t.mu.Unlock()

	t.logger.Info("Problem marked revised", "id", id)
	t.notify()
	return true, nil
}

// commit persists next and then makes it current. Must hold t.mu.
func (t *Tracker) commit(ctx context.Context, next []domain.Problem) error {
	if err := t.store.Save(ctx, next); err != nil {
		return err
	}
	t.problems = next
	return nil
}

func (t *Tracker) notify() {
	t.mu.Lock()
	snapshot := slices.Clone(t.problems)
	listeners := slices.Clone(t.listeners)
	t.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// nextID derives an id from now that is greater than every existing id.
func (t *Tracker) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	for _, p := range t.problems {
		if p.ID >= id {
			id = p.ID + 1
		}
	}
	return id
}

func (t *Tracker) indexOf(id int64) int {
	return slices.IndexFunc(t.problems, func(p domain.Problem) bool { return p.ID == id })
}

func normalize(f domain.Fields) domain.Fields {
	f.Name = strings.TrimSpace(f.Name)
	f.Link = strings.TrimSpace(f.Link)
	f.Difficulty = domain.Difficulty(strings.TrimSpace(string(f.Difficulty)))
	f.Topic = strings.TrimSpace(f.Topic)
	f.Company = strings.TrimSpace(f.Company)
	f.Notes = strings.TrimSpace(f.Notes)
	return f
}
