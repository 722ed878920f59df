package revision

import (
	"testing"
	"time"

	"github.com/conorfennell/problemlog/internal/domain"
)

var today = domain.NewDate(2026, time.October, 18)

func dateRef(d domain.Date) *domain.Date { return &d }

func candidate(id int64, when *domain.Date) domain.Problem {
	return domain.Problem{
		ID:            id,
		Name:          "Two Sum",
		Difficulty:    domain.Easy,
		Topic:         "Array",
		Company:       domain.DefaultCompany,
		NeedsRevision: true,
		RevisionDate:  when,
	}
}

func TestIsDue(t *testing.T) {
	testCases := []struct {
		name     string
		problem  domain.Problem
		expected bool
	}{
		{name: "yesterday is due", problem: candidate(1, dateRef(today.AddDays(-1))), expected: true},
		{name: "today is due", problem: candidate(1, dateRef(today)), expected: true},
		{name: "tomorrow is not due", problem: candidate(1, dateRef(today.AddDays(1))), expected: false},
		{name: "no date is always due", problem: candidate(1, nil), expected: true},
		{
			name: "revised is never due",
			problem: func() domain.Problem {
				p := candidate(1, nil)
				p.Revised = true
				return p
			}(),
			expected: false,
		},
		{
			name: "not flagged is never due",
			problem: func() domain.Problem {
				p := candidate(1, dateRef(today.AddDays(-3)))
				p.NeedsRevision = false
				return p
			}(),
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDue(tc.problem, today); got != tc.expected {
				t.Errorf("Expected IsDue to be %v, but got %v", tc.expected, got)
			}
		})
	}
}

func TestUndatedCandidateIsDueOnAnyDay(t *testing.T) {
	p := candidate(1, nil)
	for _, day := range []domain.Date{domain.NewDate(1999, time.January, 1), today, domain.NewDate(2100, time.December, 31)} {
		if !IsDue(p, day) {
			t.Errorf("Expected undated candidate to be due on %s", day)
		}
	}
}

func TestStateOf(t *testing.T) {
	plain := candidate(1, nil)
	plain.NeedsRevision = false

	revised := candidate(2, dateRef(today.AddDays(5)))
	revised.Revised = true

	testCases := []struct {
		name     string
		problem  domain.Problem
		expected State
	}{
		{name: "not a candidate", problem: plain, expected: NotCandidate},
		{name: "pending", problem: candidate(3, dateRef(today.AddDays(2))), expected: Pending},
		{name: "due", problem: candidate(4, dateRef(today.AddDays(-2))), expected: Due},
		{name: "revised", problem: revised, expected: Revised},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StateOf(tc.problem, today); got != tc.expected {
				t.Errorf("Expected state %s, but got %s", tc.expected, got)
			}
		})
	}

	t.Run("pending becomes due as days pass", func(t *testing.T) {
		p := candidate(5, dateRef(today.AddDays(2)))
		if StateOf(p, today) != Pending {
			t.Fatal("Expected pending before the revision date")
		}
		if StateOf(p, today.AddDays(2)) != Due {
			t.Error("Expected due on the revision date")
		}
	})
}

func TestDueRevisions(t *testing.T) {
	problems := []domain.Problem{
		candidate(1, dateRef(today.AddDays(-1))),
		candidate(2, dateRef(today.AddDays(1))),
		candidate(3, nil),
	}

	due := DueRevisions(problems, today)
	if len(due) != 2 {
		t.Fatalf("Expected 2 due problems, but got %d", len(due))
	}
	if due[0].ID != 1 || due[1].ID != 3 {
		t.Errorf("Expected list order [1 3], got [%d %d]", due[0].ID, due[1].ID)
	}

	again := DueRevisions(problems, today)
	for i := range due {
		if due[i].ID != again[i].ID {
			t.Error("Expected deterministic ordering for a fixed day")
		}
	}

	if got := DueRevisions(nil, today); got == nil || len(got) != 0 {
		t.Errorf("Expected an empty non-nil slice, got %#v", got)
	}
}
