package revision

import (
	"testing"
	"time"

	"github.com/conorfennell/problemlog/internal/domain"
)

func TestParseWhen(t *testing.T) {
	testCases := []struct {
		input    string
		expected *domain.Date
		wantErr  bool
	}{
		{input: "", expected: nil},
		{input: "today", expected: dateRef(today)},
		{input: "Tomorrow", expected: dateRef(today.AddDays(1))},
		{input: "+3d", expected: dateRef(today.AddDays(3))},
		{input: "+2w", expected: dateRef(today.AddDays(14))},
		{input: "2026-12-01", expected: dateRef(domain.NewDate(2026, time.December, 1))},
		{input: "+3m", wantErr: true},
		{input: "+xd", wantErr: true},
		{input: "someday", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseWhen(tc.input, today)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Expected an error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseWhen(%q) returned an unexpected error: %v", tc.input, err)
			}
			if tc.expected == nil {
				if got != nil {
					t.Errorf("Expected nil, got %s", got)
				}
				return
			}
			if got == nil || !got.Equal(*tc.expected) {
				t.Errorf("Expected %s, got %v", tc.expected, got)
			}
		})
	}
}
