package revision

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/conorfennell/problemlog/internal/domain"
)

// ParseWhen parses a revision date relative to today.
// It accepts "" (no date), an absolute date, "today", "tomorrow",
// or an offset such as "+3d" or "+2w".
func ParseWhen(s string, today domain.Date) (*domain.Date, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return nil, nil
	case "today":
		return &today, nil
	case "tomorrow":
		d := today.AddDays(1)
		return &d, nil
	}

	if strings.HasPrefix(s, "+") && len(s) > 2 {
		n, err := strconv.Atoi(s[1 : len(s)-1])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid revision offset %q", s)
		}
		var d domain.Date
		switch s[len(s)-1] {
		case 'd':
			d = today.AddDays(n)
		case 'w':
			d = today.AddDays(7 * n)
		default:
			return nil, fmt.Errorf("invalid revision offset unit in %q", s)
		}
		return &d, nil
	}

	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
