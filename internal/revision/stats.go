package revision

import "github.com/conorfennell/problemlog/internal/domain"

// Stats summarizes a problem list.
type Stats struct {
	Total                int
	UniqueTopics         int
	UniqueCompanies      int
	DueRevisionCount     int
	PendingRevisionCount int
	ByDifficulty         map[domain.Difficulty]int
}

// ComputeStats aggregates problems as seen on today.
// Topics and companies are distinct under exact, case-sensitive comparison.
func ComputeStats(problems []domain.Problem, today domain.Date) Stats {
	topics := make(map[string]struct{})
	companies := make(map[string]struct{})
	stats := Stats{
		Total:        len(problems),
		ByDifficulty: make(map[domain.Difficulty]int, len(domain.Difficulties)),
	}
	for _, d := range domain.Difficulties {
		stats.ByDifficulty[d] = 0
	}

	for _, p := range problems {
		topics[p.Topic] = struct{}{}
		companies[p.Company] = struct{}{}
		stats.ByDifficulty[p.Difficulty]++

		switch StateOf(p, today) {
		case Due:
			stats.DueRevisionCount++
		case Pending:
			stats.PendingRevisionCount++
		}
	}

	stats.UniqueTopics = len(topics)
	stats.UniqueCompanies = len(companies)
	return stats
}
