package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/conorfennell/problemlog/internal/domain"
)

// DefaultKey is the storage key the problem list is kept under.
const DefaultKey = "interviewProblems"

// ProblemStore persists the whole problem list as one JSON document.
type ProblemStore struct {
	kv     KV
	key    string
	logger *slog.Logger
}

// NewProblemStore returns a store reading and writing key in kv.
func NewProblemStore(kv KV, key string, logger *slog.Logger) *ProblemStore {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProblemStore{kv: kv, key: key, logger: logger}
}

// Key returns the storage key of the problem list.
func (s *ProblemStore) Key() string { return s.key }

// Load reads the stored list. A missing list is empty.
// Malformed documents and records are dropped rather than failing the load;
// the original document is copied to "<key>.corrupt" first.
func (s *ProblemStore) Load(ctx context.Context) ([]domain.Problem, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load problems: %w", err)
	}
	if !ok {
		return []domain.Problem{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("Stored problem list is malformed, starting empty", "key", s.key, "error", err)
		s.quarantine(ctx, raw)
		return []domain.Problem{}, nil
	}

	problems := make([]domain.Problem, 0, len(items))
	seen := make(map[int64]bool, len(items))
	dropped := 0
	for i, item := range items {
		var p domain.Problem
		if err := json.Unmarshal(item, &p); err != nil {
			s.logger.Warn("Dropping undecodable problem record", "index", i, "error", err)
			dropped++
			continue
		}
		if err := domain.ValidateRecord(p); err != nil {
			s.logger.Warn("Dropping invalid problem record", "index", i, "id", p.ID, "error", err)
			dropped++
			continue
		}
		if seen[p.ID] {
			s.logger.Warn("Dropping problem record with duplicate id", "index", i, "id", p.ID)
			dropped++
			continue
		}
		seen[p.ID] = true
		problems = append(problems, p)
	}

	if dropped > 0 {
		s.quarantine(ctx, raw)
	}
	return problems, nil
}

// Save overwrites the stored list with problems.
func (s *ProblemStore) Save(ctx context.Context, problems []domain.Problem) error {
	if problems == nil {
		problems = []domain.Problem{}
	}
	data, err := json.Marshal(problems)
	if err != nil {
		return fmt.Errorf("failed to encode problems: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to save problems: %w", err)
	}
	return nil
}

// QuarantineKey returns the key a malformed list is copied to on load.
func (s *ProblemStore) QuarantineKey() string { return s.key + ".corrupt" }

// Quarantined returns the last malformed list set aside by Load, if any.
func (s *ProblemStore) Quarantined(ctx context.Context) (string, bool, error) {
	raw, ok, err := s.kv.Get(ctx, s.QuarantineKey())
	if err != nil {
		return "", false, fmt.Errorf("failed to read quarantined problems: %w", err)
	}
	return raw, ok, nil
}

// ClearQuarantine discards the quarantined copy. The live list is untouched.
func (s *ProblemStore) ClearQuarantine(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.QuarantineKey()); err != nil {
		return fmt.Errorf("failed to clear quarantined problems: %w", err)
	}
	s.logger.Info("Cleared quarantined problem list", "key", s.QuarantineKey())
	return nil
}

func (s *ProblemStore) quarantine(ctx context.Context, raw string) {
	key := s.QuarantineKey()
	if err := s.kv.Set(ctx, key, raw); err != nil {
		s.logger.Warn("Failed to quarantine malformed problem list", "key", key, "error", err)
		return
	}
	s.logger.Info("Quarantined original problem list", "key", key)
}
