package domain

// Difficulty is the self-assessed difficulty of a practice problem.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Difficulties lists every accepted difficulty in display order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// Valid reports whether d is one of the enumerated difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// DefaultCompany is used when a problem is logged without a company.
const DefaultCompany = "General"

// Problem is a single logged interview practice problem.
// The JSON layout is the persisted layout; ID is the only lookup key.
type Problem struct {
	ID            int64      `json:"id" validate:"gt=0"`
	Name          string     `json:"name" validate:"required,notblank"`
	Link          *string    `json:"link"`
	Difficulty    Difficulty `json:"difficulty" validate:"oneof=Easy Medium Hard"`
	Topic         string     `json:"topic" validate:"required,notblank"`
	Company       string     `json:"company" validate:"required,notblank"`
	Notes         *string    `json:"notes"`
	NeedsRevision bool       `json:"needsRevision"`
	RevisionDate  *Date      `json:"revisionDate"`
	Revised       bool       `json:"revised"`
	Date          CreatedOn  `json:"date"`
}

// Fields is the user input for logging a new problem.
// Blank optional strings mean "absent".
type Fields struct {
	Name          string     `json:"name" validate:"required,notblank"`
	Link          string     `json:"link" validate:"omitempty,url"`
	Difficulty    Difficulty `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
	Topic         string     `json:"topic" validate:"required,notblank"`
	Company       string     `json:"company"`
	Notes         string     `json:"notes"`
	NeedsRevision bool       `json:"needsRevision"`
	RevisionDate  *Date      `json:"revisionDate"`
}
