package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Creation dates are read only in layouts with an unambiguous day and month.
var createdLayouts = []string{
	DateLayout,
	"2006/01/02",
	time.RFC3339Nano,
	time.RFC3339,
}

// CreatedOn is the day a problem was logged. It is only ever displayed.
// Older blobs hold browser locale strings such as "18/10/2026"; those are
// kept verbatim in Raw rather than guessed at.
type CreatedOn struct {
	Date Date
	Raw  string
}

// Created returns a CreatedOn for d.
func Created(d Date) CreatedOn { return CreatedOn{Date: d} }

// ParseCreated reads s as a date when it can, and keeps it as text otherwise.
func ParseCreated(s string) CreatedOn {
	s = strings.TrimSpace(s)
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return CreatedOn{Date: DateOf(t)}
		}
	}
	return CreatedOn{Raw: s}
}

// Known reports whether the creation day was read as a date.
func (c CreatedOn) Known() bool { return !c.Date.IsZero() }

func (c CreatedOn) String() string {
	if c.Known() {
		return c.Date.String()
	}
	return c.Raw
}

func (c CreatedOn) MarshalJSON() ([]byte, error) {
	if c.Known() {
		return c.Date.MarshalJSON()
	}
	if c.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(c.Raw)
}

// UnmarshalJSON never fails: a value that is not a string is kept as its JSON text.
func (c *CreatedOn) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*c = CreatedOn{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*c = CreatedOn{Raw: string(data)}
		return nil
	}
	*c = ParseCreated(s)
	return nil
}
