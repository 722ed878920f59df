package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/problemlog/internal/domain"
)

// Record is one problem block read from a markdown log.
type Record struct {
	Fields domain.Fields
	// Revise is the raw "Revise:" value. HasRevise is set when the key is present,
	// even with an empty value, which means "revise whenever".
	Revise    string
	HasRevise bool
	Line      int
}

type field int

const (
	none field = iota
	name
	link
	difficulty
	topic
	company
	notes
	revise
)

var keys = map[string]field{
	"name":       name,
	"problem":    name,
	"link":       link,
	"url":        link,
	"difficulty": difficulty,
	"topic":      topic,
	"company":    company,
	"notes":      notes,
	"revise":     revise,
}

// ParseFile reads a file from the given path and extracts all problem records.
func ParseFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all problem records.
// A record starts at a "Name:" line and ends at the next one or at "---".
// Only "Notes:" spans several lines.
func Parse(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	var records []Record
	var current Record
	var notesBlock []string
	inRecord := false
	currentField := none
	lineNo := 0

	finishRecord := func() {
		if len(notesBlock) > 0 {
			current.Fields.Notes = strings.TrimSpace(strings.Join(notesBlock, "\n"))
			notesBlock = nil
		}
		if inRecord && current.Fields.Name != "" {
			records = append(records, current)
		}
		current = Record{}
		inRecord = false
		currentField = none
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if strings.TrimSpace(line) == "---" {
			finishRecord()
			continue
		}

		f, value, ok := splitKey(line)
		if !ok {
			if currentField == notes {
				notesBlock = append(notesBlock, line)
			}
			continue
		}

		if f == name {
			finishRecord()
			inRecord = true
			current.Line = lineNo
		}
		if !inRecord {
			continue
		}
		if currentField == notes && len(notesBlock) > 0 {
			current.Fields.Notes = strings.TrimSpace(strings.Join(notesBlock, "\n"))
			notesBlock = nil
		}
		currentField = f

		switch f {
		case name:
			current.Fields.Name = value
		case link:
			current.Fields.Link = value
		case difficulty:
			current.Fields.Difficulty = normalizeDifficulty(value)
		case topic:
			current.Fields.Topic = value
		case company:
			current.Fields.Company = value
		case notes:
			notesBlock = append(notesBlock, value)
		case revise:
			current.Revise = value
			current.HasRevise = true
		}
	}

	finishRecord() // Finish the very last record in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func splitKey(line string) (field, string, bool) {
	key, value, found := strings.Cut(line, ":")
	if !found {
		return none, "", false
	}
	f, ok := keys[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return none, "", false
	}
	return f, strings.TrimSpace(value), true
}

// normalizeDifficulty maps "easy", "EASY" and friends to the canonical spelling.
// Unknown values pass through so validation can report them.
func normalizeDifficulty(s string) domain.Difficulty {
	for _, d := range domain.Difficulties {
		if strings.EqualFold(s, string(d)) {
			return d
		}
	}
	return domain.Difficulty(s)
}
