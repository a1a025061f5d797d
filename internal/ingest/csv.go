package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fieldside/squadforge/internal/squad"
)

var requiredColumns = []string{"id", "name", "position", "quality", "cost", "club", "nationality"}

// LoadCandidates reads candidate records from CSV. The header row names
// the columns; id, name, position, quality, cost, club and nationality
// are required, while age, potential, offense, defense and goalkeeping
// are optional. Cost and value columns accept euro-formatted strings.
// Malformed rows are rejected with their row number, never skipped.
func LoadCandidates(r io.Reader) ([]squad.Candidate, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("csv missing required column %q", name)
		}
	}

	var candidates []squad.Candidate
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", row, err)
		}

		c, err := parseCandidate(record, cols)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", row, err)
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}

func parseCandidate(record []string, cols map[string]int) (squad.Candidate, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	position, err := squad.ParsePositionGroup(field("position"))
	if err != nil {
		return squad.Candidate{}, &squad.DataIntegrityError{
			CandidateID: field("id"), Field: "position", Reason: err.Error(),
		}
	}

	quality, err := strconv.ParseFloat(field("quality"), 64)
	if err != nil {
		return squad.Candidate{}, &squad.DataIntegrityError{
			CandidateID: field("id"), Field: "quality", Reason: fmt.Sprintf("non-numeric quality %q", field("quality")),
		}
	}

	cost, err := ParseEuroAmount(field("cost"))
	if err != nil {
		return squad.Candidate{}, &squad.DataIntegrityError{
			CandidateID: field("id"), Field: "cost", Reason: err.Error(),
		}
	}

	c := squad.Candidate{
		ID:          field("id"),
		Name:        field("name"),
		Position:    position,
		Quality:     quality,
		Cost:        cost,
		Club:        field("club"),
		Nationality: field("nationality"),
	}

	if v := field("age"); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			return squad.Candidate{}, &squad.DataIntegrityError{
				CandidateID: c.ID, Field: "age", Reason: fmt.Sprintf("non-numeric age %q", v),
			}
		}
		c.Age = age
	}

	optional := []struct {
		name string
		dst  *float64
	}{
		{"potential", &c.Potential},
		{"offense", &c.Offense},
		{"defense", &c.Defense},
		{"goalkeeping", &c.Goalkeeping},
	}
	for _, opt := range optional {
		v := field(opt.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return squad.Candidate{}, &squad.DataIntegrityError{
				CandidateID: c.ID, Field: opt.name, Reason: fmt.Sprintf("non-numeric %s %q", opt.name, v),
			}
		}
		*opt.dst = parsed
	}

	if err := c.Validate(); err != nil {
		return squad.Candidate{}, err
	}
	return c, nil
}
