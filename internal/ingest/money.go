package ingest

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseEuroAmount parses market-value strings as exported by scouting
// datasets: "€110.5M", "€565K", "€0", or a plain number. The euro sign is
// optional; M and K suffixes scale by a million and a thousand.
func ParseEuroAmount(s string) (float64, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, fmt.Errorf("empty amount")
	}

	raw = strings.TrimPrefix(raw, "€")
	raw = strings.TrimSpace(raw)

	multiplier := 1.0
	switch {
	case strings.HasSuffix(raw, "M"), strings.HasSuffix(raw, "m"):
		multiplier = 1e6
		raw = raw[:len(raw)-1]
	case strings.HasSuffix(raw, "K"), strings.HasSuffix(raw, "k"):
		multiplier = 1e3
		raw = raw[:len(raw)-1]
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q: %w", s, err)
	}

	return value * multiplier, nil
}
