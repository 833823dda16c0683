package admin

import (
	"strconv"
	"strings"
)

// Placeholders for values the backend left out.
const (
	PlaceholderText   = "—"
	PlaceholderNumber = "N/A"
)

func textOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return PlaceholderText
	}
	return s
}

func numberOrNA(v *float64) string {
	if v == nil {
		return PlaceholderNumber
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	p := float64(part) * 100 / float64(total)
	return float64(int(p*10+0.5)) / 10
}
