package admin

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"techconnect/internal/backend"
)

// Dispute states accepted by the update proxy.
const (
	DisputeOpen          = "OPEN"
	DisputeInvestigating = "INVESTIGATING"
	DisputeResolved      = "RESOLVED"
	DisputeClosed        = "CLOSED"
)

// trailSeparator joins the entries of a dispute description.
const trailSeparator = "\n---\n"

var (
	annotation = regexp.MustCompile(`^\[Update by (.+?) on (.+?)\]`)
	strict     = bluemonday.StrictPolicy()

	timestampLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
		"1/2/2006, 3:04:05 PM",
	}
)

// TrailEntry is one block of a dispute description. The first block is
// usually the original complaint and carries no author.
type TrailEntry struct {
	Author       string     `json:"author,omitempty"`
	RawTimestamp string     `json:"raw_timestamp,omitempty"`
	Time         *time.Time `json:"time,omitempty"`
	Body         string     `json:"body"`
}

type DisputeView struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"project_id"`
	ProjectName string       `json:"project_name"`
	RaisedBy    string       `json:"raised_by"`
	Reason      string       `json:"reason"`
	Status      string       `json:"status"`
	Resolution  string       `json:"resolution"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
	Trail       []TrailEntry `json:"trail"`
}

// ParseTrail splits a dispute description into its entries. Blocks that are
// empty after sanitizing are dropped.
func ParseTrail(description string) []TrailEntry {
	description = strings.ReplaceAll(description, "\r\n", "\n")
	var out []TrailEntry
	for _, block := range strings.Split(description, trailSeparator) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		var e TrailEntry
		if m := annotation.FindStringSubmatch(block); m != nil {
			e.Author = plainText(m[1])
			e.RawTimestamp = strings.TrimSpace(m[2])
			if t, ok := parseTimestamp(e.RawTimestamp); ok {
				e.Time = &t
			}
			block = strings.TrimSpace(block[len(m[0]):])
		}
		e.Body = plainText(block)
		if e.Body == "" && e.Author == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

// plainText drops markup and returns the text as written. The entities the
// sanitizer emits are decoded since the result travels as JSON, not HTML.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// AppendUpdate adds an annotated block to description. The timestamp is
// written as RFC 3339 in UTC so ParseTrail reads it back.
func AppendUpdate(description, author string, at time.Time, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyUpdate
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = "Admin"
	}
	block := fmt.Sprintf("[Update by %s on %s]\n%s", author, at.UTC().Format(time.RFC3339), text)
	if strings.TrimSpace(description) == "" {
		return block, nil
	}
	return strings.TrimRight(description, "\n") + trailSeparator + block, nil
}

func validDisputeStatus(s string) bool {
	switch s {
	case DisputeOpen, DisputeInvestigating, DisputeResolved, DisputeClosed:
		return true
	}
	return false
}

func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func disputeView(d backend.Dispute) DisputeView {
	return DisputeView{
		ID:          string(d.ID),
		ProjectID:   string(d.ProjectID),
		ProjectName: textOrDash(d.ProjectName),
		RaisedBy:    textOrDash(d.RaisedBy),
		Reason:      textOrDash(d.Reason),
		Status:      strings.ToUpper(textOrDash(d.Status)),
		Resolution:  d.Resolution,
		CreatedAt:   textOrDash(d.CreatedAt),
		UpdatedAt:   textOrDash(d.UpdatedAt),
		Trail:       ParseTrail(d.Description),
	}
}
