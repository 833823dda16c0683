package admin

import (
	"sort"
	"strings"
	"time"

	"techconnect/internal/backend"
)

// KYC review states as the backend spells them.
const (
	KYCPending  = "PENDING"
	KYCApproved = "APPROVED"
	KYCRejected = "REJECTED"
)

type KYCFilter struct {
	Status string
	Search string
	// LatestOnly keeps a single document per user, the newest upload.
	LatestOnly bool
}

type KYCStats struct {
	Total        int     `json:"total"`
	Pending      int     `json:"pending"`
	Approved     int     `json:"approved"`
	Rejected     int     `json:"rejected"`
	ApprovalRate float64 `json:"approval_rate"`
}

type KYCRow struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	UserRole   string `json:"user_role"`
	DocType    string `json:"doc_type"`
	Status     string `json:"status"`
	FileURL    string `json:"file_url"`
	UploadedAt string `json:"uploaded_at"`
	ReviewedAt string `json:"reviewed_at"`
	Notes      string `json:"notes"`
}

// FilterKYC keeps documents matching the status (any when empty) and whose
// user name, email or document type contains the search text.
func FilterKYC(docs []backend.KYCDocument, f KYCFilter) []backend.KYCDocument {
	status := strings.ToUpper(strings.TrimSpace(f.Status))
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]backend.KYCDocument, 0, len(docs))
	for _, d := range docs {
		if status != "" && status != "ALL" && strings.ToUpper(d.Status) != status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(d.UserName), search) &&
			!strings.Contains(strings.ToLower(d.UserEmail), search) &&
			!strings.Contains(strings.ToLower(d.DocType), search) {
			continue
		}
		out = append(out, d)
	}
	if f.LatestOnly {
		out = LatestPerUser(out)
	}
	return out
}

// SummarizeKYC counts documents per state. The approval rate is the share of
// approved documents among all of them, in percent with one decimal.
func SummarizeKYC(docs []backend.KYCDocument) KYCStats {
	s := KYCStats{Total: len(docs)}
	for _, d := range docs {
		switch strings.ToUpper(d.Status) {
		case KYCPending:
			s.Pending++
		case KYCApproved:
			s.Approved++
		case KYCRejected:
			s.Rejected++
		}
	}
	s.ApprovalRate = percent(s.Approved, s.Total)
	return s
}

// LatestPerUser keeps the most recent upload of every user, newest first.
// Documents with an unreadable timestamp lose against any dated one.
func LatestPerUser(docs []backend.KYCDocument) []backend.KYCDocument {
	latest := make(map[string]backend.KYCDocument)
	stamps := make(map[string]time.Time)
	var order []string
	for _, d := range docs {
		key := userKey(d)
		at, _ := parseTimestamp(d.UploadedAt)
		_, seen := latest[key]
		if !seen {
			order = append(order, key)
		}
		if !seen || at.After(stamps[key]) {
			latest[key] = d
			stamps[key] = at
		}
	}

	out := make([]backend.KYCDocument, 0, len(order))
	for _, key := range order {
		out = append(out, latest[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return stamps[userKey(out[i])].After(stamps[userKey(out[j])])
	})
	return out
}

func userKey(d backend.KYCDocument) string {
	if d.UserID == "" {
		return "doc:" + string(d.ID)
	}
	return string(d.UserID)
}

func kycRow(d backend.KYCDocument) KYCRow {
	return KYCRow{
		ID:         string(d.ID),
		UserID:     string(d.UserID),
		UserName:   textOrDash(d.UserName),
		UserEmail:  textOrDash(d.UserEmail),
		UserRole:   textOrDash(d.UserRole),
		DocType:    textOrDash(d.DocType),
		Status:     strings.ToUpper(textOrDash(d.Status)),
		FileURL:    d.FileURL,
		UploadedAt: textOrDash(d.UploadedAt),
		ReviewedAt: textOrDash(d.ReviewedAt),
		Notes:      d.Notes,
	}
}
