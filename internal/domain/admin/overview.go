package admin

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"techconnect/internal/backend"
)

type Bucket struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

type Overview struct {
	Projects        int      `json:"projects"`
	ProjectStatuses []Bucket `json:"project_statuses"`
	TotalBudget     string   `json:"total_budget"`
	Users           int      `json:"users"`
	UserRoles       []Bucket `json:"user_roles"`
	VerifiedUsers   int      `json:"verified_users"`
	VerifiedPercent float64  `json:"verified_percent"`
}

// FetchOverview loads projects and users concurrently and folds them into
// an Overview. The first failing fetch cancels the other.
func FetchOverview(ctx context.Context, b Backend) (*Overview, error) {
	var (
		projects []backend.Project
		users    []backend.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = b.ListProjects(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = b.ListUsers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Summarize(projects, users), nil
}

func Summarize(projects []backend.Project, users []backend.User) *Overview {
	o := &Overview{Projects: len(projects), Users: len(users)}

	statuses := make(map[string]int)
	var budget float64
	var priced bool
	for _, p := range projects {
		statuses[label(p.Status)]++
		if p.Budget != nil {
			budget += *p.Budget
			priced = true
		}
	}
	o.ProjectStatuses = buckets(statuses, len(projects))
	if priced {
		o.TotalBudget = numberOrNA(&budget)
	} else {
		o.TotalBudget = numberOrNA(nil)
	}

	roles := make(map[string]int)
	for _, u := range users {
		roles[label(u.Role)]++
		if u.IsVerified {
			o.VerifiedUsers++
		}
	}
	o.UserRoles = buckets(roles, len(users))
	o.VerifiedPercent = percent(o.VerifiedUsers, len(users))
	return o
}

func label(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "UNKNOWN"
	}
	return s
}

// buckets orders by count, then label.
func buckets(counts map[string]int, total int) []Bucket {
	out := make([]Bucket, 0, len(counts))
	for l, n := range counts {
		out = append(out, Bucket{Label: l, Count: n, Percent: percent(n, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
