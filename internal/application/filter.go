package application

import (
	"slices"
	"strings"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
)

// filterAll is the sentinel a client sends to disable a filter.
const filterAll = "all"

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

func normFilter(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, filterAll) {
		return ""
	}
	return v
}

// FilterUserProjects matches search against title, description and
// industry field, and status exactly.
func FilterUserProjects(items []entity.Project, search, status string) []entity.Project {
	q := strings.ToLower(strings.TrimSpace(search))
	status = normFilter(status)
	out := make([]entity.Project, 0, len(items))
	for _, p := range items {
		if q != "" && !containsFold(p.Title, q) && !containsFold(p.Description, q) && !containsFold(p.IndustryField, q) {
			continue
		}
		if status != "" && string(p.Status) != status {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FilterAdminProjects matches search against title, client name and
// industry field; status and industry are exact.
func FilterAdminProjects(items []entity.Project, search, status, industry string) []entity.Project {
	q := strings.ToLower(strings.TrimSpace(search))
	status = normFilter(status)
	industry = normFilter(industry)
	out := make([]entity.Project, 0, len(items))
	for _, p := range items {
		if q != "" && !containsFold(p.Title, q) && !containsFold(p.ClientName, q) && !containsFold(p.IndustryField, q) {
			continue
		}
		if status != "" && string(p.Status) != status {
			continue
		}
		if industry != "" && p.IndustryField != industry {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Industries returns the distinct industry fields, sorted.
func Industries(items []entity.Project) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range items {
		if p.IndustryField == "" {
			continue
		}
		if _, ok := seen[p.IndustryField]; ok {
			continue
		}
		seen[p.IndustryField] = struct{}{}
		out = append(out, p.IndustryField)
	}
	slices.Sort(out)
	return out
}

// CountByStatus has one entry per known status, zero included.
func CountByStatus(items []entity.Project) map[entity.ProjectStatus]int {
	out := make(map[entity.ProjectStatus]int, len(entity.AllStatuses))
	for _, s := range entity.AllStatuses {
		out[s] = 0
	}
	for _, p := range items {
		out[p.Status]++
	}
	return out
}

// Latest returns up to n projects newest first that satisfy keep (nil keeps all).
func Latest(items []entity.Project, n int, keep func(entity.Project) bool) []entity.Project {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b entity.Project) int { return b.CreatedAt.Compare(a.CreatedAt) })
	out := make([]entity.Project, 0, n)
	for _, p := range sorted {
		if len(out) == n {
			break
		}
		if keep == nil || keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// FilterUsers matches search against full name and email. A nil verified
// matches both states.
func FilterUsers(users []entity.User, search, userType string, verified *bool) []entity.User {
	q := strings.ToLower(strings.TrimSpace(search))
	userType = normFilter(userType)
	out := make([]entity.User, 0, len(users))
	for _, u := range users {
		if q != "" && !containsFold(u.FullName, q) && !containsFold(u.Email, q) {
			continue
		}
		if userType != "" && string(u.UserType) != userType {
			continue
		}
		if verified != nil && u.IsVerified != *verified {
			continue
		}
		out = append(out, u)
	}
	return out
}

// MatchCandidates keeps users whose name contains q OR who list any of
// skills. With neither q nor skills every user matches.
func MatchCandidates(users []entity.User, q string, skills []string) []entity.User {
	q = strings.ToLower(strings.TrimSpace(q))
	skills = entity.NormalizeSkills(skills)
	if q == "" && len(skills) == 0 {
		return slices.Clone(users)
	}
	out := make([]entity.User, 0, len(users))
	for _, u := range users {
		if (q != "" && containsFold(u.FullName, q)) || u.HasAnySkill(skills) {
			out = append(out, u)
		}
	}
	return out
}
