package entity

import (
	"slices"
	"strings"
	"time"
)

// User is the aggregate root for the user domain.
// Passwords are stored as bcrypt hashes in PasswordHash.
type User struct {
	ID                string
	FullName          string
	Email             string
	Mobile            string
	PasswordHash      string
	UserType          UserType
	Bio               string
	Skills            []string
	ProfilePictureURL string
	CompanyName       string
	IsVerified        bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DisplayOrganization is the name shown as a project's client: the company
// when present, else the person.
func (u *User) DisplayOrganization() string {
	if s := strings.TrimSpace(u.CompanyName); s != "" {
		return s
	}
	return u.FullName
}

// HasAnySkill reports whether the user lists at least one of skills.
// Matching is case-insensitive.
func (u *User) HasAnySkill(skills []string) bool {
	for _, want := range skills {
		want = strings.TrimSpace(want)
		if want == "" {
			continue
		}
		if slices.ContainsFunc(u.Skills, func(s string) bool { return strings.EqualFold(s, want) }) {
			return true
		}
	}
	return false
}

// NormalizeSkills trims entries, drops blanks and removes case-insensitive
// duplicates while keeping first-seen order.
func NormalizeSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
