package entity

import "time"

// Project is a request submitted by an industry client.
// Budget and timeline are free text as entered by the client.
type Project struct {
	ID                string
	Title             string
	Description       string
	IndustryField     string
	EstimatedBudget   string
	EstimatedTimeline string
	Status            ProjectStatus
	ClientID          string
	ClientName        string
	TeamMembers       []TeamMember
	Attachments       []string
	EvaluationScore   *float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TeamMember is an academic user assigned to a project.
type TeamMember struct {
	UserID     string
	FullName   string
	Email      string
	UserType   UserType
	Skills     []string
	AssignedAt time.Time
}

// HasMember reports whether userID is on the project team.
func (p *Project) HasMember(userID string) bool {
	for _, m := range p.TeamMembers {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// VisibleTo reports whether the user may read the project.
func (p *Project) VisibleTo(userID string, role UserType) bool {
	if role == UserTypeAdmin {
		return true
	}
	return p.ClientID == userID || p.HasMember(userID)
}

// AcceptsTeam is false once a project is closed.
func (p *Project) AcceptsTeam() bool {
	return !p.Status.Terminal()
}
