package handlers

import (
	"time"

	"github.com/oksasatya/academic-bridge/internal/application"
	"github.com/oksasatya/academic-bridge/internal/domain/entity"
)

// UserDTO is the public shape of a user. The password hash never leaves
// the service layer.
type UserDTO struct {
	ID                string    `json:"id"`
	FullName          string    `json:"full_name"`
	Email             string    `json:"email"`
	Mobile            string    `json:"mobile"`
	UserType          string    `json:"user_type"`
	UserTypeLabel     string    `json:"user_type_label"`
	Bio               string    `json:"bio"`
	Skills            []string  `json:"skills"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	CompanyName       string    `json:"company_name,omitempty"`
	IsVerified        bool      `json:"is_verified"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toUser(u *entity.User) UserDTO {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return UserDTO{
		ID:                u.ID,
		FullName:          u.FullName,
		Email:             u.Email,
		Mobile:            u.Mobile,
		UserType:          string(u.UserType),
		UserTypeLabel:     u.UserType.Label(),
		Bio:               u.Bio,
		Skills:            skills,
		ProfilePictureURL: u.ProfilePictureURL,
		CompanyName:       u.CompanyName,
		IsVerified:        u.IsVerified,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func toUsers(users []entity.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i := range users {
		out[i] = toUser(&users[i])
	}
	return out
}

type TeamMemberDTO struct {
	UserID     string    `json:"user_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	UserType   string    `json:"user_type"`
	Skills     []string  `json:"skills"`
	AssignedAt time.Time `json:"assigned_at"`
}

type ProjectDTO struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	IndustryField     string          `json:"industry_field"`
	EstimatedBudget   string          `json:"estimated_budget"`
	EstimatedTimeline string          `json:"estimated_timeline"`
	Status            string          `json:"status"`
	StatusLabel       string          `json:"status_label"`
	ClientID          string          `json:"client_id"`
	ClientName        string          `json:"client_name"`
	TeamMembers       []TeamMemberDTO `json:"team_members"`
	Attachments       []string        `json:"attachments"`
	EvaluationScore   *float64        `json:"evaluation_score"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func toProject(p *entity.Project) ProjectDTO {
	team := make([]TeamMemberDTO, len(p.TeamMembers))
	for i, m := range p.TeamMembers {
		skills := m.Skills
		if skills == nil {
			skills = []string{}
		}
		team[i] = TeamMemberDTO{
			UserID:     m.UserID,
			FullName:   m.FullName,
			Email:      m.Email,
			UserType:   string(m.UserType),
			Skills:     skills,
			AssignedAt: m.AssignedAt,
		}
	}
	attachments := p.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return ProjectDTO{
		ID:                p.ID,
		Title:             p.Title,
		Description:       p.Description,
		IndustryField:     p.IndustryField,
		EstimatedBudget:   p.EstimatedBudget,
		EstimatedTimeline: p.EstimatedTimeline,
		Status:            string(p.Status),
		StatusLabel:       p.Status.Label(),
		ClientID:          p.ClientID,
		ClientName:        p.ClientName,
		TeamMembers:       team,
		Attachments:       attachments,
		EvaluationScore:   p.EvaluationScore,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toProjects(items []entity.Project) []ProjectDTO {
	out := make([]ProjectDTO, len(items))
	for i := range items {
		out[i] = toProject(&items[i])
	}
	return out
}

type EvaluationDTO struct {
	ProjectID       string    `json:"project_id"`
	InnovationScore int       `json:"innovation_score"`
	AccuracyScore   int       `json:"accuracy_score"`
	UsabilityScore  int       `json:"usability_score"`
	OverallScore    float64   `json:"overall_score"`
	Comments        string    `json:"comments"`
	CreatedAt       time.Time `json:"created_at"`
}

func toEvaluation(e *entity.Evaluation) EvaluationDTO {
	return EvaluationDTO{
		ProjectID:       e.ProjectID,
		InnovationScore: e.InnovationScore,
		AccuracyScore:   e.AccuracyScore,
		UsabilityScore:  e.UsabilityScore,
		OverallScore:    e.Overall(),
		Comments:        e.Comments,
		CreatedAt:       e.CreatedAt,
	}
}

// statusCounts keys the per-status summary by status name.
func statusCounts(in map[entity.ProjectStatus]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[string(k)] = v
	}
	return out
}

func tokenMeta(p application.TokenPair) map[string]any {
	return map[string]any{
		"access_expires_at":  p.AccessTokenExpiry,
		"refresh_expires_at": p.RefreshTokenExpiry,
	}
}
