package application

import (
	"github.com/google/uuid"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	repo "github.com/oksasatya/academic-bridge/internal/domain/repository"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   string
	Role entity.UserType
}

func (a Actor) IsAdmin() bool { return a.Role == entity.UserTypeAdmin }

// RequestMeta carries client details used for audit rows and emails.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// scopeFor limits project listings to what the actor may see.
func scopeFor(a Actor) repo.ProjectScope {
	switch {
	case a.IsAdmin():
		return repo.ProjectScope{}
	case a.Role.IsAcademic():
		return repo.ProjectScope{MemberID: a.ID}
	default:
		return repo.ProjectScope{ClientID: a.ID}
	}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
