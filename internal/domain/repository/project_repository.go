package repository

import (
	"context"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
)

// ProjectScope restricts which projects are loaded: by owning client, by
// team member, or everything when both are empty.
type ProjectScope struct {
	ClientID string
	MemberID string
}

type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	List(ctx context.Context, scope ProjectScope) ([]entity.Project, error)
	CountOpenByClient(ctx context.Context, clientID string) (int, error)
	// UpdateStatus moves a project from one status to another only while it
	// is still in from. A project found in any other status yields
	// *entity.TransitionError carrying the status it actually has.
	UpdateStatus(ctx context.Context, id string, from, to entity.ProjectStatus) error
	AddMembers(ctx context.Context, projectID string, userIDs []string) error
	RemoveMember(ctx context.Context, projectID, userID string) error
	AddAttachment(ctx context.Context, projectID, url string) error
	Delete(ctx context.Context, id string) error
}
