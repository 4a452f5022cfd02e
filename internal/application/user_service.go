package application

import (
	"context"
	"io"
	"slices"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	repo "github.com/oksasatya/academic-bridge/internal/domain/repository"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
)

const maxAvatarBytes = 5 << 20

type UserService struct {
	Repo      repo.UserRepository
	Sessions  *Sessions
	Notifier  *Notifier
	Index     *UserIndex
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfileInput holds optional changes; nil fields are left as they are.
type UpdateProfileInput struct {
	FullName          *string
	Bio               *string
	ProfilePictureURL *string
	CompanyName       *string
	Skills            []string
	SkillsSet         bool
}

// UpdateProfile applies in, refreshes the session cache and search index,
// and notifies the user of changed fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput, meta RequestMeta) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	changes := map[string]string{}
	set := func(field string, dst *string, v *string) {
		if v == nil {
			return
		}
		nv := strings.TrimSpace(*v)
		if nv != *dst {
			*dst = nv
			changes[field] = nv
		}
	}
	set("full_name", &u.FullName, in.FullName)
	set("bio", &u.Bio, in.Bio)
	set("profile_picture_url", &u.ProfilePictureURL, in.ProfilePictureURL)
	set("company_name", &u.CompanyName, in.CompanyName)
	if in.SkillsSet {
		skills := entity.NormalizeSkills(in.Skills)
		if !slices.Equal(skills, u.Skills) {
			u.Skills = skills
			changes["skills"] = strings.Join(skills, ", ")
		}
	}
	if len(changes) == 0 {
		return u, nil
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.Sessions.Touch(ctx, u)
	s.Index.Put(ctx, u)
	s.Notifier.ProfileUpdated(ctx, u, changes, meta)
	return u, nil
}

// UploadAvatar stores an image in GCS and points the profile picture at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, size int64, filename, contentType string) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrUnsupportedFile
	}
	if size > maxAvatarBytes {
		return "", ErrFileTooLarge
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", ErrStorageUnavailable
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return "", ErrUserNotFound
	}
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, helpers.ObjectPath("avatars", userID, filename), contentType, r)
	if err != nil {
		return "", err
	}
	u.ProfilePictureURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", err
	}
	s.Sessions.Touch(ctx, u)
	s.Index.Put(ctx, u)
	return url, nil
}

type CandidateQuery struct {
	Q            string
	Skills       []string
	AcademicOnly bool
	Size         int
}

// SearchUsers finds users by name OR skills. Elasticsearch is used when
// configured; any search error falls back to filtering the user table.
func (s *UserService) SearchUsers(ctx context.Context, q CandidateQuery) ([]entity.User, error) {
	if q.Size <= 0 || q.Size > 50 {
		q.Size = 20
	}
	var types []entity.UserType
	if q.AcademicOnly {
		types = []entity.UserType{entity.UserTypeProfessor, entity.UserTypeStudent}
	}

	if s.Index.Enabled() && (strings.TrimSpace(q.Q) != "" || len(q.Skills) > 0) {
		ids, err := s.Index.Search(ctx, q.Q, q.Skills, types, q.Size)
		if err == nil {
			return s.byIDs(ctx, ids)
		}
		helpers.LogWarn(s.Logger, "es search failed, using database", err, nil)
	}

	users, err := s.Repo.List(ctx, repo.UserFilter{UserTypes: types})
	if err != nil {
		return nil, err
	}
	out := MatchCandidates(users, q.Q, q.Skills)
	if len(out) > q.Size {
		out = out[:q.Size]
	}
	return out, nil
}

// byIDs loads users keeping the order of ids.
func (s *UserService) byIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	if len(ids) == 0 {
		return []entity.User{}, nil
	}
	users, err := s.Repo.List(ctx, repo.UserFilter{IDs: ids})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]entity.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// ReindexAll pushes every user to the search index.
func (s *UserService) ReindexAll(ctx context.Context) (int, error) {
	if !s.Index.Enabled() {
		return 0, nil
	}
	users, err := s.Repo.List(ctx, repo.UserFilter{})
	if err != nil {
		return 0, err
	}
	for i := range users {
		s.Index.Put(ctx, &users[i])
	}
	return len(users), nil
}
