package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// UserFilter narrows user listings. Zero values mean "any".
type UserFilter struct {
	UserTypes []entity.UserType
	IDs       []string
}

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByMobile(ctx context.Context, mobile string) (*entity.User, error)
	List(ctx context.Context, f UserFilter) ([]entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	SetVerified(ctx context.Context, id string, verified bool) error
	CountByType(ctx context.Context) (map[entity.UserType]int, error)
}
