package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	"github.com/oksasatya/academic-bridge/internal/domain/repository"
)

const userColumns = `id::text, full_name, email, mobile, password_hash, user_type, bio, skills,
	profile_picture_url, company_name, is_verified, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var userType string
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.Mobile, &u.PasswordHash, &userType, &u.Bio, &u.Skills,
		&u.ProfilePictureURL, &u.CompanyName, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	u.UserType = entity.UserType(userType)
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.Skills == nil {
		u.Skills = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (full_name, email, mobile, password_hash, user_type, bio, skills, profile_picture_url, company_name, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id::text, created_at, updated_at
	`, u.FullName, u.Email, u.Mobile, u.PasswordHash, string(u.UserType), u.Bio, u.Skills, u.ProfilePictureURL, u.CompanyName, u.IsVerified)

	return mapErr(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *UserRepository) GetByMobile(ctx context.Context, mobile string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE mobile = $1`, mobile))
}

func (r *UserRepository) List(ctx context.Context, f repository.UserFilter) ([]entity.User, error) {
	types := make([]string, 0, len(f.UserTypes))
	for _, t := range f.UserTypes {
		types = append(types, string(t))
	}
	ids := f.IDs
	if ids == nil {
		ids = []string{}
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE (cardinality($1::text[]) = 0 OR user_type = ANY($1))
		  AND (cardinality($2::text[]) = 0 OR id::text = ANY($2))
		ORDER BY created_at DESC
	`, types, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()
	if u.Skills == nil {
		u.Skills = []string{}
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET full_name = $1, email = $2, mobile = $3, bio = $4, skills = $5,
		    profile_picture_url = $6, company_name = $7, updated_at = $8
		WHERE id = $9
	`, u.FullName, u.Email, u.Mobile, u.Bio, u.Skills, u.ProfilePictureURL, u.CompanyName, u.UpdatedAt, u.ID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	res, err := r.pool.Exec(ctx, `UPDATE users SET is_verified = $1, updated_at = now() WHERE id = $2`, verified, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) CountByType(ctx context.Context) (map[entity.UserType]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_type, count(*) FROM users GROUP BY user_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[entity.UserType]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		out[entity.UserType(t)] = n
	}
	return out, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
