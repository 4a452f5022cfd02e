package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/academic-bridge/internal/domain/repository"
)

func TestMapErr(t *testing.T) {
	assert.NoError(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(pgx.ErrNoRows), repository.ErrNotFound)

	dup := mapErr(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_mobile_key"})
	assert.ErrorIs(t, dup, repository.ErrDuplicate)
	assert.Contains(t, dup.Error(), "mobile", "constraint stays on the internal chain")

	other := errors.New("conn reset")
	assert.Same(t, other, mapErr(other))
}
