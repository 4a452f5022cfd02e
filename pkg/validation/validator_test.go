package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type signupForm struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	Mobile   string `json:"mobile" validate:"required,mobile"`
	Password string `json:"password" validate:"required,pwd"`
	UserType string `json:"user_type" validate:"required,signuprole"`
}

type scoreForm struct {
	Innovation int `json:"innovation_score" validate:"required,score"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestCustomValidators(t *testing.T) {
	v := newValidator()

	ok := signupForm{FullName: "Sara Ahmadi", Mobile: "09123456789", Password: "secret", UserType: "student"}
	assert.NoError(t, v.Struct(ok))

	bad := signupForm{FullName: "S", Mobile: "9123456789", Password: "12345", UserType: "admin"}
	details := ToDetails(v.Struct(bad))
	assert.Equal(t, "must be at least 2 characters long", details["full_name"])
	assert.Equal(t, "must be a mobile number like 09123456789", details["mobile"])
	assert.Equal(t, "must be at least 6 characters long", details["password"])
	assert.Equal(t, "must be one of: industry, professor, student", details["user_type"])
}

func TestScoreAlias(t *testing.T) {
	v := newValidator()
	assert.NoError(t, v.Struct(scoreForm{Innovation: 5}))
	details := ToDetails(v.Struct(scoreForm{Innovation: 6}))
	assert.Equal(t, "must be between 1 and 5", details["innovation_score"])
}

func TestToDetailsJSON(t *testing.T) {
	var dst map[string]any
	err := json.Unmarshal([]byte("{bad"), &dst)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Nil(t, ToDetails(nil))
}

type boundsForm struct {
	Skills []string `json:"skills" validate:"max=2"`
	Budget int      `json:"budget" validate:"gte=10"`
	Kind   string   `json:"kind" validate:"oneof=a b"`
	Hidden string   `json:"-" form:"hidden" validate:"required"`
}

func TestMessages(t *testing.T) {
	v := newValidator()
	details := ToDetails(v.Struct(boundsForm{Skills: []string{"a", "b", "c"}, Budget: 3, Kind: "c"}))
	assert.Equal(t, "must contain at most 2 items", details["skills"])
	assert.Equal(t, "must be greater than or equal to 10", details["budget"])
	assert.Equal(t, "must be one of: a, b", details["kind"])
	assert.Len(t, details, 4)
}

type trimmedForm struct {
	Title       string  `json:"title" validate:"required,notblank"`
	Description string  `json:"description" validate:"required,tmin=10"`
	FullName    *string `json:"full_name" validate:"omitnil,tmin=2"`
}

func TestTrimmedTags(t *testing.T) {
	v := newValidator()
	name := "Sara"
	assert.NoError(t, v.Struct(trimmedForm{Title: "Grid", Description: "  ten chars!  ", FullName: &name}))
	assert.NoError(t, v.Struct(trimmedForm{Title: "Grid", Description: "ten chars!"}))

	blank := "   "
	details := ToDetails(v.Struct(trimmedForm{Title: " \t ", Description: "  short    ", FullName: &blank}))
	assert.Equal(t, "must not be blank", details["title"])
	assert.Equal(t, "must be at least 10 characters long", details["description"])
	assert.Equal(t, "must be at least 2 characters long", details["full_name"])
}
