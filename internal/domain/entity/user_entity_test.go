package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
)

func TestNormalizeSkills(t *testing.T) {
	got := entity.NormalizeSkills([]string{" Python ", "", "python", "Go", "  ", "TensorFlow", "go"})
	assert.Equal(t, []string{"Python", "Go", "TensorFlow"}, got)
	assert.Empty(t, entity.NormalizeSkills(nil))
}

func TestUserHelpers(t *testing.T) {
	u := entity.User{FullName: "Sara", Skills: []string{"Python", "Data Analysis"}}
	assert.Equal(t, "Sara", u.DisplayOrganization())
	u.CompanyName = "Aria Group"
	assert.Equal(t, "Aria Group", u.DisplayOrganization())

	assert.True(t, u.HasAnySkill([]string{"data analysis"}))
	assert.False(t, u.HasAnySkill([]string{"Rust", " "}))
	assert.False(t, u.HasAnySkill(nil))
}

func TestUserTypes(t *testing.T) {
	assert.True(t, entity.UserTypeProfessor.IsAcademic())
	assert.True(t, entity.UserTypeStudent.IsAcademic())
	assert.False(t, entity.UserTypeIndustry.IsAcademic())
	assert.False(t, entity.UserTypeAdmin.SelfRegistrable())
	assert.True(t, entity.UserTypeIndustry.SelfRegistrable())
	assert.False(t, entity.UserType("guest").Valid())
	assert.Equal(t, "Professor", entity.UserTypeProfessor.Label())
}

func TestEvaluationScores(t *testing.T) {
	e := entity.Evaluation{InnovationScore: 5, AccuracyScore: 4, UsabilityScore: 4}
	assert.True(t, e.ScoresValid())
	assert.Equal(t, 4.3, e.Overall())

	e.UsabilityScore = 0
	assert.False(t, e.ScoresValid())
	e.UsabilityScore = 6
	assert.False(t, e.ScoresValid())
}

func TestDefaultSettings(t *testing.T) {
	s := entity.DefaultSettings()
	assert.True(t, s.AllowUserRegistration)
	assert.Equal(t, 5, s.MaxProjectsPerUser)
	assert.Equal(t, int64(10<<20), s.MaxFileBytes())
}
