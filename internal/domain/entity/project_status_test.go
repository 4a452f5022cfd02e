package entity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
)

func TestProjectStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to entity.ProjectStatus
		ok       bool
	}{
		{entity.StatusPending, entity.StatusInReview, true},
		{entity.StatusPending, entity.StatusApproved, true},
		{entity.StatusPending, entity.StatusRejected, true},
		{entity.StatusPending, entity.StatusCompleted, false},
		{entity.StatusInReview, entity.StatusApproved, true},
		{entity.StatusInReview, entity.StatusPending, false},
		{entity.StatusApproved, entity.StatusInProgress, true},
		{entity.StatusApproved, entity.StatusCompleted, false},
		{entity.StatusInProgress, entity.StatusCompleted, true},
		{entity.StatusCompleted, entity.StatusInProgress, false},
		{entity.StatusRejected, entity.StatusApproved, false},
		{entity.StatusPending, entity.StatusPending, false},
		{entity.StatusPending, entity.ProjectStatus("archived"), false},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to))
			err := tc.from.Transition(tc.to)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			var te *entity.TransitionError
			assert.True(t, errors.As(err, &te))
			assert.Equal(t, tc.from, te.From)
		})
	}
}

func TestProjectStatusTerminalAndLabels(t *testing.T) {
	assert.True(t, entity.StatusCompleted.Terminal())
	assert.True(t, entity.StatusRejected.Terminal())
	assert.False(t, entity.StatusApproved.Terminal())
	assert.Equal(t, "In progress", entity.StatusInProgress.Label())
	assert.Equal(t, "archived", entity.ProjectStatus("archived").Label())
	for _, s := range entity.AllStatuses {
		assert.True(t, s.Valid(), s)
	}
}

func TestProjectVisibility(t *testing.T) {
	p := entity.Project{
		ClientID:    "client-1",
		TeamMembers: []entity.TeamMember{{UserID: "prof-1"}},
	}
	assert.True(t, p.VisibleTo("client-1", entity.UserTypeIndustry))
	assert.True(t, p.VisibleTo("prof-1", entity.UserTypeProfessor))
	assert.True(t, p.VisibleTo("someone", entity.UserTypeAdmin))
	assert.False(t, p.VisibleTo("student-9", entity.UserTypeStudent))
}
