package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/academic-bridge/internal/application"
	"github.com/oksasatya/academic-bridge/internal/application/apptest"
	"github.com/oksasatya/academic-bridge/internal/domain/entity"
)

func TestChangeStatus(t *testing.T) {
	ctx := context.Background()
	h := apptest.NewHarness(t)
	admin := h.AddUser("Admin", "admin@clinic.com", "09120000000", entity.UserTypeAdmin)
	client := h.AddUser("Mohammad Rezaei", "rezaei@saipa.ir", "09121111111", entity.UserTypeIndustry)
	p := h.AddProject(client, "Defect detection", "Automotive", entity.StatusPending, time.Now())

	got, err := h.Admin.ChangeStatus(ctx, apptest.ActorOf(admin), p.ID, entity.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, got.Status)
	assert.Equal(t, 1, h.Pub.Count())

	_, err = h.Admin.ChangeStatus(ctx, apptest.ActorOf(admin), p.ID, entity.StatusCompleted)
	var te *entity.TransitionError
	assert.ErrorAs(t, err, &te)
	assert.Equal(t, 409, application.HTTPStatus(err))

	_, err = h.Admin.ChangeStatus(ctx, apptest.ActorOf(admin), p.ID, entity.StatusApproved)
	assert.Error(t, err, "same status is not a transition")
}

func TestAssignTeam(t *testing.T) {
	ctx := context.Background()
	h := apptest.NewHarness(t)
	admin := h.AddUser("Admin", "admin@clinic.com", "09120000000", entity.UserTypeAdmin)
	client := h.AddUser("Mohammad Rezaei", "rezaei@saipa.ir", "09121111111", entity.UserTypeIndustry)
	prof := h.AddUser("Ali Mohammadi", "ali@uni.ir", "09123333333", entity.UserTypeProfessor, "Machine Learning")
	student := h.AddUser("Sara Ahmadi", "sara@student.ir", "09125555555", entity.UserTypeStudent, "Python")
	p := h.AddProject(client, "Defect detection", "Automotive", entity.StatusApproved, time.Now())

	_, err := h.Admin.AssignTeam(ctx, apptest.ActorOf(admin), p.ID, nil)
	assert.ErrorIs(t, err, application.ErrEmptyTeam)

	_, err = h.Admin.AssignTeam(ctx, apptest.ActorOf(admin), p.ID, []string{client.ID})
	assert.ErrorIs(t, err, application.ErrInvalidTeamMember)

	got, err := h.Admin.AssignTeam(ctx, apptest.ActorOf(admin), p.ID, []string{prof.ID, prof.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInProgress, got.Status)
	require.Len(t, got.TeamMembers, 1)
	// team mail to the professor and status mail to the client
	assert.Equal(t, 2, h.Pub.Count())

	got, err = h.Admin.AssignTeam(ctx, apptest.ActorOf(admin), p.ID, []string{prof.ID, student.ID})
	require.NoError(t, err)
	assert.Len(t, got.TeamMembers, 2)
	assert.Equal(t, 3, h.Pub.Count(), "only the new member is mailed")

	got, err = h.Admin.RemoveMember(ctx, apptest.ActorOf(admin), p.ID, prof.ID)
	require.NoError(t, err)
	assert.Len(t, got.TeamMembers, 1)
	_, err = h.Admin.RemoveMember(ctx, apptest.ActorOf(admin), p.ID, prof.ID)
	assert.ErrorIs(t, err, application.ErrNotTeamMember)

	closed := h.AddProject(client, "Old", "Retail", entity.StatusCompleted, time.Now())
	_, err = h.Admin.AssignTeam(ctx, apptest.ActorOf(admin), closed.ID, []string{student.ID})
	assert.ErrorIs(t, err, application.ErrTeamClosed)
}

func TestAdminListings(t *testing.T) {
	ctx := context.Background()
	h := apptest.NewHarness(t)
	client := h.AddUser("Mohammad Rezaei", "rezaei@saipa.ir", "09121111111", entity.UserTypeIndustry)
	h.AddUser("Ali Mohammadi", "ali@uni.ir", "09123333333", entity.UserTypeProfessor)
	student := h.AddUser("Sara Ahmadi", "sara@student.ir", "09125555555", entity.UserTypeStudent)
	now := time.Now()
	h.AddProject(client, "Defect detection", "Automotive", entity.StatusPending, now.Add(-time.Hour))
	h.AddProject(client, "Forecast", "Retail", entity.StatusInProgress, now)

	list, err := h.Admin.ListProjects(ctx, application.AdminProjectQuery{Search: "rezaei", Industry: "Retail"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, []string{"Automotive", "Retail"}, list.Industries)
	assert.Equal(t, application.ProjectStats{Total: 2, Pending: 1, InProgress: 1}, list.Stats)

	verified := false
	users, err := h.Admin.ListUsers(ctx, application.UserQuery{Search: "UNI.IR", Verified: &verified})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ali Mohammadi", users[0].FullName)

	u, err := h.Admin.SetVerification(ctx, application.Actor{Role: entity.UserTypeAdmin}, student.ID, true)
	require.NoError(t, err)
	assert.True(t, u.IsVerified)
	_, err = h.Admin.SetVerification(ctx, application.Actor{}, "nope", true)
	assert.ErrorIs(t, err, application.ErrUserNotFound)
}

func TestAdminDashboardCache(t *testing.T) {
	ctx := context.Background()
	h := apptest.NewHarness(t)
	admin := h.AddUser("Admin", "admin@clinic.com", "09120000000", entity.UserTypeAdmin)
	client := h.AddUser("Mohammad Rezaei", "rezaei@saipa.ir", "09121111111", entity.UserTypeIndustry)
	now := time.Now()
	for i := 0; i < 4; i++ {
		h.AddProject(client, "pending", "Retail", entity.StatusPending, now.Add(time.Duration(i)*time.Minute))
	}
	p := h.AddProject(client, "done", "Retail", entity.StatusInProgress, now.Add(time.Hour))

	d, err := h.Admin.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, d.Projects.Total)
	assert.Equal(t, 2, d.TotalUsers)
	assert.Len(t, d.PendingProjects, 3)
	assert.Len(t, d.RecentProjects, 5)
	assert.Equal(t, "done", d.RecentProjects[0].Title)

	h.AddProject(client, "late", "Retail", entity.StatusPending, now.Add(2*time.Hour))
	cached, err := h.Admin.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, cached.Projects.Total, "served from cache")

	_, err = h.Admin.ChangeStatus(ctx, apptest.ActorOf(admin), p.ID, entity.StatusCompleted)
	require.NoError(t, err)
	fresh, err := h.Admin.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, fresh.Projects.Total)
	assert.Equal(t, 1, fresh.Projects.Completed)
}

func TestDeleteProject(t *testing.T) {
	ctx := context.Background()
	h := apptest.NewHarness(t)
	admin := h.AddUser("Admin", "admin@clinic.com", "09120000000", entity.UserTypeAdmin)
	client := h.AddUser("Mohammad Rezaei", "rezaei@saipa.ir", "09121111111", entity.UserTypeIndustry)
	p := h.AddProject(client, "Defect detection", "Automotive", entity.StatusPending, time.Now())

	assert.ErrorIs(t, h.Admin.DeleteProject(ctx, apptest.ActorOf(admin), "not-a-uuid"), application.ErrProjectNotFound)
	require.NoError(t, h.Admin.DeleteProject(ctx, apptest.ActorOf(admin), p.ID))
	_, err := h.Projects.GetByID(ctx, p.ID)
	assert.Error(t, err)
	assert.ErrorIs(t, h.Admin.DeleteProject(ctx, apptest.ActorOf(admin), p.ID), application.ErrProjectNotFound)
}

// staleProjects hands out a project snapshot and then moves the stored
// project to another status, as a concurrent admin request would.
type staleProjects struct {
	*apptest.Projects
	moveTo entity.ProjectStatus
}

func (s staleProjects) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	p, err := s.Projects.GetByID(ctx, id)
	if err == nil {
		_ = s.Projects.UpdateStatus(ctx, id, p.Status, s.moveTo)
	}
	return p, err
}

func TestChangeStatusLosesRace(t *testing.T) {
	ctx := context.Background()
	h := apptest.NewHarness(t)
	admin := h.AddUser("Admin", "admin@clinic.com", "09120000000", entity.UserTypeAdmin)
	client := h.AddUser("Mohammad Rezaei", "rezaei@saipa.ir", "09121111111", entity.UserTypeIndustry)
	p := h.AddProject(client, "Defect detection", "Automotive", entity.StatusPending, time.Now())
	h.Admin.Projects = staleProjects{Projects: h.Projects, moveTo: entity.StatusRejected}

	_, err := h.Admin.ChangeStatus(ctx, apptest.ActorOf(admin), p.ID, entity.StatusApproved)
	var te *entity.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, entity.StatusRejected, te.From)
	assert.Equal(t, 409, application.HTTPStatus(err))
	assert.Zero(t, h.Pub.Count())

	stored, err := h.Projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, stored.Status)
}

func TestAssignTeamLosesRace(t *testing.T) {
	ctx := context.Background()
	h := apptest.NewHarness(t)
	admin := h.AddUser("Admin", "admin@clinic.com", "09120000000", entity.UserTypeAdmin)
	client := h.AddUser("Mohammad Rezaei", "rezaei@saipa.ir", "09121111111", entity.UserTypeIndustry)
	prof := h.AddUser("Ali Mohammadi", "ali@uni.ir", "09123333333", entity.UserTypeProfessor)
	rejected := h.AddProject(client, "Defect detection", "Automotive", entity.StatusApproved, time.Now())
	started := h.AddProject(client, "Forecast", "Retail", entity.StatusApproved, time.Now())

	h.Admin.Projects = staleProjects{Projects: h.Projects, moveTo: entity.StatusRejected}
	_, err := h.Admin.AssignTeam(ctx, apptest.ActorOf(admin), rejected.ID, []string{prof.ID})
	var te *entity.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, entity.StatusRejected, te.From)

	h.Admin.Projects = staleProjects{Projects: h.Projects, moveTo: entity.StatusInProgress}
	got, err := h.Admin.AssignTeam(ctx, apptest.ActorOf(admin), started.ID, []string{prof.ID})
	require.NoError(t, err, "a project another request already started keeps the new team")
	assert.Equal(t, entity.StatusInProgress, got.Status)
	assert.Len(t, got.TeamMembers, 1)
}

func TestRemoveMemberRefreshesDashboard(t *testing.T) {
	ctx := context.Background()
	h := apptest.NewHarness(t)
	admin := h.AddUser("Admin", "admin@clinic.com", "09120000000", entity.UserTypeAdmin)
	client := h.AddUser("Mohammad Rezaei", "rezaei@saipa.ir", "09121111111", entity.UserTypeIndustry)
	prof := h.AddUser("Ali Mohammadi", "ali@uni.ir", "09123333333", entity.UserTypeProfessor)
	p := h.AddProject(client, "Defect detection", "Automotive", entity.StatusApproved, time.Now())
	_, err := h.Admin.AssignTeam(ctx, apptest.ActorOf(admin), p.ID, []string{prof.ID})
	require.NoError(t, err)

	d, err := h.Admin.Dashboard(ctx)
	require.NoError(t, err)
	require.Len(t, d.RecentProjects, 1)
	assert.Len(t, d.RecentProjects[0].TeamMembers, 1)
	assert.True(t, h.MR.Exists("admin:dashboard"))

	_, err = h.Admin.RemoveMember(ctx, apptest.ActorOf(admin), p.ID, prof.ID)
	require.NoError(t, err)
	assert.False(t, h.MR.Exists("admin:dashboard"))

	d, err = h.Admin.Dashboard(ctx)
	require.NoError(t, err)
	assert.Empty(t, d.RecentProjects[0].TeamMembers)
}
