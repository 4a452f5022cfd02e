package application_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/academic-bridge/internal/application"
	"github.com/oksasatya/academic-bridge/internal/application/apptest"
	"github.com/oksasatya/academic-bridge/internal/domain/entity"
)

func createInput(title string) application.CreateProjectInput {
	return application.CreateProjectInput{
		Title:             title,
		Description:       "Detect defects on the assembly line with vision models",
		IndustryField:     "Automotive",
		EstimatedBudget:   "500M",
		EstimatedTimeline: "6 months",
	}
}

func TestCreateProject(t *testing.T) {
	ctx := context.Background()

	t.Run("industry client", func(t *testing.T) {
		h := apptest.NewHarness(t)
		client := h.AddUser("Mohammad Rezaei", "rezaei@saipa.ir", "09121111111", entity.UserTypeIndustry)
		client.CompanyName = "Saipa"
		require.NoError(t, h.Users.Update(ctx, client))

		p, err := h.Project.Create(ctx, apptest.ActorOf(client), createInput("Defect detection"))
		require.NoError(t, err)
		assert.Equal(t, entity.StatusPending, p.Status)
		assert.Equal(t, "Saipa", p.ClientName)
		assert.Equal(t, 1, h.Pub.Count(), "submission mail")
	})

	t.Run("academics cannot submit", func(t *testing.T) {
		h := apptest.NewHarness(t)
		prof := h.AddUser("Ali Mohammadi", "ali@uni.ir", "09123333333", entity.UserTypeProfessor)
		_, err := h.Project.Create(ctx, apptest.ActorOf(prof), createInput("x"))
		assert.ErrorIs(t, err, application.ErrForbidden)
	})

	t.Run("open project limit", func(t *testing.T) {
		h := apptest.NewHarness(t)
		h.UpdateSettings(func(s *entity.PlatformSettings) { s.MaxProjectsPerUser = 2 })
		client := h.AddUser("Mohammad Rezaei", "rezaei@saipa.ir", "09121111111", entity.UserTypeIndustry)
		h.AddProject(client, "old", "Automotive", entity.StatusCompleted, time.Now())
		for i := 0; i < 2; i++ {
			_, err := h.Project.Create(ctx, apptest.ActorOf(client), createInput("p"))
			require.NoError(t, err)
		}
		_, err := h.Project.Create(ctx, apptest.ActorOf(client), createInput("p3"))
		assert.ErrorIs(t, err, application.ErrProjectLimit)
	})

	t.Run("notifications off", func(t *testing.T) {
		h := apptest.NewHarness(t)
		h.UpdateSettings(func(s *entity.PlatformSettings) { s.EmailNotifications = false })
		client := h.AddUser("Mohammad Rezaei", "rezaei@saipa.ir", "09121111111", entity.UserTypeIndustry)
		_, err := h.Project.Create(ctx, apptest.ActorOf(client), createInput("quiet"))
		require.NoError(t, err)
		assert.Equal(t, 0, h.Pub.Count())
	})
}

func TestListMineAndVisibility(t *testing.T) {
	ctx := context.Background()
	h := apptest.NewHarness(t)
	client := h.AddUser("Mohammad Rezaei", "rezaei@saipa.ir", "09121111111", entity.UserTypeIndustry)
	other := h.AddUser("Fatemeh Karimi", "karimi@snapp.ir", "09122222222", entity.UserTypeIndustry)
	student := h.AddUser("Sara Ahmadi", "sara@student.ir", "09125555555", entity.UserTypeStudent)
	admin := h.AddUser("Admin", "admin@clinic.com", "09120000000", entity.UserTypeAdmin)

	now := time.Now()
	p1 := h.AddProject(client, "Defect detection", "Automotive", entity.StatusInProgress, now.Add(-2*time.Hour))
	h.AddProject(client, "Demand forecast", "Retail", entity.StatusPending, now.Add(-time.Hour))
	foreign := h.AddProject(other, "Route optimisation", "Transport", entity.StatusPending, now)
	require.NoError(t, h.Projects.AddMembers(ctx, p1.ID, []string{student.ID}))

	list, err := h.Project.ListMine(ctx, apptest.ActorOf(client), application.ProjectQuery{Search: "DEMAND", Status: "all"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Demand forecast", list.Items[0].Title)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, 1, list.Counts[entity.StatusInProgress])

	list, err = h.Project.ListMine(ctx, apptest.ActorOf(student), application.ProjectQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, p1.ID, list.Items[0].ID)

	list, err = h.Project.ListMine(ctx, apptest.ActorOf(admin), application.ProjectQuery{Status: "pending"})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	_, err = h.Project.Get(ctx, apptest.ActorOf(client), foreign.ID)
	assert.ErrorIs(t, err, application.ErrProjectNotFound)
	_, err = h.Project.Get(ctx, apptest.ActorOf(client), "not-a-uuid")
	assert.ErrorIs(t, err, application.ErrProjectNotFound)
	_, err = h.Project.Get(ctx, apptest.ActorOf(client), uuid.NewString())
	assert.ErrorIs(t, err, application.ErrProjectNotFound)
	got, err := h.Project.Get(ctx, apptest.ActorOf(student), p1.ID)
	require.NoError(t, err)
	assert.True(t, got.HasMember(student.ID))

	dash, err := h.Project.Dashboard(ctx, apptest.ActorOf(client))
	require.NoError(t, err)
	assert.Equal(t, 2, dash.Total)
	assert.Equal(t, 1, dash.InProgress)
	assert.Equal(t, "Demand forecast", dash.Recent[0].Title)
}

func TestEvaluate(t *testing.T) {
	ctx := context.Background()
	h := apptest.NewHarness(t)
	client := h.AddUser("Mohammad Rezaei", "rezaei@saipa.ir", "09121111111", entity.UserTypeIndustry)
	student := h.AddUser("Sara Ahmadi", "sara@student.ir", "09125555555", entity.UserTypeStudent)
	done := h.AddProject(client, "Defect detection", "Automotive", entity.StatusCompleted, time.Now())
	running := h.AddProject(client, "Forecast", "Retail", entity.StatusInProgress, time.Now())
	require.NoError(t, h.Projects.AddMembers(ctx, done.ID, []string{student.ID}))

	in := application.EvaluationInput{InnovationScore: 5, AccuracyScore: 4, UsabilityScore: 4, Comments: " great "}

	_, _, err := h.Project.Evaluate(ctx, apptest.ActorOf(client), running.ID, in)
	assert.ErrorIs(t, err, application.ErrNotCompleted)

	_, _, err = h.Project.Evaluate(ctx, apptest.ActorOf(student), done.ID, in)
	assert.ErrorIs(t, err, application.ErrForbidden)

	bad := in
	bad.UsabilityScore = 6
	_, _, err = h.Project.Evaluate(ctx, apptest.ActorOf(client), done.ID, bad)
	assert.ErrorIs(t, err, application.ErrInvalidScore)

	e, overall, err := h.Project.Evaluate(ctx, apptest.ActorOf(client), done.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 4.3, overall)
	assert.Equal(t, "great", e.Comments)
	assert.Equal(t, 1, h.Pub.Count(), "team member notified")

	_, _, err = h.Project.Evaluate(ctx, apptest.ActorOf(client), done.ID, in)
	assert.ErrorIs(t, err, application.ErrAlreadyEvaluated)

	got, err := h.Project.GetEvaluation(ctx, apptest.ActorOf(student), done.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.InnovationScore)

	_, err = h.Project.GetEvaluation(ctx, apptest.ActorOf(client), running.ID)
	assert.ErrorIs(t, err, application.ErrEvaluationNotFound)
}

func TestAddAttachmentChecks(t *testing.T) {
	ctx := context.Background()
	h := apptest.NewHarness(t)
	h.UpdateSettings(func(s *entity.PlatformSettings) { s.MaxFileSize = 1 })
	client := h.AddUser("Mohammad Rezaei", "rezaei@saipa.ir", "09121111111", entity.UserTypeIndustry)
	p := h.AddProject(client, "Defect detection", "Automotive", entity.StatusPending, time.Now())

	_, err := h.Project.AddAttachment(ctx, apptest.ActorOf(client), p.ID, strings.NewReader("x"), 2<<20, "big.pdf", "application/pdf")
	assert.ErrorIs(t, err, application.ErrFileTooLarge)

	_, err = h.Project.AddAttachment(ctx, apptest.ActorOf(client), p.ID, strings.NewReader("x"), 1, "a.pdf", "application/pdf")
	assert.ErrorIs(t, err, application.ErrStorageUnavailable)
}
