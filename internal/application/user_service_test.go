package application_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/academic-bridge/internal/application"
	"github.com/oksasatya/academic-bridge/internal/application/apptest"
	"github.com/oksasatya/academic-bridge/internal/domain/entity"
)

func ptr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	h := apptest.NewHarness(t)
	u := h.AddUser("Ali Mohammadi", "ali@uni.ir", "09123333333", entity.UserTypeProfessor, "Python")
	_, err := h.Sessions.Issue(ctx, u, time.Hour)
	require.NoError(t, err)

	got, err := h.Profile.UpdateProfile(ctx, u.ID, application.UpdateProfileInput{
		FullName:  ptr("  Dr. Ali Mohammadi "),
		Bio:       ptr(""),
		Skills:    []string{" Machine Learning", "python", "Python", ""},
		SkillsSet: true,
	}, meta)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Ali Mohammadi", got.FullName)
	assert.Equal(t, []string{"Machine Learning", "python"}, got.Skills)
	assert.Equal(t, 1, h.Pub.Count(), "profile mail")
	assert.Equal(t, "Dr. Ali Mohammadi", h.MR.HGet("user:session:"+u.ID, "name"))

	// nothing changed, nothing sent
	_, err = h.Profile.UpdateProfile(ctx, u.ID, application.UpdateProfileInput{FullName: ptr("Dr. Ali Mohammadi")}, meta)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Pub.Count())

	_, err = h.Profile.UpdateProfile(ctx, "missing", application.UpdateProfileInput{}, meta)
	assert.ErrorIs(t, err, application.ErrUserNotFound)
}

func TestUploadAvatarChecks(t *testing.T) {
	ctx := context.Background()
	h := apptest.NewHarness(t)
	u := h.AddUser("Ali Mohammadi", "ali@uni.ir", "09123333333", entity.UserTypeProfessor)

	_, err := h.Profile.UploadAvatar(ctx, u.ID, strings.NewReader("x"), 1, "cv.pdf", "application/pdf")
	assert.ErrorIs(t, err, application.ErrUnsupportedFile)
	_, err = h.Profile.UploadAvatar(ctx, u.ID, strings.NewReader("x"), 6<<20, "me.png", "image/png")
	assert.ErrorIs(t, err, application.ErrFileTooLarge)
	_, err = h.Profile.UploadAvatar(ctx, u.ID, strings.NewReader("x"), 1, "me.png", "image/png")
	assert.ErrorIs(t, err, application.ErrStorageUnavailable)
}

func TestSearchUsersDatabaseFallback(t *testing.T) {
	ctx := context.Background()
	h := apptest.NewHarness(t)
	h.AddUser("Ali Mohammadi", "ali@uni.ir", "09123333333", entity.UserTypeProfessor, "Machine Learning")
	h.AddUser("Sara Ahmadi", "sara@student.ir", "09125555555", entity.UserTypeStudent, "Python", "Data Analysis")
	h.AddUser("Reza Ahmadi", "reza@saipa.ir", "09121111111", entity.UserTypeIndustry, "Python")

	got, err := h.Profile.SearchUsers(ctx, application.CandidateQuery{Q: "ali", Skills: []string{"python"}, AcademicOnly: true})
	require.NoError(t, err)
	names := []string{}
	for _, u := range got {
		names = append(names, u.FullName)
	}
	assert.ElementsMatch(t, []string{"Ali Mohammadi", "Sara Ahmadi"}, names)

	got, err = h.Profile.SearchUsers(ctx, application.CandidateQuery{Size: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
