package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chronohq/chrono-interviews/internal/models"
	"github.com/chronohq/chrono-interviews/internal/utils"
)

func seedParty(t *testing.T, users *fakeUserRepo, name string, role models.UserRole) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", Role: role}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestSchedule(t *testing.T) {
	users := newFakeUserRepo()
	interviews := newFakeInterviewRepo()
	svc := NewInterviewService(interviews, users)
	ctx := context.Background()

	interviewer := seedParty(t, users, "dana", models.RoleInterviewer)
	interviewee := seedParty(t, users, "sam", models.RoleInterviewee)

	iv, err := svc.Schedule(ctx, ScheduleInput{
		InterviewerID:  interviewer.ID.Hex(),
		IntervieweeID:  interviewee.ID.Hex(),
		Date:           time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
		JobDescription: "Senior Go engineer",
		IsAI:           true,
	})
	require.NoError(t, err)
	assert.False(t, iv.ID.IsZero())
	assert.True(t, iv.IsAI)
	assert.Equal(t, interviewee.ID, iv.IntervieweeID)
}

func TestSchedule_IntervieweeChecks(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewInterviewService(newFakeInterviewRepo(), users)
	ctx := context.Background()

	interviewer := seedParty(t, users, "dana", models.RoleInterviewer)
	date := time.Now().UTC().Add(24 * time.Hour)

	_, err := svc.Schedule(ctx, ScheduleInput{
		InterviewerID:  interviewer.ID.Hex(),
		IntervieweeID:  primitive.NewObjectID().Hex(),
		Date:           date,
		JobDescription: "Go engineer",
	})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	// scheduling against another interviewer is rejected
	other := seedParty(t, users, "lee", models.RoleInterviewer)
	_, err = svc.Schedule(ctx, ScheduleInput{
		InterviewerID:  interviewer.ID.Hex(),
		IntervieweeID:  other.ID.Hex(),
		Date:           date,
		JobDescription: "Go engineer",
	})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestListForInterviewer_PopulatesPartiesAndSkipsAI(t *testing.T) {
	users := newFakeUserRepo()
	interviews := newFakeInterviewRepo()
	svc := NewInterviewService(interviews, users)
	ctx := context.Background()

	interviewer := seedParty(t, users, "dana", models.RoleInterviewer)
	interviewee := seedParty(t, users, "sam", models.RoleInterviewee)

	live, err := svc.Schedule(ctx, ScheduleInput{
		InterviewerID:  interviewer.ID.Hex(),
		IntervieweeID:  interviewee.ID.Hex(),
		Date:           time.Now().UTC(),
		JobDescription: "Go engineer",
	})
	require.NoError(t, err)

	_, err = svc.Schedule(ctx, ScheduleInput{
		InterviewerID:  interviewer.ID.Hex(),
		IntervieweeID:  interviewee.ID.Hex(),
		Date:           time.Now().UTC(),
		JobDescription: "Go engineer (practice)",
		IsAI:           true,
	})
	require.NoError(t, err)

	// the interviewer dashboard lists only live interviews
	rows, err := svc.ListForInterviewer(ctx, interviewer.ID.Hex())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, live.ID, rows[0].Interview.ID)
	assert.Equal(t, "dana", rows[0].Interviewer.Name)
	assert.Equal(t, "sam", rows[0].Interviewee.Name)

	// the interviewee sees both
	both, err := svc.ListForInterviewee(ctx, interviewee.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, both, 2)
}

func TestListInterviewees(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewInterviewService(newFakeInterviewRepo(), users)

	seedParty(t, users, "dana", models.RoleInterviewer)
	seedParty(t, users, "sam", models.RoleInterviewee)
	seedParty(t, users, "alex", models.RoleInterviewee)

	out, err := svc.ListInterviewees(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, u := range out {
		assert.Equal(t, models.RoleInterviewee, u.Role)
	}
}
