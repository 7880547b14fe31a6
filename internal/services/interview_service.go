package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chronohq/chrono-interviews/internal/models"
	mongorepo "github.com/chronohq/chrono-interviews/internal/repositories/mongo"
	"github.com/chronohq/chrono-interviews/internal/utils"
)

type ScheduleInput struct {
	InterviewerID  string
	IntervieweeID  string
	Date           time.Time
	JobDescription string
	IsAI           bool
}

type InterviewService interface {
	Schedule(ctx context.Context, in ScheduleInput) (*models.Interview, error)
	ListInterviewees(ctx context.Context) ([]models.SafeUser, error)
	ListForInterviewer(ctx context.Context, interviewerID string) ([]models.InterviewDetail, error)
	ListForInterviewee(ctx context.Context, intervieweeID string) ([]models.InterviewDetail, error)
}

type interviewService struct {
	interviews mongorepo.InterviewRepository
	users      mongorepo.UserRepository
}

func NewInterviewService(interviews mongorepo.InterviewRepository, users mongorepo.UserRepository) InterviewService {
	return &interviewService{interviews: interviews, users: users}
}

func (s *interviewService) Schedule(ctx context.Context, in ScheduleInput) (*models.Interview, error) {
	const op = "InterviewService.Schedule"

	if in.IntervieweeID == "" || in.JobDescription == "" || in.Date.IsZero() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interviewee, date, and job description are required", nil)
	}

	interviewerID, err := primitive.ObjectIDFromHex(in.InterviewerID)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid interviewer id", err)
	}
	intervieweeID, err := primitive.ObjectIDFromHex(in.IntervieweeID)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid interviewee id", err)
	}

	interviewee, err := s.users.GetByID(ctx, intervieweeID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interviewee not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interviewee", err)
	}
	if interviewee.Role != models.RoleInterviewee {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user is not an interviewee", nil)
	}

	iv := &models.Interview{
		InterviewerID:  interviewerID,
		IntervieweeID:  intervieweeID,
		Date:           in.Date.UTC(),
		JobDescription: in.JobDescription,
		IsAI:           in.IsAI,
	}
	if err := s.interviews.Create(ctx, iv); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create interview", err)
	}
	return iv, nil
}

func (s *interviewService) ListInterviewees(ctx context.Context) ([]models.SafeUser, error) {
	const op = "InterviewService.ListInterviewees"

	users, err := s.users.ListByRole(ctx, models.RoleInterviewee)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list interviewees", err)
	}

	out := make([]models.SafeUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Safe())
	}
	return out, nil
}

func (s *interviewService) ListForInterviewer(ctx context.Context, interviewerID string) ([]models.InterviewDetail, error) {
	const op = "InterviewService.ListForInterviewer"

	oid, err := primitive.ObjectIDFromHex(interviewerID)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid interviewer id", err)
	}

	rows, err := s.interviews.ListByInterviewer(ctx, oid)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list interviews", err)
	}
	return s.populate(ctx, rows)
}

func (s *interviewService) ListForInterviewee(ctx context.Context, intervieweeID string) ([]models.InterviewDetail, error) {
	const op = "InterviewService.ListForInterviewee"

	oid, err := primitive.ObjectIDFromHex(intervieweeID)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid interviewee id", err)
	}

	rows, err := s.interviews.ListByInterviewee(ctx, oid)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list interviews", err)
	}
	return s.populate(ctx, rows)
}

// populate resolves the parties of each interview, caching user lookups
// within the call.
func (s *interviewService) populate(ctx context.Context, rows []models.Interview) ([]models.InterviewDetail, error) {
	seen := map[primitive.ObjectID]models.SafeUser{}

	resolve := func(id primitive.ObjectID) models.SafeUser {
		if u, ok := seen[id]; ok {
			return u
		}
		safe := models.SafeUser{ID: id.Hex()}
		if u, err := s.users.GetByID(ctx, id); err == nil {
			safe = u.Safe()
		}
		seen[id] = safe
		return safe
	}

	out := make([]models.InterviewDetail, 0, len(rows))
	for _, iv := range rows {
		out = append(out, models.InterviewDetail{
			Interview:   iv,
			Interviewer: resolve(iv.InterviewerID),
			Interviewee: resolve(iv.IntervieweeID),
		})
	}
	return out, nil
}
