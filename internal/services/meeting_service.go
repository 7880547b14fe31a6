package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chronohq/chrono-interviews/internal/agent"
	"github.com/chronohq/chrono-interviews/internal/models"
	"github.com/chronohq/chrono-interviews/internal/providers/video"
	mongorepo "github.com/chronohq/chrono-interviews/internal/repositories/mongo"
	"github.com/chronohq/chrono-interviews/internal/utils"
)

// MeetingService manages live (non-AI) video interview sessions.
type MeetingService interface {
	CreateMeeting(ctx context.Context, interviewID string) (*models.MeetingSession, error)
	CreateToken(ctx context.Context, roomName string) (string, error)
	End(ctx context.Context, sessionID string, transcript []models.Turn) (*models.MeetingSession, error)
}

type meetingService struct {
	meetings   mongorepo.MeetingRepository
	interviews mongorepo.InterviewRepository
	rooms      video.Provider
	scorer     *agent.Scorer
	log        *logrus.Logger
}

func NewMeetingService(meetings mongorepo.MeetingRepository, interviews mongorepo.InterviewRepository, rooms video.Provider, scorer *agent.Scorer, log *logrus.Logger) MeetingService {
	if log == nil {
		log = logrus.New()
	}
	return &meetingService{
		meetings:   meetings,
		interviews: interviews,
		rooms:      rooms,
		scorer:     scorer,
		log:        log,
	}
}

func (s *meetingService) CreateMeeting(ctx context.Context, interviewID string) (*models.MeetingSession, error) {
	const op = "MeetingService.CreateMeeting"

	oid, err := primitive.ObjectIDFromHex(interviewID)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid interview id", err)
	}

	if _, err := s.interviews.GetByID(ctx, oid); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview", err)
	}

	active, err := s.meetings.FindByInterviewAndState(ctx, oid, models.SessionActive)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to look up active session", err)
	}
	if active != nil {
		return active, nil
	}

	ended, err := s.meetings.FindByInterviewAndState(ctx, oid, models.SessionEnded)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to look up ended session", err)
	}
	if ended != nil {
		return nil, utils.E(utils.CodeConflict, op, "interview has already finished", nil)
	}

	room, err := s.rooms.CreateRoom(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to create video room", err)
	}

	meeting := &models.MeetingSession{
		SessionID:   uuid.NewString(),
		InterviewID: oid,
		State:       models.SessionActive,
		RoomURL:     room.URL,
	}
	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create meeting session", err)
	}
	return meeting, nil
}

func (s *meetingService) CreateToken(ctx context.Context, roomName string) (string, error) {
	const op = "MeetingService.CreateToken"

	if roomName == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "room name is required", nil)
	}

	token, err := s.rooms.CreateMeetingToken(ctx, roomName)
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "failed to create meeting token", err)
	}
	return token, nil
}

func (s *meetingService) End(ctx context.Context, sessionID string, transcript []models.Turn) (*models.MeetingSession, error) {
	const op = "MeetingService.End"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	meeting, err := s.meetings.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get session", err)
	}
	if meeting.State == models.SessionEnded {
		return meeting, nil
	}

	score := models.ZeroScore()
	if len(transcript) > 0 {
		// live transcripts carry participant names; keep labels verbatim
		score = s.scorer.Score(ctx, transcript, agent.ModeLive)
	}

	now := time.Now().UTC()
	if err := s.meetings.End(ctx, sessionID, now, score); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to end session", err)
	}

	meeting.State = models.SessionEnded
	meeting.Score = &score
	meeting.EndedAt = &now
	meeting.UpdatedAt = now
	return meeting, nil
}
