package services

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chronohq/chrono-interviews/internal/agent"
	"github.com/chronohq/chrono-interviews/internal/models"
	"github.com/chronohq/chrono-interviews/internal/providers/stt"
	"github.com/chronohq/chrono-interviews/internal/providers/tts"
	mongorepo "github.com/chronohq/chrono-interviews/internal/repositories/mongo"
	"github.com/chronohq/chrono-interviews/internal/storage"
	"github.com/chronohq/chrono-interviews/internal/utils"
)

// VoiceReply is the spoken variant of a turn reply.
type VoiceReply struct {
	Text  string
	Audio []byte // MP3; empty when no TTS provider is configured
}

// BotSessionService owns the active->ended lifecycle of AI interview
// sessions and fronts the conversational turn engine.
type BotSessionService interface {
	Create(ctx context.Context, interviewID string) (*models.BotSession, error)
	Get(ctx context.Context, sessionID string) (*models.BotSession, error)
	RecordTurn(ctx context.Context, sessionID, utterance string) (string, error)
	RecordVoiceTurn(ctx context.Context, sessionID string, audio []byte, language string) (*VoiceReply, error)
	End(ctx context.Context, sessionID string, transcript []models.Turn) (*models.BotSession, error)
}

type botSessionService struct {
	sessions   mongorepo.BotSessionRepository
	interviews mongorepo.InterviewRepository
	users      mongorepo.UserRepository

	engine *agent.Engine
	scorer *agent.Scorer

	stt      stt.Provider     // optional
	tts      tts.Provider     // optional
	uploader storage.Uploader // optional, voice audio retention

	log *logrus.Logger
}

type BotSessionDeps struct {
	Sessions   mongorepo.BotSessionRepository
	Interviews mongorepo.InterviewRepository
	Users      mongorepo.UserRepository
	Engine     *agent.Engine
	Scorer     *agent.Scorer
	STT        stt.Provider
	TTS        tts.Provider
	Uploader   storage.Uploader
	Logger     *logrus.Logger
}

func NewBotSessionService(d BotSessionDeps) BotSessionService {
	if d.Logger == nil {
		d.Logger = logrus.New()
	}
	return &botSessionService{
		sessions:   d.Sessions,
		interviews: d.Interviews,
		users:      d.Users,
		engine:     d.Engine,
		scorer:     d.Scorer,
		stt:        d.STT,
		tts:        d.TTS,
		uploader:   d.Uploader,
		log:        d.Logger,
	}
}

func (s *botSessionService) Create(ctx context.Context, interviewID string) (*models.BotSession, error) {
	const op = "BotSessionService.Create"

	oid, err := primitive.ObjectIDFromHex(interviewID)
	if err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid interview id", err)
	}

	iv, err := s.interviews.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview", err)
	}

	if !iv.IsAI {
		return nil, utils.E(utils.CodeInvalidState, op, "this is not an AI interview", nil)
	}

	existing, err := s.sessions.GetByInterviewID(ctx, oid)
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to look up existing session", err)
	}
	if existing != nil {
		if existing.Ended() {
			return nil, utils.E(utils.CodeConflict, op, "this interview has already ended", nil)
		}
		// active session: hand it back instead of creating a second one
		return existing, nil
	}

	session := &models.BotSession{
		SessionID:   uuid.NewString(),
		InterviewID: oid,
		State:       models.SessionActive,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create session", err)
	}
	return session, nil
}

func (s *botSessionService) Get(ctx context.Context, sessionID string) (*models.BotSession, error) {
	const op = "BotSessionService.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	session, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get session", err)
	}
	return session, nil
}

func (s *botSessionService) RecordTurn(ctx context.Context, sessionID, utterance string) (string, error) {
	const op = "BotSessionService.RecordTurn"

	if utterance == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "utterance is required", nil)
	}

	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if session.Ended() {
		return "", utils.E(utils.CodeInvalidState, op, "session has already ended", nil)
	}

	var intro agent.Intro
	if utterance == agent.StartSentinel {
		intro, err = s.introFor(ctx, session.InterviewID)
		if err != nil {
			return "", err
		}
	}

	return s.engine.Respond(ctx, sessionID, utterance, intro)
}

func (s *botSessionService) RecordVoiceTurn(ctx context.Context, sessionID string, audio []byte, language string) (*VoiceReply, error) {
	const op = "BotSessionService.RecordVoiceTurn"

	if s.stt == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "voice interviews are not configured", nil)
	}
	if len(audio) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio is required", nil)
	}

	text, _, err := s.stt.Transcribe(ctx, audio, language)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "speech transcription failed", err)
	}
	if text == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "no speech recognized", nil)
	}

	if s.uploader != nil {
		object := "bot_sessions/" + sessionID + "/" + uuid.NewString() + ".wav"
		if _, uerr := s.uploader.Upload(ctx, object, "audio/wav", bytes.NewReader(audio)); uerr != nil {
			s.log.WithError(uerr).WithField("session_id", sessionID).Warn("voice audio retention failed")
		}
	}

	reply, err := s.RecordTurn(ctx, sessionID, text)
	if err != nil {
		return nil, err
	}

	out := &VoiceReply{Text: reply}
	if s.tts != nil {
		speech, serr := s.tts.Synthesize(ctx, reply, language)
		if serr != nil {
			// reply text still stands; the client falls back to it
			s.log.WithError(serr).WithField("session_id", sessionID).Warn("speech synthesis failed")
		} else {
			out.Audio = speech
		}
	}
	return out, nil
}

func (s *botSessionService) End(ctx context.Context, sessionID string, transcript []models.Turn) (*models.BotSession, error) {
	const op = "BotSessionService.End"

	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Ended() {
		// idempotent: the stored terminal state wins, no re-score
		return session, nil
	}

	turns := transcript
	if len(turns) == 0 {
		if stored, herr := s.engine.History(ctx, sessionID); herr == nil {
			turns = stored
		}
	}

	score := models.ZeroScore()
	if len(turns) > 0 {
		score = s.scorer.Score(ctx, turns, agent.ModeBot)
	}

	now := time.Now().UTC()
	if err := s.sessions.End(ctx, sessionID, now, turns, score); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to end session", err)
	}
	s.engine.Release(sessionID)

	session.State = models.SessionEnded
	session.Turns = turns
	session.Score = &score
	session.EndedAt = &now
	session.UpdatedAt = now
	return session, nil
}

func (s *botSessionService) introFor(ctx context.Context, interviewID primitive.ObjectID) (agent.Intro, error) {
	const op = "BotSessionService.introFor"

	iv, err := s.interviews.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return agent.Intro{}, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return agent.Intro{}, utils.E(utils.CodeInternal, op, "failed to get interview", err)
	}

	intro := agent.Intro{
		InterviewerName: "Chrono",
		IntervieweeName: "the candidate",
		JobDescription:  iv.JobDescription,
	}
	if u, uerr := s.users.GetByID(ctx, iv.InterviewerID); uerr == nil {
		intro.InterviewerName = u.Name
	}
	if u, uerr := s.users.GetByID(ctx, iv.IntervieweeID); uerr == nil {
		intro.IntervieweeName = u.Name
	}
	return intro, nil
}
