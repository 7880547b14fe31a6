package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chronohq/chrono-interviews/internal/models"
	"github.com/chronohq/chrono-interviews/internal/providers/llm"
	"github.com/chronohq/chrono-interviews/internal/utils"
)

// StartSentinel is the reserved utterance the client sends to open the
// interview. It triggers the introduction prompt instead of being treated
// as spoken input.
const StartSentinel = "___INIT_HELLO___"

// contextWindow bounds how many prior turns feed the continuation prompt.
// Keeps prompt size and cost flat regardless of interview length.
const contextWindow = 2

// llmTimeout caps each language-model round trip, the only
// unbounded-latency call on the turn path.
const llmTimeout = 60 * time.Second

// Intro parameterizes the opening of an interview.
type Intro struct {
	InterviewerName string
	IntervieweeName string
	JobDescription  string
}

// Archiver receives every appended turn for durable archival. Failures are
// logged and never block the conversation.
type Archiver interface {
	Archive(ctx context.Context, sessionID string, turns ...models.Turn) error
}

// Engine produces the next interviewer utterance for a session. Turns for
// one session id are serialized so history order always matches processing
// order.
type Engine struct {
	store    Store
	llm      llm.Provider
	archiver Archiver
	log      *logrus.Logger

	locks sync.Map // sessionID -> *sync.Mutex
}

func NewEngine(store Store, provider llm.Provider, archiver Archiver, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}
	return &Engine{store: store, llm: provider, archiver: archiver, log: log}
}

func (e *Engine) lock(sessionID string) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Release drops the lock entry for a session that reached its terminal
// state, so the lock table does not grow for the process lifetime. Safe to
// call while a turn is in flight: the holder keeps its mutex, and a later
// call for the same id simply allocates a fresh one.
func (e *Engine) Release(sessionID string) {
	e.locks.Delete(sessionID)
}

// Respond computes the interviewer's reply to userText and appends both the
// input and the reply to the session history, in that order. On a backend
// failure nothing is appended and the error is surfaced as UNAVAILABLE.
func (e *Engine) Respond(ctx context.Context, sessionID, userText string, intro Intro) (string, error) {
	const op = "Engine.Respond"

	mu := e.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	history, err := e.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to load session history", err)
	}

	prompt := e.buildPrompt(history, userText, intro)

	callCtx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	reply, err := e.llm.Generate(callCtx, prompt)
	if err != nil {
		e.log.WithError(err).WithField("session_id", sessionID).Error("llm call failed")
		return "", utils.E(utils.CodeUnavailable, op, "language model call failed", err)
	}

	now := time.Now().UTC()
	userTurn := models.Turn{Speaker: models.SpeakerUser, Text: userText, Timestamp: now}
	aiTurn := models.Turn{Speaker: models.SpeakerAI, Text: reply, Timestamp: now}

	if err := e.store.Append(ctx, sessionID, userTurn, aiTurn); err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to append turns", err)
	}

	if e.archiver != nil {
		if err := e.archiver.Archive(ctx, sessionID, userTurn, aiTurn); err != nil {
			e.log.WithError(err).WithField("session_id", sessionID).Warn("turn archive enqueue failed")
		}
	}

	return reply, nil
}

// History returns a copy of the session's stored turns.
func (e *Engine) History(ctx context.Context, sessionID string) ([]models.Turn, error) {
	const op = "Engine.History"

	mu := e.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	history, err := e.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load session history", err)
	}
	return history, nil
}

func (e *Engine) buildPrompt(history []models.Turn, userText string, intro Intro) string {
	if userText == StartSentinel {
		return fmt.Sprintf(`You are an AI interviewer named %s conducting a job interview with %s.

Job description:
%s

Greet the candidate, introduce yourself, reference the role, and ask the first question. Keep it short and conversational.`,
			intro.InterviewerName, intro.IntervieweeName, intro.JobDescription)
	}

	recent := history
	if len(recent) > contextWindow {
		recent = recent[len(recent)-contextWindow:]
	}

	return fmt.Sprintf(`You are an AI interviewer. Continue the interview naturally.
Conversation so far:
%s

Now user said: %q
Respond as the interviewer.`,
		FormatTranscript(recent, ModeBot), userText)
}
