package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronohq/chrono-interviews/internal/models"
	"github.com/chronohq/chrono-interviews/internal/utils"
)

type fakeLLM struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) Close() error { return nil }

type captureArchiver struct {
	turns []models.Turn
}

func (a *captureArchiver) Archive(_ context.Context, _ string, turns ...models.Turn) error {
	a.turns = append(a.turns, turns...)
	return nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(&strings.Builder{})
	return l
}

func TestEngine_RespondAppendsUserThenAI(t *testing.T) {
	llm := &fakeLLM{reply: "tell me more"}
	store := NewMemoryStore()
	e := NewEngine(store, llm, nil, testLogger())

	reply, err := e.Respond(context.Background(), "s1", "I like Go", Intro{})
	require.NoError(t, err)
	assert.Equal(t, "tell me more", reply)

	history, err := store.GetOrCreate(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.SpeakerUser, history[0].Speaker)
	assert.Equal(t, "I like Go", history[0].Text)
	assert.Equal(t, models.SpeakerAI, history[1].Speaker)
	assert.Equal(t, "tell me more", history[1].Text)
}

func TestEngine_ContextWindowIsBounded(t *testing.T) {
	llm := &fakeLLM{reply: "ok"}
	store := NewMemoryStore()
	ctx := context.Background()

	// seed 10 prior turns
	for i := 0; i < 10; i++ {
		require.NoError(t, store.Append(ctx, "s1", models.Turn{
			Speaker: models.SpeakerUser,
			Text:    fmt.Sprintf("old-utterance-%d", i),
		}))
	}

	e := NewEngine(store, llm, nil, testLogger())
	_, err := e.Respond(ctx, "s1", "latest question", Intro{})
	require.NoError(t, err)

	require.Len(t, llm.prompts, 1)
	prompt := llm.prompts[0]

	assert.Contains(t, prompt, "old-utterance-8")
	assert.Contains(t, prompt, "old-utterance-9")
	for i := 0; i < 8; i++ {
		assert.NotContains(t, prompt, fmt.Sprintf("old-utterance-%d", i))
	}
}

func TestEngine_StartSentinelBuildsIntroPrompt(t *testing.T) {
	llm := &fakeLLM{reply: "Hello! Let's begin."}
	e := NewEngine(NewMemoryStore(), llm, nil, testLogger())

	intro := Intro{
		InterviewerName: "Dana",
		IntervieweeName: "Sam",
		JobDescription:  "Senior Go engineer, distributed systems",
	}
	reply, err := e.Respond(context.Background(), "s1", StartSentinel, intro)
	require.NoError(t, err)
	assert.Equal(t, "Hello! Let's begin.", reply)

	require.Len(t, llm.prompts, 1)
	prompt := llm.prompts[0]
	assert.Contains(t, prompt, "Dana")
	assert.Contains(t, prompt, "Sam")
	assert.Contains(t, prompt, "Senior Go engineer, distributed systems")
	// the sentinel must not be treated as spoken input
	assert.NotContains(t, prompt, StartSentinel)
}

func TestEngine_SentinelStillRecordedInHistory(t *testing.T) {
	llm := &fakeLLM{reply: "greeting"}
	store := NewMemoryStore()
	e := NewEngine(store, llm, nil, testLogger())
	ctx := context.Background()

	_, err := e.Respond(ctx, "s1", StartSentinel, Intro{JobDescription: "any"})
	require.NoError(t, err)
	llm.reply = "follow-up"
	_, err = e.Respond(ctx, "s1", "I have 3 years of experience", Intro{})
	require.NoError(t, err)

	history, err := store.GetOrCreate(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, history, 4)
}

func TestEngine_LLMFailureLeavesHistoryUntouched(t *testing.T) {
	llm := &fakeLLM{err: errors.New("backend down")}
	store := NewMemoryStore()
	e := NewEngine(store, llm, nil, testLogger())

	_, err := e.Respond(context.Background(), "s1", "hello", Intro{})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))

	history, herr := store.GetOrCreate(context.Background(), "s1")
	require.NoError(t, herr)
	assert.Empty(t, history)
}

func TestEngine_ReleaseEvictsSessionLock(t *testing.T) {
	llm := &fakeLLM{reply: "ok"}
	e := NewEngine(NewMemoryStore(), llm, nil, testLogger())
	ctx := context.Background()

	_, err := e.Respond(ctx, "s1", "hello", Intro{})
	require.NoError(t, err)
	_, held := e.locks.Load("s1")
	require.True(t, held)

	e.Release("s1")
	_, held = e.locks.Load("s1")
	assert.False(t, held)
}

func TestEngine_ForwardsTurnsToArchiver(t *testing.T) {
	llm := &fakeLLM{reply: "noted"}
	arch := &captureArchiver{}
	e := NewEngine(NewMemoryStore(), llm, arch, testLogger())

	_, err := e.Respond(context.Background(), "s1", "hi", Intro{})
	require.NoError(t, err)

	require.Len(t, arch.turns, 2)
	assert.Equal(t, models.SpeakerUser, arch.turns[0].Speaker)
	assert.Equal(t, models.SpeakerAI, arch.turns[1].Speaker)
}
