package workers

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronohq/chrono-interviews/internal/models"
)

type captureConvoRepo struct {
	rows      []*models.ConversationLog
	insertErr error
}

func (r *captureConvoRepo) Insert(_ context.Context, rows ...*models.ConversationLog) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.rows = append(r.rows, rows...)
	return nil
}

func (r *captureConvoRepo) ListBySession(_ context.Context, sessionID string, _ int) ([]models.ConversationLog, error) {
	var out []models.ConversationLog
	for _, row := range r.rows {
		if row.SessionID == sessionID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func newTestPool(repo *captureConvoRepo) *ArchiveWorkerPool {
	l := logrus.New()
	l.SetOutput(&strings.Builder{})
	return &ArchiveWorkerPool{Convos: repo, Logger: l}
}

func turnMessage(sessionID, speaker, text string, ts time.Time) redis.XMessage {
	return redis.XMessage{
		ID: "1-0",
		Values: map[string]any{
			"session_id": sessionID,
			"speaker":    speaker,
			"text":       text,
			"ts_unix":    strconv.FormatInt(ts.Unix(), 10),
		},
	}
}

func TestArchivePool_HandleMsgInsertsRow(t *testing.T) {
	repo := &captureConvoRepo{}
	p := newTestPool(repo)

	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	p.handleMsg(context.Background(), turnMessage("sess-1", models.SpeakerUser, "I have 3 years of experience", ts))

	require.Len(t, repo.rows, 1)
	row := repo.rows[0]
	assert.NotEmpty(t, row.ID)
	assert.Equal(t, "sess-1", row.SessionID)
	assert.Equal(t, models.SpeakerUser, row.Speaker)
	assert.Equal(t, "I have 3 years of experience", row.Text)
	assert.True(t, row.Timestamp.Equal(ts))
}

func TestArchivePool_RowWithoutEmbedderStoresNull(t *testing.T) {
	repo := &captureConvoRepo{}
	p := newTestPool(repo)

	p.handleMsg(context.Background(), turnMessage("sess-1", models.SpeakerAI, "tell me more", time.Now()))

	require.Len(t, repo.rows, 1)
	// a non-nil zero vector would reach Postgres as "[]", which a
	// dimensioned vector column rejects; absent embeddings must be NULL
	assert.Nil(t, repo.rows[0].Embedding)
}

func TestArchivePool_HandleMsgSkipsIncompleteMessages(t *testing.T) {
	repo := &captureConvoRepo{}
	p := newTestPool(repo)
	ctx := context.Background()

	p.handleMsg(ctx, redis.XMessage{ID: "1-0", Values: map[string]any{"speaker": "AI", "text": "no session"}})
	p.handleMsg(ctx, redis.XMessage{ID: "2-0", Values: map[string]any{"session_id": "sess-1", "speaker": "AI"}})

	assert.Empty(t, repo.rows)
}

func TestArchivePool_HandleMsgDefaultsBadTimestamp(t *testing.T) {
	repo := &captureConvoRepo{}
	p := newTestPool(repo)

	before := time.Now().UTC()
	p.handleMsg(context.Background(), redis.XMessage{
		ID: "1-0",
		Values: map[string]any{
			"session_id": "sess-1",
			"speaker":    models.SpeakerUser,
			"text":       "hi",
			"ts_unix":    "not-a-number",
		},
	})

	require.Len(t, repo.rows, 1)
	assert.False(t, repo.rows[0].Timestamp.Before(before))
}
