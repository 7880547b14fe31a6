package workers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/chronohq/chrono-interviews/internal/models"
	pgrepo "github.com/chronohq/chrono-interviews/internal/repositories/postgres"
)

// RedisArchiver enqueues turns onto a Redis stream so archival stays off
// the request path. Implements agent.Archiver.
type RedisArchiver struct {
	Redis  *redis.Client
	Stream string
}

func (a *RedisArchiver) stream() string {
	if a.Stream == "" {
		return "turns:stream"
	}
	return a.Stream
}

func (a *RedisArchiver) Archive(ctx context.Context, sessionID string, turns ...models.Turn) error {
	for _, t := range turns {
		err := a.Redis.XAdd(ctx, &redis.XAddArgs{
			Stream: a.stream(),
			Values: map[string]any{
				"session_id": sessionID,
				"speaker":    t.Speaker,
				"text":       t.Text,
				"ts_unix":    strconv.FormatInt(t.Timestamp.UTC().Unix(), 10),
			},
		}).Err()
		if err != nil {
			return err
		}
	}
	return nil
}

// ArchiveWorkerPool drains the turn stream into the Postgres conversation
// archive with a consumer group.
type ArchiveWorkerPool struct {
	Redis      *redis.Client
	Convos     pgrepo.ConversationRepo
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *ArchiveWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Convos == nil {
		return errors.New("ArchiveWorkerPool missing dependency: Redis/Convos must be set")
	}
	if p.Stream == "" {
		p.Stream = "turns:stream"
	}
	if p.Group == "" {
		p.Group = "archive-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *ArchiveWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    50,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *ArchiveWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	getStr := func(k string) string {
		v, ok := msg.Values[k]
		if !ok || v == nil {
			return ""
		}
		s, _ := v.(string)
		return s
	}

	sessionID := getStr("session_id")
	text := getStr("text")
	if sessionID == "" || text == "" {
		return
	}

	ts := time.Now().UTC()
	if unix, err := strconv.ParseInt(getStr("ts_unix"), 10, 64); err == nil && unix > 0 {
		ts = time.Unix(unix, 0).UTC()
	}

	row := &models.ConversationLog{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Speaker:   getStr("speaker"),
		Text:      text,
		Timestamp: ts,
	}

	if err := p.Convos.Insert(ctx, row); err != nil {
		p.Logger.WithError(err).WithFields(logrus.Fields{
			"redis_id":   msg.ID,
			"session_id": sessionID,
		}).Error("turn archive insert failed")
	}
}
