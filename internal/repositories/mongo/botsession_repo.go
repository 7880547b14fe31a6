package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/chronohq/chrono-interviews/internal/models"
	"github.com/chronohq/chrono-interviews/internal/utils"
)

type BotSessionRepository interface {
	Create(ctx context.Context, s *models.BotSession) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.BotSession, error)
	GetByInterviewID(ctx context.Context, interviewID primitive.ObjectID) (*models.BotSession, error)
	// End transitions the session to ended, storing the final transcript
	// and rubric in one update.
	End(ctx context.Context, sessionID string, endedAt time.Time, turns []models.Turn, score models.Score) error
}

type botSessionRepo struct {
	col *mongo.Collection
}

func NewBotSessionRepo(db *mongo.Database) BotSessionRepository {
	return &botSessionRepo{col: db.Collection("bot_sessions")}
}

func (r *botSessionRepo) Create(ctx context.Context, s *models.BotSession) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, s)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid
	}
	return nil
}

func (r *botSessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.BotSession, error) {
	var s models.BotSession
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *botSessionRepo) GetByInterviewID(ctx context.Context, interviewID primitive.ObjectID) (*models.BotSession, error) {
	var s models.BotSession
	err := r.col.FindOne(ctx, bson.M{"interview": interviewID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *botSessionRepo) End(ctx context.Context, sessionID string, endedAt time.Time, turns []models.Turn, score models.Score) error {
	set := bson.M{
		"state":      models.SessionEnded,
		"score":      score,
		"ended_at":   endedAt.UTC(),
		"updated_at": endedAt.UTC(),
	}
	if turns != nil {
		set["turns"] = turns
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": set},
	)
	return err
}
