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

type MeetingRepository interface {
	Create(ctx context.Context, m *models.MeetingSession) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.MeetingSession, error)
	FindByInterviewAndState(ctx context.Context, interviewID primitive.ObjectID, state models.SessionState) (*models.MeetingSession, error)
	End(ctx context.Context, sessionID string, endedAt time.Time, score models.Score) error
}

type meetingRepo struct {
	col *mongo.Collection
}

func NewMeetingRepo(db *mongo.Database) MeetingRepository {
	return &meetingRepo{col: db.Collection("meeting_sessions")}
}

func (r *meetingRepo) Create(ctx context.Context, m *models.MeetingSession) error {
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, m)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid
	}
	return nil
}

func (r *meetingRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.MeetingSession, error) {
	var m models.MeetingSession
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &m, err
}

func (r *meetingRepo) FindByInterviewAndState(ctx context.Context, interviewID primitive.ObjectID, state models.SessionState) (*models.MeetingSession, error) {
	var m models.MeetingSession
	err := r.col.FindOne(ctx, bson.M{"interview": interviewID, "state": state}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &m, err
}

func (r *meetingRepo) End(ctx context.Context, sessionID string, endedAt time.Time, score models.Score) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{
			"state":      models.SessionEnded,
			"score":      score,
			"ended_at":   endedAt.UTC(),
			"updated_at": endedAt.UTC(),
		}},
	)
	return err
}
