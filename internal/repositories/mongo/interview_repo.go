package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chronohq/chrono-interviews/internal/models"
	"github.com/chronohq/chrono-interviews/internal/utils"
)

type InterviewRepository interface {
	Create(ctx context.Context, iv *models.Interview) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Interview, error)
	// ListByInterviewer returns the interviewer's scheduled interviews.
	// AI interviews are excluded: the interviewer dashboard only shows
	// meetings they attend in person.
	ListByInterviewer(ctx context.Context, interviewerID primitive.ObjectID) ([]models.Interview, error)
	ListByInterviewee(ctx context.Context, intervieweeID primitive.ObjectID) ([]models.Interview, error)
}

type interviewRepo struct {
	col *mongo.Collection
}

func NewInterviewRepo(db *mongo.Database) InterviewRepository {
	return &interviewRepo{col: db.Collection("interviews")}
}

func (r *interviewRepo) Create(ctx context.Context, iv *models.Interview) error {
	now := time.Now().UTC()
	if iv.CreatedAt.IsZero() {
		iv.CreatedAt = now
	}
	iv.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, iv)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		iv.ID = oid
	}
	return nil
}

func (r *interviewRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Interview, error) {
	var iv models.Interview
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&iv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &iv, err
}

func (r *interviewRepo) ListByInterviewer(ctx context.Context, interviewerID primitive.ObjectID) ([]models.Interview, error) {
	return r.list(ctx, bson.M{"interviewer": interviewerID, "is_ai": false})
}

func (r *interviewRepo) ListByInterviewee(ctx context.Context, intervieweeID primitive.ObjectID) ([]models.Interview, error) {
	return r.list(ctx, bson.M{"interviewee": intervieweeID})
}

func (r *interviewRepo) list(ctx context.Context, filter bson.M) ([]models.Interview, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Interview
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
