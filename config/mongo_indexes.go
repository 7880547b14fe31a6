package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}

	db := MongoDatabase()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := db.Collection("users")
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("uniq_email").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("by_role"),
		},
	})
	if err != nil {
		return err
	}

	interviews := db.Collection("interviews")
	_, err = interviews.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "interviewer", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("by_interviewer_date"),
		},
		{
			Keys:    bson.D{{Key: "interviewee", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("by_interviewee_date"),
		},
	})
	if err != nil {
		return err
	}

	botSessions := db.Collection("bot_sessions")
	_, err = botSessions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_session_id").
				SetUnique(true),
		},
		// one bot session per interview, enforced at the store as well as
		// in the lifecycle controller
		{
			Keys: bson.D{{Key: "interview", Value: 1}},
			Options: options.Index().
				SetName("uniq_interview").
				SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	meetings := db.Collection("meeting_sessions")
	_, err = meetings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_session_id").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "interview", Value: 1}, {Key: "state", Value: 1}},
			Options: options.Index().SetName("by_interview_state"),
		},
	})
	return err
}
