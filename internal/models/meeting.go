package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MeetingSession is one live (non-AI) video interview, backed by a
// third-party video room. Shares the active/ended lifecycle with BotSession.
type MeetingSession struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID   string             `bson:"session_id" json:"session_id"` // uuid v4
	InterviewID primitive.ObjectID `bson:"interview" json:"interview_id"`

	State   SessionState `bson:"state" json:"state"`
	RoomURL string       `bson:"room_url" json:"room_url"`
	Score   *Score       `bson:"score,omitempty" json:"score,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	EndedAt   *time.Time `bson:"ended_at,omitempty" json:"ended_at,omitempty"`
}
