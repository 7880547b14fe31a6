package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SessionState string

const (
	SessionActive SessionState = "active"
	SessionEnded  SessionState = "ended"
)

// BotSession is one AI-driven interview conversation tied to one interview.
// State only ever moves active -> ended; turns are append-only.
type BotSession struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID   string             `bson:"session_id" json:"session_id"` // uuid v4
	InterviewID primitive.ObjectID `bson:"interview" json:"interview_id"`

	State SessionState `bson:"state" json:"state"` // active|ended
	Turns []Turn       `bson:"turns" json:"turns"`
	Score *Score       `bson:"score,omitempty" json:"score,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	EndedAt   *time.Time `bson:"ended_at,omitempty" json:"ended_at,omitempty"`
}

func (s *BotSession) Ended() bool { return s.State == SessionEnded }
