package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Interview struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InterviewerID  primitive.ObjectID `bson:"interviewer" json:"interviewer_id"`
	IntervieweeID  primitive.ObjectID `bson:"interviewee" json:"interviewee_id"`
	Date           time.Time          `bson:"date" json:"date"`
	JobDescription string             `bson:"job_description" json:"job_description"`
	IsAI           bool               `bson:"is_ai" json:"is_ai"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// InterviewDetail carries an interview together with the resolved parties,
// mirroring what list/read endpoints return to the dashboards.
type InterviewDetail struct {
	Interview   Interview `json:"interview"`
	Interviewer SafeUser  `json:"interviewer"`
	Interviewee SafeUser  `json:"interviewee"`
}
