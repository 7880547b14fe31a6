package models

import "time"

// Speaker labels as they arrive from the clients. Bot transcripts use
// SpeakerUser/SpeakerAI; live meeting transcripts carry participant names
// verbatim.
const (
	SpeakerUser = "User"
	SpeakerAI   = "AI"
)

// Turn is one utterance by one speaker. Turns are append-only; their
// insertion order defines the conversational context.
type Turn struct {
	Speaker   string    `bson:"speaker" json:"speaker"`
	Text      string    `bson:"text" json:"text"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Score is the four-field rubric produced once per ended session.
// Each field is on a 1-10 scale; all zeros means scoring was skipped
// or failed.
type Score struct {
	ConfidenceLevel    int `bson:"confidence_level" json:"confidence_level"`
	TechnicalKnowledge int `bson:"technical_knowledge" json:"technical_knowledge"`
	Communication      int `bson:"communication" json:"communication"`
	ProblemSolving     int `bson:"problem_solving" json:"problem_solving"`
}

// ZeroScore is the fallback rubric stored when no transcript was supplied
// or the scoring backend failed.
func ZeroScore() Score { return Score{} }

func (s Score) IsZero() bool {
	return s == Score{}
}
