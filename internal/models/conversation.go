package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// ConversationLog is the durable per-turn archive row in Postgres. The
// in-memory session store is authoritative during a call; the archive
// survives restarts and feeds offline analysis. Embedding is a pointer so
// rows written without an embedder store NULL; a zero-value vector would
// render as the empty literal, which a dimensioned vector column rejects.
type ConversationLog struct {
	ID        string           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID string           `gorm:"column:session_id;type:uuid;index" json:"session_id"`
	Speaker   string           `gorm:"column:speaker;type:text" json:"speaker"`
	Text      string           `gorm:"column:text;type:text" json:"text"`
	Embedding *pgvector.Vector `gorm:"column:embedding;type:vector(768)" json:"embedding,omitempty"`
	Timestamp time.Time        `gorm:"column:timestamp;type:timestamptz;index" json:"timestamp"`
	Metadata  datatypes.JSON   `gorm:"column:metadata;type:jsonb" json:"metadata"`
}

func (ConversationLog) TableName() string { return "conversation_logs" }
