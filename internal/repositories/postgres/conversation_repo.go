package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/chronohq/chrono-interviews/internal/models"
)

type ConversationRepo interface {
	Insert(ctx context.Context, rows ...*models.ConversationLog) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]models.ConversationLog, error)
}

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) Insert(ctx context.Context, rows ...*models.ConversationLog) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(rows).Error
}

func (r *conversationRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]models.ConversationLog, error) {
	if limit <= 0 {
		limit = 200
	}
	var rows []models.ConversationLog
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
