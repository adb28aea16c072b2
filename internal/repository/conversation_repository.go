package repository

import (
	"context"
	"lingochat_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ConversationRepository struct {
	DB *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{DB: db}
}

func (r *ConversationRepository) Create(ctx context.Context, entry *model.ConversationEntry) error {
	return r.DB.WithContext(ctx).Create(entry).Error
}

// Recent 最新的 limit 条记录（新→旧），userID 为空时不按用户过滤
func (r *ConversationRepository) Recent(ctx context.Context, userID string, limit int) ([]model.ConversationEntry, error) {
	var entries []model.ConversationEntry
	db := r.DB.WithContext(ctx).Model(&model.ConversationEntry{})
	if userID != "" {
		db = db.Where("user_id = ?", userID)
	}
	err := db.Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// Between 按时间升序返回 [from, to] 区间内某用户的记录
func (r *ConversationRepository) Between(ctx context.Context, userID string, from, to time.Time) ([]model.ConversationEntry, error) {
	var entries []model.ConversationEntry
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, from, to).
		Order("created_at ASC").Order("id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ConversationRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&model.ConversationEntry{}).Count(&total).Error
	return total, err
}
