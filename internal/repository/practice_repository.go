package repository

import (
	"context"
	"lingochat_backend/internal/model"
	"lingochat_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type PracticeRepository struct {
	DB *gorm.DB
}

func NewPracticeRepository(db *gorm.DB) *PracticeRepository {
	return &PracticeRepository{DB: db}
}

func (r *PracticeRepository) Create(ctx context.Context, session *model.PracticeSession) error {
	return r.DB.WithContext(ctx).Create(session).Error
}

// FindByID 连同消息一起加载，消息按 seq 升序
func (r *PracticeRepository) FindByID(ctx context.Context, id string) (*model.PracticeSession, error) {
	var session model.PracticeSession
	err := r.DB.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AppendMessage 在同一事务内对未结束的会话计数加一并写入消息。
// 条件更新持有行锁，同一会话的并发追加按提交顺序串行化；
// 会话不存在返回 gorm.ErrRecordNotFound，已结束返回 util.ErrSessionClosed。
func (r *PracticeRepository) AppendMessage(ctx context.Context, sessionID string, role model.MessageRole, content string, at time.Time) (*model.PracticeMessage, error) {
	var msg *model.PracticeMessage

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.PracticeSession{}).
			Where("id = ? AND end_time IS NULL", sessionID).
			Update("message_count", gorm.Expr("message_count + 1"))
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var existing model.PracticeSession
			if err := tx.Select("id", "end_time").First(&existing, "id = ?", sessionID).Error; err != nil {
				return err
			}
			return util.ErrSessionClosed
		}

		var seq int
		if err := tx.Model(&model.PracticeSession{}).
			Where("id = ?", sessionID).
			Select("message_count").
			Scan(&seq).Error; err != nil {
			return err
		}

		msg = &model.PracticeMessage{
			SessionID: sessionID,
			Seq:       seq,
			Role:      role,
			Content:   content,
			Timestamp: at,
		}
		return tx.Create(msg).Error
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// Close 仅在 end_time 为空时写入，已结束的会话保持原结束时间
func (r *PracticeRepository) Close(ctx context.Context, sessionID string, at time.Time) (*model.PracticeSession, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.PracticeSession
		if err := tx.Select("id", "start_time", "end_time").First(&existing, "id = ?", sessionID).Error; err != nil {
			return err
		}
		if existing.EndTime != nil {
			return nil
		}
		if at.Before(existing.StartTime) {
			at = existing.StartTime
		}
		return tx.Model(&model.PracticeSession{}).
			Where("id = ? AND end_time IS NULL", sessionID).
			Update("end_time", at).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, sessionID)
}

// Delete 物理删除会话及其消息
func (r *PracticeRepository) Delete(ctx context.Context, sessionID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", sessionID).Delete(&model.PracticeSession{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("session_id = ?", sessionID).Delete(&model.PracticeMessage{}).Error
	})
}

// ListByUser 不加载消息，仅返回计数
func (r *PracticeRepository) ListByUser(ctx context.Context, userID string) ([]model.PracticeSession, error) {
	sessions := []model.PracticeSession{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_time DESC").
		Find(&sessions).Error
	return sessions, err
}
