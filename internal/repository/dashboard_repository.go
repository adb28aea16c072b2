package repository

import (
	"context"
	"lingochat_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// DashboardRepository 只读统计查询。日期分桶和时长计算放在 Go 侧完成，
// 避免依赖 MySQL 与 SQLite 各自的日期函数。
type DashboardRepository struct {
	DB *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{DB: db}
}

func (r *DashboardRepository) CountPractices(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&model.PracticeSession{}).Count(&total).Error
	return total, err
}

// CountByLanguage limit <= 0 表示不限
func (r *DashboardRepository) CountByLanguage(ctx context.Context, limit int) ([]model.LanguageCount, error) {
	rows := []model.LanguageCount{}
	db := r.DB.WithContext(ctx).Model(&model.PracticeSession{}).
		Select("language, COUNT(*) AS total").
		Group("language").
		Order("total DESC").Order("language ASC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	err := db.Scan(&rows).Error
	return rows, err
}

func (r *DashboardRepository) LatestSessions(ctx context.Context, limit int) ([]model.SessionBrief, error) {
	rows := []model.SessionBrief{}
	err := r.DB.WithContext(ctx).Model(&model.PracticeSession{}).
		Select("id, user_id, language, level, start_time, end_time").
		Order("start_time DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *DashboardRepository) CountActiveUsersSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&model.PracticeSession{}).
		Where("start_time >= ?", since).
		Distinct("user_id").
		Count(&total).Error
	return total, err
}

func (r *DashboardRepository) StartTimesSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.DB.WithContext(ctx).Model(&model.PracticeSession{}).
		Where("start_time >= ?", since).
		Order("start_time ASC").
		Pluck("start_time", &times).Error
	return times, err
}

type SessionSpan struct {
	StartTime time.Time
	EndTime   time.Time
}

func (r *DashboardRepository) ClosedSessionSpans(ctx context.Context) ([]SessionSpan, error) {
	var spans []SessionSpan
	err := r.DB.WithContext(ctx).Model(&model.PracticeSession{}).
		Select("start_time, end_time").
		Where("end_time IS NOT NULL").
		Scan(&spans).Error
	return spans, err
}
