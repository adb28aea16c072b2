package service

import (
	"context"
	"encoding/json"
	"lingochat_backend/internal/config"
	"lingochat_backend/internal/model"
	"lingochat_backend/internal/repository"
	"lingochat_backend/internal/util"
	"lingochat_backend/pkg/logger"
	"math"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	latestPracticesLimit = 5
	topLanguagesLimit    = 5
	activityWindowDays   = 7
	overviewCacheKey     = "dashboard:overview"
)

// DashboardService 只读统计；空表返回零值，不报错
type DashboardService struct {
	Repo          *repository.DashboardRepository
	Users         *repository.UserRepository
	Conversations *repository.ConversationRepository
	Redis         *redis.Client
	CacheTTL      time.Duration

	now func() time.Time
}

func NewDashboardService(repo *repository.DashboardRepository, users *repository.UserRepository, conversations *repository.ConversationRepository, rdb *redis.Client, cfg config.DashboardConfig) *DashboardService {
	return &DashboardService{
		Repo:          repo,
		Users:         users,
		Conversations: conversations,
		Redis:         rdb,
		CacheTTL:      time.Duration(cfg.CacheTTLSeconds) * time.Second,
		now:           time.Now,
	}
}

func (s *DashboardService) windowStart() time.Time {
	return s.now().AddDate(0, 0, -activityWindowDays)
}

func (s *DashboardService) Overview(ctx context.Context) (*model.DashboardOverview, error) {
	if cached := s.cachedOverview(ctx); cached != nil {
		return cached, nil
	}

	totalUsers, err := s.Users.Count(ctx)
	if err != nil {
		return nil, util.WrapStore("count users", err)
	}
	totalConversations, err := s.Conversations.Count(ctx)
	if err != nil {
		return nil, util.WrapStore("count conversations", err)
	}
	totalPractices, err := s.Repo.CountPractices(ctx)
	if err != nil {
		return nil, util.WrapStore("count practices", err)
	}
	byLanguage, err := s.Repo.CountByLanguage(ctx, 0)
	if err != nil {
		return nil, util.WrapStore("count practices by language", err)
	}
	latest, err := s.Repo.LatestSessions(ctx, latestPracticesLimit)
	if err != nil {
		return nil, util.WrapStore("latest practices", err)
	}

	overview := &model.DashboardOverview{
		TotalUsers:         totalUsers,
		TotalConversations: totalConversations,
		TotalPractices:     totalPractices,
		PracticesByLang:    byLanguage,
		LatestPractices:    latest,
	}
	s.cacheOverview(ctx, overview)
	return overview, nil
}

func (s *DashboardService) cachedOverview(ctx context.Context) *model.DashboardOverview {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return nil
	}
	raw, err := s.Redis.Get(ctx, overviewCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("dashboard cache read failed", zap.Error(err))
		}
		return nil
	}
	var overview model.DashboardOverview
	if err := json.Unmarshal(raw, &overview); err != nil {
		return nil
	}
	return &overview
}

func (s *DashboardService) cacheOverview(ctx context.Context, overview *model.DashboardOverview) {
	if s.Redis == nil || s.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(overview)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, overviewCacheKey, raw, s.CacheTTL).Err(); err != nil {
		logger.Log.Warn("dashboard cache write failed", zap.Error(err))
	}
}

// ActiveUsers 最近 7 天内至少开始过一次练习的去重用户数
func (s *DashboardService) ActiveUsers(ctx context.Context) (int64, error) {
	total, err := s.Repo.CountActiveUsersSince(ctx, s.windowStart())
	if err != nil {
		return 0, util.WrapStore("count active users", err)
	}
	return total, nil
}

func (s *DashboardService) TopLanguages(ctx context.Context) ([]model.LanguageCount, error) {
	rows, err := s.Repo.CountByLanguage(ctx, topLanguagesLimit)
	if err != nil {
		return nil, util.WrapStore("top languages", err)
	}
	return rows, nil
}

// PracticesPerDay 最近 7 天按本地日期分组，日期升序，只包含有练习的日期
func (s *DashboardService) PracticesPerDay(ctx context.Context) ([]model.DailyCount, error) {
	times, err := s.Repo.StartTimesSince(ctx, s.windowStart())
	if err != nil {
		return nil, util.WrapStore("practices per day", err)
	}

	days := []model.DailyCount{}
	for _, t := range times {
		day := t.In(time.Local).Format(util.DateFormat)
		if n := len(days); n > 0 && days[n-1].Day == day {
			days[n-1].Total++
			continue
		}
		days = append(days, model.DailyCount{Day: day, Total: 1})
	}
	return days, nil
}

// AverageDuration 已结束会话的平均时长（分钟，保留一位小数）
func (s *DashboardService) AverageDuration(ctx context.Context) (float64, error) {
	spans, err := s.Repo.ClosedSessionSpans(ctx)
	if err != nil {
		return 0, util.WrapStore("average duration", err)
	}
	if len(spans) == 0 {
		return 0, nil
	}

	var total float64
	for _, span := range spans {
		total += span.EndTime.Sub(span.StartTime).Minutes()
	}
	avg := total / float64(len(spans))
	return math.Round(avg*10) / 10, nil
}
