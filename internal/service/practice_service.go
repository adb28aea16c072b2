package service

import (
	"context"
	"errors"
	"lingochat_backend/internal/config"
	"lingochat_backend/internal/model"
	"lingochat_backend/internal/repository"
	"lingochat_backend/internal/util"
	"lingochat_backend/pkg/logger"
	"lingochat_backend/pkg/monitoring"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const recentTopicsLimit = 3

type PracticeService struct {
	Repo         *repository.PracticeRepository
	Gateway      ChatCompleter
	Prompts      *PromptService
	AutoGreeting bool

	now func() time.Time
}

func NewPracticeService(repo *repository.PracticeRepository, gateway ChatCompleter, prompts *PromptService, cfg config.PracticeConfig) *PracticeService {
	return &PracticeService{
		Repo:         repo,
		Gateway:      gateway,
		Prompts:      prompts,
		AutoGreeting: cfg.AutoGreeting,
		now:          time.Now,
	}
}

type StartPracticeInput struct {
	UserID   string
	Language string
	Level    string
	Greeting bool
}

type StartPracticeResult struct {
	SessionID string
	Greeting  string
}

// Start 创建一个进行中的会话；需要开场白时请求网关并作为第一条 assistant 消息写入
func (s *PracticeService) Start(ctx context.Context, in StartPracticeInput) (*StartPracticeResult, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.Language = strings.TrimSpace(in.Language)
	in.Level = strings.TrimSpace(in.Level)
	if in.UserID == "" || in.Language == "" || in.Level == "" {
		return nil, util.NewValidationError("Missing data: userId, language or level")
	}

	session := &model.PracticeSession{
		UserID:    in.UserID,
		Language:  in.Language,
		Level:     in.Level,
		StartTime: s.now(),
	}
	if err := s.Repo.Create(ctx, session); err != nil {
		return nil, util.WrapStore("create practice session", err)
	}
	monitoring.PracticeEvents.WithLabelValues("started").Inc()
	log := logger.ForSession(session.ID, session.UserID)
	log.Info("practice session started",
		zap.String("language", session.Language),
		zap.String("level", session.Level))

	result := &StartPracticeResult{SessionID: session.ID}
	if !in.Greeting && !s.AutoGreeting {
		return result, nil
	}

	greeting, err := s.greet(ctx, session)
	if err != nil {
		// 会话已创建，开场白失败不影响返回 sessionId
		log.Warn("practice greeting failed", zap.Error(err))
		return result, nil
	}
	result.Greeting = greeting
	return result, nil
}

func (s *PracticeService) greet(ctx context.Context, session *model.PracticeSession) (string, error) {
	system, err := s.Prompts.PracticeSystem(session.Language, session.Level)
	if err != nil {
		return "", err
	}
	instruction, err := s.Prompts.PracticeGreeting(session.Language, session.Level)
	if err != nil {
		return "", err
	}

	reply, err := s.Gateway.Complete(ctx, []ChatMessage{
		{Role: string(model.RoleSystemMessage), Content: system},
		{Role: string(model.RoleUserMessage), Content: instruction},
	})
	if err != nil {
		return "", err
	}

	if _, err := s.Repo.AppendMessage(ctx, session.ID, model.RoleAssistantMessage, reply, s.now()); err != nil {
		return "", util.WrapStore("append greeting", err)
	}
	return reply, nil
}

type AppendMessageInput struct {
	SessionID string
	Role      string
	Content   string
	// AutoReply 为 nil 时，user 消息默认触发自动回复
	AutoReply *bool
}

type AppendMessageResult struct {
	Stored      *model.PracticeMessage
	BotResponse string
	Messages    []model.PracticeMessage
}

// AppendMessage 先持久化消息再调用网关，网关失败时已写入的用户消息不会丢失
func (s *PracticeService) AppendMessage(ctx context.Context, in AppendMessageInput) (*AppendMessageResult, error) {
	in.SessionID = strings.TrimSpace(in.SessionID)
	role := model.MessageRole(strings.ToLower(strings.TrimSpace(in.Role)))
	if in.SessionID == "" || role == "" || strings.TrimSpace(in.Content) == "" {
		return nil, util.NewValidationError("Missing data: sessionId, role or content")
	}
	if !role.ValidForSession() {
		return nil, util.NewValidationError("Invalid role %q: must be user or assistant", in.Role)
	}

	stored, err := s.Repo.AppendMessage(ctx, in.SessionID, role, in.Content, s.now())
	if err != nil {
		return nil, s.sessionError("append practice message", in.SessionID, err)
	}
	monitoring.PracticeEvents.WithLabelValues("message").Inc()

	result := &AppendMessageResult{Stored: stored}

	wantsReply := role == model.RoleUserMessage && (in.AutoReply == nil || *in.AutoReply)
	if wantsReply {
		reply, err := s.reply(ctx, in.SessionID)
		if err != nil {
			return nil, err
		}
		result.BotResponse = reply
	}

	session, err := s.Repo.FindByID(ctx, in.SessionID)
	if err != nil {
		return nil, s.sessionError("load practice session", in.SessionID, err)
	}
	result.Messages = session.Messages
	return result, nil
}

// reply 以完整有序历史（前置 system 提示）请求网关，并把回复追加为 assistant 消息
func (s *PracticeService) reply(ctx context.Context, sessionID string) (string, error) {
	session, err := s.Repo.FindByID(ctx, sessionID)
	if err != nil {
		return "", s.sessionError("load practice session", sessionID, err)
	}

	system, err := s.Prompts.PracticeSystem(session.Language, session.Level)
	if err != nil {
		return "", err
	}

	history := make([]ChatMessage, 0, len(session.Messages)+1)
	history = append(history, ChatMessage{Role: string(model.RoleSystemMessage), Content: system})
	for _, m := range session.Messages {
		history = append(history, ChatMessage{Role: string(m.Role), Content: m.Content})
	}

	reply, err := s.Gateway.Complete(ctx, history)
	if err != nil {
		return "", err
	}

	if _, err := s.Repo.AppendMessage(ctx, sessionID, model.RoleAssistantMessage, reply, s.now()); err != nil {
		return "", s.sessionError("append assistant reply", sessionID, err)
	}
	return reply, nil
}

// End 结束会话；对已结束的会话重复调用不会改写结束时间
func (s *PracticeService) End(ctx context.Context, sessionID string) (*model.PracticeSummary, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, util.NewValidationError("Missing session id")
	}

	session, err := s.Repo.Close(ctx, sessionID, s.now())
	if err != nil {
		return nil, s.sessionError("close practice session", sessionID, err)
	}
	monitoring.PracticeEvents.WithLabelValues("ended").Inc()

	summary := Summarize(session, s.now())
	logger.ForSession(session.ID, session.UserID).Info("practice session ended",
		zap.Int("durationMinutes", summary.DurationMinutes),
		zap.Int("totalMessages", summary.TotalMessages))
	return &summary, nil
}

func (s *PracticeService) Summary(ctx context.Context, sessionID string) (*model.PracticeSummary, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary := Summarize(session, s.now())
	return &summary, nil
}

func (s *PracticeService) Get(ctx context.Context, sessionID string) (*model.PracticeSession, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, util.NewValidationError("Missing session id")
	}
	session, err := s.Repo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, s.sessionError("load practice session", sessionID, err)
	}
	return session, nil
}

func (s *PracticeService) Delete(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return util.NewValidationError("Missing session id")
	}
	if err := s.Repo.Delete(ctx, sessionID); err != nil {
		return s.sessionError("delete practice session", sessionID, err)
	}
	monitoring.PracticeEvents.WithLabelValues("deleted").Inc()
	return nil
}

func (s *PracticeService) ListByUser(ctx context.Context, userID string) ([]model.PracticeSession, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, util.NewValidationError("Missing userId")
	}
	sessions, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, util.WrapStore("list practice sessions", err)
	}
	return sessions, nil
}

func (s *PracticeService) sessionError(op, sessionID string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return util.NewNotFoundError("practice session", sessionID)
	case errors.Is(err, util.ErrSessionClosed), util.IsGateway(err):
		return err
	default:
		return util.WrapStore(op, err)
	}
}

// Summarize 纯计算：时长以结束时间（未结束则取 now）减开始时间，四舍五入到分钟；
// recentTopics 为最近至多 3 条 user 消息，保持时间顺序
func Summarize(session *model.PracticeSession, now time.Time) model.PracticeSummary {
	end := now
	if session.EndTime != nil {
		end = *session.EndTime
	}

	topics := make([]string, 0, recentTopicsLimit)
	for i := len(session.Messages) - 1; i >= 0 && len(topics) < recentTopicsLimit; i-- {
		if session.Messages[i].Role == model.RoleUserMessage {
			topics = append(topics, session.Messages[i].Content)
		}
	}
	for i, j := 0, len(topics)-1; i < j; i, j = i+1, j-1 {
		topics[i], topics[j] = topics[j], topics[i]
	}

	return model.PracticeSummary{
		SessionID:       session.ID,
		Language:        session.Language,
		Level:           session.Level,
		DurationMinutes: util.MinutesBetween(session.StartTime, end),
		TotalMessages:   len(session.Messages),
		RecentTopics:    topics,
		Closed:          session.Closed(),
	}
}
