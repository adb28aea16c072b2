package service

import (
	"context"
	"fmt"
	"lingochat_backend/internal/config"
	"lingochat_backend/internal/model"
	"lingochat_backend/internal/repository"
	"lingochat_backend/internal/util"
	"strings"
	"time"
)

const (
	historySummaryRunes = 100
	// NoConversationToday 当天没有任何对话时的摘要占位文本
	NoConversationToday = "No conversation was recorded today."
)

type ChatbotService struct {
	Repo    *repository.ConversationRepository
	Gateway ChatCompleter
	Prompts *PromptService
	Config  config.ChatConfig

	now func() time.Time
}

func NewChatbotService(repo *repository.ConversationRepository, gateway ChatCompleter, prompts *PromptService, cfg config.ChatConfig) *ChatbotService {
	if cfg.ContextSize <= 0 {
		cfg.ContextSize = 10
	}
	if cfg.HistoryPageSize <= 0 {
		cfg.HistoryPageSize = 10
	}
	if cfg.HistoryMaxSize < cfg.HistoryPageSize {
		cfg.HistoryMaxSize = cfg.HistoryPageSize
	}
	return &ChatbotService{
		Repo:    repo,
		Gateway: gateway,
		Prompts: prompts,
		Config:  cfg,
		now:     time.Now,
	}
}

func normalizeUserID(userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return model.AnonymousUserID
	}
	return userID
}

// Chat 单轮对话：以该用户最近的记录作为上下文（旧→新），回复写入对话日志
func (s *ChatbotService) Chat(ctx context.Context, prompt, userID string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", util.NewValidationError("The prompt is required")
	}
	userID = normalizeUserID(userID)

	recent, err := s.Repo.Recent(ctx, userID, s.Config.ContextSize)
	if err != nil {
		return "", util.WrapStore("load conversation context", err)
	}

	messages := make([]ChatMessage, 0, len(recent)*2+2)
	messages = append(messages, ChatMessage{Role: string(model.RoleSystemMessage), Content: s.Prompts.ChatSystem()})
	for i := len(recent) - 1; i >= 0; i-- {
		messages = append(messages,
			ChatMessage{Role: string(model.RoleUserMessage), Content: recent[i].Prompt},
			ChatMessage{Role: string(model.RoleAssistantMessage), Content: recent[i].Response},
		)
	}
	messages = append(messages, ChatMessage{Role: string(model.RoleUserMessage), Content: prompt})

	reply, err := s.Gateway.Complete(ctx, messages)
	if err != nil {
		return "", err
	}

	entry := &model.ConversationEntry{
		Prompt:    prompt,
		Response:  reply,
		UserID:    userID,
		CreatedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, entry); err != nil {
		return "", util.WrapStore("record conversation", err)
	}
	return reply, nil
}

// History 最近的对话（新→旧）；limit <= 0 使用默认页大小，超过上限时截断
func (s *ChatbotService) History(ctx context.Context, userID string, limit int) ([]model.ConversationHistoryItem, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, util.NewValidationError("userId is required")
	}
	if limit <= 0 {
		limit = s.Config.HistoryPageSize
	}
	if limit > s.Config.HistoryMaxSize {
		limit = s.Config.HistoryMaxSize
	}

	entries, err := s.Repo.Recent(ctx, userID, limit)
	if err != nil {
		return nil, util.WrapStore("load conversation history", err)
	}

	items := make([]model.ConversationHistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, model.ConversationHistoryItem{
			Prompt:    e.Prompt,
			Summary:   truncateRunes(e.Response, historySummaryRunes),
			Response:  e.Response,
			CreatedAt: e.CreatedAt,
		})
	}
	return items, nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

type DailyDigest struct {
	UserID       string
	Day          time.Time
	Text         string
	Entries      int
	LastActivity *time.Time
}

// DailyDigest 汇总 day 所在本地日历日内该用户的全部对话
func (s *ChatbotService) DailyDigest(ctx context.Context, userID string, day time.Time) (*DailyDigest, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, util.NewValidationError("userId is required")
	}

	from, to := util.DayBounds(day)
	entries, err := s.Repo.Between(ctx, userID, from, to)
	if err != nil {
		return nil, util.WrapStore("load daily conversations", err)
	}

	digest := &DailyDigest{
		UserID:  userID,
		Day:     from,
		Entries: len(entries),
		Text:    NoConversationToday,
	}
	if len(entries) == 0 {
		return digest, nil
	}

	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, fmt.Sprintf("> %s\n< %s", e.Prompt, e.Response))
	}
	digest.Text = strings.Join(blocks, "\n\n")
	last := entries[len(entries)-1].CreatedAt
	digest.LastActivity = &last
	return digest, nil
}
