package service

import (
	"context"
	"errors"
	"fmt"
	"lingochat_backend/internal/config"
	"lingochat_backend/internal/repository"
	"lingochat_backend/internal/util"
	"lingochat_backend/pkg/logger"
	"lingochat_backend/pkg/monitoring"
	"strings"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const digestEmailTemplate = `Hi {{{name}}},

Here is the summary of your conversations with Sommer on {{{day}}}.
{{#entries}}
Messages exchanged: {{{entries}}} (last activity {{{lastActivity}}})
{{/entries}}

{{{digest}}}

See you soon!
Sommer IA`

// DigestService 每日摘要：登出时生成当天对话摘要并发邮件
type DigestService struct {
	Chatbot *ChatbotService
	Users   *repository.UserRepository
	Mailer  Mailer
	Storage *StorageService
	Subject string

	body *mustache.Template
	now  func() time.Time
}

func NewDigestService(chatbot *ChatbotService, users *repository.UserRepository, mailer Mailer, storage *StorageService, cfg config.MailConfig) (*DigestService, error) {
	body, err := mustache.ParseString(digestEmailTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse digest template: %w", err)
	}
	subject := cfg.Subject
	if subject == "" {
		subject = "Your practice summary"
	}
	return &DigestService{
		Chatbot: chatbot,
		Users:   users,
		Mailer:  mailer,
		Storage: storage,
		Subject: subject,
		body:    body,
		now:     time.Now,
	}, nil
}

// SendDaily 生成并发送今天的摘要，返回是否已发送
func (s *DigestService) SendDaily(ctx context.Context, userID string) (bool, error) {
	now := s.now()
	digest, err := s.Chatbot.DailyDigest(ctx, userID, now)
	if err != nil {
		return false, err
	}

	user, err := s.Users.FindByIDOrEmail(ctx, digest.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, util.NewNotFoundError("user", digest.UserID)
		}
		return false, util.WrapStore("find digest recipient", err)
	}
	if strings.TrimSpace(user.Email) == "" {
		return false, nil
	}

	s.archive(ctx, digest)

	body, err := s.renderBody(user.Name, digest, now)
	if err != nil {
		return false, err
	}
	if err := s.Mailer.Send(ctx, user.Email, s.Subject, body); err != nil {
		return false, err
	}

	logger.Log.Info("daily digest sent",
		zap.String("userId", user.ID),
		zap.Int("entries", digest.Entries),
	)
	return true, nil
}

func (s *DigestService) renderBody(name string, digest *DailyDigest, now time.Time) (string, error) {
	vars := map[string]interface{}{
		"name":   name,
		"day":    digest.Day.Format(util.DateFormat),
		"digest": digest.Text,
	}
	if digest.Entries > 0 {
		vars["entries"] = humanize.Comma(int64(digest.Entries))
		vars["lastActivity"] = humanize.RelTime(*digest.LastActivity, now, "ago", "from now")
	}
	return s.body.Render(vars)
}

// archive 归档失败只记日志
func (s *DigestService) archive(ctx context.Context, digest *DailyDigest) {
	if !s.Storage.Enabled() {
		return
	}
	name := fmt.Sprintf("digests/%s/%s.txt", digest.UserID, digest.Day.Format(util.DateFormat))
	if _, err := s.Storage.UploadText(ctx, name, digest.Text); err != nil {
		logger.Log.Warn("digest archive failed", zap.String("file", name), zap.Error(err))
	}
}

// Logout 结束当天：尝试发送摘要，任何失败都吞掉，只通过返回值告知是否发送
func (s *DigestService) Logout(ctx context.Context, userID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, util.NewValidationError("Missing userId")
	}

	logger.Log.Info("user logged out", zap.String("userId", userID))

	sent, err := s.SendDaily(ctx, userID)
	if err != nil {
		monitoring.DigestsSent.WithLabelValues("failed").Inc()
		logger.Log.Warn("daily digest not sent", zap.String("userId", userID), zap.Error(err))
		return false, nil
	}
	if sent {
		monitoring.DigestsSent.WithLabelValues("sent").Inc()
	} else {
		monitoring.DigestsSent.WithLabelValues("skipped").Inc()
	}
	return sent, nil
}
