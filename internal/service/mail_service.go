package service

import (
	"context"
	"lingochat_backend/internal/config"
	"lingochat_backend/internal/util"

	"gopkg.in/gomail.v2"
)

// Mailer 邮件发送能力
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPMailer struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
}

// NewMailer 未配置 SMTP 时返回一个始终报 ErrMailDisabled 的实现
func NewMailer(cfg config.MailConfig) Mailer {
	if !cfg.Enabled() {
		return disabledMailer{}
	}
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.User, m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return &util.GatewayError{Op: "send mail", Err: err}
		}
		return nil
	}
}

type disabledMailer struct{}

func (disabledMailer) Send(ctx context.Context, to, subject, body string) error {
	return util.ErrMailDisabled
}
