package service

import (
	"context"
	"errors"
	"lingochat_backend/internal/config"
	"lingochat_backend/internal/util"
	"lingochat_backend/pkg/database"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return newTestDBWithConns(t, 1)
}

// newTestDBWithConns 连接数大于 1 时事务会真正并行
func newTestDBWithConns(t *testing.T, conns int) *gorm.DB {
	t.Helper()

	db, err := database.Open(&config.DatabaseConfig{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	}, "test")
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestPrompts(t *testing.T) *PromptService {
	t.Helper()
	prompts, err := NewPromptService(config.PracticeConfig{}, config.ChatConfig{})
	require.NoError(t, err)
	return prompts
}

// fakeGateway 记录每次调用的消息列表
type fakeGateway struct {
	mu    sync.Mutex
	reply string
	err   error
	calls [][]ChatMessage
}

func (g *fakeGateway) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	copied := append([]ChatMessage(nil), messages...)
	g.calls = append(g.calls, copied)
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func (g *fakeGateway) lastCall() []ChatMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.calls) == 0 {
		return nil
	}
	return g.calls[len(g.calls)-1]
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func gatewayDown() error {
	return &util.GatewayError{Op: "chat completion", Err: errors.New("connection refused")}
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []sentMail
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}
