package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"lingochat_backend/internal/app"
	"lingochat_backend/internal/config"
	"lingochat_backend/internal/service"
	"lingochat_backend/pkg/database"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	mu    sync.Mutex
	reply string
	err   error
}

func (g *stubGateway) Complete(ctx context.Context, messages []service.ChatMessage) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reply, g.err
}

type stubMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *stubMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

type testServer struct {
	router  *gin.Engine
	cfg     *config.Config
	gateway *stubGateway
	mailer  *stubMailer
}

// newTestServer 通过 app.New 构建，与线上路由表一致
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: "test"},
		Database:  config.DatabaseConfig{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "test.db")},
		JWT:       config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		RateLimit: config.RateLimitConfig{MaxRequests: 1000, WindowMinutes: 1},
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode, true)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	gateway := &stubGateway{reply: "Salut!"}
	mailer := &stubMailer{}

	application, err := app.New(cfg, db, nil, app.Dependencies{Gateway: gateway, Mailer: mailer})
	require.NoError(t, err)
	t.Cleanup(func() { application.Close(context.Background()) })

	return &testServer{router: application.Router, cfg: cfg, gateway: gateway, mailer: mailer}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
