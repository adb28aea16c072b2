package controller_test

import (
	"errors"
	"lingochat_backend/internal/util"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errGatewayDown = &util.GatewayError{Op: "chat completion", Err: errors.New("connection refused")}

func TestAccountRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/chat/usuarios", gin.H{"nombre": "Ana", "correo": "Ana@Example.com", "contrasena": "secret123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	usuario := created["usuario"].(map[string]interface{})
	assert.Equal(t, "ana@example.com", usuario["email"])
	assert.Equal(t, "user", usuario["role"])
	assert.NotContains(t, usuario, "password")

	w = s.do(t, http.MethodPost, "/api/chat/usuarios", gin.H{"name": "Ana", "email": "ana@example.com", "password": "other"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/chat/login", gin.H{"email": "ana@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])

	w = s.do(t, http.MethodPost, "/api/chat/login", gin.H{"correo": "ana@example.com", "contrasena": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode(t, w)
	user := login["user"].(map[string]interface{})
	assert.Equal(t, usuario["id"], user["id"])
	assert.Equal(t, "Ana", user["name"])
	token, _ := login["token"].(string)
	require.NotEmpty(t, token)

	claims, err := util.ParseJWT(token, s.cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user["id"], claims.UserID)

	w = s.do(t, http.MethodGet, "/api/chat/usuarios", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret123")
}

func TestLogoutMessages(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/chat/logout", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/chat/logout", gin.H{"userId": "nobody"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Session closed (no summary sent)", decode(t, w)["message"])

	w = s.do(t, http.MethodPost, "/api/chat/usuarios", gin.H{"name": "Ana", "email": "ana@example.com", "password": "secret123"})
	require.Equal(t, http.StatusCreated, w.Code)
	userID := decode(t, w)["usuario"].(map[string]interface{})["id"].(string)

	w = s.do(t, http.MethodPost, "/api/chat/logout", gin.H{"userId": userID})
	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Session closed and summary sent by email", out["message"])
	assert.Equal(t, []string{"ana@example.com"}, s.mailer.sent)
}

func TestChatbotUsesTokenUserAndHistory(t *testing.T) {
	s := newTestServer(t)
	s.gateway.reply = "Tres planes para el sábado"

	w := s.do(t, http.MethodPost, "/api/chat/usuarios", gin.H{"name": "Ana", "email": "ana@example.com", "password": "secret123"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(t, http.MethodPost, "/api/chat/login", gin.H{"email": "ana@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode(t, w)
	token := login["token"].(string)
	userID := login["user"].(map[string]interface{})["id"].(string)

	w = s.do(t, http.MethodPost, "/api/chat/chatbot", gin.H{"prompt": "¿Qué hago el sábado?"}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Tres planes para el sábado", decode(t, w)["response"])

	w = s.do(t, http.MethodGet, "/api/chat/history/"+userID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode(t, w)
	conversations := history["conversations"].([]interface{})
	require.Len(t, conversations, 1)
	assert.Equal(t, "¿Qué hago el sábado?", conversations[0].(map[string]interface{})["prompt"])

	w = s.do(t, http.MethodGet, "/api/chat/history/"+userID+"?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/chat/chatbot", gin.H{"prompt": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "The prompt is required", decode(t, w)["message"])
}
