package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respondWith(t *testing.T, err error) (int, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	RespondError(c, err)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", NewValidationError("Missing data: %s", "userId"), http.StatusBadRequest, "Missing data: userId"},
		{"not found", NewNotFoundError("practice session", "abc"), http.StatusNotFound, `practice session "abc" not found`},
		{"closed session", ErrSessionClosed, http.StatusBadRequest, ErrSessionClosed.Error()},
		{"duplicate email", ErrEmailRegistered, http.StatusBadRequest, ErrEmailRegistered.Error()},
		{"bad credentials", ErrInvalidCredentials, http.StatusBadRequest, ErrInvalidCredentials.Error()},
		{"gateway", &GatewayError{Op: "chat completion", Err: errors.New("timeout")}, http.StatusInternalServerError, "Internal server error"},
		{"store", WrapStore("create", errors.New("disk full")), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := respondWith(t, tc.err)
			assert.Equal(t, tc.status, status)
			assert.False(t, body.Success)
			assert.Equal(t, tc.message, body.Message)
		})
	}
}

func TestSuccessAddsFlag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Created(c, gin.H{"sessionId": "s1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"sessionId":"s1"}`, w.Body.String())
}

func TestWrapStoreNil(t *testing.T) {
	assert.NoError(t, WrapStore("noop", nil))

	wrapped := WrapStore("create", ErrSessionClosed)
	assert.True(t, errors.Is(wrapped, ErrSessionClosed))
}
