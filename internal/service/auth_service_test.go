package service

import (
	"context"
	"lingochat_backend/internal/config"
	"lingochat_backend/internal/model"
	"lingochat_backend/internal/repository"
	"lingochat_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}
	return NewAuthService(repository.NewUserRepository(newTestDB(t)), cfg)
}

func TestRegisterRoleRequiresGrant(t *testing.T) {
	svc := newTestAuth(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		email string
		role  string
		grant bool
		want  model.UserRole
	}{
		{"self registration defaults to user", "a@example.com", "", false, model.RoleUser},
		{"self registration cannot pick admin", "b@example.com", "admin", false, model.RoleUser},
		{"admin grants admin", "c@example.com", "ADMIN", true, model.RoleAdmin},
		{"admin grants user", "d@example.com", "user", true, model.RoleUser},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := svc.Register(ctx, RegisterInput{
				Name:      "Ana",
				Email:     tc.email,
				Password:  "secret123",
				Role:      tc.role,
				GrantRole: tc.grant,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, user.Role)

			_, token, err := svc.Login(ctx, tc.email, "secret123")
			require.NoError(t, err)
			claims, err := util.ParseJWT(token, "test-secret")
			require.NoError(t, err)
			assert.Equal(t, tc.want, claims.Role)
		})
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newTestAuth(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Ana", Email: "ana@example.com", Password: "secret123", Role: "root",
	})
	assert.True(t, util.IsValidation(err))
}
